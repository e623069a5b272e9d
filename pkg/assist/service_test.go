package assist_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/supportkit/pathfinder/pkg/assist"
	"github.com/supportkit/pathfinder/pkg/audit"
	"github.com/supportkit/pathfinder/pkg/ports"
)

type fakeBackend struct {
	reply string
	err   error

	prompts  []string
	requests []ports.Request
}

func (f *fakeBackend) GenerateText(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

func (f *fakeBackend) GenerateJSON(ctx context.Context, req ports.Request, out any) error {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return f.err
	}
	return json.Unmarshal([]byte(f.reply), out)
}

func newService(reply string, err error) (*assist.Service, *fakeBackend, *audit.Journal) {
	backend := &fakeBackend{reply: reply, err: err}
	journal := audit.NewJournal()
	return assist.New(backend, backend, journal), backend, journal
}

var menuPhoto = ports.Image{MIMEType: "image/jpeg", Data: []byte{0xff, 0xd8, 0xff}}

func TestAnalyzeStorePresence(t *testing.T) {
	svc, backend, journal := newService(`{"keyFindings":"k","qualitativeAssessment":"Good reviews.\n---TH---\nรีวิวดี","emailDraft":"e"}`, nil)
	links := assist.StoreLinks{Website: "https://shop.example", GMB: "https://g.page/shop", Facebook: "https://fb.com/shop"}

	out, err := svc.AnalyzeStorePresence(context.Background(), links)
	require.NoError(t, err)

	assert.Equal(t, "k", out.KeyFindings)
	en, th := out.Assessment()
	assert.Equal(t, "Good reviews.", en)
	assert.Equal(t, "รีวิวดี", th)

	require.Len(t, backend.requests, 1)
	assert.Contains(t, backend.requests[0].Prompt, "- Website: https://shop.example")
	assert.Equal(t, ports.TypeObject, backend.requests[0].Schema.Type)

	entries := journal.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, assist.ToolStoreAnalysis, entries[0].Tool)
	assert.Equal(t, "Success", entries[0].Outcome)
}

func TestAnalyzeStorePresence_MissingURL(t *testing.T) {
	svc, backend, journal := newService("{}", nil)

	_, err := svc.AnalyzeStorePresence(context.Background(), assist.StoreLinks{Website: "https://shop.example"})
	assert.ErrorIs(t, err, assist.ErrInvalidInput)
	assert.Empty(t, backend.requests)
	assert.Zero(t, journal.Len())
}

func TestStoreAnalysis_AssessmentWithoutMarker(t *testing.T) {
	en, th := assist.StoreAnalysis{QualitativeAssessment: " only english "}.Assessment()
	assert.Equal(t, "only english", en)
	assert.Empty(t, th)
}

func TestPerformAudit(t *testing.T) {
	svc, backend, journal := newService(`[
		{"status":"PASS","title":"Hours match","detail":"ok"},
		{"status":"FAIL","title":"Wrong phone","detail":"GMB differs"},
		{"status":"SUSPICIOUS","title":"Duplicate listing","detail":"two pins"}
	]`, nil)

	input := assist.PostLiveInput{Website: "https://shop.example", GMB: "https://g.page/shop"}
	items, err := svc.PerformAudit(context.Background(), assist.AuditPostLive, input)
	require.NoError(t, err)
	require.Len(t, items, 3)

	failures := assist.Failures(items)
	require.Len(t, failures, 2)
	assert.Equal(t, "Wrong phone", failures[0].Title)
	assert.Equal(t, assist.StatusSuspicious, failures[1].Status)

	assert.Contains(t, backend.requests[0].Prompt, "Operations audit for post-live. Data: {")
	assert.Contains(t, backend.requests[0].Prompt, `"other_data":""`)

	entries := journal.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "post-live Audit", entries[0].Tool)
	assert.Equal(t, input, entries[0].Input)
}

func TestPerformAudit_UnknownType(t *testing.T) {
	svc, backend, _ := newService("[]", nil)

	_, err := svc.PerformAudit(context.Background(), assist.AuditType("weekly"), "data")
	assert.ErrorIs(t, err, assist.ErrInvalidInput)
	assert.Empty(t, backend.requests)
}

func TestPerformAudit_BackendFailureIsAudited(t *testing.T) {
	svc, _, journal := newService("", errors.New("quota exceeded"))

	_, err := svc.PerformAudit(context.Background(), assist.AuditGMBBulk, "name,phone\nA,1")
	require.Error(t, err)

	entries := journal.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "gmb-bulk Audit", entries[0].Tool)
	assert.Equal(t, "Error: quota exceeded", entries[0].Outcome)
	assert.True(t, entries[0].IsError())
}

func TestSummarizeRCA(t *testing.T) {
	svc, backend, journal := newService("สาเหตุหลัก: ...", nil)
	failures := []assist.AuditItem{{Status: assist.StatusFail, Title: "Wrong phone", Detail: "GMB differs"}}

	text, err := svc.SummarizeRCA(context.Background(), failures)
	require.NoError(t, err)
	assert.Equal(t, "สาเหตุหลัก: ...", text)

	require.Len(t, backend.prompts, 1)
	assert.Contains(t, backend.prompts[0], "Audit failures: [")
	assert.Contains(t, backend.prompts[0], "Write RCA in Thai.")

	entries := journal.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, assist.ToolRCA, entries[0].Tool)
}

func TestSummarizeRCA_Errors(t *testing.T) {
	t.Run("nothing to summarize", func(t *testing.T) {
		svc, backend, journal := newService("", nil)
		_, err := svc.SummarizeRCA(context.Background(), nil)
		assert.ErrorIs(t, err, assist.ErrInvalidInput)
		assert.Empty(t, backend.prompts)
		assert.Zero(t, journal.Len())
	})

	t.Run("backend failure", func(t *testing.T) {
		svc, _, journal := newService("", errors.New("timeout"))
		_, err := svc.SummarizeRCA(context.Background(), []assist.AuditItem{{Status: assist.StatusFail, Title: "x"}})
		require.Error(t, err)
		assert.Equal(t, "Error: generating RCA: timeout", journal.Entries()[0].Outcome)
	})
}

func TestExtractMenu(t *testing.T) {
	svc, backend, journal := newService(`[{"name":"Thai massage","price":"400","duration":"60 min"}]`, nil)

	items, err := svc.ExtractMenu(context.Background(), menuPhoto, assist.ShopMassage)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "60 min", items[0].Duration)

	req := backend.requests[0]
	assert.Contains(t, req.Prompt, "Extract massage data precisely.")
	require.Len(t, req.Images, 1)
	assert.Equal(t, "image/jpeg", req.Images[0].MIMEType)
	assert.Equal(t, assist.ToolMenuExtraction, journal.Entries()[0].Tool)
}

func TestExtractMenu_Validation(t *testing.T) {
	svc, backend, _ := newService("[]", nil)

	_, err := svc.ExtractMenu(context.Background(), ports.Image{MIMEType: "image/png"}, assist.ShopRestaurant)
	assert.ErrorIs(t, err, assist.ErrInvalidInput)

	_, err = svc.ExtractMenu(context.Background(), ports.Image{MIMEType: "application/pdf", Data: []byte("%PDF")}, "")
	assert.ErrorIs(t, err, assist.ErrInvalidInput)

	_, err = svc.ExtractMenu(context.Background(), menuPhoto, assist.ShopType("spa"))
	assert.ErrorIs(t, err, assist.ErrInvalidInput)

	assert.Empty(t, backend.requests)
}

func TestCrossCheckMenu(t *testing.T) {
	svc, backend, journal := newService(`[
		{"itemName":"Pad Thai","status":"FAIL","mismatchDetails":"price differs","webData":{"price":"80"},"imageData":{"price":"90"}}
	]`, nil)

	items, err := svc.CrossCheckMenu(context.Background(), "https://shop.example/menu", menuPhoto)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, assist.StatusFail, items[0].Status)
	require.NotNil(t, items[0].ImageData)
	assert.Equal(t, "90", items[0].ImageData.Price)

	assert.Equal(t, "Compare menu image with https://shop.example/menu. Return JSON array.", backend.requests[0].Prompt)

	entries := journal.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, assist.ToolMenuCheck, entries[0].Tool)
	assert.Equal(t, map[string]any{"webMenuUrl": "https://shop.example/menu"}, entries[0].Input)
}

func TestCrossCheckMenu_RequiresURL(t *testing.T) {
	svc, backend, _ := newService("[]", nil)

	_, err := svc.CrossCheckMenu(context.Background(), "  ", menuPhoto)
	assert.ErrorIs(t, err, assist.ErrInvalidInput)
	assert.Empty(t, backend.requests)
}

func TestDraftEmail(t *testing.T) {
	svc, backend, journal := newService("เรียน ร้านค้า ...", nil)

	text, err := svc.DraftEmail(context.Background(), assist.EmailRequest{
		Scenario: assist.Scenarios[5],
		Context:  "store was paid 200 baht less",
		Tone:     "Formal & Professional",
	})
	require.NoError(t, err)
	assert.Equal(t, "เรียน ร้านค้า ...", text)
	assert.Equal(t,
		"Draft Thai email for Explaining a payment discrepancy with tone Formal & Professional. Context: store was paid 200 baht less",
		backend.prompts[0])
	assert.Equal(t, assist.ToolEmail, journal.Entries()[0].Tool)
}

func TestDraftEmail_Defaults(t *testing.T) {
	backend := &fakeBackend{reply: "Dear team"}
	svc := assist.New(backend, nil, nil, assist.WithLanguage("English"))

	_, err := svc.DraftEmail(context.Background(), assist.EmailRequest{Context: "new feature"})
	require.NoError(t, err)
	assert.Equal(t,
		"Draft English email for Responding to a technical issue with tone Friendly & Empathetic. Context: new feature",
		backend.prompts[0])
}

func TestDraftEmail_Validation(t *testing.T) {
	svc, backend, journal := newService("", nil)

	_, err := svc.DraftEmail(context.Background(), assist.EmailRequest{Context: "   "})
	assert.ErrorIs(t, err, assist.ErrInvalidInput)

	_, err = svc.DraftEmail(context.Background(), assist.EmailRequest{Context: "x", Tone: "Sarcastic"})
	assert.ErrorIs(t, err, assist.ErrInvalidInput)

	assert.Empty(t, backend.prompts)
	assert.Zero(t, journal.Len())
}

func TestService_NotConfigured(t *testing.T) {
	journal := audit.NewJournal()
	svc := assist.New(nil, nil, journal)

	_, err := svc.DraftEmail(context.Background(), assist.EmailRequest{Context: "x"})
	assert.ErrorIs(t, err, assist.ErrNotConfigured)

	_, err = svc.CrossCheckMenu(context.Background(), "https://shop.example/menu", menuPhoto)
	assert.ErrorIs(t, err, assist.ErrNotConfigured)

	assert.Equal(t, 2, journal.Len())
	assert.Equal(t, 2, journal.Summarize().Errors)
}

func TestService_WithSink(t *testing.T) {
	backend := &fakeBackend{reply: "ok"}
	journal := audit.NewJournal()
	base := assist.New(backend, backend, journal)

	_, err := base.WithSink(journal.For("agent-7")).DraftEmail(context.Background(), assist.EmailRequest{Context: "x"})
	require.NoError(t, err)

	entries := journal.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "agent-7", entries[0].UserID)
}
