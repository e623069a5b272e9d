package mcp

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/supportkit/pathfinder"
	"github.com/supportkit/pathfinder/pkg/adapters/memory"
	"github.com/supportkit/pathfinder/pkg/assist"
	"github.com/supportkit/pathfinder/pkg/domain"
	"github.com/supportkit/pathfinder/pkg/session"
)

type cannedText string

func (c cannedText) GenerateText(ctx context.Context, prompt string) (string, error) {
	return string(c), nil
}

func newServer(t *testing.T) *Server {
	t.Helper()
	eng, err := pathfinder.New(pathfinder.WithTextService(cannedText("ขออภัยค่ะ")))
	require.NoError(t, err)

	// Output schemas are derived from the response types when the tools are registered.
	done := make(chan *Server, 1)
	go func() {
		done <- NewServer(eng, session.NewNavigation(eng, session.NewManager(memory.NewStore())))
	}()
	select {
	case s := <-done:
		return s
	case <-time.After(5 * time.Second):
		t.Fatal("NewServer did not return; a tool output schema is likely recursive")
		return nil
	}
}

func TestNewServer_RegistersSchemasPromptly(t *testing.T) {
	s := newServer(t)
	tools := s.MCPServer().ListTools()
	require.Contains(t, tools, "get_flow")
	assert.NotEmpty(t, tools["get_flow"].Tool.OutputSchema.Properties)
	assert.NotEmpty(t, tools["get_state"].Tool.OutputSchema.Properties)
}

func TestServer_ListsTools(t *testing.T) {
	s := newServer(t)
	ctx := context.Background()

	initResp := s.MCPServer().HandleMessage(ctx, json.RawMessage(`{
		"jsonrpc":"2.0","id":1,"method":"initialize",
		"params":{"protocolVersion":"2024-11-05","capabilities":{},"clientInfo":{"name":"test","version":"1"}}
	}`))
	require.NotNil(t, initResp)

	resp := s.MCPServer().HandleMessage(ctx, json.RawMessage(`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`))
	data, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded struct {
		Result struct {
			Tools []struct {
				Name string `json:"name"`
			} `json:"tools"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))

	var names []string
	for _, tool := range decoded.Result.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{
		"list_categories", "get_flow", "start_session", "get_state", "select_option",
		"step_back", "reset", "generate_script", "draft_email",
	}, names)
}

func TestServer_NavigateAndGenerate(t *testing.T) {
	s := newServer(t)
	ctx := context.Background()
	req := mcp.CallToolRequest{}

	st, err := s.handleStart(ctx, req, SessionArgs{SessionID: "agent"})
	require.NoError(t, err)
	assert.Len(t, st.Options, 6)

	st, err = s.handleSelect(ctx, req, SelectArgs{SessionID: "agent", OptionID: "missing-food"})
	require.NoError(t, err)
	assert.Equal(t, []string{"missing-food"}, st.Path)

	st, err = s.handleSelect(ctx, req, SelectArgs{SessionID: "agent", OptionID: "refund"})
	require.NoError(t, err)
	assert.True(t, st.Final)

	gen, err := s.handleGenerate(ctx, req, SessionArgs{SessionID: "agent"})
	require.NoError(t, err)
	require.NotNil(t, gen.Result)
	assert.Equal(t, "ขออภัยค่ะ", gen.Result.Text)
	assert.Equal(t, "4. อาหารไม่ครบ → 1. Refund เฉพาะส่วนที่ขาด", gen.Description)

	st, err = s.handleBack(ctx, req, SessionArgs{SessionID: "agent"})
	require.NoError(t, err)
	assert.Equal(t, []string{"missing-food"}, st.Path)
	assert.Nil(t, st.Result)

	st, err = s.handleReset(ctx, req, SessionArgs{SessionID: "agent"})
	require.NoError(t, err)
	assert.Empty(t, st.Path)

	st, err = s.handleGetState(ctx, req, SessionArgs{SessionID: "agent"})
	require.NoError(t, err)
	assert.Equal(t, "agent", st.SessionID)
}

func TestServer_Errors(t *testing.T) {
	s := newServer(t)
	ctx := context.Background()

	_, err := s.handleGetState(ctx, mcp.CallToolRequest{}, SessionArgs{SessionID: "nope"})
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	_, err = s.handleSelect(ctx, mcp.CallToolRequest{}, SelectArgs{SessionID: "nope"})
	assert.Error(t, err)

	_, err = s.handleDraftEmail(ctx, mcp.CallToolRequest{}, assist.EmailRequest{})
	assert.ErrorIs(t, err, assist.ErrInvalidInput)
}

func TestServer_GetFlow(t *testing.T) {
	s := newServer(t)
	cats, err := s.handleListCategories(context.Background(), mcp.CallToolRequest{}, struct{}{})
	require.NoError(t, err)
	require.Len(t, cats.Categories, 6)
	assert.Equal(t, "late", cats.Categories[0].ID)
	assert.Equal(t, "manual-call", cats.Categories[5].ID)
	assert.True(t, cats.Categories[5].Final)

	outline, err := s.handleGetFlow(context.Background(), mcp.CallToolRequest{}, struct{}{})
	require.NoError(t, err)
	assert.Equal(t, "delivery-resolution", outline.Name)
	require.Len(t, outline.Steps, outline.Stats.Nodes)
	assert.Equal(t, "late", outline.Steps[0].Path)
	assert.Equal(t, "late/action_needed", outline.Steps[1].Path)
	assert.Equal(t, "manual-call", outline.Steps[len(outline.Steps)-1].Path)
}
