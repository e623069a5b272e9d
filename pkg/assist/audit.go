package assist

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/supportkit/pathfinder/pkg/ports"
)

// AuditType selects an operations audit checklist.
type AuditType string

const (
	AuditPostLive     AuditType = "post-live"
	AuditCancellation AuditType = "cancellation"
	AuditGMBBulk      AuditType = "gmb-bulk"
)

// ParseAuditType validates an audit type name.
func ParseAuditType(s string) (AuditType, error) {
	switch t := AuditType(s); t {
	case AuditPostLive, AuditCancellation, AuditGMBBulk:
		return t, nil
	}
	return "", invalid("unknown audit type %q", s)
}

// AuditStatus grades one audit item.
type AuditStatus string

const (
	StatusPass       AuditStatus = "PASS"
	StatusFail       AuditStatus = "FAIL"
	StatusWarn       AuditStatus = "WARN"
	StatusSuspicious AuditStatus = "SUSPICIOUS"
)

// AuditItem is one checked point of an audit.
type AuditItem struct {
	Status AuditStatus `json:"status"`
	Title  string      `json:"title"`
	Detail string      `json:"detail"`
}

// NeedsAttention reports whether the item should be part of a root cause analysis.
func (i AuditItem) NeedsAttention() bool {
	return i.Status == StatusFail || i.Status == StatusSuspicious
}

// Failures returns the items that need attention.
func Failures(items []AuditItem) []AuditItem {
	var out []AuditItem
	for _, it := range items {
		if it.NeedsAttention() {
			out = append(out, it)
		}
	}
	return out
}

// PostLiveInput is checked by a post-live audit.
type PostLiveInput struct {
	Website   string `json:"website"`
	GMB       string `json:"gmb"`
	Facebook  string `json:"facebook"`
	OtherData string `json:"other_data"`
}

// CancellationInput is checked by a cancellation audit.
type CancellationInput struct {
	Website string `json:"website"`
	GMB     string `json:"gmb"`
}

var auditSchema = &ports.Schema{
	Type: ports.TypeArray,
	Items: &ports.Schema{
		Type: ports.TypeObject,
		Properties: map[string]*ports.Schema{
			"status": {Type: ports.TypeString, Enum: []string{"PASS", "FAIL", "WARN", "SUSPICIOUS"}},
			"title":  {Type: ports.TypeString},
			"detail": {Type: ports.TypeString},
		},
		Required: []string{"status", "title", "detail"},
	},
}

// AuditTool names the audit log tool of an audit type.
func AuditTool(t AuditType) string {
	return string(t) + " Audit"
}

// PerformAudit runs an operations audit over data.
// data is a PostLiveInput, a CancellationInput or, for bulk GMB audits, the raw uploaded text.
func (s *Service) PerformAudit(ctx context.Context, auditType AuditType, data any) ([]AuditItem, error) {
	if _, err := ParseAuditType(string(auditType)); err != nil {
		return nil, err
	}
	if data == nil {
		return nil, invalid("audit data is required")
	}

	encoded, err := json.Marshal(data)
	if err != nil {
		return nil, invalid("audit data is not serializable: %v", err)
	}
	prompt := fmt.Sprintf("Operations audit for %s. Data: %s. Return an array of audit items.", auditType, encoded)

	var items []AuditItem
	err = s.generateJSON(ctx, ports.Request{Prompt: prompt, Schema: auditSchema}, &items)
	return items, s.audit(AuditTool(auditType), data, err)
}

// SummarizeRCA writes a root cause analysis of the failed audit items.
func (s *Service) SummarizeRCA(ctx context.Context, failures []AuditItem) (string, error) {
	if len(failures) == 0 {
		return "", invalid("no failed items to analyze")
	}

	encoded, err := json.Marshal(failures)
	if err != nil {
		return "", invalid("failures are not serializable: %v", err)
	}
	prompt := fmt.Sprintf("Audit failures: %s. Write RCA in %s.", encoded, s.language)

	text, err := s.generateText(ctx, prompt)
	if err != nil {
		err = fmt.Errorf("generating RCA: %w", err)
	}
	return text, s.audit(ToolRCA, map[string]any{"failedItems": failures}, err)
}
