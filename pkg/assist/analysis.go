package assist

import (
	"context"
	"fmt"
	"strings"

	"github.com/supportkit/pathfinder/pkg/ports"
)

// thaiMarker separates the English and Thai halves of a qualitative assessment.
const thaiMarker = "---TH---"

// StoreLinks are the public presences of a store.
type StoreLinks struct {
	Website  string `json:"websiteUrl"`
	GMB      string `json:"gmbUrl"`
	Facebook string `json:"facebookUrl"`
}

// StoreAnalysis is the result of AnalyzeStorePresence.
type StoreAnalysis struct {
	KeyFindings           string `json:"keyFindings"`
	QualitativeAssessment string `json:"qualitativeAssessment"`
	EmailDraft            string `json:"emailDraft"`
}

// Assessment splits the qualitative assessment into its English and Thai parts.
func (a StoreAnalysis) Assessment() (english, thai string) {
	en, th, _ := strings.Cut(a.QualitativeAssessment, thaiMarker)
	return strings.TrimSpace(en), strings.TrimSpace(th)
}

var storeAnalysisSchema = &ports.Schema{
	Type: ports.TypeObject,
	Properties: map[string]*ports.Schema{
		"keyFindings":           {Type: ports.TypeString},
		"qualitativeAssessment": {Type: ports.TypeString},
		"emailDraft":            {Type: ports.TypeString},
	},
	Required: []string{"keyFindings", "qualitativeAssessment", "emailDraft"},
}

// AnalyzeStorePresence reviews a store's website, Google Business profile and Facebook page.
func (s *Service) AnalyzeStorePresence(ctx context.Context, links StoreLinks) (StoreAnalysis, error) {
	if links.Website == "" || links.GMB == "" || links.Facebook == "" {
		return StoreAnalysis{}, invalid("all URL fields are required")
	}

	prompt := fmt.Sprintf("Analyze these URLs and return JSON:\n- Website: %s\n- GMB: %s\n- Facebook: %s\n\n"+
		"Write the qualitativeAssessment in English, then the line %s, then the same assessment in %s.",
		links.Website, links.GMB, links.Facebook, thaiMarker, s.language)

	var out StoreAnalysis
	err := s.generateJSON(ctx, ports.Request{Prompt: prompt, Schema: storeAnalysisSchema}, &out)
	return out, s.audit(ToolStoreAnalysis, links, err)
}
