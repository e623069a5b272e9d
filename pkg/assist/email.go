package assist

import (
	"context"
	"fmt"
	"slices"
	"strings"
)

// Scenarios offered by the email assistant.
var Scenarios = []string{
	"Responding to a technical issue",
	"Following up on a customer complaint",
	"Informing a store about a new feature",
	"De-escalating an angry customer/store",
	"Requesting missing information from a store",
	"Explaining a payment discrepancy",
}

// Tones offered by the email assistant.
var Tones = []string{
	"Friendly & Empathetic",
	"Formal & Professional",
	"Direct & Concise",
}

// EmailRequest describes the email to draft.
type EmailRequest struct {
	Scenario string `json:"scenario"`
	Context  string `json:"context"`
	Tone     string `json:"tone"`
}

// DraftEmail writes an email for the scenario.
// Empty scenario and tone default to the first entries of Scenarios and Tones.
func (s *Service) DraftEmail(ctx context.Context, req EmailRequest) (string, error) {
	if strings.TrimSpace(req.Context) == "" {
		return "", invalid("please provide some key information and context")
	}
	if req.Scenario == "" {
		req.Scenario = Scenarios[0]
	}
	if req.Tone == "" {
		req.Tone = Tones[0]
	}
	if !slices.Contains(Tones, req.Tone) {
		return "", invalid("unknown tone %q", req.Tone)
	}

	prompt := fmt.Sprintf("Draft %s email for %s with tone %s. Context: %s", s.language, req.Scenario, req.Tone, req.Context)

	text, err := s.generateText(ctx, prompt)
	return text, s.audit(ToolEmail, req, err)
}
