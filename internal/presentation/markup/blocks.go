// Package markup renders flow content as markdown, HTML or plain terminal text.
package markup

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
	"github.com/supportkit/pathfinder/pkg/domain"
)

// Known block kinds.
const (
	KindSteps    = "steps"
	KindCallout  = "callout"
	KindPanels   = "panels"
	KindFallback = "fallback"
)

// Steps is an ordered procedure.
type Steps struct {
	Label string   `mapstructure:"label"`
	Title string   `mapstructure:"title"`
	Items []string `mapstructure:"items"`
}

// Callout is a highlighted note. Tone is one of info, success, warning or danger.
type Callout struct {
	Tone string `mapstructure:"tone"`
	Text string `mapstructure:"text"`
}

// Panel is one card of a Panels block.
type Panel struct {
	Title string `mapstructure:"title"`
	Body  string `mapstructure:"body"`
	Tone  string `mapstructure:"tone"`
}

// Panels shows alternatives side by side.
type Panels struct {
	Panels []Panel `mapstructure:"panels"`
}

// Fallback is a primary instruction followed by what to do when it cannot be carried out.
type Fallback struct {
	Text  string   `mapstructure:"text"`
	Note  string   `mapstructure:"note"`
	Title string   `mapstructure:"title"`
	Items []string `mapstructure:"items"`
}

// Unknown is returned by Decode for kinds without a dedicated renderer.
type Unknown struct {
	Kind   string
	Fields map[string]any
}

// Decode converts the loose fields of a block into its typed form.
func Decode(b domain.RichBlock) (any, error) {
	var out any
	switch b.Kind {
	case KindSteps:
		out = &Steps{}
	case KindCallout:
		out = &Callout{}
	case KindPanels:
		out = &Panels{}
	case KindFallback:
		out = &Fallback{}
	default:
		return &Unknown{Kind: b.Kind, Fields: b.Fields}, nil
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(b.Fields); err != nil {
		return nil, fmt.Errorf("%s block: %w", b.Kind, err)
	}
	return out, nil
}
