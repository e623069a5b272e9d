package domain

import (
	"slices"
	"strings"
	"time"
)

// Path is the ordered sequence of ids chosen by the operator, starting with a root category id.
type Path []string

// Clone returns an independent copy of the path.
func (p Path) Clone() Path {
	if p == nil {
		return Path{}
	}
	return slices.Clone(p)
}

// Equal reports whether both paths hold the same ids in the same order.
func (p Path) Equal(other Path) bool {
	return slices.Equal(p, other)
}

// String renders the path as a slash separated id list.
func (p Path) String() string {
	return strings.Join(p, "/")
}

// TriggerResult holds the last generated script for the current terminal node.
type TriggerResult struct {
	Text string `json:"text"`

	// Failed marks Text as a human-readable error message rather than a script.
	Failed bool `json:"failed,omitempty"`
}

// NavigatorState is the derived view of a navigation session.
// It is recomputed on every call and never stored.
type NavigatorState struct {
	Path Path

	// Current is nil when the path is empty or contains an id that does not resolve.
	Current *Node

	// Titles holds one breadcrumb segment per resolved id, plus the raw id of the
	// first unresolved segment if resolution failed.
	Titles []Content

	// CanStepBack is true iff the path has at least two segments.
	CanStepBack bool

	// Options is the option set of Current, dividers included. It is empty on
	// the category selection screen; callers render the graph roots there.
	Options []Entry

	Result *TriggerResult
}

// Final reports whether the current node is a terminal step.
func (s NavigatorState) Final() bool {
	return s.Current != nil && s.Current.Final
}

// Resolved reports whether every path segment matched a node.
func (s NavigatorState) Resolved() bool {
	return s.Current != nil
}

// Session is the serializable form of a navigation session.
// Server adapters store it between requests for the lifetime of an operator tab.
type Session struct {
	ID   string `json:"id"`
	Path Path   `json:"path"`

	Result *TriggerResult `json:"result,omitempty"`

	// Epoch advances on every transition. A generation started at one epoch
	// is discarded if the session has moved on when it completes.
	Epoch uint64 `json:"epoch"`

	UpdatedAt time.Time `json:"updated_at"`
}

// NewSession creates an empty session positioned at the category selection screen.
func NewSession(id string) *Session {
	return &Session{
		ID:        id,
		Path:      Path{},
		UpdatedAt: time.Now(),
	}
}
