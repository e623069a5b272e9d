package domain

import (
	"context"
	"time"
)

// TransitionKind identifies the navigator operation that changed the path.
type TransitionKind string

const (
	TransitionSelect TransitionKind = "select"
	TransitionBack   TransitionKind = "back"
	TransitionReset  TransitionKind = "reset"
)

// TransitionEvent describes a completed navigator transition.
type TransitionEvent struct {
	Timestamp time.Time      `json:"timestamp"`
	Kind      TransitionKind `json:"kind"`
	Path      Path           `json:"path"`

	// NodeID is the id of the resolved current node, empty if nothing resolved.
	NodeID   string `json:"node_id,omitempty"`
	Resolved bool   `json:"resolved"`
	Final    bool   `json:"final"`
}

// GenerateEvent describes a finished script generation.
type GenerateEvent struct {
	Timestamp   time.Time     `json:"timestamp"`
	Path        Path          `json:"path"`
	Description string        `json:"description"`
	Failed      bool          `json:"failed"`
	Stale       bool          `json:"stale"`
	Duration    time.Duration `json:"duration"`
}

// LifecycleHooks defines callbacks for navigator observability.
type LifecycleHooks struct {
	OnTransition func(*TransitionEvent)
	OnGenerate   func(context.Context, *GenerateEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	out := LifecycleHooks{}
	switch {
	case h.OnTransition != nil && other.OnTransition != nil:
		out.OnTransition = func(e *TransitionEvent) {
			h.OnTransition(e)
			other.OnTransition(e)
		}
	case h.OnTransition != nil:
		out.OnTransition = h.OnTransition
	default:
		out.OnTransition = other.OnTransition
	}
	switch {
	case h.OnGenerate != nil && other.OnGenerate != nil:
		out.OnGenerate = func(ctx context.Context, e *GenerateEvent) {
			h.OnGenerate(ctx, e)
			other.OnGenerate(ctx, e)
		}
	case h.OnGenerate != nil:
		out.OnGenerate = h.OnGenerate
	default:
		out.OnGenerate = other.OnGenerate
	}
	return out
}
