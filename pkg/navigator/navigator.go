package navigator

import (
	"log/slog"
	"sync"
	"time"

	"github.com/supportkit/pathfinder/internal/logging"
	"github.com/supportkit/pathfinder/pkg/domain"
	"github.com/supportkit/pathfinder/pkg/flow"
)

// Navigator holds the path of a single navigation session.
// Safe for concurrent use.
type Navigator struct {
	mu sync.Mutex

	graph  *flow.Graph
	id     string
	path   domain.Path
	result *domain.TriggerResult
	epoch  uint64

	hooks  domain.LifecycleHooks
	logger *slog.Logger
	clock  func() time.Time
}

// Option configures a Navigator.
type Option func(*Navigator)

// WithHooks registers lifecycle hooks fired after each transition.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(n *Navigator) {
		n.hooks = n.hooks.Merge(hooks)
	}
}

// WithLogger sets a structured logger for transitions.
func WithLogger(logger *slog.Logger) Option {
	return func(n *Navigator) {
		n.logger = logger
	}
}

// WithClock overrides the time source used for events and snapshots.
func WithClock(clock func() time.Time) Option {
	return func(n *Navigator) {
		n.clock = clock
	}
}

// New creates a navigator positioned at the category selection screen.
func New(graph *flow.Graph, opts ...Option) *Navigator {
	n := &Navigator{
		graph:  graph,
		path:   domain.Path{},
		logger: logging.NewNop(),
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Restore creates a navigator resuming a stored session.
func Restore(graph *flow.Graph, session domain.Session, opts ...Option) *Navigator {
	n := New(graph, opts...)
	n.id = session.ID
	n.path = session.Path.Clone()
	n.epoch = session.Epoch
	if session.Result != nil {
		r := *session.Result
		n.result = &r
	}
	return n
}

// Snapshot returns the serializable form of the navigator.
func (n *Navigator) Snapshot() domain.Session {
	n.mu.Lock()
	defer n.mu.Unlock()

	s := domain.Session{
		ID:        n.id,
		Path:      n.path.Clone(),
		Epoch:     n.epoch,
		UpdatedAt: n.clock(),
	}
	if n.result != nil {
		r := *n.result
		s.Result = &r
	}
	return s
}

// Graph returns the flow the navigator walks.
func (n *Navigator) Graph() *flow.Graph {
	return n.graph
}

// Select appends id to the path.
// The id is not checked; an unknown id degrades the next State to an unresolved node.
func (n *Navigator) Select(id string) {
	n.transition(domain.TransitionSelect, func(p domain.Path) domain.Path {
		return append(p, id)
	})
}

// Back removes the last segment of the path.
// It is a no-op at depth 0 and 1; the category screen is reached only through Reset.
func (n *Navigator) Back() {
	n.transition(domain.TransitionBack, func(p domain.Path) domain.Path {
		if len(p) < 2 {
			return p
		}
		return p[:len(p)-1]
	})
}

// Reset returns to the category selection screen.
func (n *Navigator) Reset() {
	n.transition(domain.TransitionReset, func(domain.Path) domain.Path {
		return domain.Path{}
	})
}

func (n *Navigator) transition(kind domain.TransitionKind, apply func(domain.Path) domain.Path) {
	n.mu.Lock()
	n.path = apply(n.path.Clone())
	n.result = nil
	n.epoch++
	path := n.path.Clone()
	n.mu.Unlock()

	node, _ := n.graph.Resolve(path)
	n.logger.Debug("Navigator transition", "kind", kind, "path", path.String(), "resolved", node != nil)

	if n.hooks.OnTransition != nil {
		evt := &domain.TransitionEvent{
			Timestamp: n.clock(),
			Kind:      kind,
			Path:      path,
			Resolved:  node != nil,
		}
		if node != nil {
			evt.NodeID = node.ID
			evt.Final = node.Final
		}
		n.hooks.OnTransition(evt)
	}
}

// State derives the current view of the session.
func (n *Navigator) State() domain.NavigatorState {
	n.mu.Lock()
	path := n.path.Clone()
	var result *domain.TriggerResult
	if n.result != nil {
		r := *n.result
		result = &r
	}
	n.mu.Unlock()

	node, titles := n.graph.Resolve(path)
	state := domain.NavigatorState{
		Path:        path,
		Current:     node,
		Titles:      titles,
		CanStepBack: len(path) >= 2,
		Result:      result,
	}
	if node != nil {
		state.Options = append([]domain.Entry(nil), node.Entries...)
	}
	return state
}

// Path returns a copy of the current path.
func (n *Navigator) Path() domain.Path {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.path.Clone()
}

// Result returns the last committed script, or nil.
func (n *Navigator) Result() *domain.TriggerResult {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.result == nil {
		return nil
	}
	r := *n.result
	return &r
}

// Epoch returns the transition counter.
func (n *Navigator) Epoch() uint64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.epoch
}

// Ticket captures the navigator position at the start of a generation.
type Ticket struct {
	Path   domain.Path
	Titles []domain.Content
	Epoch  uint64
}

// Begin captures a Ticket for the current path.
// It returns false when the path is empty.
func (n *Navigator) Begin() (Ticket, bool) {
	n.mu.Lock()
	path := n.path.Clone()
	epoch := n.epoch
	n.mu.Unlock()

	if len(path) == 0 {
		return Ticket{}, false
	}
	_, titles := n.graph.Resolve(path)
	return Ticket{Path: path, Titles: titles, Epoch: epoch}, true
}

// Complete stores result if no transition happened since the ticket was issued.
// It reports whether the result was committed.
func (n *Navigator) Complete(ticket Ticket, result domain.TriggerResult) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	if ticket.Epoch != n.epoch || !ticket.Path.Equal(n.path) {
		return false
	}
	n.result = &result
	return true
}
