package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/supportkit/pathfinder/pkg/domain"
	"github.com/supportkit/pathfinder/pkg/navigator"
	"github.com/supportkit/pathfinder/pkg/ports"
)

// Engine restores navigators and provides the shared script trigger.
// *pathfinder.Engine satisfies it.
type Engine interface {
	Restore(s domain.Session) *navigator.Navigator
	Trigger() *navigator.Trigger
}

// Navigation runs navigator operations against stored sessions.
// Each operation restores the navigator, applies the transition and saves the snapshot
// under the session lock. Generate releases the lock during the service call and
// commits the result only if the session did not move on.
type Navigation struct {
	engine  Engine
	manager *Manager
	newID   func() string

	mu        sync.RWMutex
	listeners []func(*domain.Session)
}

// NewNavigation creates a Navigation over manager.
func NewNavigation(engine Engine, manager *Manager) *Navigation {
	return &Navigation{
		engine:  engine,
		manager: manager,
		newID:   uuid.NewString,
	}
}

// OnChange registers fn to be called with every saved session.
func (n *Navigation) OnChange(fn func(*domain.Session)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.listeners = append(n.listeners, fn)
}

// Manager returns the underlying session manager.
func (n *Navigation) Manager() *Manager {
	return n.manager
}

// Start creates a session at the category selection screen.
// An empty id is replaced by a random one.
func (n *Navigation) Start(ctx context.Context, id string) (*domain.Session, error) {
	if id == "" {
		id = n.newID()
	}
	s, err := n.manager.Update(ctx, id, true, func(*domain.Session) error { return nil })
	if err != nil {
		return nil, err
	}
	n.notify(s)
	return s, nil
}

// Get loads a session.
func (n *Navigation) Get(ctx context.Context, id string) (*domain.Session, error) {
	return n.manager.Load(ctx, id)
}

// State derives the navigator state of a session.
func (n *Navigation) State(s *domain.Session) domain.NavigatorState {
	return n.engine.Restore(*s).State()
}

// Select appends an option id to the session path.
func (n *Navigation) Select(ctx context.Context, id, optionID string) (*domain.Session, error) {
	return n.apply(ctx, id, func(nav *navigator.Navigator) { nav.Select(optionID) })
}

// Back steps the session back one level.
func (n *Navigation) Back(ctx context.Context, id string) (*domain.Session, error) {
	return n.apply(ctx, id, (*navigator.Navigator).Back)
}

// Reset returns the session to the category selection screen.
func (n *Navigation) Reset(ctx context.Context, id string) (*domain.Session, error) {
	return n.apply(ctx, id, (*navigator.Navigator).Reset)
}

// Delete removes a session.
func (n *Navigation) Delete(ctx context.Context, id string) error {
	if _, err := n.manager.Load(ctx, id); err != nil {
		return err
	}
	return n.manager.Delete(ctx, id)
}

// GenerateOption configures one Generate call.
type GenerateOption func(*generateConfig)

type generateConfig struct {
	sink ports.LogSink
}

// WithAuditSink records the generation to sink instead of the engine trigger's sink.
func WithAuditSink(sink ports.LogSink) GenerateOption {
	return func(c *generateConfig) {
		c.sink = sink
	}
}

// Generate requests a script for the session's current path.
// The returned session is the stored state after the attempt, which does not carry
// the result when the outcome is stale.
func (n *Navigation) Generate(ctx context.Context, id string, opts ...GenerateOption) (*domain.Session, navigator.Outcome, error) {
	var cfg generateConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	var ticket navigator.Ticket
	var ok bool
	err := n.manager.WithLock(ctx, id, func(ctx context.Context) error {
		s, err := n.manager.Store().Load(ctx, id)
		if err != nil {
			return err
		}
		ticket, ok = n.engine.Restore(*s).Begin()
		return nil
	})
	if err != nil {
		return nil, navigator.Outcome{}, err
	}
	if !ok {
		s, err := n.manager.Load(ctx, id)
		return s, navigator.Outcome{Skipped: true}, err
	}

	trigger := n.engine.Trigger()
	if cfg.sink != nil {
		trigger = trigger.WithSink(cfg.sink)
	}
	attempt := trigger.Run(ctx, ticket)

	var outcome navigator.Outcome
	s, err := n.manager.Update(ctx, id, false, func(s *domain.Session) error {
		nav := n.engine.Restore(*s)
		outcome = trigger.Finish(ctx, nav, attempt)
		commit(s, nav)
		return nil
	})
	if err != nil {
		return nil, outcome, fmt.Errorf("failed to store script: %w", err)
	}
	n.notify(s)
	return s, outcome, nil
}

func (n *Navigation) apply(ctx context.Context, id string, op func(*navigator.Navigator)) (*domain.Session, error) {
	s, err := n.manager.Update(ctx, id, false, func(s *domain.Session) error {
		nav := n.engine.Restore(*s)
		op(nav)
		commit(s, nav)
		return nil
	})
	if err != nil {
		return nil, err
	}
	n.notify(s)
	return s, nil
}

// commit copies the navigator position back into the stored session.
func commit(s *domain.Session, nav *navigator.Navigator) {
	snap := nav.Snapshot()
	s.Path = snap.Path
	s.Result = snap.Result
	s.Epoch = snap.Epoch
}

func (n *Navigation) notify(s *domain.Session) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	for _, fn := range n.listeners {
		fn(s)
	}
}
