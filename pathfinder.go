package pathfinder

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/supportkit/pathfinder/internal/logging"
	"github.com/supportkit/pathfinder/pkg/assist"
	"github.com/supportkit/pathfinder/pkg/audit"
	"github.com/supportkit/pathfinder/pkg/catalog"
	"github.com/supportkit/pathfinder/pkg/domain"
	"github.com/supportkit/pathfinder/pkg/flow"
	"github.com/supportkit/pathfinder/pkg/navigator"
	"github.com/supportkit/pathfinder/pkg/ports"
)

// Engine is the high-level entry point for the library.
// It owns the flow, the AI backends and the audit journal, and hands out navigators wired to them.
type Engine struct {
	graph      *flow.Graph
	loader     ports.FlowLoader
	text       ports.TextService
	structured ports.StructuredService
	journal    *audit.Journal
	sink       ports.LogSink
	wrappers   []func(ports.LogSink) ports.LogSink
	hooks      domain.LifecycleHooks
	language   string
	logger     *slog.Logger

	trigger   *navigator.Trigger
	assistant *assist.Service

	Name string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithGraph uses an already built flow.
func WithGraph(g *flow.Graph) Option {
	return func(e *Engine) {
		e.graph = g
	}
}

// WithLoader loads the flow through l instead of using the embedded delivery catalog.
func WithLoader(l ports.FlowLoader) Option {
	return func(e *Engine) {
		e.loader = l
	}
}

// WithTextService sets the backend used for scripts, RCA summaries and emails.
func WithTextService(svc ports.TextService) Option {
	return func(e *Engine) {
		e.text = svc
	}
}

// WithStructuredService sets the backend used by the JSON-returning assistants.
func WithStructuredService(svc ports.StructuredService) Option {
	return func(e *Engine) {
		e.structured = svc
	}
}

// WithJournal records assistant calls into j instead of a fresh journal.
func WithJournal(j *audit.Journal) Option {
	return func(e *Engine) {
		e.journal = j
	}
}

// WithLogSink wraps the journal sink, e.g. to count calls. The wrapper must forward to next.
func WithLogSink(wrap func(next ports.LogSink) ports.LogSink) Option {
	return func(e *Engine) {
		e.wrappers = append(e.wrappers, wrap)
	}
}

// WithLifecycleHooks registers observability hooks. Repeated calls are merged.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = e.hooks.Merge(hooks)
	}
}

// WithLanguage sets the operator language of generated texts.
func WithLanguage(language string) Option {
	return func(e *Engine) {
		e.language = language
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New initializes an Engine.
// Without WithGraph or WithLoader it serves the embedded delivery resolution flow.
func New(opts ...Option) (*Engine, error) {
	eng := &Engine{
		journal:  audit.NewJournal(),
		language: navigator.DefaultLanguage,
	}
	for _, opt := range opts {
		opt(eng)
	}
	eng.sink = eng.journal
	for _, wrap := range eng.wrappers {
		eng.sink = wrap(eng.sink)
	}
	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}

	if eng.graph == nil {
		if eng.loader == nil {
			eng.loader = catalog.Loader()
		}
		g, err := eng.loader.LoadFlow()
		if err != nil {
			return nil, fmt.Errorf("failed to load flow: %w", err)
		}
		eng.graph = g
	}
	if named, ok := eng.loader.(interface{ Name() string }); ok && eng.Name == "" {
		eng.Name = named.Name()
	}
	if eng.Name != "" {
		eng.logger = eng.logger.With("flow", eng.Name)
	}

	eng.trigger = navigator.NewTrigger(eng.text, eng.sink,
		navigator.WithLanguage(eng.language),
		navigator.WithTriggerHooks(eng.hooks),
		navigator.WithTriggerLogger(eng.logger),
	)
	eng.assistant = assist.New(eng.text, eng.structured, eng.sink,
		assist.WithLanguage(eng.language),
		assist.WithLogger(eng.logger),
	)

	stats := eng.graph.Stats()
	eng.logger.Debug("Engine ready", "categories", stats.Categories, "nodes", stats.Nodes)
	return eng, nil
}

// Graph returns the flow served by the engine.
func (e *Engine) Graph() *flow.Graph {
	return e.graph
}

// Journal returns the audit journal.
func (e *Engine) Journal() *audit.Journal {
	return e.journal
}

// Trigger returns the script trigger shared by all navigators.
func (e *Engine) Trigger() *navigator.Trigger {
	return e.trigger
}

// Assistant returns the sibling assistants.
func (e *Engine) Assistant() *assist.Service {
	return e.assistant
}

// SinkFor returns the audit sink for an operator, with the WithLogSink wrappers applied.
// An empty userID returns the engine sink.
func (e *Engine) SinkFor(userID string) ports.LogSink {
	if userID == "" {
		return e.sink
	}
	var sink ports.LogSink = e.journal.For(userID)
	for _, wrap := range e.wrappers {
		sink = wrap(sink)
	}
	return sink
}

// Navigator starts a navigation at the category selection screen.
func (e *Engine) Navigator() *navigator.Navigator {
	return navigator.New(e.graph, e.navigatorOptions()...)
}

// Restore resumes a stored session.
func (e *Engine) Restore(s domain.Session) *navigator.Navigator {
	return navigator.Restore(e.graph, s, e.navigatorOptions()...)
}

// Generate asks for a communication script for the current path of nav.
func (e *Engine) Generate(ctx context.Context, nav *navigator.Navigator) navigator.Outcome {
	return e.trigger.Generate(ctx, nav)
}

func (e *Engine) navigatorOptions() []navigator.Option {
	return []navigator.Option{
		navigator.WithHooks(e.hooks),
		navigator.WithLogger(e.logger),
	}
}
