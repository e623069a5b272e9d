package navigator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/supportkit/pathfinder/internal/logging"
	"github.com/supportkit/pathfinder/pkg/domain"
	"github.com/supportkit/pathfinder/pkg/ports"
)

const (
	// ToolName identifies script generation in the audit log.
	ToolName = "Communication Script Generation"

	// ErrorPrefix starts every failed TriggerResult text.
	ErrorPrefix = "Error generating script: "

	// Separator joins breadcrumb titles into the situation description.
	Separator = " → "

	// DefaultLanguage is the operator language scripts are written in.
	DefaultLanguage = "Thai"
)

var errNoService = errors.New("text service not configured")

// Trigger generates communication scripts for terminal steps.
// It never returns an error: failures become a TriggerResult with Failed set.
type Trigger struct {
	svc      ports.TextService
	sink     ports.LogSink
	language string
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
	clock    func() time.Time
}

// TriggerOption configures a Trigger.
type TriggerOption func(*Trigger)

// WithLanguage sets the language scripts are requested in.
func WithLanguage(language string) TriggerOption {
	return func(t *Trigger) {
		if language != "" {
			t.language = language
		}
	}
}

// WithTriggerLogger sets a structured logger.
func WithTriggerLogger(logger *slog.Logger) TriggerOption {
	return func(t *Trigger) {
		t.logger = logger
	}
}

// WithTriggerHooks registers hooks fired after each generation.
func WithTriggerHooks(hooks domain.LifecycleHooks) TriggerOption {
	return func(t *Trigger) {
		t.hooks = t.hooks.Merge(hooks)
	}
}

// WithTriggerClock overrides the time source used for events and durations.
func WithTriggerClock(clock func() time.Time) TriggerOption {
	return func(t *Trigger) {
		t.clock = clock
	}
}

// NewTrigger creates a Trigger.
// A nil sink disables audit records; a nil svc makes every generation fail.
func NewTrigger(svc ports.TextService, sink ports.LogSink, opts ...TriggerOption) *Trigger {
	t := &Trigger{
		svc:      svc,
		sink:     sink,
		language: DefaultLanguage,
		logger:   logging.NewNop(),
		clock:    time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// WithSink returns a copy of the trigger recording to sink, e.g. a per-operator view of the journal.
func (t *Trigger) WithSink(sink ports.LogSink) *Trigger {
	c := *t
	c.sink = sink
	return &c
}

// Language returns the configured operator language.
func (t *Trigger) Language() string {
	return t.language
}

// Attempt is the result of one service call, not yet committed to a navigator.
type Attempt struct {
	Ticket      Ticket
	Description string
	Result      domain.TriggerResult
	Duration    time.Duration
}

// Outcome reports what a generation did.
type Outcome struct {
	// Skipped is set when the path was empty; nothing was called or logged.
	Skipped bool

	// Stale is set when the navigator moved on during the call and the result was dropped.
	Stale bool

	Description string
	Result      domain.TriggerResult
}

// Committer stores a finished attempt if its ticket is still current.
type Committer interface {
	Complete(ticket Ticket, result domain.TriggerResult) bool
}

// Generate runs a full generation for the current path of nav.
// It is a no-op on an empty path.
func (t *Trigger) Generate(ctx context.Context, nav *Navigator) Outcome {
	ticket, ok := nav.Begin()
	if !ok {
		return Outcome{Skipped: true}
	}
	return t.Finish(ctx, nav, t.Run(ctx, ticket))
}

// Run performs the service call and the audit record for ticket.
// It holds no navigator lock, so server adapters can release session locks around it.
func (t *Trigger) Run(ctx context.Context, ticket Ticket) Attempt {
	start := t.clock()
	description := Describe(ticket.Titles)

	text, err := t.call(ctx, Prompt(description, t.language))
	attempt := Attempt{Ticket: ticket, Description: description}

	input := map[string]any{"path": description}
	if err != nil {
		attempt.Result = domain.TriggerResult{Text: ErrorPrefix + err.Error(), Failed: true}
		t.logger.Warn("Script generation failed", "path", ticket.Path.String(), "error", err)
		t.record(input, domain.ErrorOutcome(attempt.Result.Text))
	} else {
		attempt.Result = domain.TriggerResult{Text: text}
		t.record(input, domain.OutcomeSuccess)
	}
	attempt.Duration = t.clock().Sub(start)
	return attempt
}

// Finish commits attempt through c and fires the generate hook.
func (t *Trigger) Finish(ctx context.Context, c Committer, attempt Attempt) Outcome {
	committed := c.Complete(attempt.Ticket, attempt.Result)
	if !committed {
		t.logger.Debug("Discarding stale script", "path", attempt.Ticket.Path.String())
	}

	if t.hooks.OnGenerate != nil {
		t.hooks.OnGenerate(ctx, &domain.GenerateEvent{
			Timestamp:   t.clock(),
			Path:        attempt.Ticket.Path.Clone(),
			Description: attempt.Description,
			Failed:      attempt.Result.Failed,
			Stale:       !committed,
			Duration:    attempt.Duration,
		})
	}

	return Outcome{
		Stale:       !committed,
		Description: attempt.Description,
		Result:      attempt.Result,
	}
}

func (t *Trigger) call(ctx context.Context, prompt string) (text string, err error) {
	if t.svc == nil {
		return "", errNoService
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("text service panicked: %v", r)
		}
	}()
	return t.svc.GenerateText(ctx, prompt)
}

func (t *Trigger) record(input any, outcome string) {
	if t.sink != nil {
		t.sink.Record(ToolName, input, outcome)
	}
}

// Describe flattens breadcrumb titles into the situation description sent to the service.
func Describe(titles []domain.Content) string {
	return domain.JoinTitles(titles, Separator)
}

// Prompt builds the script request for a situation description.
func Prompt(description, language string) string {
	return fmt.Sprintf("Communication script in %s for: %s\n\n"+
		"Write a short, polite message in %s that a delivery support operator can send to "+
		"or read out to the customer, store or rider involved. Reply with the message only.",
		language, description, language)
}
