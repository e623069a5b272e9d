package assist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/supportkit/pathfinder/internal/logging"
	"github.com/supportkit/pathfinder/pkg/domain"
	"github.com/supportkit/pathfinder/pkg/ports"
)

// Audit log tool names.
const (
	ToolStoreAnalysis  = "Store Dev Analysis"
	ToolRCA            = "RCA Generation"
	ToolMenuExtraction = "AI Scan Text"
	ToolMenuCheck      = "Menu Forensic Audit"
	ToolEmail          = "AI Email Assistant"
)

// DefaultLanguage is the language of operator-facing texts.
const DefaultLanguage = "Thai"

var (
	// ErrInvalidInput is returned when a request is rejected before calling the backend.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotConfigured is returned when the required backend is missing.
	ErrNotConfigured = errors.New("assistant backend not configured")
)

// Service runs the assistants against generative backends.
type Service struct {
	text       ports.TextService
	structured ports.StructuredService
	sink       ports.LogSink
	language   string
	logger     *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLanguage sets the language of generated RCA summaries and emails.
func WithLanguage(language string) Option {
	return func(s *Service) {
		if language != "" {
			s.language = language
		}
	}
}

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// New creates a Service. A nil sink disables auditing.
func New(text ports.TextService, structured ports.StructuredService, sink ports.LogSink, opts ...Option) *Service {
	s := &Service{
		text:       text,
		structured: structured,
		sink:       sink,
		language:   DefaultLanguage,
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithSink returns a copy of the service recording to sink, e.g. a per-operator view of the journal.
func (s *Service) WithSink(sink ports.LogSink) *Service {
	c := *s
	c.sink = sink
	return &c
}

func (s *Service) generateText(ctx context.Context, prompt string) (string, error) {
	if s.text == nil {
		return "", ErrNotConfigured
	}
	return s.text.GenerateText(ctx, prompt)
}

func (s *Service) generateJSON(ctx context.Context, req ports.Request, out any) error {
	if s.structured == nil {
		return ErrNotConfigured
	}
	return s.structured.GenerateJSON(ctx, req, out)
}

// audit records the outcome of one assistant call and passes err through.
func (s *Service) audit(tool string, input any, err error) error {
	outcome := domain.OutcomeSuccess
	if err != nil {
		outcome = domain.ErrorOutcome(err.Error())
		s.logger.Warn("Assistant call failed", "tool", tool, "error", err)
	}
	if s.sink != nil {
		s.sink.Record(tool, input, outcome)
	}
	return err
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
