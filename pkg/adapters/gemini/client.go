// Package gemini adapts Google Gemini to the pathfinder text and structured generation ports.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/supportkit/pathfinder/internal/logging"
	"github.com/supportkit/pathfinder/pkg/ports"
	"google.golang.org/api/option"
)

// DefaultModel is used when no model name is configured.
const DefaultModel = "gemini-3-flash-preview"

var (
	// ErrMissingAPIKey is returned by New without an API key.
	ErrMissingAPIKey = errors.New("GEMINI_API_KEY is empty")

	// ErrEmptyResponse is returned when the model produced no text.
	ErrEmptyResponse = errors.New("empty response from gemini")
)

// generator is the subset of *genai.GenerativeModel used by the client.
type generator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// Client implements ports.TextService and ports.StructuredService.
type Client struct {
	client    *genai.Client
	modelName string
	timeout   time.Duration
	logger    *slog.Logger

	// newModel builds a model for one call; structured calls need their own response config.
	newModel func(jsonOutput bool, schema *genai.Schema) generator
}

// Option configures a Client.
type Option func(*Client)

// WithModel overrides DefaultModel.
func WithModel(name string) Option {
	return func(c *Client) {
		if name != "" {
			c.modelName = name
		}
	}
}

// WithTimeout bounds every call. Zero keeps the caller's deadline only.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a Gemini API client.
func New(ctx context.Context, apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	c := &Client{
		client:    client,
		modelName: DefaultModel,
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.newModel = func(jsonOutput bool, schema *genai.Schema) generator {
		model := client.GenerativeModel(c.modelName)
		if jsonOutput {
			model.ResponseMIMEType = "application/json"
			model.ResponseSchema = schema
		}
		return model
	}
	return c, nil
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.modelName
}

// Close closes the client connection.
func (c *Client) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// GenerateText sends a prompt to Gemini and returns the response text.
func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	return c.generate(ctx, c.newModel(false, nil), genai.Text(prompt))
}

// GenerateJSON sends a structured request and decodes the JSON answer into out.
// Code fences and prose around the document are tolerated.
func (c *Client) GenerateJSON(ctx context.Context, req ports.Request, out any) error {
	parts := make([]genai.Part, 0, len(req.Images)+1)
	for _, img := range req.Images {
		parts = append(parts, genai.Blob{MIMEType: img.MIMEType, Data: img.Data})
	}
	parts = append(parts, genai.Text(req.Prompt))

	text, err := c.generate(ctx, c.newModel(true, toSchema(req.Schema)), parts...)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(ExtractJSON(text)), out); err != nil {
		return fmt.Errorf("gemini returned invalid JSON: %w", err)
	}
	return nil
}

func (c *Client) generate(ctx context.Context, model generator, parts ...genai.Part) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		c.logger.Warn("Gemini call failed", "model", c.modelName, "duration", time.Since(start), "error", err)
		return "", fmt.Errorf("gemini generation error: %w", err)
	}
	c.logger.Debug("Gemini call finished", "model", c.modelName, "duration", time.Since(start))

	text := responseText(resp)
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	return sb.String()
}

func toSchema(s *ports.Schema) *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{
		Type:        schemaType(s.Type),
		Description: s.Description,
		Required:    s.Required,
		Enum:        s.Enum,
		Items:       toSchema(s.Items),
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for k, v := range s.Properties {
			out.Properties[k] = toSchema(v)
		}
	}
	return out
}

func schemaType(t ports.SchemaType) genai.Type {
	switch t {
	case ports.TypeObject:
		return genai.TypeObject
	case ports.TypeArray:
		return genai.TypeArray
	case ports.TypeString:
		return genai.TypeString
	case ports.TypeNumber:
		return genai.TypeNumber
	case ports.TypeInteger:
		return genai.TypeInteger
	case ports.TypeBoolean:
		return genai.TypeBoolean
	}
	return genai.TypeUnspecified
}
