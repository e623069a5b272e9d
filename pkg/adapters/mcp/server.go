package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/supportkit/pathfinder"
	"github.com/supportkit/pathfinder/internal/logging"
	"github.com/supportkit/pathfinder/internal/presentation/graph"
	"github.com/supportkit/pathfinder/internal/presentation/view"
	"github.com/supportkit/pathfinder/pkg/assist"
	"github.com/supportkit/pathfinder/pkg/domain"
	"github.com/supportkit/pathfinder/pkg/session"
)

// Resource URIs.
const (
	FlowURI    = "pathfinder://flow"
	MermaidURI = "pathfinder://flow/mermaid"
)

// SessionArgs identifies a session.
type SessionArgs struct {
	SessionID string `json:"session_id"`
}

// SelectArgs picks an option of the current node.
type SelectArgs struct {
	SessionID string `json:"session_id"`
	OptionID  string `json:"option_id"`
}

// GenerateResponse is the result of generate_script.
type GenerateResponse struct {
	Skipped     bool         `json:"skipped" jsonschema_description:"The session was on the category screen; nothing was generated"`
	Stale       bool         `json:"stale" jsonschema_description:"The session moved on during generation and the script was dropped"`
	Description string       `json:"description,omitempty" jsonschema_description:"Situation description sent to the generator"`
	Result      *view.Result `json:"result,omitempty"`
	State       view.State   `json:"state"`
}

// CategoriesResponse lists the entry points of the flow.
type CategoriesResponse struct {
	Flow       string        `json:"flow,omitempty"`
	Categories []view.Option `json:"categories" jsonschema_description:"Category ids accepted by select_option on a fresh session"`
}

// EmailResponse carries a drafted email.
type EmailResponse struct {
	Text string `json:"text" jsonschema_description:"Drafted email"`
}

// Server exposes navigation sessions and assistants as MCP tools.
type Server struct {
	engine     *pathfinder.Engine
	navigation *session.Navigation
	mcpServer  *server.MCPServer
	logger     *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(engine *pathfinder.Engine, navigation *session.Navigation, opts ...Option) *Server {
	s := &Server{
		engine:     engine,
		navigation: navigation,
		mcpServer:  server.NewMCPServer("pathfinder-mcp", strings.TrimSpace(pathfinder.Version)),
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the SSE transport on port until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	sessionID := mcp.WithString("session_id", mcp.Required(), mcp.Description("Session returned by start_session"))

	s.mcpServer.AddTool(mcp.NewTool("list_categories",
		mcp.WithDescription("List the delivery problem categories a session starts from."),
		mcp.WithOutputSchema[CategoriesResponse](),
	), mcp.NewStructuredToolHandler(s.handleListCategories))

	s.mcpServer.AddTool(mcp.NewTool("get_flow",
		mcp.WithDescription("Get the whole resolution flow as a depth-first list of steps with their paths and content."),
		mcp.WithOutputSchema[view.Outline](),
	), mcp.NewStructuredToolHandler(s.handleGetFlow))

	s.mcpServer.AddTool(mcp.NewTool("start_session",
		mcp.WithDescription("Start a navigation session at the category screen. The session id is generated when omitted."),
		mcp.WithString("session_id", mcp.Description("Optional id for the new session")),
		mcp.WithOutputSchema[view.State](),
	), mcp.NewStructuredToolHandler(s.handleStart))

	s.mcpServer.AddTool(mcp.NewTool("get_state",
		mcp.WithDescription("Get the current step, breadcrumb and options of a session."),
		sessionID,
		mcp.WithOutputSchema[view.State](),
	), mcp.NewStructuredToolHandler(s.handleGetState))

	s.mcpServer.AddTool(mcp.NewTool("select_option",
		mcp.WithDescription("Choose one of the options listed in the session state."),
		sessionID,
		mcp.WithString("option_id", mcp.Required(), mcp.Description("Option id from the state options")),
		mcp.WithOutputSchema[view.State](),
	), mcp.NewStructuredToolHandler(s.handleSelect))

	s.mcpServer.AddTool(mcp.NewTool("step_back",
		mcp.WithDescription("Go back one step. Does nothing on the category screen."),
		sessionID,
		mcp.WithOutputSchema[view.State](),
	), mcp.NewStructuredToolHandler(s.handleBack))

	s.mcpServer.AddTool(mcp.NewTool("reset",
		mcp.WithDescription("Return the session to the category screen."),
		sessionID,
		mcp.WithOutputSchema[view.State](),
	), mcp.NewStructuredToolHandler(s.handleReset))

	s.mcpServer.AddTool(mcp.NewTool("generate_script",
		mcp.WithDescription("Generate a customer communication script for the situation described by the session path."),
		sessionID,
		mcp.WithOutputSchema[GenerateResponse](),
	), mcp.NewStructuredToolHandler(s.handleGenerate))

	s.mcpServer.AddTool(mcp.NewTool("draft_email",
		mcp.WithDescription("Draft a merchant email."),
		mcp.WithString("context", mcp.Required(), mcp.Description("Facts the email must cover")),
		mcp.WithString("scenario", mcp.Enum(assist.Scenarios...)),
		mcp.WithString("tone", mcp.Enum(assist.Tones...)),
		mcp.WithOutputSchema[EmailResponse](),
	), mcp.NewStructuredToolHandler(s.handleDraftEmail))
}

func (s *Server) handleListCategories(ctx context.Context, request mcp.CallToolRequest, args struct{}) (CategoriesResponse, error) {
	return CategoriesResponse{Flow: s.engine.Name, Categories: view.Categories(s.engine.Graph())}, nil
}

func (s *Server) handleGetFlow(ctx context.Context, request mcp.CallToolRequest, args struct{}) (view.Outline, error) {
	return view.NewOutline(s.engine.Name, s.engine.Graph()), nil
}

func (s *Server) handleStart(ctx context.Context, request mcp.CallToolRequest, args SessionArgs) (view.State, error) {
	return s.state(s.navigation.Start(ctx, args.SessionID))
}

func (s *Server) handleGetState(ctx context.Context, request mcp.CallToolRequest, args SessionArgs) (view.State, error) {
	return s.state(s.navigation.Get(ctx, args.SessionID))
}

func (s *Server) handleSelect(ctx context.Context, request mcp.CallToolRequest, args SelectArgs) (view.State, error) {
	if args.OptionID == "" {
		return view.State{}, fmt.Errorf("option_id is required")
	}
	return s.state(s.navigation.Select(ctx, args.SessionID, args.OptionID))
}

func (s *Server) handleBack(ctx context.Context, request mcp.CallToolRequest, args SessionArgs) (view.State, error) {
	return s.state(s.navigation.Back(ctx, args.SessionID))
}

func (s *Server) handleReset(ctx context.Context, request mcp.CallToolRequest, args SessionArgs) (view.State, error) {
	return s.state(s.navigation.Reset(ctx, args.SessionID))
}

func (s *Server) handleGenerate(ctx context.Context, request mcp.CallToolRequest, args SessionArgs) (GenerateResponse, error) {
	sess, out, err := s.navigation.Generate(ctx, args.SessionID)
	if err != nil {
		return GenerateResponse{}, err
	}
	resp := GenerateResponse{
		Skipped:     out.Skipped,
		Stale:       out.Stale,
		Description: out.Description,
		State:       view.NewState(sess, s.navigation.State(sess), s.engine.Graph()),
	}
	// A stale result belongs to a step the operator already left.
	if !out.Skipped && !out.Stale {
		resp.Result = &view.Result{Text: out.Result.Text, Failed: out.Result.Failed}
	}
	return resp, nil
}

func (s *Server) handleDraftEmail(ctx context.Context, request mcp.CallToolRequest, args assist.EmailRequest) (EmailResponse, error) {
	text, err := s.engine.Assistant().DraftEmail(ctx, args)
	if err != nil {
		s.logger.Warn("MCP draft_email failed", "error", err)
		return EmailResponse{}, err
	}
	return EmailResponse{Text: text}, nil
}

func (s *Server) state(sess *domain.Session, err error) (view.State, error) {
	if err != nil {
		return view.State{}, err
	}
	return view.NewState(sess, s.navigation.State(sess), s.engine.Graph()), nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(FlowURI, "Resolution flow",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		data, err := json.Marshal(view.NewFlow(s.engine.Name, s.engine.Graph()))
		if err != nil {
			return nil, fmt.Errorf("failed to encode flow: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{URI: FlowURI, MIMEType: "application/json", Text: string(data)},
		}, nil
	})

	s.mcpServer.AddResource(mcp.NewResource(MermaidURI, "Resolution flow diagram",
		mcp.WithMIMEType("text/plain"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      MermaidURI,
				MIMEType: "text/plain",
				Text:     graph.GenerateMermaid(s.engine.Graph(), s.engine.Name, nil),
			},
		}, nil
	})
}
