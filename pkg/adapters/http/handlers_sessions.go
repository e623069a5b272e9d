package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/supportkit/pathfinder/internal/presentation/graph"
	"github.com/supportkit/pathfinder/internal/presentation/view"
	"github.com/supportkit/pathfinder/pkg/domain"
	"github.com/supportkit/pathfinder/pkg/session"
)

type createSessionRequest struct {
	ID string `json:"id"`
}

type selectRequest struct {
	ID string `json:"id"`
}

type generateResponse struct {
	Skipped     bool         `json:"skipped"`
	Stale       bool         `json:"stale"`
	Description string       `json:"description,omitempty"`
	Result      *view.Result `json:"result,omitempty"`
	State       view.State   `json:"state"`
}

func (s *Server) handleFlow(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, view.NewFlow(s.engine.Name, s.engine.Graph()))
}

func (s *Server) handleMermaid(w http.ResponseWriter, r *http.Request) {
	var overlay *graph.GraphOverlay
	if p := strings.Trim(r.URL.Query().Get("path"), "/"); p != "" {
		overlay = &graph.GraphOverlay{Path: domain.Path(strings.Split(p, "/"))}
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, graph.GenerateMermaid(s.engine.Graph(), s.engine.Name, overlay))
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.navigation.Manager().List(r.Context())
	if err != nil {
		s.sessionError(w, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.observeSessions(len(ids))
	writeJSON(w, http.StatusOK, map[string][]string{"sessions": ids})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var body createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	sess, err := s.navigation.Start(r.Context(), body.ID)
	if err != nil {
		s.sessionError(w, err)
		return
	}
	s.refreshSessionGauge(r)
	s.writeState(w, http.StatusCreated, sess)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.navigation.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.sessionError(w, err)
		return
	}
	s.writeState(w, http.StatusOK, sess)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.navigation.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.sessionError(w, err)
		return
	}
	s.refreshSessionGauge(r)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var body selectRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.ID == "" {
		jsonError(w, `request body must be {"id": "<option id>"}`, http.StatusBadRequest)
		return
	}

	sess, err := s.navigation.Select(r.Context(), chi.URLParam(r, "id"), body.ID)
	if err != nil {
		s.sessionError(w, err)
		return
	}
	s.writeState(w, http.StatusOK, sess)
}

func (s *Server) handleBack(w http.ResponseWriter, r *http.Request) {
	sess, err := s.navigation.Back(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.sessionError(w, err)
		return
	}
	s.writeState(w, http.StatusOK, sess)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	sess, err := s.navigation.Reset(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.sessionError(w, err)
		return
	}
	s.writeState(w, http.StatusOK, sess)
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var opts []session.GenerateOption
	if op := strings.TrimSpace(r.Header.Get(OperatorHeader)); op != "" {
		opts = append(opts, session.WithAuditSink(s.engine.SinkFor(op)))
	}

	sess, out, err := s.navigation.Generate(r.Context(), chi.URLParam(r, "id"), opts...)
	if err != nil {
		s.sessionError(w, err)
		return
	}

	resp := generateResponse{
		Skipped:     out.Skipped,
		Stale:       out.Stale,
		Description: out.Description,
		State:       view.NewState(sess, s.navigation.State(sess), s.engine.Graph()),
	}
	// A stale result belongs to a step the operator already left.
	if !out.Skipped && !out.Stale {
		resp.Result = &view.Result{Text: out.Result.Text, Failed: out.Result.Failed}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) writeState(w http.ResponseWriter, code int, sess *domain.Session) {
	writeJSON(w, code, view.NewState(sess, s.navigation.State(sess), s.engine.Graph()))
}

func (s *Server) refreshSessionGauge(r *http.Request) {
	if s.metrics == nil {
		return
	}
	if ids, err := s.navigation.Manager().List(r.Context()); err == nil {
		s.observeSessions(len(ids))
	}
}

func (s *Server) observeSessions(n int) {
	if s.metrics != nil {
		s.metrics.SetActiveSessions(n)
	}
}
