package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/supportkit/pathfinder/pkg/assist"
	"github.com/supportkit/pathfinder/pkg/ports"
)

// OperatorHeader carries the operator identity recorded in the audit journal.
const OperatorHeader = "X-Operator-ID"

// maxUpload bounds multipart menu photos.
const maxUpload = 10 << 20

type analysisResponse struct {
	assist.StoreAnalysis
	Assessment struct {
		EN string `json:"en"`
		TH string `json:"th"`
	} `json:"assessment"`
}

type auditRequest struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type auditResponse struct {
	Items    []assist.AuditItem `json:"items"`
	Failures []assist.AuditItem `json:"failures"`
}

type rcaRequest struct {
	Failures []assist.AuditItem `json:"failures"`
}

type textResponse struct {
	Text string `json:"text"`
}

// assistant returns the assistants bound to the calling operator.
func (s *Server) assistant(r *http.Request) *assist.Service {
	svc := s.engine.Assistant()
	if op := strings.TrimSpace(r.Header.Get(OperatorHeader)); op != "" {
		return svc.WithSink(s.engine.SinkFor(op))
	}
	return svc
}

func (s *Server) assistError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, assist.ErrInvalidInput):
		jsonError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, assist.ErrNotConfigured):
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
	default:
		jsonError(w, err.Error(), http.StatusBadGateway)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	var links assist.StoreLinks
	if !decodeJSON(w, r, &links) {
		return
	}

	res, err := s.assistant(r).AnalyzeStorePresence(r.Context(), links)
	if err != nil {
		s.assistError(w, err)
		return
	}

	resp := analysisResponse{StoreAnalysis: res}
	resp.Assessment.EN, resp.Assessment.TH = res.Assessment()
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAudit(w http.ResponseWriter, r *http.Request) {
	var req auditRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	auditType, err := assist.ParseAuditType(req.Type)
	if err != nil {
		s.assistError(w, err)
		return
	}

	var data any
	if len(req.Data) > 0 {
		if err := json.Unmarshal(req.Data, &data); err != nil {
			jsonError(w, "invalid audit data", http.StatusBadRequest)
			return
		}
	}

	items, err := s.assistant(r).PerformAudit(r.Context(), auditType, data)
	if err != nil {
		s.assistError(w, err)
		return
	}
	if items == nil {
		items = []assist.AuditItem{}
	}
	failures := assist.Failures(items)
	if failures == nil {
		failures = []assist.AuditItem{}
	}
	writeJSON(w, http.StatusOK, auditResponse{Items: items, Failures: failures})
}

func (s *Server) handleRCA(w http.ResponseWriter, r *http.Request) {
	var req rcaRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	text, err := s.assistant(r).SummarizeRCA(r.Context(), req.Failures)
	if err != nil {
		s.assistError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, textResponse{Text: text})
}

func (s *Server) handleEmail(w http.ResponseWriter, r *http.Request) {
	var req assist.EmailRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	text, err := s.assistant(r).DraftEmail(r.Context(), req)
	if err != nil {
		s.assistError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, textResponse{Text: text})
}

func (s *Server) handleMenuExtract(w http.ResponseWriter, r *http.Request) {
	img, ok := readImage(w, r)
	if !ok {
		return
	}
	shop := assist.ShopType(r.FormValue("shop_type"))
	if shop == "" {
		shop = assist.ShopRestaurant
	}

	items, err := s.assistant(r).ExtractMenu(r.Context(), img, shop)
	if err != nil {
		s.assistError(w, err)
		return
	}
	if items == nil {
		items = []assist.MenuItem{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (s *Server) handleMenuCheck(w http.ResponseWriter, r *http.Request) {
	img, ok := readImage(w, r)
	if !ok {
		return
	}

	items, err := s.assistant(r).CrossCheckMenu(r.Context(), r.FormValue("web_menu_url"), img)
	if err != nil {
		s.assistError(w, err)
		return
	}
	if items == nil {
		items = []assist.MenuCheckItem{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// readImage parses the multipart form and returns the "image" part.
func readImage(w http.ResponseWriter, r *http.Request) (ports.Image, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUpload)
	if err := r.ParseMultipartForm(maxUpload); err != nil {
		jsonError(w, fmt.Sprintf("invalid multipart form: %v", err), http.StatusBadRequest)
		return ports.Image{}, false
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		jsonError(w, "missing image file", http.StatusBadRequest)
		return ports.Image{}, false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		jsonError(w, "failed to read image", http.StatusBadRequest)
		return ports.Image{}, false
	}

	mime := header.Header.Get("Content-Type")
	if mime == "" || mime == "application/octet-stream" {
		mime = http.DetectContentType(data)
	}
	return ports.Image{MIMEType: mime, Data: data}, true
}
