// Package server exposes the analysis pipeline over HTTP.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/gorilla/mux"

	"github.com/ppiankov/clearview/internal/model"
)

// Version reported by the health endpoint
const Version = "1.0.0"

// Articles beyond this length are rejected before any work happens
const maxArticleLength = 15000

// Analyser runs the analysis pipeline. Satisfied by pipeline.Pipeline.
type Analyser interface {
	Analyse(ctx context.Context, article model.Article) (*model.AnalysisResult, error)
	AnalyseURL(ctx context.Context, rawURL string) (*model.AnalysisResult, error)
}

// Server is the HTTP front end
type Server struct {
	router   *mux.Router
	analyser Analyser
	config   *model.Config
}

// New creates the server and mounts its routes. A nil analyser starts a
// degraded server whose analyse endpoint reports the missing credential.
func New(analyser Analyser, cfg *model.Config) *Server {
	s := &Server{
		router:   mux.NewRouter(),
		analyser: analyser,
		config:   cfg,
	}

	s.router.HandleFunc("/api/analyse", s.handleAnalyse).Methods(http.MethodPost)
	s.router.HandleFunc("/api/health", s.handleHealth).Methods(http.MethodGet)
	s.router.HandleFunc("/", s.handleRoot).Methods(http.MethodGet)

	return s
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe starts serving on the configured address
func (s *Server) ListenAndServe() error {
	addr := s.config.Server.Addr
	fmt.Fprintf(os.Stderr, "Listening on %s\n", addr)
	return http.ListenAndServe(addr, s)
}

type analyseRequest struct {
	ArticleText string `json:"article_text"`
	Headline    string `json:"headline"`
	Source      string `json:"source"`
	URL         string `json:"url"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type healthResponse struct {
	Status       string `json:"status"`
	Version      string `json:"version"`
	LLMReady     bool   `json:"llm_ready"`
	FREDKey      bool   `json:"fred_key"`
	CacheEnabled bool   `json:"cache_enabled"`
	Message      string `json:"message"`
}

func (s *Server) handleAnalyse(w http.ResponseWriter, r *http.Request) {
	if s.analyser == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{
			Error: "analysis engine not configured: missing LLM API key",
			Code:  model.CodeInternalError,
		})
		return
	}

	var req analyseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, &model.InputError{Reason: "request body is not valid JSON"})
		return
	}

	if req.ArticleText == "" && req.URL == "" {
		writeError(w, &model.InputError{Reason: "either article_text or url is required"})
		return
	}
	if len(req.ArticleText) > maxArticleLength {
		writeError(w, &model.InputError{
			Reason: fmt.Sprintf("article text is too long (%d chars, maximum %d)", len(req.ArticleText), maxArticleLength),
		})
		return
	}

	ctx := r.Context()
	if s.config.Server.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Server.RequestTimeout)
		defer cancel()
	}

	var result *model.AnalysisResult
	var err error
	if req.URL != "" && req.ArticleText == "" {
		result, err = s.analyser.AnalyseURL(ctx, req.URL)
	} else {
		result, err = s.analyser.Analyse(ctx, model.Article{
			Text:     req.ArticleText,
			Headline: req.Headline,
			Source:   req.Source,
		})
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Analysis failed: %v\n", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleHealth reports configuration state without touching any upstream API
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	llmReady := s.config.LLM.APIKey != "" || strings.EqualFold(s.config.LLM.Provider, "ollama")

	message := "ClearView API is running"
	if !llmReady {
		message = "WARNING: LLM API key not configured"
	}

	writeJSON(w, http.StatusOK, healthResponse{
		Status:       "ok",
		Version:      Version,
		LLMReady:     llmReady,
		FREDKey:      s.config.Validation.FREDAPIKey != "",
		CacheEnabled: s.config.Cache.Enabled,
		Message:      message,
	})
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "ClearView API",
		"version": Version,
	})
}

func writeError(w http.ResponseWriter, err error) {
	code := model.ErrorCode(err)

	status := http.StatusInternalServerError
	switch code {
	case model.CodeInputError:
		status = http.StatusBadRequest
	case model.CodeExtractionError:
		status = http.StatusBadGateway
	}

	writeJSON(w, status, errorResponse{Error: err.Error(), Code: code})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: write response: %v\n", err)
	}
}
