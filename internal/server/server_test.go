package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/clearview/internal/model"
)

// stubAnalyser returns a fixed result or error
type stubAnalyser struct {
	result  *model.AnalysisResult
	err     error
	lastCtx context.Context
	gotURL  string
	got     model.Article
}

func (a *stubAnalyser) Analyse(ctx context.Context, article model.Article) (*model.AnalysisResult, error) {
	a.lastCtx = ctx
	a.got = article
	return a.result, a.err
}

func (a *stubAnalyser) AnalyseURL(ctx context.Context, rawURL string) (*model.AnalysisResult, error) {
	a.lastCtx = ctx
	a.gotURL = rawURL
	return a.result, a.err
}

func testConfig() *model.Config {
	cfg := model.DefaultConfig()
	cfg.LLM.APIKey = "test-key"
	cfg.Validation.FREDAPIKey = "fred-key"
	return cfg
}

func postAnalyse(t *testing.T, srv *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/analyse", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestAnalyseEndpoint(t *testing.T) {
	analyser := &stubAnalyser{result: &model.AnalysisResult{
		Thesis:      "Inflation is cooling.",
		Fingerprint: "abcdef0123456789",
		Summary:     model.Summary{TotalClaims: 1},
		AnalyzedAt:  time.Now().UTC(),
	}}
	srv := New(analyser, testConfig())

	rec := postAnalyse(t, srv, `{"article_text": "Inflation fell to 2.4% last month.", "headline": "CPI Report"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	if analyser.got.Headline != "CPI Report" {
		t.Errorf("headline not forwarded: %q", analyser.got.Headline)
	}

	var result model.AnalysisResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.Thesis != "Inflation is cooling." || result.Fingerprint != "abcdef0123456789" {
		t.Errorf("result = %+v", result)
	}
}

func TestAnalyseEndpointByURL(t *testing.T) {
	analyser := &stubAnalyser{result: &model.AnalysisResult{Thesis: "t"}}
	srv := New(analyser, testConfig())

	rec := postAnalyse(t, srv, `{"url": "https://example.com/article"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if analyser.gotURL != "https://example.com/article" {
		t.Errorf("url not forwarded: %q", analyser.gotURL)
	}
}

func TestAnalyseEndpointBadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{not json`},
		{"missing input", `{"headline": "no text"}`},
		{"too long", `{"article_text": "` + strings.Repeat("a", maxArticleLength+1) + `"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := New(&stubAnalyser{}, testConfig())
			rec := postAnalyse(t, srv, tt.body)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			var resp errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode error body: %v", err)
			}
			if resp.Code != model.CodeInputError {
				t.Errorf("code = %q", resp.Code)
			}
			if resp.Error == "" {
				t.Error("error message is empty")
			}
		})
	}
}

func TestAnalyseEndpointErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"input", &model.InputError{Reason: "article text is too short"}, http.StatusBadRequest, model.CodeInputError},
		{"extraction", &model.ExtractionError{Stage: "claims", Attempts: 2, Err: context.DeadlineExceeded}, http.StatusBadGateway, model.CodeExtractionError},
		{"internal", context.DeadlineExceeded, http.StatusInternalServerError, model.CodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := New(&stubAnalyser{err: tt.err}, testConfig())
			rec := postAnalyse(t, srv, `{"article_text": "Some article text."}`)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var resp errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode error body: %v", err)
			}
			if resp.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", resp.Code, tt.wantCode)
			}
		})
	}
}

func TestAnalyseRequestTimeoutApplied(t *testing.T) {
	analyser := &stubAnalyser{result: &model.AnalysisResult{}}
	cfg := testConfig()
	cfg.Server.RequestTimeout = 30 * time.Second
	srv := New(analyser, cfg)

	postAnalyse(t, srv, `{"article_text": "Some article text."}`)

	deadline, ok := analyser.lastCtx.Deadline()
	if !ok {
		t.Fatal("analysis context has no deadline")
	}
	if time.Until(deadline) > 30*time.Second {
		t.Errorf("deadline too far out: %v", deadline)
	}
}

func TestHealthEndpoint(t *testing.T) {
	srv := New(&stubAnalyser{}, testConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp healthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode health: %v", err)
	}
	if resp.Status != "ok" || resp.Version != Version {
		t.Errorf("health = %+v", resp)
	}
	if !resp.LLMReady || !resp.FREDKey {
		t.Errorf("keys should read as configured: %+v", resp)
	}
}

func TestHealthEndpointMissingKey(t *testing.T) {
	cfg := testConfig()
	cfg.LLM.APIKey = ""
	srv := New(&stubAnalyser{}, cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	var resp healthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode health: %v", err)
	}
	if resp.LLMReady {
		t.Error("llm_ready should be false without a key")
	}
	if !strings.Contains(resp.Message, "not configured") {
		t.Errorf("message = %q", resp.Message)
	}
}

func TestHealthEndpointOllamaNeedsNoKey(t *testing.T) {
	cfg := testConfig()
	cfg.LLM.APIKey = ""
	cfg.LLM.Provider = "ollama"
	srv := New(&stubAnalyser{}, cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	var resp healthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode health: %v", err)
	}
	if !resp.LLMReady {
		t.Error("ollama should report ready without an API key")
	}
}

func TestAnalyseUnavailableWithoutAnalyser(t *testing.T) {
	cfg := testConfig()
	cfg.LLM.APIKey = ""
	srv := New(nil, cfg)

	rec := postAnalyse(t, srv, `{"article_text": "Some article text."}`)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if !strings.Contains(resp.Error, "not configured") {
		t.Errorf("error = %q", resp.Error)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	srv := New(&stubAnalyser{}, testConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/analyse", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}
