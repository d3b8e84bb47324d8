package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name     string
		config   Config
		wantName string
		wantErr  bool
	}{
		{"openai", Config{Provider: "openai", APIKey: "sk-test"}, "openai", false},
		{"anthropic", Config{Provider: "anthropic", APIKey: "sk-ant-test"}, "anthropic", false},
		{"claude alias", Config{Provider: "claude", APIKey: "sk-ant-test"}, "anthropic", false},
		{"ollama", Config{Provider: "ollama"}, "ollama", false},
		{"case insensitive", Config{Provider: "OpenAI", APIKey: "sk-test"}, "openai", false},
		{"missing key", Config{Provider: "openai"}, "", true},
		{"empty", Config{}, "", true},
		{"unknown", Config{Provider: "gemini"}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProvider(tt.config)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewProvider: %v", err)
			}
			if p.Name() != tt.wantName {
				t.Errorf("Name() = %q, want %q", p.Name(), tt.wantName)
			}
		})
	}
}

func TestAnthropicComplete(t *testing.T) {
	var gotReq anthropicRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "sk-ant-test" {
			t.Errorf("missing api key header")
		}
		if r.Header.Get("anthropic-version") == "" {
			t.Errorf("missing anthropic-version header")
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"content": []map[string]string{{"type": "text", "text": `{"thesis": "x"}`}},
			"model":   "claude-test",
			"usage":   map[string]int{"input_tokens": 100, "output_tokens": 20},
		})
	}))
	defer server.Close()

	p, err := NewAnthropicProvider(Config{APIKey: "sk-ant-test", BaseURL: server.URL, Model: "claude-test"})
	if err != nil {
		t.Fatalf("NewAnthropicProvider: %v", err)
	}

	resp, err := p.Complete(context.Background(), Request{
		System:    SystemPrompt,
		Prompt:    "analyse this",
		MaxTokens: 500,
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if resp.Text != `{"thesis": "x"}` {
		t.Errorf("Text = %q", resp.Text)
	}
	if resp.TokensUsed != 120 {
		t.Errorf("TokensUsed = %d, want 120", resp.TokensUsed)
	}
	if gotReq.System != SystemPrompt {
		t.Error("system prompt not forwarded")
	}
	if gotReq.MaxTokens != 500 {
		t.Errorf("max_tokens = %d, want 500", gotReq.MaxTokens)
	}
}

func TestAnthropicCompleteAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"type":  "error",
			"error": map[string]string{"type": "authentication_error", "message": "invalid x-api-key"},
		})
	}))
	defer server.Close()

	p, _ := NewAnthropicProvider(Config{APIKey: "bad", BaseURL: server.URL})
	_, err := p.Complete(context.Background(), Request{Prompt: "hi"})
	if err == nil {
		t.Fatal("expected error on 401")
	}
	if !strings.Contains(err.Error(), "authentication_error") {
		t.Errorf("error should carry API detail: %v", err)
	}
}

func TestOllamaComplete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		var req ollamaRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Stream {
			t.Error("streaming should be disabled")
		}
		json.NewEncoder(w).Encode(ollamaResponse{
			Model:           req.Model,
			Response:        "a completion",
			Done:            true,
			PromptEvalCount: 50,
			EvalCount:       10,
		})
	}))
	defer server.Close()

	p, err := NewOllamaProvider(Config{BaseURL: server.URL, Model: "llama3.1:8b"})
	if err != nil {
		t.Fatalf("NewOllamaProvider: %v", err)
	}

	resp, err := p.Complete(context.Background(), Request{Prompt: "analyse this"})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if resp.Text != "a completion" {
		t.Errorf("Text = %q", resp.Text)
	}
	if resp.TokensUsed != 60 {
		t.Errorf("TokensUsed = %d, want 60", resp.TokensUsed)
	}
}

func TestOllamaCompleteRequiresModel(t *testing.T) {
	p, _ := NewOllamaProvider(Config{})
	_, err := p.Complete(context.Background(), Request{Prompt: "hi"})
	if err == nil {
		t.Fatal("expected error when no model configured")
	}
}
