package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"meal-planner/internal/infrastructure/config"
)

func TestOpenRouterGenerate(t *testing.T) {
	var body map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("authorization = %q", got)
		}
		json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"receta ligera"}}]}`))
	}))
	defer srv.Close()

	p, err := NewOpenRouter(config.OpenRouterConfig{BaseURL: srv.URL, APIKey: "secret", Model: "m", MaxTokens: 100})
	if err != nil {
		t.Fatalf("NewOpenRouter: %v", err)
	}
	got, err := p.Generate(context.Background(), "hola")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "receta ligera" {
		t.Errorf("content = %q", got)
	}
	if body["model"] != "m" {
		t.Errorf("body = %v", body)
	}
}

func TestOpenRouterErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("empty") != "" {
			w.Write([]byte(`{"choices":[]}`))
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"bad key"}`))
	}))
	defer srv.Close()

	p, _ := NewOpenRouter(config.OpenRouterConfig{BaseURL: srv.URL, APIKey: "x", Model: "m"})
	if _, err := p.Generate(context.Background(), "hola"); err == nil {
		t.Error("expected error for 401")
	}

	p2, _ := NewOpenRouter(config.OpenRouterConfig{BaseURL: srv.URL, APIKey: "x", Model: "m"})
	p2.client.SetQueryParam("empty", "1")
	if _, err := p2.Generate(context.Background(), "hola"); err == nil {
		t.Error("expected error for empty choices")
	}
}

func TestNewProviderRequiresKey(t *testing.T) {
	cfg := config.Default()
	for _, name := range []string{"gemini", "openrouter"} {
		cfg.AI.Provider = name
		if _, err := New(context.Background(), cfg); !errors.Is(err, ErrNotConfigured) {
			t.Errorf("%s: err = %v, want ErrNotConfigured", name, err)
		}
	}
	cfg.AI.Provider = "other"
	if _, err := New(context.Background(), cfg); err == nil {
		t.Error("unknown provider should fail")
	}
}
