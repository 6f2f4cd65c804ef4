package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ridhwanrazaliwork/BlogPipe/internal/store"
)

// promptCapturingGenerator records the prompt it was invoked with.
type promptCapturingGenerator struct {
	lastPrompt string
}

func (g *promptCapturingGenerator) GeneratePost(ctx context.Context, prompt string) (string, error) {
	g.lastPrompt = prompt
	return "generated", nil
}

func (g *promptCapturingGenerator) Model() string { return "stub-model" }

func TestNewServerDefaults(t *testing.T) {
	s := NewServer(&fakeGenerator{}, newFakeObjectStore(), store.NewInMemoryStore())
	if s.addr != DefaultAddr {
		t.Errorf("addr = %q, want %q", s.addr, DefaultAddr)
	}
}

func TestWithAddr(t *testing.T) {
	s := NewServer(&fakeGenerator{}, newFakeObjectStore(), store.NewInMemoryStore(), WithAddr(":9999"))
	if s.addr != ":9999" {
		t.Errorf("addr = %q", s.addr)
	}
}

func TestDefaultPromptTemplateApplied(t *testing.T) {
	gen := &promptCapturingGenerator{}
	s := NewServer(gen, newFakeObjectStore(), store.NewInMemoryStore())

	req := httptest.NewRequest(http.MethodPost, "/generate", strings.NewReader(`{"blog_topic":"tea"}`))
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)

	want := "Write a well-structured blog post about: tea"
	if gen.lastPrompt != want {
		t.Errorf("prompt = %q, want %q", gen.lastPrompt, want)
	}
}

func TestPromptTemplateOverride(t *testing.T) {
	gen := &promptCapturingGenerator{}
	s := NewServer(gen, newFakeObjectStore(), store.NewInMemoryStore(),
		WithPromptTemplate("Explain {topic} to a beginner."))

	req := httptest.NewRequest(http.MethodPost, "/generate", strings.NewReader(`{"blog_topic":"goroutines"}`))
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)

	if gen.lastPrompt != "Explain goroutines to a beginner." {
		t.Errorf("prompt = %q", gen.lastPrompt)
	}
}
