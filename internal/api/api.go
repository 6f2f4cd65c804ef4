// Package api provides HTTP handlers and the main API server logic for BlogPipe.
//
// It exposes the generation endpoint that turns a topic into a persisted blog
// post, plus read-side endpoints for receipts, stored posts, and health.
// The generation and persistence capabilities are consumed through small
// interfaces so the handlers can be tested with substitutable fakes.
package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/yuin/goldmark"

	"github.com/ridhwanrazaliwork/BlogPipe/internal/genai"
	"github.com/ridhwanrazaliwork/BlogPipe/internal/prompt"
	"github.com/ridhwanrazaliwork/BlogPipe/internal/storage"
	"github.com/ridhwanrazaliwork/BlogPipe/internal/store"
)

// DefaultAddr is the listen address used when none is configured.
const DefaultAddr = ":8080"

// Generator is the generation capability consumed by the handlers: a single
// attempt that returns generated text or a classified failure.
type Generator interface {
	GeneratePost(ctx context.Context, prompt string) (string, error)
	Model() string
}

// Opts holds configuration options for the API server.
type Opts struct {
	Addr           string // listen address
	PromptTemplate string // instruction template override
}

// Option defines a configuration option for the API server.
type Option func(*Opts)

// WithAddr sets the listen address.
func WithAddr(addr string) Option {
	return func(o *Opts) {
		o.Addr = addr
	}
}

// WithPromptTemplate overrides the default instruction template.
func WithPromptTemplate(template string) Option {
	return func(o *Opts) {
		o.PromptTemplate = template
	}
}

// Server holds the wired pipeline stages and serves the HTTP surface.
type Server struct {
	addr     string
	gen      Generator
	objects  storage.ObjectStore
	st       store.Store
	prompts  prompt.Builder
	markdown goldmark.Markdown
}

// NewServer creates a server over the given generation, object store, and
// receipt store capabilities, applying any provided options.
func NewServer(gen Generator, objects storage.ObjectStore, st store.Store, opts ...Option) *Server {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	addr := cfg.Addr
	if addr == "" {
		addr = DefaultAddr
	}
	return &Server{
		addr:     addr,
		gen:      gen,
		objects:  objects,
		st:       st,
		prompts:  prompt.NewBuilder(cfg.PromptTemplate),
		markdown: goldmark.New(),
	}
}

// Handler returns the routed HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/generate", s.generateHandler)
	mux.HandleFunc("/posts", s.postsHandler)
	mux.HandleFunc("/posts/", s.postHandler)
	mux.HandleFunc("/health", s.healthHandler)
	return mux
}

// Run wires the configured modules together and serves HTTP until the
// listener fails. Each module receives its own options, built by the
// entrypoint from environment and flags.
func Run(genaiOpts []genai.Option, storageOpts []storage.Option, storeOpts []store.Option, apiOpts []Option) error {
	gen, err := genai.NewClient(genaiOpts...)
	if err != nil {
		return err
	}
	slog.Info("api.Run: generation client ready", "model", gen.Model())

	objects, err := storage.Open(storageOpts...)
	if err != nil {
		return err
	}

	st, err := store.Open(storeOpts...)
	if err != nil {
		return err
	}
	defer st.Close()

	srv := NewServer(gen, objects, st, apiOpts...)
	slog.Info("api.Run: BlogPipe API listening", "addr", srv.addr)
	return http.ListenAndServe(srv.addr, srv.Handler())
}
