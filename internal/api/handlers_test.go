package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ridhwanrazaliwork/BlogPipe/internal/models"
	"github.com/ridhwanrazaliwork/BlogPipe/internal/storage"
	"github.com/ridhwanrazaliwork/BlogPipe/internal/store"
)

// fakeGenerator implements Generator with canned output for testing.
type fakeGenerator struct {
	text  string
	err   error
	calls int
}

func (f *fakeGenerator) GeneratePost(ctx context.Context, prompt string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

func (f *fakeGenerator) Model() string { return "stub-model" }

// fakeObjectStore implements storage.ObjectStore and records writes.
type fakeObjectStore struct {
	objects  map[string][]byte
	putErr   error
	putCalls int
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{objects: make(map[string][]byte)}
}

func (f *fakeObjectStore) Put(ctx context.Context, key string, data []byte) error {
	f.putCalls++
	if f.putErr != nil {
		return f.putErr
	}
	f.objects[key] = data
	return nil
}

func (f *fakeObjectStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, ok := f.objects[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return data, nil
}

func newTestServer(gen *fakeGenerator, objects *fakeObjectStore) *Server {
	return NewServer(gen, objects, store.NewInMemoryStore())
}

func postGenerate(t *testing.T, s *Server, body string) (*httptest.ResponseRecorder, models.GenerationResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/generate", strings.NewReader(body))
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	var resp models.GenerationResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not valid JSON: %v (body %q)", err, rr.Body.String())
	}
	return rr, resp
}

func TestGenerate_Success(t *testing.T) {
	gen := &fakeGenerator{text: "Lionel Messi is widely regarded..."}
	objects := newFakeObjectStore()
	s := newTestServer(gen, objects)

	rr, resp := postGenerate(t, s, `{"blog_topic": "Best soccer player"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body %s)", rr.Code, rr.Body.String())
	}
	if resp.Status != models.ResponseStatusSuccess {
		t.Errorf("status = %q, want success", resp.Status)
	}
	if !strings.HasPrefix(resp.Location, "best-soccer-player-") {
		t.Errorf("location = %q, want best-soccer-player-<ts>", resp.Location)
	}
	stored, ok := objects.objects[resp.Location]
	if !ok {
		t.Fatalf("response location %q does not match any written key", resp.Location)
	}
	if string(stored) != gen.text {
		t.Errorf("stored bytes = %q, want %q", stored, gen.text)
	}
	if gen.calls != 1 || objects.putCalls != 1 {
		t.Errorf("expected exactly one generation and one write, got %d/%d", gen.calls, objects.putCalls)
	}

	// Receipt was recorded for the stored post.
	posts, err := s.st.GetPosts()
	if err != nil {
		t.Fatalf("GetPosts: %v", err)
	}
	if len(posts) != 1 || posts[0].Status != models.PostStatusStored || posts[0].Key != resp.Location {
		t.Errorf("unexpected receipt: %+v", posts)
	}
}

func TestGenerate_MissingTopic(t *testing.T) {
	for _, body := range []string{`{}`, `{"blog_topic": "  "}`, `{"other_field": "x"}`} {
		gen := &fakeGenerator{text: "unused"}
		objects := newFakeObjectStore()
		s := newTestServer(gen, objects)

		rr, resp := postGenerate(t, s, body)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("body %q: expected 400, got %d", body, rr.Code)
		}
		if resp.Status != models.ResponseStatusError || resp.Kind != string(models.ErrorKindValidation) {
			t.Errorf("body %q: unexpected response %+v", body, resp)
		}
		if gen.calls != 0 {
			t.Errorf("body %q: expected zero generation calls, got %d", body, gen.calls)
		}
		if objects.putCalls != 0 {
			t.Errorf("body %q: expected zero storage calls, got %d", body, objects.putCalls)
		}
	}
}

func TestGenerate_InvalidJSON(t *testing.T) {
	gen := &fakeGenerator{}
	s := newTestServer(gen, newFakeObjectStore())

	rr, resp := postGenerate(t, s, `{not json`)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rr.Code)
	}
	if resp.Kind != string(models.ErrorKindValidation) {
		t.Errorf("kind = %q, want ValidationError", resp.Kind)
	}
	if gen.calls != 0 {
		t.Errorf("expected zero generation calls, got %d", gen.calls)
	}
}

func TestGenerate_BackendUnavailable(t *testing.T) {
	gen := &fakeGenerator{err: models.NewPipelineError(models.ErrorKindBackendUnavailable, "generation backend unreachable", errors.New("dial tcp"))}
	objects := newFakeObjectStore()
	s := newTestServer(gen, objects)

	rr, resp := postGenerate(t, s, `{"blog_topic": "anything"}`)
	if rr.Code != http.StatusBadGateway {
		t.Errorf("expected 502, got %d", rr.Code)
	}
	if resp.Kind != string(models.ErrorKindBackendUnavailable) {
		t.Errorf("kind = %q", resp.Kind)
	}
	if objects.putCalls != 0 {
		t.Errorf("expected zero storage calls after generation failure, got %d", objects.putCalls)
	}
	// The raw transport detail stays out of the response.
	if strings.Contains(resp.Message, "dial tcp") {
		t.Errorf("response leaked internal error detail: %q", resp.Message)
	}
}

func TestGenerate_ModelRejected(t *testing.T) {
	gen := &fakeGenerator{err: models.NewPipelineError(models.ErrorKindModelRejected, "generation backend rejected the request", nil)}
	s := newTestServer(gen, newFakeObjectStore())

	rr, resp := postGenerate(t, s, `{"blog_topic": "anything"}`)
	if rr.Code != http.StatusBadGateway || resp.Kind != string(models.ErrorKindModelRejected) {
		t.Errorf("got code %d kind %q", rr.Code, resp.Kind)
	}
}

func TestGenerate_EmptyGeneration(t *testing.T) {
	gen := &fakeGenerator{err: models.NewPipelineError(models.ErrorKindEmptyGeneration, "generation backend returned no content", nil)}
	objects := newFakeObjectStore()
	s := newTestServer(gen, objects)

	_, resp := postGenerate(t, s, `{"blog_topic": "anything"}`)
	if resp.Kind != string(models.ErrorKindEmptyGeneration) {
		t.Errorf("kind = %q", resp.Kind)
	}
	if objects.putCalls != 0 {
		t.Errorf("expected no write for empty generation, got %d", objects.putCalls)
	}
}

func TestGenerate_StorageFailure(t *testing.T) {
	gen := &fakeGenerator{text: "generated text"}
	objects := newFakeObjectStore()
	objects.putErr = models.NewPipelineError(models.ErrorKindStorageUnavailable, "object store write failed", errors.New("bucket missing"))
	s := newTestServer(gen, objects)

	rr, resp := postGenerate(t, s, `{"blog_topic": "anything"}`)
	if rr.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rr.Code)
	}
	if resp.Status != models.ResponseStatusError {
		t.Errorf("status must be error even though generation succeeded, got %q", resp.Status)
	}
	if resp.Kind != string(models.ErrorKindStorageUnavailable) {
		t.Errorf("kind = %q", resp.Kind)
	}
	if resp.Location != "" {
		t.Errorf("no location should be returned on storage failure, got %q", resp.Location)
	}
}

func TestGenerate_DistinctKeysForSameTopic(t *testing.T) {
	gen := &fakeGenerator{text: "text"}
	objects := newFakeObjectStore()
	s := newTestServer(gen, objects)

	_, first := postGenerate(t, s, `{"blog_topic": "Best soccer player"}`)
	_, second := postGenerate(t, s, `{"blog_topic": "Best soccer player"}`)
	if first.Location == second.Location {
		t.Errorf("successive requests reused key %q", first.Location)
	}
	if len(objects.objects) != 2 {
		t.Errorf("expected 2 stored artifacts, got %d", len(objects.objects))
	}
}

func TestGenerate_MethodNotAllowed(t *testing.T) {
	s := newTestServer(&fakeGenerator{}, newFakeObjectStore())
	req := httptest.NewRequest(http.MethodGet, "/generate", nil)
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", rr.Code)
	}
	if rr.Header().Get("Allow") != http.MethodPost {
		t.Errorf("Allow header = %q", rr.Header().Get("Allow"))
	}
}

func TestPostsHandler(t *testing.T) {
	gen := &fakeGenerator{text: "text"}
	s := newTestServer(gen, newFakeObjectStore())
	postGenerate(t, s, `{"blog_topic": "topic one"}`)

	req := httptest.NewRequest(http.MethodGet, "/posts", nil)
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var resp models.APIResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("status = %q", resp.Status)
	}
}

func TestPostHandler_FetchAndPreview(t *testing.T) {
	gen := &fakeGenerator{text: "# Heading\n\nBody text."}
	objects := newFakeObjectStore()
	s := newTestServer(gen, objects)
	_, genResp := postGenerate(t, s, `{"blog_topic": "markdown post"}`)

	// Raw artifact bytes.
	req := httptest.NewRequest(http.MethodGet, "/posts/"+genResp.Location, nil)
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if rr.Body.String() != gen.text {
		t.Errorf("raw body = %q", rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/markdown") {
		t.Errorf("Content-Type = %q", ct)
	}

	// HTML preview.
	req = httptest.NewRequest(http.MethodGet, "/posts/"+genResp.Location+"?format=html", nil)
	rr = httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "<h1>") {
		t.Errorf("expected rendered HTML, got %q", rr.Body.String())
	}
}

func TestPostHandler_NotFound(t *testing.T) {
	s := newTestServer(&fakeGenerator{}, newFakeObjectStore())
	req := httptest.NewRequest(http.MethodGet, "/posts/no-such-key-123", nil)
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rr.Code)
	}
}

func TestHealthHandler(t *testing.T) {
	s := newTestServer(&fakeGenerator{}, newFakeObjectStore())
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var health map[string]interface{}
	if err := json.Unmarshal(rr.Body.Bytes(), &health); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if health["status"] != "healthy" {
		t.Errorf("status = %v", health["status"])
	}
}
