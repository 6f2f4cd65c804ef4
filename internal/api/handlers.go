// Package api provides HTTP handlers for BlogPipe endpoints.
package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ridhwanrazaliwork/BlogPipe/internal/models"
	"github.com/ridhwanrazaliwork/BlogPipe/internal/storage"
)

// generateHandler runs the generation pipeline (POST /generate):
// validate the topic, build the prompt, invoke the generation backend once,
// persist the text under a fresh key, and answer with the storage location.
// Any stage failure short-circuits to a structured error response.
func (s *Server) generateHandler(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}
	slog.Debug("Server.generateHandler: processing generation request", "method", r.Method, "path", r.URL.Path)
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		slog.Warn("Server.generateHandler: method not allowed", "method", r.Method)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req models.TopicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Server.generateHandler: failed to decode JSON", "error", err)
		writeJSONResponse(w, http.StatusBadRequest,
			models.GenerationFailure(models.ErrorKindValidation, "invalid JSON payload"))
		return
	}
	if err := req.Validate(); err != nil {
		slog.Warn("Server.generateHandler: validation failed", "error", err)
		s.recordReceipt(req.TopicValue(), "", models.ErrorKindValidation)
		writeJSONResponse(w, http.StatusBadRequest,
			models.GenerationFailure(models.ErrorKindValidation, err.Error()))
		return
	}
	topic := req.TopicValue()
	slog.Debug("Server.generateHandler: topic validated", "topic", topic)

	// Content generation: single attempt, request-scoped context so an
	// environment deadline surfaces as a backend failure.
	promptText := s.prompts.Build(topic)
	text, err := s.gen.GeneratePost(r.Context(), promptText)
	if err != nil {
		kind := models.KindOf(err, models.ErrorKindBackendUnavailable)
		slog.Error("Server.generateHandler: generation failed", "error", err, "kind", kind, "topic", topic)
		s.recordReceipt(topic, "", kind)
		writeJSONResponse(w, statusCodeForKind(kind),
			models.GenerationFailure(kind, models.CallerMessage(err, "failed to generate content")))
		return
	}

	// Artifact persistence: fresh key per invocation, no overwrite.
	key := storage.DeriveKey(topic, time.Now())
	if err := s.objects.Put(r.Context(), key, []byte(text)); err != nil {
		kind := models.KindOf(err, models.ErrorKindStorageUnavailable)
		slog.Error("Server.generateHandler: persistence failed", "error", err, "kind", kind, "key", key)
		s.recordReceipt(topic, "", kind)
		writeJSONResponse(w, statusCodeForKind(kind),
			models.GenerationFailure(kind, models.CallerMessage(err, "failed to store generated content")))
		return
	}

	s.recordReceipt(topic, key, "")
	slog.Info("Server.generateHandler: post generated and stored", "topic", topic, "key", key, "size", len(text))
	writeJSONResponse(w, http.StatusOK, models.GenerationSuccess(key))
}

// postsHandler lists generation receipts (GET /posts).
func (s *Server) postsHandler(w http.ResponseWriter, r *http.Request) {
	slog.Debug("Server.postsHandler: processing receipts request", "method", r.Method, "path", r.URL.Path)
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		slog.Warn("Server.postsHandler: method not allowed", "method", r.Method)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	posts, err := s.st.GetPosts()
	if err != nil {
		slog.Error("Server.postsHandler: failed to fetch receipts", "error", err)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to fetch posts"))
		return
	}
	slog.Debug("Server.postsHandler: receipts fetched", "count", len(posts))
	writeJSONResponse(w, http.StatusOK, models.Success(posts))
}

// postHandler fetches one stored post (GET /posts/{key}). With ?format=html
// the stored Markdown is rendered to HTML; otherwise the raw artifact bytes
// are returned as text/markdown.
func (s *Server) postHandler(w http.ResponseWriter, r *http.Request) {
	slog.Debug("Server.postHandler: processing post request", "method", r.Method, "path", r.URL.Path)
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		slog.Warn("Server.postHandler: method not allowed", "method", r.Method)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	key := strings.TrimPrefix(r.URL.Path, "/posts/")
	if key == "" || strings.Contains(key, "/") {
		writeJSONResponse(w, http.StatusNotFound, models.Error("Unknown post key"))
		return
	}

	data, err := s.objects.Get(r.Context(), key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			slog.Warn("Server.postHandler: post not found", "key", key)
			writeJSONResponse(w, http.StatusNotFound, models.Error("Post not found"))
			return
		}
		slog.Error("Server.postHandler: failed to fetch post", "error", err, "key", key)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to fetch post"))
		return
	}

	if r.URL.Query().Get("format") == "html" {
		var buf bytes.Buffer
		if err := s.markdown.Convert(data, &buf); err != nil {
			slog.Error("Server.postHandler: markdown rendering failed", "error", err, "key", key)
			writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to render post"))
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if _, err := buf.WriteTo(w); err != nil {
			slog.Error("Server.postHandler: failed to write HTML response", "error", err)
		}
		return
	}

	w.Header().Set("Content-Type", storage.DefaultContentType)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		slog.Error("Server.postHandler: failed to write response", "error", err)
	}
}

// healthHandler provides a health check endpoint for monitoring and load balancing.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	healthData := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"model":     s.gen.Model(),
	}

	statusCode := http.StatusOK
	if posts, err := s.st.GetPosts(); err != nil {
		slog.Warn("Server.healthHandler: receipt store unreachable", "error", err)
		healthData["status"] = "degraded"
		healthData["error"] = "Failed to fetch post metrics"
		statusCode = http.StatusServiceUnavailable
	} else {
		healthData["posts"] = len(posts)
	}

	writeJSONResponse(w, statusCode, healthData)
}

// recordReceipt stores a receipt for one invocation. Receipt failures are
// logged and never change the response already chosen for the caller.
func (s *Server) recordReceipt(topic, key string, kind models.ErrorKind) {
	status := models.PostStatusStored
	if kind != "" {
		status = models.PostStatusFailed
	}
	receipt := models.PostReceipt{
		ID:     uuid.NewString(),
		Topic:  topic,
		Key:    key,
		Model:  s.gen.Model(),
		Status: status,
		Kind:   string(kind),
		Time:   time.Now().Unix(),
	}
	if err := s.st.AddPost(receipt); err != nil {
		slog.Error("Server.recordReceipt: failed to record receipt", "error", err, "topic", topic)
	}
}

// statusCodeForKind maps the error taxonomy onto HTTP status codes: caller
// faults are 4xx, generation-stage failures are 502, persistence is 500.
func statusCodeForKind(kind models.ErrorKind) int {
	switch kind {
	case models.ErrorKindValidation:
		return http.StatusBadRequest
	case models.ErrorKindStorageUnavailable:
		return http.StatusInternalServerError
	default:
		return http.StatusBadGateway
	}
}
