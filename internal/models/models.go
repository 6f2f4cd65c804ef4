// Package models defines the core data structures for BlogPipe.
//
// It includes the inbound topic request, the generation pipeline error
// taxonomy, receipts for persisted posts, and the JSON response envelopes
// shared across modules.
package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrorKind classifies a pipeline failure for the response contract.
type ErrorKind string

const (
	// ErrorKindValidation indicates the caller supplied malformed or missing input.
	ErrorKindValidation ErrorKind = "ValidationError"
	// ErrorKindBackendUnavailable indicates the generation backend could not be reached.
	ErrorKindBackendUnavailable ErrorKind = "BackendUnavailable"
	// ErrorKindModelRejected indicates the backend refused the call (bad model id, access, quota).
	ErrorKindModelRejected ErrorKind = "ModelRejected"
	// ErrorKindEmptyGeneration indicates the backend responded without usable text.
	ErrorKindEmptyGeneration ErrorKind = "EmptyGeneration"
	// ErrorKindStorageUnavailable indicates the artifact write failed.
	ErrorKindStorageUnavailable ErrorKind = "StorageUnavailable"
)

// Validation constants for input validation
const (
	// MaxTopicLength defines the maximum allowed length for a topic string
	MaxTopicLength = 512
)

// Error variables for better error handling and testability
var (
	ErrNoTopic      = errors.New("no topic supplied")
	ErrTopicTooLong = errors.New("topic exceeds maximum length")
)

// TopicRequest is the inbound payload for POST /generate.
// Extra fields in the JSON body are ignored by the decoder.
type TopicRequest struct {
	BlogTopic string `json:"blog_topic"`
	Topic     string `json:"topic,omitempty"` // accepted alias for blog_topic
}

// TopicValue returns the effective topic with surrounding whitespace trimmed.
// blog_topic wins over the topic alias when both are present.
func (r *TopicRequest) TopicValue() string {
	if t := strings.TrimSpace(r.BlogTopic); t != "" {
		return t
	}
	return strings.TrimSpace(r.Topic)
}

// Validate checks that the request carries a usable topic.
func (r *TopicRequest) Validate() error {
	t := r.TopicValue()
	if t == "" {
		return ErrNoTopic
	}
	if len(t) > MaxTopicLength {
		return ErrTopicTooLong
	}
	return nil
}

// GeneratedContent is the output of the generation stage, owned by the
// handler until it is written to the object store.
type GeneratedContent struct {
	Text        string
	Model       string
	GeneratedAt time.Time
}

// PostStatus represents the outcome of one generation invocation.
type PostStatus string

const (
	// PostStatusStored indicates the post was generated and persisted.
	PostStatusStored PostStatus = "stored"
	// PostStatusFailed indicates the invocation failed at some stage.
	PostStatusFailed PostStatus = "failed"
)

// PostReceipt records one generation invocation for the read-side endpoints.
type PostReceipt struct {
	ID     string     `json:"id"`
	Topic  string     `json:"topic"`
	Key    string     `json:"key,omitempty"`
	Model  string     `json:"model,omitempty"`
	Status PostStatus `json:"status"`
	Kind   string     `json:"kind,omitempty"` // error kind when Status is failed
	Time   int64      `json:"time"`
}

// PipelineError couples an ErrorKind with a caller-safe message and the
// underlying cause. The cause is for logs only and never crosses the API
// boundary.
type PipelineError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

// Error implements the error interface.
func (e *PipelineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the underlying cause for errors.Is/As.
func (e *PipelineError) Unwrap() error {
	return e.Err
}

// NewPipelineError creates a PipelineError with the given kind, caller-safe
// message, and optional cause.
func NewPipelineError(kind ErrorKind, message string, err error) *PipelineError {
	return &PipelineError{Kind: kind, Message: message, Err: err}
}

// KindOf returns the ErrorKind carried by err, or fallback when err carries none.
func KindOf(err error, fallback ErrorKind) ErrorKind {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return fallback
}

// CallerMessage returns the caller-safe message carried by err, or fallback
// when err is not a PipelineError. Raw error text from SDKs stays out of
// responses.
func CallerMessage(err error, fallback string) string {
	var pe *PipelineError
	if errors.As(err, &pe) && pe.Message != "" {
		return pe.Message
	}
	return fallback
}

// Response status values for the generation endpoint.
const (
	// ResponseStatusSuccess indicates the post was generated and persisted.
	ResponseStatusSuccess = "success"
	// ResponseStatusError indicates the invocation failed.
	ResponseStatusError = "error"
)

// GenerationResponse is the JSON envelope returned for every /generate call.
type GenerationResponse struct {
	Status   string `json:"status"`
	Location string `json:"location,omitempty"`
	Kind     string `json:"kind,omitempty"`
	Message  string `json:"message,omitempty"`
}

// GenerationSuccess creates the success envelope carrying the storage location.
func GenerationSuccess(location string) GenerationResponse {
	return GenerationResponse{Status: ResponseStatusSuccess, Location: location}
}

// GenerationFailure creates the failure envelope carrying the error kind and
// a human-readable detail.
func GenerationFailure(kind ErrorKind, message string) GenerationResponse {
	return GenerationResponse{Status: ResponseStatusError, Kind: string(kind), Message: message}
}

// APIResponse represents a standard API response for the read-side endpoints.
type APIResponse struct {
	Status  string      `json:"status"`            // status of the API response
	Message string      `json:"message,omitempty"` // optional message for error responses or additional info
	Result  interface{} `json:"result,omitempty"`  // optional result data for successful responses
}

// Success creates a successful API response with optional result data.
func Success(result interface{}) APIResponse {
	return APIResponse{Status: "ok", Result: result}
}

// Error creates an error API response with the given message.
func Error(message string) APIResponse {
	return APIResponse{Status: "error", Message: message}
}
