package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestTopicRequestValidate(t *testing.T) {
	cases := []struct {
		name    string
		req     TopicRequest
		wantErr error
	}{
		{"valid", TopicRequest{BlogTopic: "Best soccer player"}, nil},
		{"alias only", TopicRequest{Topic: "Go generics"}, nil},
		{"missing", TopicRequest{}, ErrNoTopic},
		{"whitespace only", TopicRequest{BlogTopic: "   \t"}, ErrNoTopic},
		{"too long", TopicRequest{BlogTopic: strings.Repeat("a", MaxTopicLength+1)}, ErrTopicTooLong},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.req.Validate(); !errors.Is(err, tc.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestTopicValuePrefersBlogTopic(t *testing.T) {
	req := TopicRequest{BlogTopic: " primary ", Topic: "alias"}
	if got := req.TopicValue(); got != "primary" {
		t.Errorf("TopicValue() = %q, want %q", got, "primary")
	}
}

func TestTopicRequestIgnoresExtraFields(t *testing.T) {
	var req TopicRequest
	body := `{"blog_topic":"AI","noise":true,"other":123}`
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if req.TopicValue() != "AI" {
		t.Errorf("expected topic 'AI', got %q", req.TopicValue())
	}
}

func TestPipelineErrorKindAndMessage(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := NewPipelineError(ErrorKindBackendUnavailable, "generation backend unreachable", cause)

	if got := KindOf(err, ErrorKindValidation); got != ErrorKindBackendUnavailable {
		t.Errorf("KindOf = %v, want %v", got, ErrorKindBackendUnavailable)
	}
	if got := CallerMessage(err, "fallback"); got != "generation backend unreachable" {
		t.Errorf("CallerMessage = %q", got)
	}
	if !errors.Is(err, cause) {
		t.Error("expected PipelineError to unwrap to its cause")
	}
}

func TestPipelineErrorWrapped(t *testing.T) {
	inner := NewPipelineError(ErrorKindStorageUnavailable, "object store write failed", errors.New("bucket missing"))
	wrapped := fmt.Errorf("persist artifact: %w", inner)

	if got := KindOf(wrapped, ErrorKindBackendUnavailable); got != ErrorKindStorageUnavailable {
		t.Errorf("KindOf through wrapping = %v", got)
	}
}

func TestKindOfFallback(t *testing.T) {
	if got := KindOf(errors.New("plain"), ErrorKindBackendUnavailable); got != ErrorKindBackendUnavailable {
		t.Errorf("KindOf fallback = %v", got)
	}
	if got := CallerMessage(errors.New("raw sdk detail"), "safe"); got != "safe" {
		t.Errorf("CallerMessage fallback = %q", got)
	}
}

func TestGenerationResponseShapes(t *testing.T) {
	ok, err := json.Marshal(GenerationSuccess("best-soccer-player-1724"))
	if err != nil {
		t.Fatalf("marshal success: %v", err)
	}
	if string(ok) != `{"status":"success","location":"best-soccer-player-1724"}` {
		t.Errorf("unexpected success shape: %s", ok)
	}

	bad, err := json.Marshal(GenerationFailure(ErrorKindValidation, "no topic supplied"))
	if err != nil {
		t.Fatalf("marshal failure: %v", err)
	}
	if string(bad) != `{"status":"error","kind":"ValidationError","message":"no topic supplied"}` {
		t.Errorf("unexpected failure shape: %s", bad)
	}
}
