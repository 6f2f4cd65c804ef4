package prompt

import (
	"strings"
	"testing"
)

func TestBuildDefaultTemplate(t *testing.T) {
	b := NewBuilder("")
	got := b.Build("Best soccer player")
	want := "Write a well-structured blog post about: Best soccer player"
	if got != want {
		t.Errorf("Build() = %q, want %q", got, want)
	}
}

func TestBuildCustomTemplate(t *testing.T) {
	b := NewBuilder("Compose a short article on {topic} for beginners.")
	got := b.Build("Go modules")
	if got != "Compose a short article on Go modules for beginners." {
		t.Errorf("Build() = %q", got)
	}
}

func TestBuildTemplateWithoutPlaceholder(t *testing.T) {
	b := NewBuilder("Write something interesting about")
	got := b.Build("gardening")
	if !strings.Contains(got, "gardening") {
		t.Errorf("topic missing from prompt: %q", got)
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	b := NewBuilder("")
	if b.Build("x") != b.Build("x") {
		t.Error("Build is not deterministic for identical input")
	}
}
