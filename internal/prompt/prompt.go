// Package prompt builds generation prompts from validated topics.
//
// Prompt construction is pure and deterministic: a fixed instruction template
// with a {topic} placeholder, substituted once per invocation. The template
// is configuration, not runtime input.
package prompt

import "strings"

// TopicPlaceholder is the substring replaced by the topic in a template.
const TopicPlaceholder = "{topic}"

// DefaultTemplate is used when no template override is configured.
const DefaultTemplate = "Write a well-structured blog post about: " + TopicPlaceholder

// Builder substitutes topics into an instruction template.
type Builder struct {
	template string
}

// NewBuilder creates a Builder from the given template. A blank template
// falls back to DefaultTemplate; a template without the {topic} placeholder
// gets the topic appended so the subject is never silently dropped.
func NewBuilder(template string) Builder {
	t := strings.TrimSpace(template)
	if t == "" {
		t = DefaultTemplate
	} else if !strings.Contains(t, TopicPlaceholder) {
		t = t + " " + TopicPlaceholder
	}
	return Builder{template: t}
}

// Build returns the prompt for the given topic.
func (b Builder) Build(topic string) string {
	return strings.ReplaceAll(b.template, TopicPlaceholder, topic)
}

// Template returns the effective template, after defaulting.
func (b Builder) Template() string {
	return b.template
}
