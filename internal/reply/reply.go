// Package reply produces the assistant text returned for a chat message.
package reply

import (
	"context"
	"errors"
)

// SampleResponse is the canned reply used when no model is configured.
const SampleResponse = "Sample response"

// ErrGeneration signals that the reply provider failed.
var ErrGeneration = errors.New("reply generation failed")

// Generator produces a reply for a user message.
type Generator interface {
	Reply(ctx context.Context, message string) (string, error)
}

// Canned always answers with the same text.
type Canned struct {
	Text string
}

// NewCanned returns a generator answering with text, or SampleResponse when
// text is empty.
func NewCanned(text string) *Canned {
	if text == "" {
		text = SampleResponse
	}
	return &Canned{Text: text}
}

// Reply implements Generator.
func (c *Canned) Reply(ctx context.Context, message string) (string, error) {
	return c.Text, nil
}
