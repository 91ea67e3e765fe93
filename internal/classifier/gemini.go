// Package classifier talks to the Gemini API to categorize transaction
// labels that the dictionary could not resolve.
package classifier

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"

	"github.com/dvloznov/finbot/internal/category"
)

// DefaultModelName is the Gemini model used when none is configured.
const DefaultModelName = "gemini-2.0-flash"

// DefaultTimeout bounds a single classification call.
const DefaultTimeout = 15 * time.Second

// Gemini implements category.Gateway over the GenAI API. The client is
// created once; credentials come from the environment.
type Gemini struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// NewGemini creates the gateway. model and timeout fall back to the
// package defaults when zero.
func NewGemini(ctx context.Context, model string, timeout time.Duration) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("classifier: create genai client: %w", err)
	}
	if model == "" {
		model = DefaultModelName
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Gemini{client: client, model: model, timeout: timeout}, nil
}

// Classify asks the model to pick one of the allowed categories for the
// label. The raw answer is cleaned but not validated; the caller owns
// taxonomy validation.
func (g *Gemini) Classify(ctx context.Context, label string, allowed []string, examples []category.Example) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: buildPrompt(label, allowed, examples)},
			},
		},
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("classifier: generate content: %w", err)
	}

	raw := resp.Text()
	if raw == "" {
		return "", fmt.Errorf("classifier: empty response from model")
	}
	return cleanAnswer(raw), nil
}
