// Package mock provides an offline completion service for development and
// demos when no model API key is configured.
package mock

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

const mockDigest = `<h3>Mock Chicken Stir-fry</h3>` +
	`<b>Ingredients:</b><ul><li>Chicken</li><li>Bell Pepper</li><li>Onion</li></ul>` +
	`<b>Preparation:</b><ol><li>Cut the chicken into strips.</li>` +
	`<li>Stir-fry with the vegetables over high heat.</li>` +
	`<li>Season and serve hot.</li></ol>` +
	`<p><i>(Offline mode: configure a model API key for live answers.)</i></p>`

// Client answers every prompt locally. Yes/no questions get "YES" so the
// chat pipeline proceeds to retrieval; everything else gets a canned
// recipe digest.
type Client struct {
	logger *zap.Logger
}

// NewClient creates an offline completion client.
func NewClient(logger *zap.Logger) *Client {
	return &Client{logger: logger}
}

// Complete implements outbound.CompletionService.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	c.logger.Debug("Serving mock completion", zap.Int("prompt_len", len(prompt)))

	if strings.Contains(prompt, "YES or NO") {
		return "YES", nil
	}
	return mockDigest, nil
}
