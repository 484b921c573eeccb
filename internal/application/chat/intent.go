package chat

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/alchemorsel/souschef/internal/ports/outbound"
)

const intentPrompt = `You are the gatekeeper for a cooking assistant. ` +
	`Decide whether the user's message is about cooking, recipes, or ingredients. ` +
	`Answer with YES or NO only.

Message: %s`

// IntentClassifier decides whether a message belongs in a cooking
// conversation by asking the language model a yes/no question.
type IntentClassifier struct {
	model   outbound.CompletionService
	metrics MetricsRecorder
	logger  *zap.Logger
}

// NewIntentClassifier creates a classifier backed by model.
func NewIntentClassifier(model outbound.CompletionService, metrics MetricsRecorder, logger *zap.Logger) *IntentClassifier {
	return &IntentClassifier{
		model:   model,
		metrics: metrics,
		logger:  logger,
	}
}

// Classify returns true when the message is cooking-related. The reply is
// treated as negative only when it contains "NO" and no "YES" anywhere;
// ambiguous replies count as positive, and so does a failed model call.
// Erring toward engagement beats silently refusing a legitimate question.
func (c *IntentClassifier) Classify(ctx context.Context, userText string) bool {
	reply, err := c.model.Complete(ctx, fmt.Sprintf(intentPrompt, userText))
	c.metrics.RecordModelRequest("intent", err)
	if err != nil {
		c.logger.Warn("Intent classification failed, assuming cooking-related", zap.Error(err))
		return true
	}

	upper := strings.ToUpper(reply)
	if strings.Contains(upper, "NO") && !strings.Contains(upper, "YES") {
		return false
	}
	return true
}
