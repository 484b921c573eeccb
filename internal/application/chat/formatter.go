package chat

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/alchemorsel/souschef/internal/infrastructure/search"
	"github.com/alchemorsel/souschef/internal/ports/outbound"
)

const placeholderReply = `<h3>Recipe assistant unavailable</h3>` +
	`<p><i>The cooking model could not be reached right now. ` +
	`Please try again in a moment.</i></p>`

// Formatter asks the language model for a structured recipe reply,
// grounding it on retrieved candidates when there are any.
type Formatter struct {
	model   outbound.CompletionService
	metrics MetricsRecorder
	logger  *zap.Logger
}

// NewFormatter creates a formatter backed by model.
func NewFormatter(model outbound.CompletionService, metrics MetricsRecorder, logger *zap.Logger) *Formatter {
	return &Formatter{
		model:   model,
		metrics: metrics,
		logger:  logger,
	}
}

// Generate produces the reply markup for a chat turn. The second return
// value reports whether the model was unavailable and a fallback was
// served instead. With candidates, the fallback renders the best match
// locally; without, it is a labeled placeholder. Either way the caller
// gets a usable reply, never an error.
func (f *Formatter) Generate(ctx context.Context, userText string, candidates []search.Match) (string, bool) {
	reply, err := f.model.Complete(ctx, f.buildPrompt(userText, candidates))
	f.metrics.RecordModelRequest("generate", err)
	if err != nil {
		f.logger.Warn("Recipe generation failed, serving fallback", zap.Error(err))
		return f.fallback(candidates), true
	}

	markup := ensureMarkup(reply)
	if markup == "" {
		f.logger.Warn("Model returned an empty reply, serving fallback")
		return f.fallback(candidates), true
	}
	return markup, false
}

func (f *Formatter) buildPrompt(userText string, candidates []search.Match) string {
	var b strings.Builder

	b.WriteString("You are a helpful cooking assistant. ")
	b.WriteString("Answer the user's request with exactly one recipe formatted as HTML: ")
	b.WriteString("an <h3> title, a <b>Ingredients:</b> label followed by a <ul> list, ")
	b.WriteString("and a <b>Preparation:</b> label followed by an <ol> list of steps. ")
	b.WriteString("Do not add any other text outside the markup.\n\n")

	if len(candidates) > 0 {
		b.WriteString("Base your answer on these matching recipes from the cookbook:\n")
		for i, m := range candidates {
			fmt.Fprintf(&b, "%d. %s (ingredients: %s)\n", i+1, m.Recipe.Title(), m.Recipe.Ingredients())
		}
		b.WriteString("\n")
	} else {
		b.WriteString("No cookbook recipe matched, so invent a suitable recipe yourself.\n\n")
	}

	fmt.Fprintf(&b, "User request: %s", userText)
	return b.String()
}

func (f *Formatter) fallback(candidates []search.Match) string {
	if len(candidates) == 0 {
		return placeholderReply
	}
	return renderRecipeHTML(candidates[0].Recipe) +
		`<p><i>(Served from the cookbook while the assistant is unavailable.)</i></p>`
}
