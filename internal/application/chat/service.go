// Package chat implements the recipe chat pipeline: classify the message,
// retrieve matching recipes, and either answer from the cookbook or ask
// the language model to compose a reply.
package chat

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/alchemorsel/souschef/internal/infrastructure/search"
	"github.com/alchemorsel/souschef/internal/ports/inbound"
)

const declineReply = `<p>I can only help with cooking and recipes. ` +
	`Tell me what ingredients you have or what dish you would like to make!</p>`

// MetricsRecorder is the slice of the monitoring surface the pipeline needs.
type MetricsRecorder interface {
	RecordChatOutcome(outcome string)
	RecordModelRequest(purpose string, err error)
}

// noopMetrics is used when no recorder is supplied, e.g. in tests.
type noopMetrics struct{}

func (noopMetrics) RecordChatOutcome(string)         {}
func (noopMetrics) RecordModelRequest(string, error) {}

// Options holds the retrieval tuning for the pipeline.
type Options struct {
	// TopK is the maximum number of candidates passed to generation.
	TopK int
	// MinScore is the similarity floor below which a recipe is not
	// considered a match at all.
	MinScore float64
	// ConfidentScore is the similarity above which the best match is
	// rendered directly, skipping the model call entirely.
	ConfidentScore float64
}

// DefaultOptions mirrors the tuning the service ships with.
func DefaultOptions() Options {
	return Options{
		TopK:           3,
		MinScore:       0.01,
		ConfidentScore: 0.5,
	}
}

// Service orchestrates one chat turn per call. Each turn makes a single
// pass: classify, retrieve, then either render the cookbook hit or
// generate. The published index is read through the holder so dataset
// reloads take effect between turns without coordination.
type Service struct {
	index      *search.Holder
	classifier *IntentClassifier
	formatter  *Formatter
	opts       Options
	metrics    MetricsRecorder
	logger     *zap.Logger
}

// NewService wires the chat pipeline. A nil metrics recorder disables
// metrics.
func NewService(
	index *search.Holder,
	classifier *IntentClassifier,
	formatter *Formatter,
	opts Options,
	metrics MetricsRecorder,
	logger *zap.Logger,
) *Service {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &Service{
		index:      index,
		classifier: classifier,
		formatter:  formatter,
		opts:       opts,
		metrics:    metrics,
		logger:     logger,
	}
}

// Ask implements inbound.ChatService.
func (s *Service) Ask(ctx context.Context, sessionID, message string) (*inbound.ChatResponse, error) {
	message = strings.TrimSpace(message)

	log := s.logger.With(zap.String("session_id", sessionID))

	if message == "" || !s.classifier.Classify(ctx, message) {
		log.Info("Message declined as off-topic")
		return s.respond(log, inbound.OutcomeRejected, declineReply, nil), nil
	}

	matches, err := s.index.Get().Retrieve(message, s.opts.TopK, s.opts.MinScore)
	if err != nil {
		return nil, err
	}

	if len(matches) > 0 && matches[0].Score >= s.opts.ConfidentScore {
		log.Info("Serving cookbook recipe directly",
			zap.String("recipe", matches[0].Recipe.Title()),
			zap.Float64("score", matches[0].Score))
		return s.respond(log, inbound.OutcomeDirect, renderRecipeHTML(matches[0].Recipe), matches), nil
	}

	reply, fellBack := s.formatter.Generate(ctx, message, matches)
	outcome := inbound.OutcomeGenerated
	if fellBack {
		outcome = inbound.OutcomeFallback
	}
	log.Info("Generated chat reply",
		zap.String("outcome", string(outcome)),
		zap.Int("candidates", len(matches)))
	return s.respond(log, outcome, reply, matches), nil
}

func (s *Service) respond(log *zap.Logger, outcome inbound.ChatOutcome, reply string, matches []search.Match) *inbound.ChatResponse {
	s.metrics.RecordChatOutcome(string(outcome))

	resp := &inbound.ChatResponse{
		ReplyHTML: reply,
		Outcome:   outcome,
	}
	for _, m := range matches {
		resp.Matches = append(resp.Matches, inbound.RecipeMatch{
			Title: m.Recipe.Title(),
			Score: m.Score,
		})
	}
	return resp
}

var _ inbound.ChatService = (*Service)(nil)
