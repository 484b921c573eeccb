// Package inbound defines the inbound ports (use case interfaces) for the application
package inbound

import "context"

// ChatService answers cooking questions for a session.
type ChatService interface {
	// Ask processes one user message and returns the assistant reply.
	Ask(ctx context.Context, sessionID, message string) (*ChatResponse, error)
}

// ChatResponse is the result of a single chat exchange.
type ChatResponse struct {
	// ReplyHTML is the assistant reply as a sanitized HTML fragment.
	ReplyHTML string

	// Outcome records how the reply was produced.
	Outcome ChatOutcome

	// Matches holds the retrieved recipe titles with their scores,
	// in descending score order. Empty when the message was rejected.
	Matches []RecipeMatch
}

// ChatOutcome enumerates the terminal paths of a chat exchange.
type ChatOutcome string

const (
	// OutcomeRejected means the message was classified as off-topic.
	OutcomeRejected ChatOutcome = "rejected"
	// OutcomeDirect means a confident retrieval hit was rendered directly.
	OutcomeDirect ChatOutcome = "direct"
	// OutcomeGenerated means retrieved recipes were summarized by the model.
	OutcomeGenerated ChatOutcome = "generated"
	// OutcomeFallback means the model was unavailable and a placeholder
	// or locally rendered reply was served instead.
	OutcomeFallback ChatOutcome = "fallback"
)

// RecipeMatch pairs a recipe title with its retrieval score.
type RecipeMatch struct {
	Title string  `json:"title"`
	Score float64 `json:"score"`
}
