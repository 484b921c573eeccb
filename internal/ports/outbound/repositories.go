// Package outbound defines the outbound ports (interfaces) for external dependencies
package outbound

import (
	"context"
	"time"

	"github.com/alchemorsel/souschef/internal/domain/recipe"
)

// RecipeSource loads the recipe corpus from a backing store.
// Implementations must return a stable ordering between calls so that
// retrieval ties resolve the same way across rebuilds of the same data.
type RecipeSource interface {
	Load(ctx context.Context) ([]*recipe.Recipe, error)
}

// CompletionService sends a prompt to a language model and returns its reply.
type CompletionService interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
