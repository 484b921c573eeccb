// Package ai provides decorators shared by the completion service
// implementations.
package ai

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"go.uber.org/zap"

	"github.com/alchemorsel/souschef/internal/ports/outbound"
)

// CacheMetrics is the slice of the monitoring surface the cache decorator
// feeds.
type CacheMetrics interface {
	RecordCacheOp(result string)
}

type noopCacheMetrics struct{}

func (noopCacheMetrics) RecordCacheOp(string) {}

// CachedCompletionService wraps a completion service with response caching.
// Identical prompts within the TTL are served from the cache, which keeps
// repeated intent checks and digests off the model API. Cache failures are
// logged and ignored; the wrapped service is the source of truth.
type CachedCompletionService struct {
	inner   outbound.CompletionService
	cache   outbound.CacheRepository
	ttl     time.Duration
	metrics CacheMetrics
	logger  *zap.Logger
}

// NewCachedCompletionService wraps inner with a cache. A nil metrics
// recorder disables metrics.
func NewCachedCompletionService(
	inner outbound.CompletionService,
	cache outbound.CacheRepository,
	ttl time.Duration,
	metrics CacheMetrics,
	logger *zap.Logger,
) *CachedCompletionService {
	if metrics == nil {
		metrics = noopCacheMetrics{}
	}
	return &CachedCompletionService{
		inner:   inner,
		cache:   cache,
		ttl:     ttl,
		metrics: metrics,
		logger:  logger,
	}
}

// Complete implements outbound.CompletionService.
func (s *CachedCompletionService) Complete(ctx context.Context, prompt string) (string, error) {
	key := cacheKey(prompt)

	if cached, err := s.cache.Get(ctx, key); err == nil && cached != nil {
		s.metrics.RecordCacheOp("hit")
		s.logger.Debug("Completion cache hit", zap.String("key", key))
		return string(cached), nil
	}
	s.metrics.RecordCacheOp("miss")

	reply, err := s.inner.Complete(ctx, prompt)
	if err != nil {
		return "", err
	}

	if err := s.cache.Set(ctx, key, []byte(reply), s.ttl); err != nil {
		s.logger.Warn("Failed to cache completion", zap.String("key", key), zap.Error(err))
	}
	return reply, nil
}

func cacheKey(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return "completion:" + hex.EncodeToString(sum[:16])
}
