package ai

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/alchemorsel/souschef/internal/infrastructure/persistence/memory"
	"github.com/alchemorsel/souschef/pkg/errors"
)

type recordingCacheMetrics struct {
	ops []string
}

func (m *recordingCacheMetrics) RecordCacheOp(result string) {
	m.ops = append(m.ops, result)
}

type countingModel struct {
	reply string
	err   error
	calls int
}

func (m *countingModel) Complete(ctx context.Context, prompt string) (string, error) {
	m.calls++
	return m.reply, m.err
}

func TestCachedCompletionService(t *testing.T) {
	ctx := context.Background()

	newCached := func(t *testing.T, model *countingModel) *CachedCompletionService {
		t.Helper()
		cache := memory.NewCacheRepository()
		t.Cleanup(cache.Close)
		return NewCachedCompletionService(model, cache, time.Minute, nil, zap.NewNop())
	}

	t.Run("RepeatedPrompt_ShouldHitCache", func(t *testing.T) {
		model := &countingModel{reply: "YES"}
		cached := newCached(t, model)

		first, err := cached.Complete(ctx, "same prompt")
		require.NoError(t, err)
		second, err := cached.Complete(ctx, "same prompt")
		require.NoError(t, err)

		assert.Equal(t, "YES", first)
		assert.Equal(t, "YES", second)
		assert.Equal(t, 1, model.calls)
	})

	t.Run("DifferentPrompts_ShouldBothReachModel", func(t *testing.T) {
		model := &countingModel{reply: "ok"}
		cached := newCached(t, model)

		_, err := cached.Complete(ctx, "prompt a")
		require.NoError(t, err)
		_, err = cached.Complete(ctx, "prompt b")
		require.NoError(t, err)

		assert.Equal(t, 2, model.calls)
	})

	t.Run("Lookups_ShouldBeCountedAsHitAndMiss", func(t *testing.T) {
		model := &countingModel{reply: "YES"}
		cache := memory.NewCacheRepository()
		t.Cleanup(cache.Close)
		recorder := &recordingCacheMetrics{}
		cached := NewCachedCompletionService(model, cache, time.Minute, recorder, zap.NewNop())

		_, err := cached.Complete(ctx, "same prompt")
		require.NoError(t, err)
		_, err = cached.Complete(ctx, "same prompt")
		require.NoError(t, err)

		assert.Equal(t, []string{"miss", "hit"}, recorder.ops)
	})

	t.Run("ModelFailure_ShouldNotBeCached", func(t *testing.T) {
		model := &countingModel{err: errors.NewRemoteUnavailableError("gemini", nil)}
		cached := newCached(t, model)

		_, err := cached.Complete(ctx, "prompt")
		assert.Error(t, err)

		model.err = nil
		model.reply = "recovered"
		reply, err := cached.Complete(ctx, "prompt")
		require.NoError(t, err)
		assert.Equal(t, "recovered", reply)
		assert.Equal(t, 2, model.calls)
	})
}
