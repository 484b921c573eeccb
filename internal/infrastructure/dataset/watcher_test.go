package dataset

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/alchemorsel/souschef/internal/domain/recipe"
	"github.com/alchemorsel/souschef/internal/infrastructure/search"
)

const watcherCSVHeader = "Title,Ingredients,Instructions,Cleaned_Ingredients\n"

func TestWatcherReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recipes.csv")
	require.NoError(t, os.WriteFile(path,
		[]byte(watcherCSVHeader+"Toast,Bread,Toast the bread.,bread\n"), 0o644))

	source := NewCSVSource(path, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	recipes, err := source.Load(ctx)
	require.NoError(t, err)
	index, err := search.BuildIndex(recipes)
	require.NoError(t, err)
	holder := search.NewHolder(index)

	w := NewWatcher(path, source, holder, zap.NewNop())
	w.debounce = 10 * time.Millisecond
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	require.NoError(t, os.WriteFile(path,
		[]byte(watcherCSVHeader+
			"Toast,Bread,Toast the bread.,bread\n"+
			"Omelette,\"Eggs, Butter\",Whisk and fry.,eggs butter\n"), 0o644))

	assert.Eventually(t, func() bool {
		return holder.Get().Size() == 2
	}, 5*time.Second, 20*time.Millisecond)
}

func TestWatcherKeepsIndexOnBadReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recipes.csv")
	require.NoError(t, os.WriteFile(path,
		[]byte(watcherCSVHeader+"Toast,Bread,Toast the bread.,bread\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	recipes, err := NewCSVSource(path, zap.NewNop()).Load(ctx)
	require.NoError(t, err)
	index, err := search.BuildIndex(recipes)
	require.NoError(t, err)
	holder := search.NewHolder(index)

	// A source that always fails stands in for a corrupted rewrite.
	w := NewWatcher(path, failingSource{}, holder, zap.NewNop())
	w.debounce = 10 * time.Millisecond
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0o644))

	time.Sleep(200 * time.Millisecond)
	assert.Same(t, index, holder.Get())
}

func TestWatcherWithoutPathIsNoop(t *testing.T) {
	holder := search.NewHolder(nil)
	w := NewWatcher("", nil, holder, zap.NewNop())

	require.NoError(t, w.Start(context.Background()))
	assert.NoError(t, w.Stop())
}

type failingSource struct{}

func (failingSource) Load(ctx context.Context) ([]*recipe.Recipe, error) {
	return nil, context.DeadlineExceeded
}
