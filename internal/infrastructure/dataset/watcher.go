package dataset

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/alchemorsel/souschef/internal/infrastructure/search"
	"github.com/alchemorsel/souschef/internal/ports/outbound"
)

// Watcher rebuilds the search index when the dataset file changes on disk.
// Rebuilds happen off the request path; readers keep the previous index
// until a complete replacement is published, and a failed reload leaves
// the current index untouched.
type Watcher struct {
	path     string
	source   outbound.RecipeSource
	holder   *search.Holder
	logger   *zap.Logger
	debounce time.Duration

	fsWatcher *fsnotify.Watcher
	done      chan struct{}
}

// NewWatcher creates a watcher for the dataset file at path.
func NewWatcher(path string, source outbound.RecipeSource, holder *search.Holder, logger *zap.Logger) *Watcher {
	return &Watcher{
		path:     path,
		source:   source,
		holder:   holder,
		logger:   logger,
		debounce: 500 * time.Millisecond,
		done:     make(chan struct{}),
	}
}

// Start begins watching the dataset's directory. Watching the directory
// rather than the file survives editors and sync tools that replace the
// file with a rename.
func (w *Watcher) Start(ctx context.Context) error {
	if w.path == "" {
		w.logger.Info("No dataset path configured, hot reload disabled")
		close(w.done)
		return nil
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := fsWatcher.Add(filepath.Dir(w.path)); err != nil {
		fsWatcher.Close()
		return err
	}
	w.fsWatcher = fsWatcher

	go w.run(ctx)
	return nil
}

// Stop shuts the watcher down and waits for its goroutine to exit.
func (w *Watcher) Stop() error {
	if w.fsWatcher == nil {
		return nil
	}
	err := w.fsWatcher.Close()
	<-w.done
	return err
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.done)

	var timer *time.Timer
	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			// Coalesce the event burst a single save produces.
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			pending = timer.C

		case <-pending:
			pending = nil
			w.reload(ctx)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("Dataset watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) reload(ctx context.Context) {
	w.logger.Info("Dataset changed, rebuilding index", zap.String("path", w.path))

	recipes, err := w.source.Load(ctx)
	if err != nil {
		w.logger.Error("Dataset reload failed, keeping current index", zap.Error(err))
		return
	}

	index, err := search.BuildIndex(recipes)
	if err != nil {
		w.logger.Error("Index rebuild failed, keeping current index", zap.Error(err))
		return
	}

	w.holder.Swap(index)
	w.logger.Info("Index rebuilt", zap.Int("recipes", index.Size()))
}
