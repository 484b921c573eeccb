// Package container provides dependency injection wiring using Uber FX
package container

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/alchemorsel/souschef/internal/application/chat"
	"github.com/alchemorsel/souschef/internal/infrastructure/ai"
	"github.com/alchemorsel/souschef/internal/infrastructure/ai/gemini"
	aimock "github.com/alchemorsel/souschef/internal/infrastructure/ai/mock"
	"github.com/alchemorsel/souschef/internal/infrastructure/config"
	"github.com/alchemorsel/souschef/internal/infrastructure/dataset"
	"github.com/alchemorsel/souschef/internal/infrastructure/http/webserver"
	"github.com/alchemorsel/souschef/internal/infrastructure/monitoring"
	"github.com/alchemorsel/souschef/internal/infrastructure/persistence/memory"
	rediscache "github.com/alchemorsel/souschef/internal/infrastructure/persistence/redis"
	"github.com/alchemorsel/souschef/internal/infrastructure/search"
	"github.com/alchemorsel/souschef/internal/ports/inbound"
	"github.com/alchemorsel/souschef/internal/ports/outbound"
	"github.com/alchemorsel/souschef/pkg/logger"
)

// New assembles the application container.
func New(configPath string) *fx.App {
	return fx.New(
		fx.Provide(func() (*config.Config, error) {
			return config.Load(configPath)
		}),
		fx.Provide(newLogger),
		fx.Provide(newMetrics),
		fx.Provide(newRecipeSource),
		fx.Provide(newIndexHolder),
		fx.Provide(newCacheRepository),
		fx.Provide(newCompletionService),
		fx.Provide(newChatService),
		fx.Provide(newServer),
		fx.Invoke(registerLifecycle),
		fx.WithLogger(fxLogger),
	)
}

func fxLogger(log *zap.Logger) fxevent.Logger {
	return &fxevent.ZapLogger{Logger: log.Named("fx")}
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	return logger.New(logger.Config{
		Level:       cfg.App.LogLevel,
		Format:      cfg.App.LogFormat,
		Development: cfg.IsDevelopment(),
	})
}

func newMetrics() *monitoring.Metrics {
	return monitoring.NewMetrics(prometheus.DefaultRegisterer)
}

func newRecipeSource(cfg *config.Config, log *zap.Logger) outbound.RecipeSource {
	return dataset.NewCSVSource(cfg.Dataset.Path, log)
}

func newIndexHolder(cfg *config.Config, source outbound.RecipeSource, metrics *monitoring.Metrics, log *zap.Logger) (*search.Holder, error) {
	recipes, err := source.Load(context.Background())
	if err != nil {
		return nil, err
	}
	index, err := search.BuildIndex(recipes)
	if err != nil {
		return nil, err
	}
	metrics.SetIndexSize(index.Size())
	log.Info("Search index built", zap.Int("recipes", index.Size()))
	return search.NewHolder(index), nil
}

// newCacheRepository builds the completion cache for the configured
// backend, or nil when caching is disabled. Either backend owns a
// resource (a sweep goroutine, a connection pool) that is released on
// shutdown.
func newCacheRepository(cfg *config.Config, lc fx.Lifecycle) (outbound.CacheRepository, error) {
	if !cfg.Cache.Enabled {
		return nil, nil
	}

	if cfg.Cache.Backend == "redis" {
		cache, err := rediscache.NewCacheRepository(
			context.Background(), cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return cache.Close()
			},
		})
		return cache, nil
	}

	cache := memory.NewCacheRepository()
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			cache.Close()
			return nil
		},
	})
	return cache, nil
}

func newCompletionService(cfg *config.Config, cache outbound.CacheRepository, metrics *monitoring.Metrics, log *zap.Logger) outbound.CompletionService {
	var model outbound.CompletionService
	switch {
	case cfg.AI.Provider == "mock" || cfg.AI.APIKey == "":
		if cfg.AI.Provider != "mock" {
			log.Warn("No model API key configured, falling back to offline responses")
		}
		model = aimock.NewClient(log)
	default:
		model = gemini.NewClient(cfg.AI.APIKey, cfg.AI.Model, cfg.AI.Timeout, log)
	}

	if cache == nil {
		return model
	}
	return ai.NewCachedCompletionService(model, cache, cfg.Cache.TTL, metrics, log)
}

func newChatService(cfg *config.Config, holder *search.Holder, model outbound.CompletionService, metrics *monitoring.Metrics, log *zap.Logger) inbound.ChatService {
	return chat.NewService(
		holder,
		chat.NewIntentClassifier(model, metrics, log),
		chat.NewFormatter(model, metrics, log),
		chat.Options{
			TopK:           cfg.Retrieval.TopK,
			MinScore:       cfg.Retrieval.MinScore,
			ConfidentScore: cfg.Retrieval.ConfidentScore,
		},
		metrics,
		log,
	)
}

func newServer(cfg *config.Config, chatService inbound.ChatService, holder *search.Holder, metrics *monitoring.Metrics, log *zap.Logger) (*webserver.Server, error) {
	return webserver.NewServer(cfg, chatService, holder, metrics, log)
}

func registerLifecycle(
	lc fx.Lifecycle,
	cfg *config.Config,
	server *webserver.Server,
	source outbound.RecipeSource,
	holder *search.Holder,
	log *zap.Logger,
) {
	var watcher *dataset.Watcher
	watchCtx, cancelWatch := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if cfg.Dataset.Watch && cfg.Dataset.Path != "" {
				watcher = dataset.NewWatcher(cfg.Dataset.Path, source, holder, log)
				if err := watcher.Start(watchCtx); err != nil {
					return err
				}
			}

			go func() {
				if err := server.Start(); err != nil {
					log.Error("HTTP server stopped unexpectedly", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			cancelWatch()
			if watcher != nil {
				if err := watcher.Stop(); err != nil {
					log.Warn("Dataset watcher shutdown failed", zap.Error(err))
				}
			}

			shutdownCtx, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}
