package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/supportkit/pathfinder"
	"github.com/supportkit/pathfinder/internal/config"
	"github.com/supportkit/pathfinder/pkg/adapters/file"
	"github.com/supportkit/pathfinder/pkg/adapters/gemini"
	"github.com/supportkit/pathfinder/pkg/adapters/memory"
	"github.com/supportkit/pathfinder/pkg/adapters/redis"
	"github.com/supportkit/pathfinder/pkg/audit"
	"github.com/supportkit/pathfinder/pkg/observability"
	"github.com/supportkit/pathfinder/pkg/ports"
	"github.com/supportkit/pathfinder/pkg/session"
)

// lockPrefix namespaces the distributed session locks in Redis.
const lockPrefix = "pathfinder:lock:"

// Runtime is everything a command needs to serve the flow.
type Runtime struct {
	Engine     *pathfinder.Engine
	Navigation *session.Navigation
	Metrics    *observability.Metrics

	closers []func() error
}

// RuntimeOptions selects the optional parts of a Runtime.
type RuntimeOptions struct {
	// Metrics registers Prometheus hooks and sink counters.
	Metrics bool

	// TextService replaces the Gemini client, mainly for tests.
	TextService ports.TextService
}

// NewRuntime builds the engine and session stack described by cfg.
// Without a Gemini key the engine still navigates; generation fails with a readable message.
func NewRuntime(ctx context.Context, cfg config.Config, logger *slog.Logger, opts RuntimeOptions) (*Runtime, error) {
	rt := &Runtime{}

	engineOpts := []pathfinder.Option{
		pathfinder.WithLogger(logger),
		pathfinder.WithLanguage(cfg.Language),
		pathfinder.WithJournal(audit.NewJournal(
			audit.WithCapacity(cfg.JournalCapacity),
			audit.WithLogger(logger),
		)),
		pathfinder.WithLifecycleHooks(observability.LoggingHooks(logger)),
	}
	if cfg.FlowFile != "" {
		engineOpts = append(engineOpts, pathfinder.WithLoader(file.NewLoader(cfg.FlowFile)))
	}

	switch {
	case opts.TextService != nil:
		engineOpts = append(engineOpts, pathfinder.WithTextService(opts.TextService))
		if structured, ok := opts.TextService.(ports.StructuredService); ok {
			engineOpts = append(engineOpts, pathfinder.WithStructuredService(structured))
		}
	case cfg.GeminiAPIKey != "":
		client, err := gemini.New(ctx, cfg.GeminiAPIKey,
			gemini.WithModel(cfg.GeminiModel),
			gemini.WithLogger(logger),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create gemini client: %w", err)
		}
		rt.closers = append(rt.closers, client.Close)
		engineOpts = append(engineOpts,
			pathfinder.WithTextService(client),
			pathfinder.WithStructuredService(client),
		)
	default:
		logger.Warn("GEMINI_API_KEY is not set; script generation and assistants are disabled")
	}

	if opts.Metrics {
		rt.Metrics = observability.NewMetrics()
		engineOpts = append(engineOpts,
			pathfinder.WithLifecycleHooks(rt.Metrics.Hooks()),
			pathfinder.WithLogSink(rt.Metrics.Sink),
		)
	}

	eng, err := pathfinder.New(engineOpts...)
	if err != nil {
		rt.Close()
		return nil, err
	}
	rt.Engine = eng

	manager, err := rt.newManager(ctx, cfg, logger)
	if err != nil {
		rt.Close()
		return nil, err
	}
	rt.Navigation = session.NewNavigation(eng, manager)
	return rt, nil
}

func (rt *Runtime) newManager(ctx context.Context, cfg config.Config, logger *slog.Logger) (*session.Manager, error) {
	if cfg.RedisAddr == "" {
		var store ports.SessionStore = memory.NewStore()
		if cfg.SessionDir != "" {
			store = file.NewStore(cfg.SessionDir)
			logger.Debug("Using file session store", "dir", cfg.SessionDir)
		}
		return session.NewManager(store, session.WithLogger(logger)), nil
	}

	store := redis.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, redis.WithTTL(cfg.SessionTTL))
	rt.closers = append(rt.closers, store.Close)
	if err := store.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to reach redis at %s: %w", cfg.RedisAddr, err)
	}
	logger.Info("Using redis session store", "addr", cfg.RedisAddr, "ttl", cfg.SessionTTL)

	return session.NewManager(store,
		session.WithLocker(redis.NewLocker(store.Client(), lockPrefix)),
		session.WithLogger(logger),
	), nil
}

// Close releases the backends in reverse order of creation.
func (rt *Runtime) Close() error {
	var errs []error
	for i := len(rt.closers) - 1; i >= 0; i-- {
		if err := rt.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	rt.closers = nil
	return errors.Join(errs...)
}
