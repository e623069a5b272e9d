package observability

import (
	"context"
	"log/slog"

	"github.com/supportkit/pathfinder/pkg/domain"
)

// LoggingHooks returns lifecycle hooks that log navigator activity.
// Transitions are logged at debug level, generations at info.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTransition: func(e *domain.TransitionEvent) {
			logger.Debug("transition",
				"kind", e.Kind,
				"path", e.Path.String(),
				"node_id", e.NodeID,
				"final", e.Final,
			)
		},
		OnGenerate: func(ctx context.Context, e *domain.GenerateEvent) {
			level := slog.LevelInfo
			if e.Failed {
				level = slog.LevelWarn
			}
			logger.Log(ctx, level, "script_generated",
				"path", e.Path.String(),
				"failed", e.Failed,
				"stale", e.Stale,
				"duration", e.Duration,
			)
		},
	}
}
