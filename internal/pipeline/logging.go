package pipeline

import (
	"context"
	"log/slog"
	"time"

	apperrors "github.com/agam25rpro/Personal-Finance-Webapp/internal/errors"
	"github.com/agam25rpro/Personal-Finance-Webapp/internal/infrastructure"
)

func (o *Orchestrator) logRunStart(ctx context.Context, runID, filename string, size int) {
	o.logger.InfoContext(ctx, "run_start",
		slog.String("run_id", runID),
		slog.String("filename", filename),
		slog.Int("bytes", size))
}

func (o *Orchestrator) logRunComplete(ctx context.Context, runID string, rows, days int, duration time.Duration) {
	o.logger.InfoContext(ctx, "run_complete",
		slog.String("run_id", runID),
		slog.Int("rows", rows),
		slog.Int("days", days),
		slog.Duration("duration", duration))
}

func (o *Orchestrator) logStageComplete(ctx context.Context, runID, stage string, duration time.Duration) {
	o.logger.DebugContext(ctx, "stage_complete",
		slog.String("run_id", runID),
		slog.String("stage", stage),
		slog.Duration("duration", duration))
}

// logStageError logs input problems at warn and everything else at error.
func (o *Orchestrator) logStageError(ctx context.Context, runID, stage string, err error) {
	level := slog.LevelError
	if appErr, ok := apperrors.AsAppError(err); ok && appErr.UserFacing() {
		level = slog.LevelWarn
	}
	infrastructure.WithError(o.logger, err).LogAttrs(ctx, level, "stage_error",
		slog.String("run_id", runID),
		slog.String("stage", stage),
		slog.String("error_type", string(apperrors.TypeOf(err))))
}
