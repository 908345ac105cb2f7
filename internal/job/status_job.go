package job

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const defaultStatusInterval = 4 * time.Hour

type StatusCycleRunner interface {
	RunCycle(ctx context.Context) error
}

// StatusJob refreshes the published bot status on a fixed interval.
type StatusJob struct {
	tracer       trace.Tracer
	logger       *zap.Logger
	runner       StatusCycleRunner
	pollInterval time.Duration
}

func NewStatusJob(tracer trace.Tracer, logger *zap.Logger, runner StatusCycleRunner, pollInterval time.Duration) *StatusJob {
	if pollInterval <= 0 {
		pollInterval = defaultStatusInterval
	}
	return &StatusJob{tracer: tracer, logger: logger, runner: runner, pollInterval: pollInterval}
}

// Start runs one cycle immediately, then one per interval. Blocks until ctx
// is cancelled.
func (j *StatusJob) Start(ctx context.Context) {
	j.logger.Info("status job starting", zap.Duration("interval", j.pollInterval))

	j.runOnce(ctx)

	ticker := time.NewTicker(j.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			j.logger.Info("status job stopped")
			return
		case <-ticker.C:
			j.runOnce(ctx)
		}
	}
}

// runOnce swallows cycle errors; the runner already logged them.
func (j *StatusJob) runOnce(ctx context.Context) {
	ctx, span := j.tracer.Start(ctx, "status-job.run-once")
	defer span.End()

	if err := j.runner.RunCycle(ctx); err != nil {
		j.logger.Debug("status cycle skipped", zap.Error(err))
	}
}
