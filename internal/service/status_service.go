package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"cbbi-status-bot/internal/domain"
	"cbbi-status-bot/internal/metrics"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type SnapshotProvider interface {
	FetchSnapshot(ctx context.Context) (*domain.SentimentSnapshot, error)
}

// StatusPublisher pushes a display status to a chat surface. Publishing is
// best-effort; implementations log their own failures.
type StatusPublisher interface {
	Publish(ctx context.Context, status domain.DisplayStatus)
}

type CycleRecorder interface {
	RecordCycle(result string)
	RecordLatest(confidence, price float64, unixSeconds int64)
	RecordFetchLatency(seconds float64)
}

// StatusService runs the fetch, extract, format and publish cycle and
// remembers the last status it published.
type StatusService struct {
	tracer    trace.Tracer
	logger    *zap.Logger
	provider  SnapshotProvider
	publisher StatusPublisher
	recorder  CycleRecorder
	now       func() time.Time

	mu      sync.RWMutex
	current *domain.DisplayStatus
}

func NewStatusService(
	tracer trace.Tracer,
	logger *zap.Logger,
	provider SnapshotProvider,
	publisher StatusPublisher,
	recorder CycleRecorder,
) *StatusService {
	return &StatusService{
		tracer:    tracer,
		logger:    logger,
		provider:  provider,
		publisher: publisher,
		recorder:  recorder,
		now:       time.Now,
	}
}

// RunCycle fetches one snapshot and publishes its newest values. On failure
// nothing is published and the previous status stays in place.
func (s *StatusService) RunCycle(ctx context.Context) error {
	ctx, span := s.tracer.Start(ctx, "status-service.run-cycle")
	defer span.End()

	started := s.now()
	snapshot, err := s.provider.FetchSnapshot(ctx)
	s.recordLatency(started)
	if err != nil {
		return s.fail(span, "failed to fetch sentiment data", err)
	}
	s.logger.Info("sentiment data fetched",
		zap.Int("confidence_points", len(snapshot.Confidence)),
		zap.Int("price_points", len(snapshot.Price)),
	)

	status, err := domain.DisplayStatusFor(snapshot)
	if err != nil {
		return s.fail(span, "failed to extract latest values", err)
	}
	status.UpdatedAt = s.now().UTC()
	span.SetAttributes(
		attribute.String("nickname", status.Nickname),
		attribute.String("activity", status.ActivityText),
	)

	s.publisher.Publish(ctx, status)

	s.mu.Lock()
	s.current = &status
	s.mu.Unlock()

	if s.recorder != nil {
		s.recorder.RecordCycle(metrics.ResultPublished)
		s.recorder.RecordLatest(status.Confidence, status.PriceUSD, status.UpdatedAt.Unix())
	}
	s.logger.Info("status published",
		zap.String("nickname", status.Nickname),
		zap.String("activity", status.ActivityText),
	)
	return nil
}

// Current returns the last published status, if any cycle has succeeded.
func (s *StatusService) Current() (domain.DisplayStatus, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return domain.DisplayStatus{}, false
	}
	return *s.current, true
}

func (s *StatusService) fail(span trace.Span, msg string, err error) error {
	span.RecordError(err)
	s.logger.Error(msg, zap.Error(err))
	if s.recorder != nil {
		s.recorder.RecordCycle(metrics.ResultFailed)
	}
	return fmt.Errorf("%s: %w", msg, err)
}

func (s *StatusService) recordLatency(started time.Time) {
	if s.recorder != nil {
		s.recorder.RecordFetchLatency(s.now().Sub(started).Seconds())
	}
}
