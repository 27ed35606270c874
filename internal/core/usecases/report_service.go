package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/samirrijal/worldreports/internal/core/domain"
	"github.com/samirrijal/worldreports/internal/core/ports"
	"github.com/samirrijal/worldreports/internal/core/reports"
	"github.com/samirrijal/worldreports/internal/pkg/metrics"
	"github.com/samirrijal/worldreports/internal/pkg/telemetry"
)

// ReportService runs the report pipeline: resolve, read one snapshot,
// aggregate and assemble. It keeps no state between calls and is safe for
// concurrent use.
type ReportService struct {
	store     ports.GeographyStore
	publisher ports.EventPublisher
	tracer    trace.Tracer
	now       func() time.Time
}

// ReportOption customises a ReportService.
type ReportOption func(*ReportService)

// WithPublisher announces every served report on the broker.
func WithPublisher(p ports.EventPublisher) ReportOption {
	return func(s *ReportService) { s.publisher = p }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) ReportOption {
	return func(s *ReportService) { s.now = now }
}

// NewReportService creates a new ReportService.
func NewReportService(store ports.GeographyStore, opts ...ReportOption) *ReportService {
	s := &ReportService{
		store:  store,
		tracer: telemetry.Tracer(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate produces the report for req. Invalid requests fail with a client
// error before the store is touched; store failures are wrapped in
// domain.ErrStoreUnavailable. An empty match is an empty report, not an error.
func (s *ReportService) Generate(ctx context.Context, req domain.Request) (*domain.Report, error) {
	start := s.now()
	ctx, span := s.tracer.Start(ctx, "ReportService.Generate", trace.WithAttributes(
		attribute.String("report.family", string(req.Family)),
		attribute.String("report.scope", string(req.Scope)),
		attribute.Int("report.limit", int(req.Limit)),
	))
	defer span.End()

	plan, err := reports.Resolve(req)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		metrics.ObserveReport(string(req.Family), string(req.Scope), "", "invalid", 0, s.now().Sub(start))
		return nil, err
	}
	span.SetAttributes(attribute.String("report.mode", plan.Mode.String()))

	var report *domain.Report
	err = s.store.Snapshot(ctx, func(ctx context.Context, r ports.GeographyReader) error {
		in, err := reports.Fetch(ctx, plan, r)
		if err != nil {
			return err
		}
		report = reports.Assemble(plan, in)
		return nil
	})
	elapsed := s.now().Sub(start)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "store failure")
		metrics.ObserveReport(string(plan.Family), string(plan.Level), plan.Mode.String(), "store_error", 0, elapsed)
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		slog.ErrorContext(ctx, "report generation failed", "request", req.String(), "error", err)
		return nil, fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}

	rows := report.Len()
	span.SetAttributes(attribute.Int("report.rows", rows))
	metrics.ObserveReport(string(plan.Family), string(plan.Level), plan.Mode.String(), "ok", rows, elapsed)
	slog.DebugContext(ctx, "report generated", "request", req.String(), "rows", rows, "duration", elapsed)

	s.announce(ctx, report, elapsed)
	return report, nil
}

// announce publishes a report event. Broker failures never fail the report.
func (s *ReportService) announce(ctx context.Context, report *domain.Report, elapsed time.Duration) {
	if s.publisher == nil {
		return
	}
	req := report.Request
	event := &domain.ReportEvent{
		ID:         uuid.NewString(),
		Family:     req.Family,
		Scope:      req.Scope,
		Name:       req.Name,
		Country:    req.Country,
		Limit:      int(req.Limit),
		Rows:       report.Len(),
		DurationMS: elapsed.Milliseconds(),
		At:         s.now().UTC(),
	}
	if err := s.publisher.PublishReportGenerated(ctx, event); err != nil {
		metrics.EventsPublished.WithLabelValues("error").Inc()
		slog.WarnContext(ctx, "publish report event", "event_id", event.ID, "error", err)
		return
	}
	metrics.EventsPublished.WithLabelValues("ok").Inc()
}
