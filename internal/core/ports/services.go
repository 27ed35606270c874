package ports

import (
	"context"

	"github.com/samirrijal/worldreports/internal/core/domain"
)

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishReportGenerated(ctx context.Context, event *domain.ReportEvent) error
}

// EventSubscriber subscribes to domain events from a message broker.
type EventSubscriber interface {
	SubscribeReportEvents(ctx context.Context, handler func(ctx context.Context, event *domain.ReportEvent) error) error
}

// ReportGenerator produces one materialized report per request.
type ReportGenerator interface {
	Generate(ctx context.Context, req domain.Request) (*domain.Report, error)
}
