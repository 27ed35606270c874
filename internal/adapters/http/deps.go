package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"

	"github.com/samirrijal/worldreports/internal/core/ports"
	"github.com/samirrijal/worldreports/internal/core/usecases"
)

// Pinger is anything the readiness probe can check.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Reports ports.ReportGenerator
	Lookups *usecases.LookupService
	Store   Pinger
	NATS    *nats.Conn
	Cache   Pinger

	// RateStorage backs the rate limiter; nil keeps counters in memory.
	RateStorage fiber.Storage
	// RateLimit is requests per minute per IP; 0 disables limiting.
	RateLimit      int
	RequestTimeout time.Duration
	Version        string
}

func (d *Dependencies) requestTimeout() time.Duration {
	if d.RequestTimeout <= 0 {
		return 30 * time.Second
	}
	return d.RequestTimeout
}
