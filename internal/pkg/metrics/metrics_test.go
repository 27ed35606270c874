package metrics

import (
	"database/sql"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

type fakePoolStat struct{}

func (fakePoolStat) AcquiredConns() int32 { return 3 }
func (fakePoolStat) IdleConns() int32     { return 2 }
func (fakePoolStat) TotalConns() int32    { return 5 }

func TestUpdateDBPoolMetrics(t *testing.T) {
	UpdateDBPoolMetrics(fakePoolStat{})
	if got := testutil.ToFloat64(DBPoolConnsOpen); got != 5 {
		t.Errorf("expected 5 open conns, got %v", got)
	}

	UpdateDBPoolMetrics(sql.DBStats{OpenConnections: 7, InUse: 4, Idle: 3})
	if got := testutil.ToFloat64(DBPoolConnsAcquired); got != 4 {
		t.Errorf("expected 4 acquired conns, got %v", got)
	}
	if got := testutil.ToFloat64(DBPoolConnsIdle); got != 3 {
		t.Errorf("expected 3 idle conns, got %v", got)
	}
}

func TestObserveReport(t *testing.T) {
	before := testutil.ToFloat64(ReportsGenerated.WithLabelValues("cities", "Global", "global", "ok"))
	ObserveReport("cities", "Global", "global", "ok", 12, 3*time.Millisecond)
	after := testutil.ToFloat64(ReportsGenerated.WithLabelValues("cities", "Global", "global", "ok"))
	if after != before+1 {
		t.Errorf("expected counter to increase by 1, got %v -> %v", before, after)
	}
}

func TestHandlerServesMetrics(t *testing.T) {
	app := fiber.New()
	app.Use(Middleware())
	app.Get("/ping", func(c *fiber.Ctx) error { return c.SendString("pong") })
	app.Get("/metrics", Handler())

	if _, err := app.Test(httptest.NewRequest("GET", "/ping", nil)); err != nil {
		t.Fatalf("ping: %v", err)
	}

	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "worldreports_http_requests_total") {
		t.Errorf("expected http metrics in output")
	}
}
