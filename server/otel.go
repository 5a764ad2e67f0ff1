package server

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/lab1702/solpilot/server"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// simMetrics are the simulation instruments. They record into the global
// meter provider, a no-op unless the process installs an SDK.
type simMetrics struct {
	ticks        metric.Int64Counter
	farTicks     metric.Int64Counter
	pilotPanics  metric.Int64Counter
	tickDuration metric.Float64Histogram
}

func newSimMetrics() (*simMetrics, error) {
	m := meter()
	var (
		sm  simMetrics
		err error
	)

	sm.ticks, err = m.Int64Counter(
		"solpilot.ticks",
		metric.WithDescription("Pilot ticks run in full detail"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create ticks counter: %w", err)
	}

	sm.farTicks, err = m.Int64Counter(
		"solpilot.far_ticks",
		metric.WithDescription("Pilot ticks run on the far path"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create far ticks counter: %w", err)
	}

	sm.pilotPanics, err = m.Int64Counter(
		"solpilot.pilot_panics",
		metric.WithDescription("Pilot ticks aborted by a panic"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create pilot panics counter: %w", err)
	}

	sm.tickDuration, err = m.Float64Histogram(
		"solpilot.tick.duration",
		metric.WithDescription("Wall time of one simulation step"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create tick duration histogram: %w", err)
	}

	return &sm, nil
}

func (m *simMetrics) recordStep(ctx context.Context, near, far int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.ticks.Add(ctx, int64(near))
	m.farTicks.Add(ctx, int64(far))
	m.tickDuration.Record(ctx, elapsed.Seconds())
}

func (m *simMetrics) recordPanic(ctx context.Context, pilotKind string) {
	if m == nil {
		return
	}
	m.pilotPanics.Add(ctx, 1, metric.WithAttributes(attribute.String("pilot", pilotKind)))
}
