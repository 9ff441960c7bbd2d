package observability_test

import (
	"context"
	"testing"

	"github.com/kadirpekel/hector-driverloop/internal/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsRegistersCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	ctx := context.Background()
	m.Iterations.Add(ctx, 1)
	m.ToolCalls.Add(ctx, 1)
	m.Tokens.Add(ctx, 42)

	families, err := reg.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, families)

	var found bool
	for _, f := range families {
		if f.GetName() == "driverloop_iterations_total" {
			found = true
		}
	}
	require.True(t, found)
}

func TestNewTracerProducesSpans(t *testing.T) {
	tracer, shutdown, err := observability.NewTracer(context.Background())
	require.NoError(t, err)
	defer shutdown(context.Background())

	_, span := observability.StartIteration(context.Background(), tracer, 1)
	require.True(t, span.SpanContext().IsValid())
	span.End()
}
