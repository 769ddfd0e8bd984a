package observability

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
)

func TestParseMetricsExporterType(t *testing.T) {
	testcases := []struct {
		in       string
		expected MetricsExporterType
		wantErr  bool
	}{
		{"", NoopMetricsExporter, false},
		{"stdout", ConsoleMetricsExporter, false},
		{" Prometheus ", PrometheusMetricsExporter, false},
		{"otlp", NoopMetricsExporter, true},
	}
	for _, tc := range testcases {
		t.Run(tc.in, func(tt *testing.T) {
			typ, err := ParseMetricsExporterType(tc.in)
			if tc.wantErr {
				require.Error(tt, err)
				require.Contains(tt, err.Error(), "unknown metrics exporter")
			} else {
				require.NoError(tt, err)
			}
			require.Equal(tt, tc.expected, typ)
		})
	}
}

func TestConsoleMetricsExporter(t *testing.T) {
	buf := &bytes.Buffer{}
	shutdown, err := NewConsoleMetricsExporter(time.Hour, time.Second, stdoutmetric.WithWriter(buf))
	require.NoError(t, err)

	counter, err := otel.Meter("xrbtree/observability/test").Int64Counter("test.console.counter")
	require.NoError(t, err)
	counter.Add(context.Background(), 3)

	// Shutdown exports the last collection.
	require.NoError(t, shutdown(context.Background()))
	require.Contains(t, buf.String(), "test.console.counter")
}

func TestNewMetricsExporter(t *testing.T) {
	shutdown, err := NewMetricsExporter(NoopMetricsExporter)
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))

	_, err = NewMetricsExporter(MetricsExporterType("otlp"))
	require.Error(t, err)

	shutdown, err = NewMetricsExporter(PrometheusMetricsExporter)
	require.NoError(t, err)

	counter, err := otel.Meter("xrbtree/observability/test").Int64Counter("test.prometheus.counter")
	require.NoError(t, err)
	counter.Add(context.Background(), 1)

	names, err := GatherPrometheusMetricNames()
	require.NoError(t, err)
	require.Contains(t, names, "test_prometheus_counter_total")
	require.NoError(t, shutdown(context.Background()))
}
