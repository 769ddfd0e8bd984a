package observability

// https://opentelemetry.io/docs/languages/go/exporters/

import (
	"context"
	"sort"
	"strings"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/sdk/metric"

	"github.com/benz9527/xrbtree/lib/infra"
)

type MetricsExporterType string

const (
	NoopMetricsExporter       MetricsExporterType = ""
	ConsoleMetricsExporter    MetricsExporterType = "stdout"
	PrometheusMetricsExporter MetricsExporterType = "prometheus"
)

func ParseMetricsExporterType(s string) (MetricsExporterType, error) {
	typ := MetricsExporterType(strings.ToLower(strings.TrimSpace(s)))
	switch typ {
	case NoopMetricsExporter, ConsoleMetricsExporter, PrometheusMetricsExporter:
		return typ, nil
	}
	return NoopMetricsExporter, infra.NewErrorStack("[observability] unknown metrics exporter <" + s + ">")
}

// NewMetricsExporter installs the global meter provider of the given type.
// The returned callback flushes and shuts it down.
func NewMetricsExporter(typ MetricsExporterType) (func(ctx context.Context) error, error) {
	switch typ {
	case ConsoleMetricsExporter:
		return NewConsoleMetricsExporter(10*time.Second, 5*time.Second)
	case PrometheusMetricsExporter:
		return NewPrometheusMetricsExporter()
	case NoopMetricsExporter:
		return func(ctx context.Context) error { return nil }, nil
	}
	return nil, infra.NewErrorStack("[observability] unknown metrics exporter <" + string(typ) + ">")
}

// NewConsoleMetricsExporter serves for test/dev environment.
func NewConsoleMetricsExporter(interval, timeout time.Duration, opts ...stdoutmetric.Option) (func(ctx context.Context) error, error) {
	exporter, err := stdoutmetric.New(opts...)
	if err != nil {
		return nil, infra.WrapErrorStack(err)
	}
	mp := metric.NewMeterProvider(metric.WithReader(metric.NewPeriodicReader(
		exporter,
		metric.WithInterval(interval),
		metric.WithTimeout(timeout),
	)))
	callback := mp.Shutdown
	otel.SetMeterProvider(mp)
	return callback, nil
}

// NewPrometheusMetricsExporter serves for the product environment.
// The metrics are registered into the prometheus default registry.
func NewPrometheusMetricsExporter() (func(ctx context.Context) error, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return nil, infra.WrapErrorStack(err)
	}
	mp := metric.NewMeterProvider(metric.WithReader(exporter))
	callback := mp.Shutdown
	otel.SetMeterProvider(mp)
	return callback, nil
}

// GatherPrometheusMetricNames lists the metric families currently held by
// the prometheus default registry, sorted by name.
func GatherPrometheusMetricNames() ([]string, error) {
	families, err := promclient.DefaultGatherer.Gather()
	if err != nil {
		return nil, infra.WrapErrorStack(err)
	}
	names := lo.Map(families, func(mf *dto.MetricFamily, _ int) string {
		return mf.GetName()
	})
	sort.Strings(names)
	return names, nil
}
