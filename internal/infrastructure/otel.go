package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"

	"vaxetl/internal/config"
	"vaxetl/pkg/contracts"
)

const (
	MeterName  = "vaxetl"
	TracerName = "vaxetl"
)

// Telemetry bundles the tracer and the pipeline metrics of one run.
// All methods are safe on a nil receiver, which disables telemetry.
type Telemetry struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
	Registry       *prometheus.Registry
	Tracer         trace.Tracer
	Metrics        *PipelineMetrics

	textfile string
	logger   *slog.Logger
}

// PipelineMetrics holds the instruments recorded by the cleaner and the loader
type PipelineMetrics struct {
	RowsCleaned  metric.Int64Counter
	RowsLoaded   metric.Int64Counter
	FKUnresolved metric.Int64Counter
	StepDuration metric.Float64Histogram
	StepFailures metric.Int64Counter
}

// InitializeTelemetry sets up a meter provider exporting into a private
// Prometheus registry and, when enabled, a stdout span exporter.
func InitializeTelemetry(cfg config.TelemetryConfig, logger *slog.Logger) (*Telemetry, error) {
	if logger == nil {
		logger = GetLogger()
	}
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = config.AppName
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(serviceName),
		semconv.ServiceVersion(contracts.Version),
	)

	t := &Telemetry{
		textfile: cfg.MetricsTextfile,
		logger:   logger,
	}

	if cfg.Tracing {
		exporter, err := stdouttrace.New(
			stdouttrace.WithWriter(os.Stderr),
			stdouttrace.WithPrettyPrint(),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create stdout trace exporter: %w", err)
		}
		t.TracerProvider = sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(exporter),
			sdktrace.WithResource(res),
		)
		t.Tracer = t.TracerProvider.Tracer(TracerName)
	} else {
		t.Tracer = otel.GetTracerProvider().Tracer(TracerName)
	}

	t.Registry = prometheus.NewRegistry()
	exporter, err := otelprom.New(
		otelprom.WithRegisterer(t.Registry),
		otelprom.WithoutTargetInfo(),
		otelprom.WithoutScopeInfo(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}
	t.MeterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)

	t.Metrics, err = createPipelineMetrics(t.MeterProvider.Meter(MeterName,
		metric.WithInstrumentationVersion(contracts.Version)))
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline metrics: %w", err)
	}

	logger.Debug("Telemetry initialized",
		slog.Bool("tracing_enabled", cfg.Tracing),
		slog.String("metrics_textfile", cfg.MetricsTextfile))

	return t, nil
}

func createPipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	rowsCleaned, err := meter.Int64Counter(
		"vaxetl.rows.cleaned",
		metric.WithDescription("Rows written to cleaned artifacts"),
	)
	if err != nil {
		return nil, err
	}

	rowsLoaded, err := meter.Int64Counter(
		"vaxetl.rows.loaded",
		metric.WithDescription("Rows appended to destination tables"),
	)
	if err != nil {
		return nil, err
	}

	fkUnresolved, err := meter.Int64Counter(
		"vaxetl.fk.unresolved",
		metric.WithDescription("Fact rows whose natural key had no surrogate id"),
	)
	if err != nil {
		return nil, err
	}

	stepDuration, err := meter.Float64Histogram(
		"vaxetl.step.duration",
		metric.WithDescription("Pipeline step duration"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	stepFailures, err := meter.Int64Counter(
		"vaxetl.step.failures",
		metric.WithDescription("Pipeline steps that returned an error"),
	)
	if err != nil {
		return nil, err
	}

	return &PipelineMetrics{
		RowsCleaned:  rowsCleaned,
		RowsLoaded:   rowsLoaded,
		FKUnresolved: fkUnresolved,
		StepDuration: stepDuration,
		StepFailures: stepFailures,
	}, nil
}

// StartSpan starts a span named name. With telemetry disabled it returns a
// non-recording span.
func (t *Telemetry) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := otel.GetTracerProvider().Tracer(TracerName)
	if t != nil && t.Tracer != nil {
		tracer = t.Tracer
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// RecordCleaned counts rows written for a dataset
func (t *Telemetry) RecordCleaned(ctx context.Context, dataset string, rows int) {
	if t == nil || t.Metrics == nil {
		return
	}
	t.Metrics.RowsCleaned.Add(ctx, int64(rows), metric.WithAttributes(attribute.String("dataset", dataset)))
}

// RecordLoaded counts rows appended to a table
func (t *Telemetry) RecordLoaded(ctx context.Context, table string, rows int64) {
	if t == nil || t.Metrics == nil {
		return
	}
	t.Metrics.RowsLoaded.Add(ctx, rows, metric.WithAttributes(attribute.String("table", table)))
}

// RecordUnresolved counts foreign keys that resolved to NULL
func (t *Telemetry) RecordUnresolved(ctx context.Context, table, column string, n int) {
	if t == nil || t.Metrics == nil || n == 0 {
		return
	}
	t.Metrics.FKUnresolved.Add(ctx, int64(n), metric.WithAttributes(
		attribute.String("table", table),
		attribute.String("column", column),
	))
}

// RecordStep records the duration and outcome of a pipeline step
func (t *Telemetry) RecordStep(ctx context.Context, step string, duration time.Duration, success bool) {
	if t == nil || t.Metrics == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("step", step),
		attribute.Bool("success", success),
	)
	t.Metrics.StepDuration.Record(ctx, duration.Seconds(), attrs)
	if !success {
		t.Metrics.StepFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("step", step)))
	}
}

// Shutdown writes the metrics textfile when configured and flushes the providers
func (t *Telemetry) Shutdown(ctx context.Context) error {
	if t == nil {
		return nil
	}
	var errs []error

	if t.textfile != "" && t.Registry != nil {
		if err := prometheus.WriteToTextfile(t.textfile, t.Registry); err != nil {
			errs = append(errs, fmt.Errorf("metrics textfile: %w", err))
		} else {
			t.logger.Info("Metrics written", slog.String("path", t.textfile))
		}
	}

	if t.TracerProvider != nil {
		if err := t.TracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider shutdown: %w", err))
		}
	}

	if t.MeterProvider != nil {
		if err := t.MeterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider shutdown: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("telemetry shutdown errors: %v", errs)
	}
	return nil
}

// RecordError marks the span in ctx as failed
func RecordError(ctx context.Context, err error) {
	if err == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
