// Package telemetry wires optional OpenTelemetry tracing: one span per
// scheduler tick, one per HTTP request. Tracing is a no-op unless
// OTEL_EXPORTER_OTLP_ENDPOINT is set, so a deployment with no collector
// pays no cost beyond a no-op span per operation.
package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/nextlevelbuilder/goclaw-scheduler"

// Shutdown flushes and stops the tracer provider. Callers should defer it
// from main.
type Shutdown func(context.Context) error

// noopShutdown is returned when tracing is disabled, so callers don't need
// to special-case a nil func.
func noopShutdown(context.Context) error { return nil }

// Setup configures global tracing. When OTEL_EXPORTER_OTLP_ENDPOINT is
// unset, the global no-op tracer provider is left in place and Setup
// returns a no-op shutdown.
func Setup(ctx context.Context, serviceName string) (Shutdown, error) {
	endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if endpoint == "" {
		slog.Debug("telemetry: OTEL_EXPORTER_OTLP_ENDPOINT unset, tracing disabled")
		return noopShutdown, nil
	}

	exporter, err := otlptracehttp.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("telemetry: building otlp exporter: %w", err)
	}

	res, err := resource.Merge(resource.Default(), resource.NewSchemaless(
		semconv.ServiceName(serviceName),
	))
	if err != nil {
		return nil, fmt.Errorf("telemetry: building resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	slog.Info("telemetry: tracing enabled", "endpoint", endpoint)
	return tp.Shutdown, nil
}

// Tracer returns the package-scoped tracer, reading whatever global
// provider Setup installed (real or no-op).
func Tracer() trace.Tracer {
	return otel.Tracer(tracerName)
}
