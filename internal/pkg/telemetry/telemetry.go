// Package telemetry configures OpenTelemetry tracing with an OTLP/HTTP
// exporter. Tracing is opt-in; when disabled the no-op global provider
// stays in place and the rest of the code is unaffected.
package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// Config holds the tracing settings.
type Config struct {
	Enabled bool
	// Endpoint is the OTLP/HTTP collector host:port, without scheme.
	Endpoint string
	// Insecure disables TLS towards the collector.
	Insecure bool
	// SampleRatio in [0,1]; 1 samples everything.
	SampleRatio float64

	ServiceName    string
	ServiceVersion string
	Environment    string
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:     false,
		Endpoint:    "localhost:4318",
		Insecure:    true,
		SampleRatio: 1.0,
		ServiceName: "walletcore",
	}
}

// Setup installs the global tracer provider and propagators. The
// returned shutdown function flushes pending spans; call it on exit.
func Setup(ctx context.Context, cfg *Config) (func(context.Context) error, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if !cfg.Enabled {
		return func(context.Context) error { return nil }, nil
	}

	opts := []otlptracehttp.Option{
		otlptracehttp.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}

	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create OTLP exporter: %w", err)
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.ServiceVersion),
			semconv.DeploymentEnvironment(cfg.Environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("build resource: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(5*time.Second)),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))),
	)

	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return provider.Shutdown, nil
}
