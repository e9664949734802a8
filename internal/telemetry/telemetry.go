package telemetry

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"github.com/joelkehle/competitor-analysis/internal/config"
	"github.com/joelkehle/competitor-analysis/internal/logger"
)

const instrumentationName = "github.com/joelkehle/competitor-analysis"

// Tracer returns the tracer used for chat turns and HTTP handlers.
func Tracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}

// Setup installs a global tracer provider. Spans are exported over OTLP/HTTP
// when an endpoint is configured and dropped otherwise. The endpoint is
// either a URL such as http://collector:4318, whose scheme decides TLS, or a
// bare host:port. The returned function flushes and stops the provider.
func Setup(ctx context.Context, cfg config.TelemetryConfig) (func(context.Context) error, error) {
	res := resource.NewSchemaless(attribute.String("service.name", cfg.ServiceName))
	opts := []sdktrace.TracerProviderOption{sdktrace.WithResource(res)}

	if cfg.OTLPEndpoint != "" {
		exporter, err := otlptracehttp.New(ctx, exporterOptions(cfg)...)
		if err != nil {
			return nil, fmt.Errorf("otlp exporter: %w", err)
		}
		opts = append(opts, sdktrace.WithBatcher(exporter))
		logger.Log.WithField("endpoint", cfg.OTLPEndpoint).Info("trace export enabled")
	}

	tp := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return func(ctx context.Context) error {
		if err := tp.Shutdown(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("tracer shutdown: %w", err)
		}
		return nil
	}, nil
}

func exporterOptions(cfg config.TelemetryConfig) []otlptracehttp.Option {
	if strings.Contains(cfg.OTLPEndpoint, "://") {
		return []otlptracehttp.Option{otlptracehttp.WithEndpointURL(cfg.OTLPEndpoint)}
	}
	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(cfg.OTLPEndpoint)}
	if cfg.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	return opts
}
