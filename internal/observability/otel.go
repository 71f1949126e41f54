package observability

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.27.0"

	"github.com/yungbote/studyquiz-backend/internal/platform/envutil"
	"github.com/yungbote/studyquiz-backend/internal/platform/logger"
)

type OtelConfig struct {
	Enabled     bool
	ServiceName string
	Environment string
	Version     string
	SampleRatio float64
	// Endpoint is the OTLP/HTTP collector. Empty falls back to stdout.
	Endpoint string
	Headers  map[string]string
	Insecure bool
}

func OtelConfigFromEnv(log *logger.Logger) OtelConfig {
	ratio := float64(envutil.Int("OTEL_SAMPLER_PERCENT", 10, log)) / 100
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	return OtelConfig{
		Enabled:     envutil.Bool("OTEL_ENABLED", false, log),
		ServiceName: envutil.String("OTEL_SERVICE_NAME", "studyquiz", log),
		Environment: envutil.String("ENVIRONMENT", "development", log),
		Version:     envutil.String("APP_VERSION", "dev", log),
		SampleRatio: ratio,
		Endpoint:    envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", "", log),
		Headers:     parseHeaders(envutil.Secret("OTEL_EXPORTER_OTLP_HEADERS", log)),
		Insecure:    envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", false, log),
	}
}

// InitOTel installs the global tracer provider and returns its shutdown.
// When tracing is disabled the returned func is a no-op.
func InitOTel(ctx context.Context, log *logger.Logger, cfg OtelConfig) func(context.Context) error {
	noop := func(context.Context) error { return nil }
	if !cfg.Enabled {
		return noop
	}
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "studyquiz"
	}
	res, err := resource.New(ctx, resource.WithAttributes(
		semconv.ServiceNameKey.String(name),
		semconv.ServiceVersionKey.String(cfg.Version),
		attribute.String("deployment.environment", cfg.Environment),
	))
	if err != nil {
		log.Warn("otel resource init failed (continuing)", "error", err)
	}

	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))),
		sdktrace.WithResource(res),
	}
	exporter, err := buildExporter(ctx, log, cfg)
	if err != nil {
		log.Warn("otel exporter init failed (continuing)", "error", err)
	} else {
		opts = append(opts, sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(5*time.Second)))
	}
	tp := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	log.Info("otel tracing initialized", "service", name, "endpoint", cfg.Endpoint)
	return tp.Shutdown
}

func buildExporter(ctx context.Context, log *logger.Logger, cfg OtelConfig) (sdktrace.SpanExporter, error) {
	if cfg.Endpoint == "" {
		log.Warn("otel using stdout exporter (no OTLP endpoint configured)")
		return stdouttrace.New(stdouttrace.WithPrettyPrint())
	}
	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	if len(cfg.Headers) > 0 {
		opts = append(opts, otlptracehttp.WithHeaders(cfg.Headers))
	}
	return otlptracehttp.New(ctx, opts...)
}

// parseHeaders reads "k1=v1,k2=v2", skipping malformed pairs.
func parseHeaders(raw string) map[string]string {
	headers := map[string]string{}
	for _, part := range strings.Split(raw, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		if !ok || k == "" || v == "" {
			continue
		}
		headers[k] = v
	}
	if len(headers) == 0 {
		return nil
	}
	return headers
}
