// Package telemetry provides OpenTelemetry instrumentation for distributed tracing.
// Пакет telemetry предоставляет инструментацию OpenTelemetry для распределённой трассировки.
package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentationName is the tracer name used by services.
const InstrumentationName = "github.com/andrewhigh08/audit-tracker"

// Config holds telemetry configuration.
type Config struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	OTLPEndpoint   string
	Enabled        bool
}

// DefaultConfig returns default telemetry configuration.
func DefaultConfig() Config {
	return Config{
		ServiceName:    "audit-tracker",
		ServiceVersion: "1.0.0",
		Environment:    "development",
		OTLPEndpoint:   "localhost:4317",
	}
}

// Provider wraps OpenTelemetry providers.
type Provider struct {
	TracerProvider *sdktrace.TracerProvider
	Tracer         trace.Tracer
}

// InitTelemetry installs the global tracer provider. When disabled, spans are
// recorded by a provider without exporters and dropped.
// InitTelemetry устанавливает глобальный провайдер трассировки. Если трассировка
// выключена, спаны создаются провайдером без экспортёров и отбрасываются.
func InitTelemetry(ctx context.Context, cfg Config) (*Provider, error) {
	propagator := propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{})

	if !cfg.Enabled {
		tp := sdktrace.NewTracerProvider()
		otel.SetTracerProvider(tp)
		otel.SetTextMapPropagator(propagator)
		return &Provider{TracerProvider: tp, Tracer: tp.Tracer(InstrumentationName)}, nil
	}

	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(cfg.OTLPEndpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
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
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.AlwaysSample())),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagator)

	return &Provider{TracerProvider: tp, Tracer: tp.Tracer(InstrumentationName)}, nil
}

// Shutdown flushes pending spans and stops the provider.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p.TracerProvider != nil {
		return p.TracerProvider.Shutdown(ctx)
	}
	return nil
}

// Tracer returns the service tracer from the global provider, so services
// built before InitTelemetry still pick up the configured exporter.
// Tracer возвращает трассировщик сервиса из глобального провайдера.
func Tracer() trace.Tracer {
	return otel.Tracer(InstrumentationName)
}

// StartSpan starts a span named "<component>.<operation>" on the global tracer.
// StartSpan запускает спан "<component>.<operation>" на глобальном трассировщике.
func StartSpan(ctx context.Context, component, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return Tracer().Start(ctx, component+"."+operation, trace.WithAttributes(attrs...))
}

// End records err on the span (when not nil) and ends it. Intended for defer
// with a named error result.
// End записывает err в спан (если не nil) и завершает его.
//
//	ctx, span := telemetry.StartSpan(ctx, "tracker", "submit_result")
//	defer func() { telemetry.End(span, err) }()
func End(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// AddSpanAttributes adds attributes to the current span.
func AddSpanAttributes(ctx context.Context, attrs ...attribute.KeyValue) {
	trace.SpanFromContext(ctx).SetAttributes(attrs...)
}

// AddSpanEvent adds an event to the current span.
func AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	trace.SpanFromContext(ctx).AddEvent(name, trace.WithAttributes(attrs...))
}

// TraceID returns the hex trace id of the current span, or "".
func TraceID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.HasTraceID() {
		return ""
	}
	return sc.TraceID().String()
}

// Common attribute keys.
var (
	AttrUserID     = attribute.Key("user.id")
	AttrEmail      = attribute.Key("user.email")
	AttrAction     = attribute.Key("account.action")
	AttrAuditID    = attribute.Key("audit.id")
	AttrEntryID    = attribute.Key("audit.entry_id")
	AttrEntryCount = attribute.Key("audit.entry_count")
	AttrOperatorID = attribute.Key("audit.operator_id")
	AttrResource   = attribute.Key("authz.resource")
	AttrAllowed    = attribute.Key("authz.allowed")
	AttrCacheHit   = attribute.Key("cache.hit")
)
