package otel

import (
	"context"
	"strings"
	"sync"

	eventbus "github.com/gqlkit/typedefs/internal/eventbus"
	events "github.com/gqlkit/typedefs/internal/events"
	resolveid "github.com/gqlkit/typedefs/internal/resolveid"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
)

// Setup configures OpenTelemetry and attaches eventbus subscribers.
// If endpoint is empty, no telemetry is configured.
func Setup(endpoint, service string) (func(context.Context) error, error) {
	if endpoint == "" {
		return func(context.Context) error { return nil }, nil
	}
	exp, err := otlptracegrpc.New(context.Background(),
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithDialOption(grpc.WithInsecure()))
	if err != nil {
		return nil, err
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(service),
		)),
	)
	otel.SetTracerProvider(tp)

	sub := &subscriber{tracer: otel.Tracer("typedefs")}
	sub.register()

	return tp.Shutdown, nil
}

type subscriber struct {
	tracer       trace.Tracer
	resolveSpans sync.Map // resolve id -> trace.Span
}

func (s *subscriber) register() {
	eventbus.Subscribe(func(ctx context.Context, e events.ResolveStart) {
		rid, _ := resolveid.FromContext(ctx)
		_, span := s.tracer.Start(ctx, "typedefs.resolve")
		span.SetAttributes(
			attribute.Int("typedefs.pointer_count", len(e.Pointers)),
			attribute.String("typedefs.pointers", strings.Join(e.Pointers, ", ")),
		)
		s.resolveSpans.Store(rid, span)
	})

	eventbus.Subscribe(func(ctx context.Context, e events.SourceCollected) {
		rid, _ := resolveid.FromContext(ctx)
		if v, ok := s.resolveSpans.Load(rid); ok {
			v.(trace.Span).AddEvent("source.collected", trace.WithAttributes(
				attribute.String("typedefs.pointer", e.Pointer),
				attribute.String("typedefs.location", e.Location),
				attribute.Bool("typedefs.cached", e.Cached),
			))
		}
	})

	eventbus.Subscribe(func(ctx context.Context, e events.GlobExpanded) {
		rid, _ := resolveid.FromContext(ctx)
		if v, ok := s.resolveSpans.Load(rid); ok {
			v.(trace.Span).AddEvent("glob.expanded", trace.WithAttributes(
				attribute.String("typedefs.patterns", strings.Join(e.Patterns, ", ")),
				attribute.Int("typedefs.matches", e.Matches),
			))
		}
	})

	eventbus.Subscribe(func(ctx context.Context, e events.ImportFollowed) {
		rid, _ := resolveid.FromContext(ctx)
		if v, ok := s.resolveSpans.Load(rid); ok {
			v.(trace.Span).AddEvent("import.followed", trace.WithAttributes(
				attribute.String("typedefs.from", e.From),
				attribute.String("typedefs.to", e.To),
				attribute.String("typedefs.imports", strings.Join(e.Imports, ", ")),
			))
		}
	})

	eventbus.Subscribe(func(ctx context.Context, e events.ResolveFinish) {
		rid, _ := resolveid.FromContext(ctx)
		v, ok := s.resolveSpans.LoadAndDelete(rid)
		if !ok {
			return
		}
		span := v.(trace.Span)
		span.SetAttributes(attribute.Int("typedefs.source_count", e.Sources))
		if e.Err != nil {
			span.RecordError(e.Err)
		}
		span.End()
	})
}
