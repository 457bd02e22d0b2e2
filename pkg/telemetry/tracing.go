package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/noorform/pkg/form"
)

// Default tracer name for submission spans.
const defaultTracerName = "noorform"

// TraceConfig configures TraceSubmit.
type TraceConfig struct {
	// TracerName is the name of the tracer (default: "noorform").
	TracerName string

	// Provider supplies the tracer. If nil, the global provider is used.
	Provider trace.TracerProvider

	// Attributes are added to every span.
	Attributes []attribute.KeyValue
}

// TraceOption configures TraceSubmit.
type TraceOption func(*TraceConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) TraceOption {
	return func(c *TraceConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) TraceOption {
	return func(c *TraceConfig) {
		c.Provider = tp
	}
}

// WithAttributes adds attributes to every span.
func WithAttributes(attrs ...attribute.KeyValue) TraceOption {
	return func(c *TraceConfig) {
		c.Attributes = append(c.Attributes, attrs...)
	}
}

// TraceSubmit wraps fn so each submission runs inside a span named
// "noorform.submit <formName>". The span carries the form name and field
// count; a returned error is recorded and sets the span status. The span
// context is passed on to fn.
func TraceSubmit(formName string, fn form.SubmitFunc, opts ...TraceOption) form.SubmitFunc {
	config := TraceConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}

	var tracer trace.Tracer
	if config.Provider != nil {
		tracer = config.Provider.Tracer(config.TracerName)
	} else {
		tracer = otel.Tracer(config.TracerName)
	}

	return func(ctx context.Context, values form.Values) error {
		attrs := append([]attribute.KeyValue{
			attribute.String("noorform.form", formName),
			attribute.Int("noorform.field_count", len(values)),
		}, config.Attributes...)

		ctx, span := tracer.Start(ctx, "noorform.submit "+formName,
			trace.WithSpanKind(trace.SpanKindInternal),
			trace.WithAttributes(attrs...),
		)
		defer span.End()

		var err error
		if fn != nil {
			err = fn(ctx, values)
		}

		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		return err
	}
}
