package clients

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/jsamuelsen/quotesync/internal/adapters/clients"

// Outcome labels for outbound call metrics.
const (
	outcomeCircuitOpen = "circuit_open"
	outcomeCanceled    = "canceled"
	outcomeError       = "error"
)

// instruments holds the tracer and meters for one downstream service.
type instruments struct {
	service  string
	tracer   trace.Tracer
	duration metric.Float64Histogram
	calls    metric.Int64Counter
}

func newInstruments(service string) (*instruments, error) {
	meter := otel.Meter(instrumentationName)

	duration, err := meter.Float64Histogram(
		"quotesync.remote.call.duration",
		metric.WithDescription("Duration of calls to the remote quote source, retries included"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating duration histogram: %w", err)
	}

	calls, err := meter.Int64Counter(
		"quotesync.remote.calls",
		metric.WithDescription("Calls to the remote quote source by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating call counter: %w", err)
	}

	return &instruments{
		service:  service,
		tracer:   otel.Tracer(instrumentationName),
		duration: duration,
		calls:    calls,
	}, nil
}

// start opens a client span for req and injects the trace context into its
// headers.
func (in *instruments) start(ctx context.Context, req *http.Request) (context.Context, trace.Span) {
	ctx, span := in.tracer.Start(ctx, req.Method+" "+in.service,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", req.Method),
			attribute.String("url.path", req.URL.Path),
			attribute.String("peer.service", in.service),
		),
	)

	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	return ctx, span
}

// finish closes span and records the call. A zero status means no response.
func (in *instruments) finish(ctx context.Context, span trace.Span, method string, status int, outcome string, err error, elapsed time.Duration) {
	if span != nil {
		switch {
		case err != nil:
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		case status >= http.StatusBadRequest:
			span.SetStatus(codes.Error, "HTTP "+strconv.Itoa(status))
		}

		if status > 0 {
			span.SetAttributes(attribute.Int("http.response.status_code", status))
		}

		span.End()
	}

	attrs := metric.WithAttributes(
		attribute.String("http.request.method", method),
		attribute.String("peer.service", in.service),
		attribute.String("outcome", outcome),
	)

	in.duration.Record(ctx, elapsed.Seconds(), attrs)
	in.calls.Add(ctx, 1, attrs)
}

// statusOutcome buckets a status code as "2xx", "4xx" and so on.
func statusOutcome(status int) string {
	return strconv.Itoa(status/100) + "xx"
}
