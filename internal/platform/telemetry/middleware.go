package telemetry

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/jsamuelsen/quotesync/telemetry"

// HeaderTraceID echoes the active trace ID back to API callers.
const HeaderTraceID = "X-Trace-ID"

// unmatchedRoute labels requests that hit NoRoute, keeping route cardinality bounded.
const unmatchedRoute = "unmatched"

// HTTPMetrics holds the API request instruments.
type HTTPMetrics struct {
	duration metric.Float64Histogram
	requests metric.Int64Counter
	inFlight metric.Int64UpDownCounter
}

// NewHTTPMetrics creates the request instruments on meter.
func NewHTTPMetrics(meter metric.Meter) (*HTTPMetrics, error) {
	duration, err := meter.Float64Histogram("quotesync.http.request.duration",
		metric.WithDescription("API request duration"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	requests, err := meter.Int64Counter("quotesync.http.requests",
		metric.WithDescription("API requests served"),
	)
	if err != nil {
		return nil, err
	}

	inFlight, err := meter.Int64UpDownCounter("quotesync.http.in_flight",
		metric.WithDescription("API requests being served"),
	)
	if err != nil {
		return nil, err
	}

	return &HTTPMetrics{duration: duration, requests: requests, inFlight: inFlight}, nil
}

// Middleware returns otelgin tracing followed by request metrics on the
// global meter provider. Register both, in order:
//
//	engine.Use(telemetry.Middleware(cfg.App.Name)...)
func Middleware(serviceName string) []gin.HandlerFunc {
	metrics, err := NewHTTPMetrics(otel.Meter(instrumentationName))
	if err != nil {
		// Requests still pass; the failure goes to the otel error handler.
		otel.Handle(err)
	}

	return []gin.HandlerFunc{
		otelgin.Middleware(serviceName),
		metrics.Handler(),
	}
}

// Handler records one duration sample and one count per request, and sets
// X-Trace-ID when a span is active. A nil receiver only sets the header.
func (m *HTTPMetrics) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		if sc := trace.SpanFromContext(ctx).SpanContext(); sc.HasTraceID() {
			c.Header(HeaderTraceID, sc.TraceID().String())
		}

		if m == nil {
			c.Next()
			return
		}

		base := []attribute.KeyValue{
			attribute.String("http.request.method", c.Request.Method),
			attribute.String("http.route", route(c)),
		}

		m.inFlight.Add(ctx, 1, metric.WithAttributes(base...))
		start := time.Now()

		c.Next()

		m.inFlight.Add(ctx, -1, metric.WithAttributes(base...))

		done := metric.WithAttributes(append(base, attribute.Int("http.response.status_code", c.Writer.Status()))...)
		m.duration.Record(ctx, time.Since(start).Seconds(), done)
		m.requests.Add(ctx, 1, done)
	}
}

func route(c *gin.Context) string {
	if r := c.FullPath(); r != "" {
		return r
	}

	return unmatchedRoute
}
