package telemetry

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/jsamuelsen/quotesync/internal/domain"
	"github.com/jsamuelsen/quotesync/internal/ports"
)

var _ ports.SyncObserver = (*SyncMetrics)(nil)

func newTestSyncMetrics(t *testing.T) *SyncMetrics {
	t.Helper()

	m, err := NewSyncMetrics(prometheus.NewRegistry())
	require.NoError(t, err)

	m.now = func() time.Time { return time.Unix(1700000000, 0) }

	return m
}

func TestNewSyncMetrics_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()

	_, err := NewSyncMetrics(reg)
	require.NoError(t, err)

	_, err = NewSyncMetrics(reg)
	require.Error(t, err)
}

func TestSyncMetrics_SuccessfulSync(t *testing.T) {
	m := newTestSyncMetrics(t)

	m.SyncStarted()
	assert.InDelta(t, 1, testutil.ToFloat64(m.inFlight), 0)

	m.SyncFinished(nil, 3, 250*time.Millisecond)

	assert.InDelta(t, 0, testutil.ToFloat64(m.inFlight), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.attempts.WithLabelValues(OutcomeSuccess)), 0)
	assert.InDelta(t, 1700000000, testutil.ToFloat64(m.lastOK), 0)
	assert.Equal(t, 1, testutil.CollectAndCount(m.fetched))
}

func TestSyncMetrics_Outcomes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"network", domain.NewNetworkError("quote-source", "timeout"), OutcomeNetworkError},
		{"storage", domain.NewStorageError("quotes", errors.New("disk")), OutcomeStorageError},
		{"other", errors.New("boom"), OutcomeOtherError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestSyncMetrics(t)

			m.SyncStarted()
			m.SyncFinished(tt.err, 0, time.Second)
			m.Published(tt.err)

			assert.InDelta(t, 1, testutil.ToFloat64(m.attempts.WithLabelValues(tt.want)), 0)
			assert.InDelta(t, 1, testutil.ToFloat64(m.publishes.WithLabelValues(tt.want)), 0)
			assert.InDelta(t, 0, testutil.ToFloat64(m.lastOK), 0, "failed sync keeps last success")
		})
	}
}

func TestSyncMetrics_Skipped(t *testing.T) {
	m := newTestSyncMetrics(t)

	m.SyncSkipped()
	m.SyncSkipped()

	assert.InDelta(t, 2, testutil.ToFloat64(m.attempts.WithLabelValues(OutcomeSkippedFlight)), 0)
}

func TestNew_Disabled(t *testing.T) {
	p, err := New(context.Background(), &Config{Enabled: false})

	require.NoError(t, err)
	assert.False(t, p.Enabled())
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestNew_InstallsPropagatorWhenDisabled(t *testing.T) {
	_, err := New(context.Background(), &Config{})
	require.NoError(t, err)

	fields := otel.GetTextMapPropagator().Fields()
	assert.Contains(t, fields, "traceparent")
	assert.Contains(t, fields, "baggage")
}

func TestExporterOptions(t *testing.T) {
	for _, endpoint := range []string{"otel-collector:4317", "http://otel-collector:4317"} {
		cfg := &Config{Endpoint: endpoint, Insecure: true}

		assert.Len(t, traceOptions(cfg), 2, endpoint)
		assert.Len(t, metricOptions(cfg), 2, endpoint)
	}

	assert.Len(t, traceOptions(&Config{Endpoint: "otel-collector:4317"}), 1)
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	engine.Use(Middleware("quotesync-test")...)
	engine.GET("/api/v1/quotes", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/quotes", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}

func TestHTTPMetrics_Handler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	m, err := NewHTTPMetrics(provider.Meter("test"))
	require.NoError(t, err)

	engine := gin.New()
	engine.Use(m.Handler())
	engine.GET("/api/v1/quotes/random", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	for _, path := range []string{"/api/v1/quotes/random", "/api/v1/quotes/random", "/nope"} {
		engine.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	counts := map[string]int64{}

	for _, sm := range rm.ScopeMetrics {
		for _, md := range sm.Metrics {
			if md.Name != "quotesync.http.requests" {
				continue
			}

			sum, ok := md.Data.(metricdata.Sum[int64])
			require.True(t, ok)

			for _, dp := range sum.DataPoints {
				r, _ := dp.Attributes.Value("http.route")
				counts[r.AsString()] += dp.Value
			}
		}
	}

	assert.Equal(t, map[string]int64{"/api/v1/quotes/random": 2, unmatchedRoute: 1}, counts)
}

func TestHTTPMetrics_NilSetsTraceHeaderOnly(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var m *HTTPMetrics

	engine := gin.New()
	engine.Use(m.Handler())
	engine.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Header().Get(HeaderTraceID), "no span, no header")
}
