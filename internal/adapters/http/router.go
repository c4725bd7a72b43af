package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quotesync/internal/adapters/http/dto"
	"github.com/jsamuelsen/quotesync/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quotesync/internal/adapters/http/middleware"
	"github.com/jsamuelsen/quotesync/internal/app"
	"github.com/jsamuelsen/quotesync/internal/platform/telemetry"
)

// DefaultRequestTimeout is the default timeout for API requests.
const DefaultRequestTimeout = 30 * time.Second

// RouterConfig contains everything SetupRouter wires.
type RouterConfig struct {
	Logger *slog.Logger

	// ServiceName names the otelgin spans.
	ServiceName string

	// Service backs every /api/v1 route. Nil registers no API routes.
	Service *app.QuoteService

	// HealthHandler serves /-/. Nil registers no internal routes.
	HealthHandler *handlers.HealthHandler

	// Timeout is the deadline for /api/v1 requests; zero disables it.
	Timeout time.Duration
}

// SetupRouter configures middleware and routes on engine.
// Middleware runs in this order:
//  1. Recovery
//  2. Request ID
//  3. Correlation ID
//  4. OpenTelemetry tracing and HTTP metrics
//  5. Logging (skips /-/)
//  6. Timeout (/api/v1 only)
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	engine.Use(
		middleware.Recovery(cfg.Logger),
		middleware.RequestID(),
		middleware.CorrelationID(),
	)
	engine.Use(telemetry.Middleware(cfg.ServiceName)...)
	engine.Use(middleware.Logging(cfg.Logger))

	engine.NoRoute(func(c *gin.Context) {
		dto.RespondWithCode(c, dto.ErrorCodeNotFound, "no route for "+c.Request.Method+" "+c.Request.URL.Path)
	})

	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterHealthRoutesOnEngine(engine)
	}

	apiV1 := engine.Group("/api/v1")
	if cfg.Timeout > 0 {
		apiV1.Use(middleware.Timeout(cfg.Timeout))
	}

	if cfg.Service != nil {
		setupAPIRoutes(apiV1, cfg.Service)
	}
}

func setupAPIRoutes(rg *gin.RouterGroup, service *app.QuoteService) {
	handlers.NewQuoteHandler(service).RegisterQuoteRoutes(rg)
	handlers.NewSyncHandler(service).RegisterSyncRoutes(rg)
	handlers.NewTransferHandler(service).RegisterTransferRoutes(rg)
}

// NewDefaultRouterConfig creates a RouterConfig with the default timeout.
func NewDefaultRouterConfig(
	logger *slog.Logger,
	serviceName string,
	service *app.QuoteService,
	healthHandler *handlers.HealthHandler,
) RouterConfig {
	return RouterConfig{
		Logger:        logger,
		ServiceName:   serviceName,
		Service:       service,
		HealthHandler: healthHandler,
		Timeout:       DefaultRequestTimeout,
	}
}
