package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quotesync/internal/adapters/http/dto"
	"github.com/jsamuelsen/quotesync/internal/app"
)

// SyncHandler exposes the sync engine and the bootstrap state.
type SyncHandler struct {
	service *app.QuoteService
}

// NewSyncHandler creates a new sync handler.
func NewSyncHandler(service *app.QuoteService) *SyncHandler {
	return &SyncHandler{service: service}
}

// TriggerSync handles POST /api/v1/sync
// A sync already in flight is reported as skipped with 200.
//
// @Summary Sync with the quote server
// @Tags sync
// @Produce json
// @Success 200 {object} dto.SyncResponse
// @Failure 503 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/v1/sync [post]
func (h *SyncHandler) TriggerSync(c *gin.Context) {
	report, err := h.service.TriggerSync(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSyncResponse(report))
}

// Status handles GET /api/v1/sync/status
func (h *SyncHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewStatusResponse(h.service.SyncStatus()))
}

// State handles GET /api/v1/state
func (h *SyncHandler) State(c *gin.Context) {
	state, err := h.service.State(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewStateResponse(state))
}

// RegisterSyncRoutes registers sync and state routes on the given router group.
func (h *SyncHandler) RegisterSyncRoutes(rg *gin.RouterGroup) {
	rg.POST("/sync", h.TriggerSync)
	rg.GET("/sync/status", h.Status)
	rg.GET("/state", h.State)
}
