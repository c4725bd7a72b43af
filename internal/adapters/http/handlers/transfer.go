package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quotesync/internal/adapters/http/dto"
	"github.com/jsamuelsen/quotesync/internal/app"
)

// ExportFilename is the attachment name offered by GET /export.
const ExportFilename = "quotes.json"

// TransferHandler handles export and import of the whole collection.
type TransferHandler struct {
	service *app.QuoteService
}

// NewTransferHandler creates a new transfer handler.
func NewTransferHandler(service *app.QuoteService) *TransferHandler {
	return &TransferHandler{service: service}
}

// Export handles GET /api/v1/export
// The body is the pretty-printed export document, offered as a download.
func (h *TransferHandler) Export(c *gin.Context) {
	doc, err := h.service.ExportNow(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+ExportFilename+`"`)
	c.Data(http.StatusOK, "application/json; charset=utf-8", doc)
}

// Import handles POST /api/v1/import
// The raw request body is the document. Entries with an empty text or
// category are skipped; a document with no usable entries is rejected.
//
// @Summary Import a quotes document
// @Tags transfer
// @Accept json
// @Produce json
// @Success 200 {object} dto.ImportResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/import [post]
func (h *TransferHandler) Import(c *gin.Context) {
	doc, err := io.ReadAll(c.Request.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			dto.RespondWithCode(c, dto.ErrorCodeTooLarge, "document exceeds the request size limit")
			return
		}

		dto.RespondWithCode(c, dto.ErrorCodeBadRequest, "request body could not be read")

		return
	}

	added, err := h.service.ImportNow(c.Request.Context(), doc)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ImportResponse{Imported: added})
}

// RegisterTransferRoutes registers export and import routes.
func (h *TransferHandler) RegisterTransferRoutes(rg *gin.RouterGroup) {
	rg.GET("/export", h.Export)
	rg.POST("/import", h.Import)
}
