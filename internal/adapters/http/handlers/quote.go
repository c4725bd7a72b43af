package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quotesync/internal/adapters/http/dto"
	"github.com/jsamuelsen/quotesync/internal/app"
	"github.com/jsamuelsen/quotesync/internal/domain"
)

// QuoteHandler handles quote and filter endpoints.
type QuoteHandler struct {
	service *app.QuoteService
}

// NewQuoteHandler creates a new quote handler.
func NewQuoteHandler(service *app.QuoteService) *QuoteHandler {
	return &QuoteHandler{
		service: service,
	}
}

// ListQuotes handles GET /api/v1/quotes
// Returns the collection in insertion order, one page at a time.
//
// @Summary List quotes
// @Tags quotes
// @Produce json
// @Param category query string false "Only this category"
// @Param limit query int false "Page size (1-100)"
// @Param cursor query string false "Cursor from a previous page"
// @Success 200 {object} dto.Page[dto.ListedQuote]
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/quotes [get]
func (h *QuoteHandler) ListQuotes(c *gin.Context) {
	var query dto.ListQuotesQuery
	if err := dto.BindQueryAndValidate(c, &query); err != nil {
		dto.RespondWithValidationErrors(c, dto.FieldErrors(err))
		return
	}

	after, err := query.After(query.Category)
	if err != nil {
		dto.RespondWithCode(c, dto.ErrorCodeBadRequest, err.Error())
		return
	}

	limit := query.PageSize()
	filter := query.Category
	if filter == "" {
		filter = domain.FilterAll
	}

	// One extra item tells NewPage whether another page exists.
	page := make([]dto.ListedQuote, 0, limit+1)
	for i, q := range h.service.ListQuotes("") {
		if i <= after || !q.MatchesFilter(filter) {
			continue
		}

		page = append(page, dto.ListedQuote{QuoteResponse: dto.NewQuoteResponse(q), Position: i})
		if len(page) > limit {
			break
		}
	}

	c.JSON(http.StatusOK, dto.NewPage(page, limit, func(q dto.ListedQuote) dto.Cursor {
		return dto.Cursor{Position: q.Position, Category: query.Category}
	}))
}

// AddQuote handles POST /api/v1/quotes
//
// @Summary Add a quote
// @Tags quotes
// @Accept json
// @Produce json
// @Param quote body dto.AddQuoteRequest true "Quote"
// @Success 201 {object} dto.QuoteResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/v1/quotes [post]
func (h *QuoteHandler) AddQuote(c *gin.Context) {
	var req dto.AddQuoteRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.RespondWithValidationErrors(c, dto.FieldErrors(err))
		return
	}

	quote, err := h.service.AddQuote(c.Request.Context(), req.Text, req.Category)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewQuoteResponse(quote))
}

// RandomQuote handles GET /api/v1/quotes/random
// Returns a random quote from the requested category or the stored filter.
//
// @Summary Get a random quote
// @Tags quotes
// @Produce json
// @Param category query string false "Category; defaults to the stored filter"
// @Success 200 {object} dto.QuoteResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/quotes/random [get]
func (h *QuoteHandler) RandomQuote(c *gin.Context) {
	var query dto.RandomQuoteQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		dto.RespondWithCode(c, dto.ErrorCodeBadRequest, "invalid query")
		return
	}

	quote, err := h.service.PickRandom(c.Request.Context(), query.Category)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewQuoteResponse(quote))
}

// Categories handles GET /api/v1/categories
func (h *QuoteHandler) Categories(c *gin.Context) {
	categories := h.service.Categories()
	if categories == nil {
		categories = []string{}
	}

	c.JSON(http.StatusOK, dto.CategoriesResponse{Categories: categories})
}

// GetFilter handles GET /api/v1/filter
func (h *QuoteHandler) GetFilter(c *gin.Context) {
	c.JSON(http.StatusOK, dto.FilterResponse{Category: h.service.Filter()})
}

// SetFilter handles PUT /api/v1/filter
//
// @Summary Select the category filter
// @Tags quotes
// @Accept json
// @Produce json
// @Param filter body dto.FilterRequest true "Filter"
// @Success 200 {object} dto.FilterResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/filter [put]
func (h *QuoteHandler) SetFilter(c *gin.Context) {
	var req dto.FilterRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.RespondWithValidationErrors(c, dto.FieldErrors(err))
		return
	}

	filter, err := h.service.SetFilter(c.Request.Context(), req.Category)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FilterResponse{Category: filter})
}

// RegisterQuoteRoutes registers quote routes on the given router group.
func (h *QuoteHandler) RegisterQuoteRoutes(rg *gin.RouterGroup) {
	quotes := rg.Group("/quotes")
	quotes.GET("", h.ListQuotes)
	quotes.POST("", h.AddQuote)
	quotes.GET("/random", h.RandomQuote)

	rg.GET("/categories", h.Categories)
	rg.GET("/filter", h.GetFilter)
	rg.PUT("/filter", h.SetFilter)
}
