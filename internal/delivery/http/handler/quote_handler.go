package handler

import (
	"bytes"
	"net/http"
	"time"

	"cargo-broker/internal/advisory"
	"cargo-broker/internal/document"
	"cargo-broker/internal/middleware"
	"cargo-broker/internal/usecase/partner"
	"cargo-broker/internal/usecase/quote"
	"cargo-broker/internal/usecase/settings"
	"cargo-broker/pkg/utils"

	"github.com/gin-gonic/gin"
)

type QuoteHandler struct {
	quotes   *quote.Service
	partners *partner.Service
	settings *settings.Service
	advisory *advisory.Service
	now      func() time.Time
}

func NewQuoteHandler(quotes *quote.Service, partners *partner.Service, settingsService *settings.Service, advisoryService *advisory.Service) *QuoteHandler {
	return &QuoteHandler{
		quotes:   quotes,
		partners: partners,
		settings: settingsService,
		advisory: advisoryService,
		now:      time.Now,
	}
}

func (h *QuoteHandler) RegisterClientRoutes(router *gin.RouterGroup) {
	quotes := router.Group("/quotes")
	{
		quotes.POST("", h.Submit)
		quotes.GET("", h.List)
		quotes.GET("/:id", h.Get)
		quotes.GET("/:id/actions", h.Actions)
		quotes.POST("/:id/deliver", h.Deliver)
		quotes.POST("/:id/feedback", h.Feedback)
		quotes.GET("/:id/invoice", h.Invoice)
		quotes.GET("/:id/tracking", h.Tracking)
	}
}

func (h *QuoteHandler) RegisterPartnerRoutes(router *gin.RouterGroup) {
	quotes := router.Group("/quotes")
	{
		quotes.POST("/:id/accept", h.Accept)
		quotes.POST("/:id/deny", h.Deny)
		quotes.GET("/:id/suggestion", h.Suggestion)
	}
}

func (h *QuoteHandler) RegisterAdminRoutes(router *gin.RouterGroup) {
	router.POST("/quotes/bulk-status", h.BulkStatus)
	router.POST("/quotes/:id/cancel", h.Cancel)
	router.GET("/statistics", h.Statistics)
}

func (h *QuoteHandler) Submit(c *gin.Context) {
	var req quote.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.quotes.Submit(c.Request.Context(), middleware.GetClientID(c), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Quote request submitted", result)
}

func (h *QuoteHandler) List(c *gin.Context) {
	var filter quote.ListFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	result, err := h.quotes.List(c.Request.Context(), &filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Quote requests retrieved", result)
}

func (h *QuoteHandler) Get(c *gin.Context) {
	result, err := h.quotes.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Quote request retrieved", result)
}

func (h *QuoteHandler) Actions(c *gin.Context) {
	result, err := h.quotes.Actions(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Available actions retrieved", result)
}

func (h *QuoteHandler) Accept(c *gin.Context) {
	var req quote.AcceptDetails
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.quotes.Accept(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Quote accepted", result)
}

func (h *QuoteHandler) Deny(c *gin.Context) {
	result, err := h.quotes.Deny(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Quote denied", result)
}

func (h *QuoteHandler) Deliver(c *gin.Context) {
	result, err := h.quotes.Deliver(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Delivery confirmed", result)
}

func (h *QuoteHandler) Cancel(c *gin.Context) {
	result, err := h.quotes.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Quote request cancelled", result)
}

func (h *QuoteHandler) Feedback(c *gin.Context) {
	var req quote.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.quotes.Feedback(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	message := "Feedback recorded"
	if !result.Applied {
		message = "Feedback already provided"
	}
	utils.SuccessResponse(c, http.StatusOK, message, result)
}

func (h *QuoteHandler) BulkStatus(c *gin.Context) {
	var req quote.BulkStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.quotes.BulkTransition(c.Request.Context(), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Bulk status update completed", result)
}

func (h *QuoteHandler) Statistics(c *gin.Context) {
	result, err := h.quotes.Statistics(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Statistics retrieved", result)
}

// Invoice serves the client invoice or the partner settlement. format=text
// returns the rendered document as an attachment.
func (h *QuoteHandler) Invoice(c *gin.Context) {
	ctx := c.Request.Context()

	request, err := h.quotes.Get(ctx, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	carrier, err := h.partners.Get(ctx, request.PartnerID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	view := document.View(c.DefaultQuery("view", string(document.ViewClient)))
	if !view.Valid() {
		utils.ValidationErrorResponse(c, http.StatusBadRequest, "Invalid input", map[string]string{"view": "must be one of: client partner"})
		return
	}

	inv, err := document.Build(request, carrier, view, h.now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	if c.Query("format") != "text" {
		utils.SuccessResponse(c, http.StatusOK, "Document generated", inv)
		return
	}

	var buf bytes.Buffer
	if err := document.RenderText(&buf, inv); err != nil {
		respondWithError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+inv.Filename+`.txt"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", buf.Bytes())
}

func (h *QuoteHandler) Tracking(c *gin.Context) {
	ctx := c.Request.Context()

	request, err := h.quotes.Get(ctx, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	snapshot, err := h.advisory.TrackingSnapshot(ctx, request)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Tracking snapshot retrieved", snapshot)
}

// Suggestion proposes a price for the partner using the current default fee.
func (h *QuoteHandler) Suggestion(c *gin.Context) {
	ctx := c.Request.Context()

	request, err := h.quotes.Get(ctx, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	fee, err := h.settings.DefaultFee(ctx)
	if err != nil {
		respondWithError(c, err)
		return
	}

	suggestion, err := h.advisory.SuggestQuote(ctx, request, fee.Percent)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Quote suggestion generated", suggestion)
}
