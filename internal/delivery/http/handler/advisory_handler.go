package handler

import (
	"net/http"

	"cargo-broker/internal/advisory"
	"cargo-broker/internal/events"
	"cargo-broker/internal/middleware"
	"cargo-broker/internal/usecase/quote"
	"cargo-broker/internal/watch"
	appErrors "cargo-broker/pkg/errors"
	"cargo-broker/pkg/utils"

	"github.com/gin-gonic/gin"
)

// EventMetrics exposes the event dispatcher counters.
type EventMetrics interface {
	Metrics() events.DispatchMetrics
}

type AdvisoryHandler struct {
	advisory *advisory.Service
	quotes   *quote.Service
	watcher  *watch.Watcher
	events   EventMetrics
}

func NewAdvisoryHandler(advisoryService *advisory.Service, quotes *quote.Service, watcher *watch.Watcher, metrics EventMetrics) *AdvisoryHandler {
	return &AdvisoryHandler{
		advisory: advisoryService,
		quotes:   quotes,
		watcher:  watcher,
		events:   metrics,
	}
}

func (h *AdvisoryHandler) RegisterClientRoutes(router *gin.RouterGroup) {
	router.GET("/advisory/currency", h.LocalCurrency)
	router.GET("/notifications/expiring", h.Expiring)
}

func (h *AdvisoryHandler) RegisterAdminRoutes(router *gin.RouterGroup) {
	router.GET("/summary", h.Summary)
	router.GET("/events/metrics", h.EventMetrics)
}

type currencyQuery struct {
	Destination string   `form:"destination" json:"destination" validate:"omitempty,max=200"`
	Amount      *float64 `form:"amount" json:"amount" validate:"omitempty,gte=0"`
	Lat         *float64 `form:"lat" json:"lat" validate:"required_with=Lng,omitempty,gte=-90,lte=90"`
	Lng         *float64 `form:"lng" json:"lng" validate:"required_with=Lat,omitempty,gte=-180,lte=180"`
}

// LocalCurrency resolves the display currency for ?destination=, optionally
// converting ?amount= (USD). With ?lat=&lng= it resolves the currency code at
// that position instead.
func (h *AdvisoryHandler) LocalCurrency(c *gin.Context) {
	var query currencyQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}
	if err := utils.ValidateStruct(&query); err != nil {
		respondWithError(c, appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err))
		return
	}

	if query.Lat != nil && query.Lng != nil {
		code := h.advisory.CurrencyAt(c.Request.Context(), advisory.Coordinates{Lat: *query.Lat, Lng: *query.Lng})
		utils.SuccessResponse(c, http.StatusOK, "Currency resolved", code)
		return
	}

	destination := utils.SanitizeString(query.Destination)
	result := h.advisory.LocalCurrency(c.Request.Context(), middleware.GetClientID(c), destination)
	if query.Amount != nil {
		result.LocalizeAmount(*query.Amount)
	}

	utils.SuccessResponse(c, http.StatusOK, "Currency resolved", result)
}

// Expiring returns the badge for accepted quotes close to the end of validity.
func (h *AdvisoryHandler) Expiring(c *gin.Context) {
	badge, err := h.watcher.Badge(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Expiring quotes retrieved", badge)
}

func (h *AdvisoryHandler) Summary(c *gin.Context) {
	ctx := c.Request.Context()

	requests, err := h.quotes.List(ctx, nil)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Operations summary generated", gin.H{
		"summary":  h.advisory.OperationsSummary(ctx, requests),
		"requests": len(requests),
		"offline":  h.advisory.Guard().Offline(),
	})
}

func (h *AdvisoryHandler) EventMetrics(c *gin.Context) {
	if h.events == nil {
		utils.SuccessResponse(c, http.StatusOK, "Event metrics retrieved", events.DispatchMetrics{})
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Event metrics retrieved", h.events.Metrics())
}
