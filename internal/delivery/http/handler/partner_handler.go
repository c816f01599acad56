package handler

import (
	"net/http"

	"cargo-broker/internal/middleware"
	"cargo-broker/internal/usecase/partner"
	"cargo-broker/internal/usecase/quote"
	"cargo-broker/pkg/utils"

	"github.com/gin-gonic/gin"
)

type PartnerHandler struct {
	partners *partner.Service
	quotes   *quote.Service
}

func NewPartnerHandler(partners *partner.Service, quotes *quote.Service) *PartnerHandler {
	return &PartnerHandler{partners: partners, quotes: quotes}
}

func (h *PartnerHandler) RegisterClientRoutes(router *gin.RouterGroup) {
	partners := router.Group("/partners")
	{
		partners.GET("", h.Directory)
		partners.GET("/selectable", h.Selectable)
		partners.GET("/:id", h.Get)
		partners.POST("/:id/block", h.ToggleBlock)
	}
}

func (h *PartnerHandler) RegisterPartnerRoutes(router *gin.RouterGroup) {
	partners := router.Group("/partners")
	{
		partners.GET("/:id/queue", h.Queue)
		partners.PUT("/:id/availability", h.SetAvailability)
	}
}

func (h *PartnerHandler) RegisterAdminRoutes(router *gin.RouterGroup) {
	router.POST("/partners/:id/testimonials", h.AddTestimonial)
}

// Directory lists every partner with the caller's block flag.
func (h *PartnerHandler) Directory(c *gin.Context) {
	result, err := h.partners.Directory(c.Request.Context(), middleware.GetClientID(c))
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Partners retrieved", result)
}

// Selectable lists the partners the caller may route a new request to.
func (h *PartnerHandler) Selectable(c *gin.Context) {
	result, err := h.partners.Selectable(c.Request.Context(), middleware.GetClientID(c))
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Selectable partners retrieved", result)
}

func (h *PartnerHandler) Get(c *gin.Context) {
	result, err := h.partners.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Partner retrieved", result)
}

func (h *PartnerHandler) ToggleBlock(c *gin.Context) {
	result, err := h.partners.ToggleBlock(c.Request.Context(), middleware.GetClientID(c), c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	message := "Partner unblocked"
	if result.Blocked {
		message = "Partner blocked"
	}
	utils.SuccessResponse(c, http.StatusOK, message, result)
}

func (h *PartnerHandler) Queue(c *gin.Context) {
	result, err := h.quotes.PartnerQueue(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Partner queue retrieved", result)
}

func (h *PartnerHandler) SetAvailability(c *gin.Context) {
	var req partner.AvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.partners.SetAvailability(c.Request.Context(), middleware.GetClientID(c), c.Param("id"), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Availability updated", result)
}

// AddTestimonial records an admin-curated testimonial and folds its rating in.
func (h *PartnerHandler) AddTestimonial(c *gin.Context) {
	var req partner.TestimonialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.partners.AddFeedback(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Testimonial added", result)
}
