package handler

import (
	"net/http"

	"cargo-broker/internal/usecase/settings"
	"cargo-broker/pkg/utils"

	"github.com/gin-gonic/gin"
)

type SettingsHandler struct {
	service *settings.Service
}

func NewSettingsHandler(service *settings.Service) *SettingsHandler {
	return &SettingsHandler{service: service}
}

func (h *SettingsHandler) RegisterAdminRoutes(router *gin.RouterGroup) {
	methods := router.Group("/payment-methods")
	{
		methods.GET("", h.ListPaymentMethods)
		methods.POST("", h.AddPaymentMethod)
		methods.DELETE("/:id", h.RemovePaymentMethod)
	}

	router.GET("/settings/default-fee", h.GetDefaultFee)
	router.PUT("/settings/default-fee", h.SetDefaultFee)
}

func (h *SettingsHandler) ListPaymentMethods(c *gin.Context) {
	result, err := h.service.PaymentMethods(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Payment methods retrieved", result)
}

func (h *SettingsHandler) AddPaymentMethod(c *gin.Context) {
	var req settings.PaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.service.AddPaymentMethod(c.Request.Context(), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Payment method added", result)
}

func (h *SettingsHandler) RemovePaymentMethod(c *gin.Context) {
	if err := h.service.RemovePaymentMethod(c.Request.Context(), c.Param("id")); err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Payment method removed", nil)
}

func (h *SettingsHandler) GetDefaultFee(c *gin.Context) {
	result, err := h.service.DefaultFee(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Default fee retrieved", result)
}

func (h *SettingsHandler) SetDefaultFee(c *gin.Context) {
	var req settings.DefaultFeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.service.SetDefaultFee(c.Request.Context(), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Default fee updated", result)
}
