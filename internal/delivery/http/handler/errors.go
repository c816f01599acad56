package handler

import (
	"errors"
	"net/http"

	"cargo-broker/internal/advisory"
	"cargo-broker/internal/document"
	domainPartner "cargo-broker/internal/domain/partner"
	domainQuote "cargo-broker/internal/domain/quote"
	"cargo-broker/internal/domain/settings"
	"cargo-broker/internal/logger"
	"cargo-broker/internal/middleware"
	appErrors "cargo-broker/pkg/errors"
	"cargo-broker/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func respondWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	switch {
	case errors.Is(err, domainQuote.ErrRequestNotFound),
		errors.Is(err, domainPartner.ErrPartnerNotFound),
		errors.Is(err, settings.ErrPaymentMethodNotFound),
		errors.Is(err, appErrors.ErrNotFound):
		utils.ErrorResponse(c, http.StatusNotFound, errorMessage(err))
		return
	case errors.Is(err, domainPartner.ErrPartnerBlocked):
		utils.ErrorResponse(c, http.StatusForbidden, errorMessage(err))
		return
	case errors.Is(err, settings.ErrPaymentMethodExists),
		errors.Is(err, document.ErrNotFinalized),
		errors.Is(err, advisory.ErrNoActiveTracking),
		errors.Is(err, appErrors.ErrConflict):
		utils.ErrorResponse(c, http.StatusConflict, errorMessage(err))
		return
	}

	var appErr *appErrors.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case appErrors.CodeValidation:
			utils.ValidationErrorResponse(c, http.StatusBadRequest, appErr.Message, appErrors.Fields(err))
		case appErrors.CodeInvalidStatus, appErrors.CodeInvalidTransition:
			utils.ErrorResponse(c, http.StatusConflict, appErr.Message)
		case appErrors.CodeNotFound:
			utils.ErrorResponse(c, http.StatusNotFound, appErr.Message)
		case appErrors.CodePartnerBlocked:
			utils.ErrorResponse(c, http.StatusForbidden, appErr.Message)
		default:
			utils.ErrorResponse(c, http.StatusBadRequest, appErr.Message)
		}
		return
	}

	requestID := middleware.GetRequestID(c)
	logger.Error("Internal server error",
		zap.String("request_id", requestID),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
		zap.Error(err),
	)
	utils.ErrorResponse(c, http.StatusInternalServerError, "Internal server error")
}

// errorMessage prefers the client-facing message of an AppError.
func errorMessage(err error) string {
	var appErr *appErrors.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
