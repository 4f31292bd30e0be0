package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"campus-lostfound-api/internal/flash"
	"campus-lostfound-api/internal/middleware"
	"campus-lostfound-api/internal/response"
)

// handleServiceError maps service layer errors to appropriate HTTP
// responses. Browser form flows get a flash notice and a redirect to
// fallbackPath instead of a hard error page.
func handleServiceError(c *gin.Context, err error, fallbackPath string) {
	if middleware.WantsJSON(c) {
		sendJSONError(c, err)
		return
	}

	flash.Set(c, userMessage(err))
	c.Redirect(http.StatusSeeOther, fallbackPath)
}

func sendJSONError(c *gin.Context, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		response.SendError(c, http.StatusNotFound, response.ErrCodeNotFound, "Resource not found")
		return
	}

	var appErr *response.AppError
	if errors.As(err, &appErr) {
		statusCode := mapErrorCodeToHTTPStatus(appErr.Code)
		response.SendError(c, statusCode, appErr.Code, appErr.Message)
		return
	}

	response.SendError(c, http.StatusInternalServerError, response.ErrCodeInternal, "Internal server error")
}

// userMessage extracts the user-facing notice from a service error
func userMessage(err error) string {
	var appErr *response.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "Resource not found"
	}
	return "Something went wrong. Please try again"
}

// mapErrorCodeToHTTPStatus maps error codes to HTTP status codes
func mapErrorCodeToHTTPStatus(code string) int {
	switch code {
	case response.ErrCodeNotFound:
		return http.StatusNotFound
	case response.ErrCodeAlreadyExists:
		return http.StatusConflict
	case response.ErrCodeValidation:
		return http.StatusBadRequest
	case response.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case response.ErrCodeForbidden:
		return http.StatusForbidden
	case response.ErrCodeTokenExpired, response.ErrCodeTokenInvalid:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
