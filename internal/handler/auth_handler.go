package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"campus-lostfound-api/internal/dto"
	"campus-lostfound-api/internal/flash"
	"campus-lostfound-api/internal/middleware"
	"campus-lostfound-api/internal/response"
	"campus-lostfound-api/internal/service"
	"campus-lostfound-api/internal/session"
)

type AuthHandler struct {
	authService service.AuthService
	sessionTTL  time.Duration
}

func NewAuthHandler(authService service.AuthService, sessionTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		sessionTTL:  sessionTTL,
	}
}

// RegisterPage serves the registration entry point together with any
// pending notice from a previous redirect.
func (h *AuthHandler) RegisterPage(c *gin.Context) {
	response.SendSuccess(c, http.StatusOK, gin.H{"notice": flash.Pop(c)})
}

// Register creates an unconfirmed account and mails the confirmation link
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		handleServiceError(c, response.NewAppError(response.ErrCodeValidation, "Invalid registration form", err.Error()), "/register")
		return
	}

	result, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err, "/register")
		return
	}

	notice := "Registration accepted. Check your inbox for the confirmation link"
	if !result.ConfirmationSent {
		notice = "Registration accepted, but the confirmation mail could not be sent. Please try registering again later"
	}

	if middleware.WantsJSON(c) {
		response.SendSuccess(c, http.StatusCreated, gin.H{
			"user":              result.User,
			"confirmation_sent": result.ConfirmationSent,
		})
		return
	}
	flash.Set(c, notice)
	c.Redirect(http.StatusSeeOther, "/login")
}

// Confirm processes a confirmation link from the mailed URL
func (h *AuthHandler) Confirm(c *gin.Context) {
	result, err := h.authService.Confirm(c.Request.Context(), c.Param("token"))
	if err != nil {
		// Expired and invalid links both route back to registration,
		// with different wording
		handleServiceError(c, err, "/register")
		return
	}

	notice := "Email address confirmed. You can now log in"
	if result.AlreadyConfirmed {
		notice = "This account is already confirmed"
	}

	if middleware.WantsJSON(c) {
		response.SendSuccess(c, http.StatusOK, gin.H{
			"email":             result.Email,
			"already_confirmed": result.AlreadyConfirmed,
		})
		return
	}
	flash.Set(c, notice)
	c.Redirect(http.StatusSeeOther, "/login")
}

// LoginPage serves the login entry point together with any pending notice
func (h *AuthHandler) LoginPage(c *gin.Context) {
	response.SendSuccess(c, http.StatusOK, gin.H{"notice": flash.Pop(c)})
}

// Login checks credentials and sets the session cookie
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		handleServiceError(c, response.NewAppError(response.ErrCodeValidation, "Invalid login form", err.Error()), "/login")
		return
	}

	sessionToken, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err, "/login")
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(session.CookieName, sessionToken, int(h.sessionTTL.Seconds()), "/", "", false, true)

	if middleware.WantsJSON(c) {
		response.SendSuccess(c, http.StatusOK, gin.H{"logged_in": true})
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// Logout revokes the session and clears the cookie
func (h *AuthHandler) Logout(c *gin.Context) {
	if tokenStr, err := c.Cookie(session.CookieName); err == nil {
		if err := h.authService.Logout(c.Request.Context(), tokenStr); err != nil {
			handleServiceError(c, err, "/login")
			return
		}
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(session.CookieName, "", -1, "/", "", false, true)

	if middleware.WantsJSON(c) {
		response.SendSuccess(c, http.StatusOK, gin.H{"logged_out": true})
		return
	}
	flash.Set(c, "You have been logged out")
	c.Redirect(http.StatusSeeOther, "/login")
}
