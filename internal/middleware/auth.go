package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"campus-lostfound-api/internal/flash"
	"campus-lostfound-api/internal/response"
	"campus-lostfound-api/internal/session"
)

// userIDKey is the gin context key carrying the authenticated user id
const userIDKey = "user_id"

// RequireSession returns a middleware that authenticates the request
// from the session cookie. Browser requests without a valid session are
// redirected to the login page with a notice; API clients get a 401.
func RequireSession(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, err := c.Cookie(session.CookieName)
		if err != nil {
			reject(c, "Please log in first")
			return
		}

		userID, err := sessions.Validate(c.Request.Context(), tokenStr)
		if err != nil {
			reject(c, "Your session has expired. Please log in again")
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

func reject(c *gin.Context, notice string) {
	if WantsJSON(c) {
		response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, notice)
	} else {
		flash.Set(c, notice)
		c.Redirect(http.StatusSeeOther, "/login")
	}
	c.Abort()
}

// CurrentUserID extracts the authenticated user id placed in the
// context by RequireSession.
func CurrentUserID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get(userIDKey)
	if !exists {
		return uuid.Nil, false
	}
	userID, ok := v.(uuid.UUID)
	return userID, ok
}

// WantsJSON reports whether the client asked for a JSON response
// rather than a browser redirect flow.
func WantsJSON(c *gin.Context) bool {
	if strings.Contains(c.GetHeader("Accept"), "application/json") {
		return true
	}
	return strings.Contains(c.ContentType(), "application/json")
}
