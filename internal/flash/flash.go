package flash

import (
	"encoding/base64"
	"net/http"

	"github.com/gin-gonic/gin"
)

// cookieName holds the one-shot notice shown after a redirect
const cookieName = "lostfound_notice"

// maxAge keeps an unread notice from lingering forever
const maxAge = 300

// Set stores a one-shot notice for the next request. The value is
// base64-encoded so arbitrary text stays cookie-safe.
func Set(c *gin.Context, message string) {
	encoded := base64.RawURLEncoding.EncodeToString([]byte(message))
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cookieName, encoded, maxAge, "/", "", false, true)
}

// Pop reads and clears the pending notice. Returns the empty string
// when there is none or the cookie is malformed.
func Pop(c *gin.Context) string {
	encoded, err := c.Cookie(cookieName)
	if err != nil {
		return ""
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cookieName, "", -1, "/", "", false, true)

	decoded, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return ""
	}
	return string(decoded)
}
