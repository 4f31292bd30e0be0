package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campus-lostfound-api/internal/session"
)

func setupAuthRouter(t *testing.T, sessions *session.Manager) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", RequireSession(sessions), func(c *gin.Context) {
		userID, ok := CurrentUserID(c)
		require.True(t, ok)
		c.String(http.StatusOK, userID.String())
	})
	return router
}

func TestRequireSession_ValidCookie(t *testing.T) {
	sessions := session.NewManager("test-secret", time.Hour, nil)
	router := setupAuthRouter(t, sessions)

	userID := uuid.New()
	tokenStr, err := sessions.Issue(userID)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: tokenStr})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, userID.String(), w.Body.String())
}

func TestRequireSession_BrowserRedirectsToLogin(t *testing.T) {
	tests := []struct {
		name   string
		cookie *http.Cookie
	}{
		{"no cookie", nil},
		{"garbage token", &http.Cookie{Name: session.CookieName, Value: "garbage"}},
	}

	sessions := session.NewManager("test-secret", time.Hour, nil)
	router := setupAuthRouter(t, sessions)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/protected", nil)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusSeeOther, w.Code)
			assert.Equal(t, "/login", w.Header().Get("Location"))
			// A notice must be queued for the login page
			assert.Contains(t, w.Header().Get("Set-Cookie"), "lostfound_notice")
		})
	}
}

func TestRequireSession_JSONClientGets401(t *testing.T) {
	sessions := session.NewManager("test-secret", time.Hour, nil)
	router := setupAuthRouter(t, sessions)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Accept", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireSession_RejectsExpiredSession(t *testing.T) {
	expired := session.NewManager("test-secret", -time.Minute, nil)
	active := session.NewManager("test-secret", time.Hour, nil)
	router := setupAuthRouter(t, active)

	tokenStr, err := expired.Issue(uuid.New())
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: tokenStr})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
}
