package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCSRFRouter(executed *bool) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(CSRFMiddleware([]byte("0123456789abcdef0123456789abcdef"), false))
	router.GET("/token", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	router.POST("/mutate", func(c *gin.Context) {
		*executed = true
		c.JSON(http.StatusOK, gin.H{"done": true})
	})
	return router
}

func TestCSRFMiddleware(t *testing.T) {
	t.Run("mutation without a token is rejected before the handler", func(t *testing.T) {
		executed := false
		router := newCSRFRouter(&executed)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/mutate", nil))

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.False(t, executed, "handler must not run after a CSRF rejection")
		assert.Contains(t, w.Body.String(), "CSRF")
	})

	t.Run("echoed token allows the mutation", func(t *testing.T) {
		executed := false
		router := newCSRFRouter(&executed)

		// Fetch a token the way an API client would: any safe request
		// returns it in the response header plus the csrf cookie.
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/token", nil))
		require.Equal(t, http.StatusOK, w.Code)
		token := w.Header().Get(CSRFTokenHeader)
		require.NotEmpty(t, token)

		req := httptest.NewRequest(http.MethodPost, "/mutate", nil)
		req.Header.Set(CSRFTokenHeader, token)
		for _, cookie := range w.Result().Cookies() {
			req.AddCookie(cookie)
		}
		w = httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, executed)
	})

	t.Run("safe requests pass without a token", func(t *testing.T) {
		executed := false
		router := newCSRFRouter(&executed)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/token", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
