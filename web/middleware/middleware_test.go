package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/quillpress/quillpress/database/model"
	"github.com/quillpress/quillpress/web/cache"
	"github.com/quillpress/quillpress/web/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func protected(auth *service.AuthService, role model.Role) *gin.Engine {
	engine := gin.New()
	handlers := []gin.HandlerFunc{TokenAuth(auth)}
	if role != "" {
		handlers = append(handlers, RequireRole(role))
	}
	handlers = append(handlers, func(c *gin.Context) {
		c.String(http.StatusOK, "%d", GetIdentity(c).UserId)
	})
	engine.GET("/", handlers...)
	return engine
}

func TestTokenAuth(t *testing.T) {
	auth := service.NewAuthService(nil, "secret")
	token, err := auth.IssueToken(&model.User{Id: 7, Role: model.RoleUser})
	require.NoError(t, err)
	engine := protected(auth, "")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := serve(engine, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "7", w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("token", token)
	assert.Equal(t, http.StatusOK, serve(engine, req).Code)

	for _, h := range []string{"", "Bearer", "Basic " + token, "Bearer garbage"} {
		req = httptest.NewRequest(http.MethodGet, "/", nil)
		if h != "" {
			req.Header.Set("Authorization", h)
		}
		w := serve(engine, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, h)
		assert.Contains(t, w.Body.String(), `"message"`)
	}
}

func TestRequireRole(t *testing.T) {
	auth := service.NewAuthService(nil, "secret")
	engine := protected(auth, model.RoleAdmin)

	user, err := auth.IssueToken(&model.User{Id: 1, Role: model.RoleUser})
	require.NoError(t, err)
	admin, err := auth.IssueToken(&model.User{Id: 2, Role: model.RoleAdmin})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+user)
	assert.Equal(t, http.StatusForbidden, serve(engine, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+admin)
	assert.Equal(t, http.StatusOK, serve(engine, req).Code)
}

func TestRateLimit(t *testing.T) {
	store, err := cache.NewClient(context.Background(), "")
	require.NoError(t, err)
	defer store.Close()

	engine := gin.New()
	engine.POST("/login", RateLimit(store, DefaultRateLimitConfig(2)), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	engine.POST("/other", RateLimit(store, DefaultRateLimitConfig(2)), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	for j := 0; j < 2; j++ {
		assert.Equal(t, http.StatusNoContent, serve(engine, httptest.NewRequest(http.MethodPost, "/login", nil)).Code)
	}
	w := serve(engine, httptest.NewRequest(http.MethodPost, "/login", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	// counted per route
	assert.Equal(t, http.StatusNoContent, serve(engine, httptest.NewRequest(http.MethodPost, "/other", nil)).Code)
}

func TestRequestID(t *testing.T) {
	engine := gin.New()
	engine.Use(RequestID())
	engine.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, GetRequestID(c))
	})

	w := serve(engine, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)
	assert.Equal(t, w.Header().Get(RequestIDHeader), w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = serve(engine, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestRecovery(t *testing.T) {
	for _, production := range []bool{false, true} {
		engine := gin.New()
		engine.Use(RequestID(), AccessLog(), Recovery(production))
		engine.GET("/", func(c *gin.Context) {
			panic("boom")
		})

		w := serve(engine, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "internal server error")
		if production {
			assert.NotContains(t, w.Body.String(), "boom")
		} else {
			assert.Contains(t, w.Body.String(), "boom")
		}
	}
}
