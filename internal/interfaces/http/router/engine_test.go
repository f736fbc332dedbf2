package router

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/societyhub/backend/internal/interfaces/http/handler"
	"github.com/societyhub/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func swaggerEngine(t *testing.T, cfg middleware.SwaggerConfig, auth gin.HandlerFunc) *gin.Engine {
	t.Helper()
	engine, err := NewEngine(EngineConfig{Swagger: cfg, SwaggerAuth: auth}, handler.NewSystemHandler("test", nil, nil))
	require.NoError(t, err)
	return engine
}

func TestNewEngine_Swagger(t *testing.T) {
	t.Run("serves the api document", func(t *testing.T) {
		w := serve(swaggerEngine(t, middleware.SwaggerConfig{Enabled: true}, nil), http.MethodGet, "/swagger/doc.json")

		require.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, `"title": "SocietyHub API"`)
		assert.Contains(t, body, `"basePath": "/api/v1"`)
		assert.Contains(t, body, `"/maintenance/{id}/pay"`)
		assert.Contains(t, body, `"/notices/all"`)
		assert.Contains(t, body, `"BearerAuth"`)
	})

	t.Run("disabled by default", func(t *testing.T) {
		w := serve(swaggerEngine(t, middleware.SwaggerConfig{}, nil), http.MethodGet, "/swagger/doc.json")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("auth chain guards the document", func(t *testing.T) {
		calls := 0
		deny := func(c *gin.Context) {
			calls++
			c.AbortWithStatus(http.StatusUnauthorized)
		}
		w := serve(swaggerEngine(t, middleware.SwaggerConfig{Enabled: true, RequireAuth: true}, deny), http.MethodGet, "/swagger/doc.json")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, 1, calls)
	})

	t.Run("operational routes stay open", func(t *testing.T) {
		w := serve(swaggerEngine(t, middleware.SwaggerConfig{}, nil), http.MethodGet, "/ping")
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
