package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func text(body string) gin.HandlerFunc {
	return func(c *gin.Context) { c.String(http.StatusOK, body) }
}

func serve(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())
	assert.Equal(t, "v1", r.apiVersion)
	assert.Equal(t, "/api/v1", r.BasePath())
	assert.Empty(t, r.registrars)

	assert.Equal(t, "/api/v2", NewRouter(gin.New(), WithAPIVersion("v2")).BasePath())
}

func TestDomainGroup_Methods(t *testing.T) {
	engine := gin.New()
	g := NewDomainGroup("flats", "/flats")
	g.GET("", text("list")).
		POST("", text("create")).
		PUT("/:id", text("update")).
		PATCH("/:id", text("patch")).
		DELETE("/:id", text("delete"))
	NewRouter(engine).Register(g).Setup()

	tests := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodGet, "/api/v1/flats", "list"},
		{http.MethodPost, "/api/v1/flats", "create"},
		{http.MethodPut, "/api/v1/flats/1", "update"},
		{http.MethodPatch, "/api/v1/flats/1", "patch"},
		{http.MethodDelete, "/api/v1/flats/1", "delete"},
	}
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			w := serve(engine, tt.method, tt.path)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.body, w.Body.String())
		})
	}
}

func TestDomainGroup_MiddlewareReachesSubgroups(t *testing.T) {
	engine := gin.New()
	society := NewDomainGroup("society", "").Use(func(c *gin.Context) {
		c.Header("X-Chain", "society")
		c.Next()
	})
	society.Group("notices", "/notices").GET("", text("notices"))
	public := NewDomainGroup("auth", "/auth")
	public.POST("/login", text("login"))
	NewRouter(engine).Register(society, public).Setup()

	w := serve(engine, http.MethodGet, "/api/v1/notices")
	assert.Equal(t, "notices", w.Body.String())
	assert.Equal(t, "society", w.Header().Get("X-Chain"))

	w = serve(engine, http.MethodPost, "/api/v1/auth/login")
	assert.Equal(t, "login", w.Body.String())
	assert.Empty(t, w.Header().Get("X-Chain"))
}

func TestDomainGroup_RouteLevelMiddleware(t *testing.T) {
	engine := gin.New()
	g := NewDomainGroup("maintenance", "/maintenance")
	deny := func(c *gin.Context) { c.AbortWithStatus(http.StatusForbidden) }
	g.GET("", text("list"))
	g.POST("", deny, text("create"))
	NewRouter(engine).Register(g).Setup()

	assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/api/v1/maintenance").Code)
	assert.Equal(t, http.StatusForbidden, serve(engine, http.MethodPost, "/api/v1/maintenance").Code)
}

func TestDomainGroup_Accessors(t *testing.T) {
	g := NewDomainGroup("complaints", "/complaints")
	assert.Equal(t, "complaints", g.Name())
	assert.Equal(t, "/complaints", g.Prefix())
}
