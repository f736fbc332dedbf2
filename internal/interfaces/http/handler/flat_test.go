package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/gin-gonic/gin"
	"github.com/societyhub/backend/internal/application/property"
	"github.com/societyhub/backend/internal/domain/resident"
	"github.com/societyhub/backend/internal/interfaces/http/dto"
	"github.com/societyhub/backend/internal/interfaces/http/middleware"
	"github.com/societyhub/backend/internal/testutil/tenanttest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func flatEngine(tn *tenanttest.Tenant, u *resident.User) *gin.Engine {
	h := NewFlatHandler(property.NewFlatService(zap.NewNop()))
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.TenantKey, tn.Tenant)
		c.Set(middleware.ActorKey, tenanttest.Actor(u))
		c.Next()
	})
	r.POST("/flats", h.Create)
	r.GET("/flats", h.List)
	r.GET("/flats/:id", h.Get)
	r.POST("/flats/:id/owner", h.TransferOwnership)
	r.GET("/flats/:id/ownership-history", h.OwnershipHistory)
	return r
}

func call(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestFlatHandler_CreateAndTransfer(t *testing.T) {
	f := gofakeit.New(7)
	tn := tenanttest.New(t, "acme")
	admin := tn.User(t, f, resident.RoleAdmin, nil)
	r := flatEngine(tn, admin)

	w := call(r, http.MethodPost, "/flats", gin.H{"flat_number": "A-101", "area_sq_ft": "950"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode(t, w).Data.(map[string]any)
	assert.Equal(t, "A-101", created["flat_number"])
	assert.Equal(t, "vacant", created["status"])
	id := created["id"].(string)

	w = call(r, http.MethodPost, "/flats", gin.H{"flat_number": "A-101"})
	assert.Equal(t, http.StatusConflict, w.Code)

	owner := tn.User(t, f, resident.RoleOwner, nil)
	w = call(r, http.MethodPost, "/flats/"+id+"/owner", gin.H{"user_id": owner.ID.String(), "reason": "sale deed"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, owner.ID.String(), decode(t, w).Data.(map[string]any)["owner_id"])

	w = call(r, http.MethodGet, "/flats/"+id+"/ownership-history", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode(t, w).Meta.Total)
}

func TestFlatHandler_Validation(t *testing.T) {
	f := gofakeit.New(8)
	tn := tenanttest.New(t, "acme")
	r := flatEngine(tn, tn.User(t, f, resident.RoleAdmin, nil))

	w := call(r, http.MethodPost, "/flats", gin.H{"area_sq_ft": "10"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrCodeValidation, decode(t, w).Error.Code)

	w = call(r, http.MethodGet, "/flats/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = call(r, http.MethodPost, "/flats/"+tn.Society.ID.String()+"/owner", gin.H{"user_id": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFlatHandler_ResidentSeesOwnFlat(t *testing.T) {
	f := gofakeit.New(9)
	tn := tenanttest.New(t, "acme")
	mine := tn.Flat(t, f)
	other := tn.Flat(t, f)
	owner := tn.User(t, f, resident.RoleOwner, mine)
	r := flatEngine(tn, owner)

	w := call(r, http.MethodGet, "/flats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	items := decode(t, w).Data.([]any)
	require.Len(t, items, 1)
	assert.Equal(t, mine.ID.String(), items[0].(map[string]any)["id"])

	w = call(r, http.MethodGet, "/flats/"+other.ID.String(), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
