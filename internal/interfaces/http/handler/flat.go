package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/societyhub/backend/internal/application/property"
	"github.com/societyhub/backend/internal/application/scope"
	"github.com/societyhub/backend/internal/domain/resident"
)

// FlatRequest is the body of flat create and update
type FlatRequest struct {
	FlatNumber string          `json:"flat_number" binding:"required,max=50"`
	AreaSqFt   decimal.Decimal `json:"area_sq_ft"`
	Tower      string          `json:"tower" binding:"max=50"`
	Floor      string          `json:"floor" binding:"max=20"`
	Block      string          `json:"block" binding:"max=50"`
	Notes      string          `json:"notes" binding:"max=500"`
}

// TransferRequest hands a flat to a new owner or tenant
type TransferRequest struct {
	UserID string `json:"user_id" binding:"required,uuid"`
	Reason string `json:"reason" binding:"max=500"`
}

// FlatHandler handles flat management endpoints
type FlatHandler struct {
	BaseHandler
	flatService *property.FlatService
}

// NewFlatHandler creates a new FlatHandler
func NewFlatHandler(flatService *property.FlatService) *FlatHandler {
	return &FlatHandler{flatService: flatService}
}

// Create godoc
// @ID           createFlat
// @Summary      Create a flat
// @Description  Register a flat in the caller's society
// @Tags         flats
// @Accept       json
// @Produce      json
// @Param        X-Society-ID header string false "Society id or code, used when the token carries none"
// @Param        request body FlatRequest true "Flat details"
// @Success      201 {object} dto.Response{data=property.FlatResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /flats [post]
func (h *FlatHandler) Create(c *gin.Context) {
	t, actor, ok := h.Society(c)
	if !ok {
		return
	}
	var req FlatRequest
	if !h.BindJSON(c, &req) {
		return
	}
	flat, err := h.flatService.Create(c.Request.Context(), t, actor, property.CreateFlatInput{
		FlatNumber: req.FlatNumber,
		AreaSqFt:   req.AreaSqFt,
		Tower:      req.Tower,
		Floor:      req.Floor,
		Block:      req.Block,
		Notes:      req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, flat)
}

// List godoc
// @ID           listFlats
// @Summary      List flats
// @Description  Admins see every flat, residents see their own
// @Tags         flats
// @Produce      json
// @Param        X-Society-ID header string false "Society id or code, used when the token carries none"
// @Success      200 {object} dto.Response{data=[]property.FlatResponse,meta=dto.Meta}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /flats [get]
func (h *FlatHandler) List(c *gin.Context) {
	t, actor, ok := h.Society(c)
	if !ok {
		return
	}
	flats, err := h.flatService.List(c.Request.Context(), t, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, flats, len(flats))
}

// Get godoc
// @ID           getFlat
// @Summary      Get a flat
// @Description  Retrieve a flat by ID
// @Tags         flats
// @Produce      json
// @Param        X-Society-ID header string false "Society id or code, used when the token carries none"
// @Param        id path string true "Flat ID" format(uuid)
// @Success      200 {object} dto.Response{data=property.FlatResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /flats/{id} [get]
func (h *FlatHandler) Get(c *gin.Context) {
	t, actor, ok := h.Society(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	flat, err := h.flatService.Get(c.Request.Context(), t, actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, flat)
}

// Update godoc
// @ID           updateFlat
// @Summary      Update a flat
// @Description  Replace the details of a flat
// @Tags         flats
// @Accept       json
// @Produce      json
// @Param        X-Society-ID header string false "Society id or code, used when the token carries none"
// @Param        id path string true "Flat ID" format(uuid)
// @Param        request body FlatRequest true "Flat details"
// @Success      200 {object} dto.Response{data=property.FlatResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /flats/{id} [put]
func (h *FlatHandler) Update(c *gin.Context) {
	t, actor, ok := h.Society(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var req FlatRequest
	if !h.BindJSON(c, &req) {
		return
	}
	flat, err := h.flatService.Update(c.Request.Context(), t, actor, id, property.UpdateFlatInput{
		FlatNumber: req.FlatNumber,
		AreaSqFt:   req.AreaSqFt,
		Tower:      req.Tower,
		Floor:      req.Floor,
		Block:      req.Block,
		Notes:      req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, flat)
}

// Delete godoc
// @ID           deleteFlat
// @Summary      Delete a flat
// @Description  Delete a flat that has no residents attached
// @Tags         flats
// @Produce      json
// @Param        X-Society-ID header string false "Society id or code, used when the token carries none"
// @Param        id path string true "Flat ID" format(uuid)
// @Success      204 "No Content"
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /flats/{id} [delete]
func (h *FlatHandler) Delete(c *gin.Context) {
	t, actor, ok := h.Society(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	if err := h.flatService.Delete(c.Request.Context(), t, actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// TransferOwnership godoc
// @ID           transferFlatOwnership
// @Summary      Transfer ownership
// @Description  Hand the flat to a new owner and record the ownership history
// @Tags         flats
// @Accept       json
// @Produce      json
// @Param        X-Society-ID header string false "Society id or code, used when the token carries none"
// @Param        id path string true "Flat ID" format(uuid)
// @Param        request body TransferRequest true "New owner"
// @Success      200 {object} dto.Response{data=property.FlatResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /flats/{id}/owner [post]
func (h *FlatHandler) TransferOwnership(c *gin.Context) {
	h.transfer(c, h.flatService.TransferOwnership)
}

// ChangeTenant godoc
// @ID           changeFlatTenant
// @Summary      Change tenant
// @Description  Move a new tenant into the flat and record the tenancy history
// @Tags         flats
// @Accept       json
// @Produce      json
// @Param        X-Society-ID header string false "Society id or code, used when the token carries none"
// @Param        id path string true "Flat ID" format(uuid)
// @Param        request body TransferRequest true "New tenant"
// @Success      200 {object} dto.Response{data=property.FlatResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /flats/{id}/tenant [post]
func (h *FlatHandler) ChangeTenant(c *gin.Context) {
	h.transfer(c, h.flatService.ChangeTenant)
}

type transferFunc func(ctx context.Context, t scope.Tenant, actor scope.Actor, flatID uuid.UUID, input property.TransferInput) (*property.FlatResponse, error)

func (h *FlatHandler) transfer(c *gin.Context, fn transferFunc) {
	t, actor, ok := h.Society(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var req TransferRequest
	if !h.BindJSON(c, &req) {
		return
	}
	userID, _ := uuid.Parse(req.UserID)
	flat, err := fn(c.Request.Context(), t, actor, id, property.TransferInput{UserID: userID, Reason: req.Reason})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, flat)
}

// OwnershipHistory godoc
// @ID           flatOwnershipHistory
// @Summary      Ownership history
// @Description  List the past owners of a flat
// @Tags         flats
// @Produce      json
// @Param        X-Society-ID header string false "Society id or code, used when the token carries none"
// @Param        id path string true "Flat ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]property.HistoryResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /flats/{id}/history/ownership [get]
func (h *FlatHandler) OwnershipHistory(c *gin.Context) {
	h.history(c, resident.HistoryOwnership)
}

// TenancyHistory godoc
// @ID           flatTenancyHistory
// @Summary      Tenancy history
// @Description  List the past tenants of a flat
// @Tags         flats
// @Produce      json
// @Param        X-Society-ID header string false "Society id or code, used when the token carries none"
// @Param        id path string true "Flat ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]property.HistoryResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /flats/{id}/history/tenancy [get]
func (h *FlatHandler) TenancyHistory(c *gin.Context) {
	h.history(c, resident.HistoryTenancy)
}

func (h *FlatHandler) history(c *gin.Context, kind resident.HistoryKind) {
	t, actor, ok := h.Society(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	rows, err := h.flatService.History(c.Request.Context(), t, actor, id, kind)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, rows, len(rows))
}
