package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/societyhub/backend/internal/application/identity"
)

// RegisterSocietyRequest adds a society to the master registry
type RegisterSocietyRequest struct {
	Name    string `json:"name" binding:"required,max=200"`
	Code    string `json:"code" binding:"required,society_code,max=64"`
	DSN     string `json:"dsn" binding:"required"`
	Address string `json:"address" binding:"max=500"`
}

// CreateAdminRequest seeds an admin inside a society store
type CreateAdminRequest struct {
	Society  string `json:"society" binding:"required"`
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"required,max=20"`
	Password string `json:"password" binding:"required"`
}

// ProvisioningHandler serves the platform operator endpoints
type ProvisioningHandler struct {
	BaseHandler
	service *identity.ProvisioningService
}

// NewProvisioningHandler creates a new ProvisioningHandler
func NewProvisioningHandler(service *identity.ProvisioningService) *ProvisioningHandler {
	return &ProvisioningHandler{service: service}
}

// RegisterSociety godoc
// @ID           registerSociety
// @Summary      Register a society
// @Description  Add a society to the master registry and migrate its store
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        request body RegisterSocietyRequest true "Society descriptor"
// @Success      201 {object} dto.Response{data=identity.SocietyResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/societies [post]
func (h *ProvisioningHandler) RegisterSociety(c *gin.Context) {
	var req RegisterSocietyRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resp, err := h.service.RegisterSociety(c.Request.Context(), identity.RegisterSocietyInput{
		Name: req.Name, Code: req.Code, DSN: req.DSN, Address: req.Address,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// ListSocieties godoc
// @ID           listSocieties
// @Summary      List societies
// @Description  List every registered society
// @Tags         admin
// @Produce      json
// @Success      200 {object} dto.Response{data=[]identity.SocietyResponse,meta=dto.Meta}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/societies [get]
func (h *ProvisioningHandler) ListSocieties(c *gin.Context) {
	items, err := h.service.ListSocieties(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, items, len(items))
}

// CreateAdmin godoc
// @ID           createAdmin
// @Summary      Create a society admin
// @Description  Seed an admin user inside a society store
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        request body CreateAdminRequest true "Admin account"
// @Success      201 {object} dto.Response{data=identity.UserInfo}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/admins [post]
func (h *ProvisioningHandler) CreateAdmin(c *gin.Context) {
	var req CreateAdminRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resp, err := h.service.CreateAdmin(c.Request.Context(), identity.CreateAdminInput{
		Society:  req.Society,
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}
