package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/societyhub/backend/internal/application/property"
	"github.com/societyhub/backend/internal/domain/resident"
)

// CreateResidentRequest creates an owner or tenant of a flat
type CreateResidentRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"required,max=20"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required,oneof=owner tenant"`
	FlatID   string `json:"flat_id" binding:"required,uuid"`
}

// UpdateUserRequest replaces a user's profile
type UpdateUserRequest struct {
	Name  string `json:"name" binding:"required,max=100"`
	Email string `json:"email" binding:"required,email"`
	Phone string `json:"phone" binding:"required,max=20"`
}

// UserListQuery filters the user listing
type UserListQuery struct {
	Role   string `form:"role" binding:"omitempty,oneof=admin owner tenant"`
	FlatID string `form:"flat_id" binding:"omitempty,uuid"`
}

// UserHandler handles society user endpoints
type UserHandler struct {
	BaseHandler
	userService *property.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *property.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Create godoc
// @ID           createResident
// @Summary      Create a resident
// @Description  Create an owner or tenant and attach them to a flat
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        X-Society-ID header string false "Society id or code, used when the token carries none"
// @Param        request body CreateResidentRequest true "Resident account"
// @Success      201 {object} dto.Response{data=property.UserResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /users [post]
func (h *UserHandler) Create(c *gin.Context) {
	t, actor, ok := h.Society(c)
	if !ok {
		return
	}
	var req CreateResidentRequest
	if !h.BindJSON(c, &req) {
		return
	}
	flatID, _ := uuid.Parse(req.FlatID)
	user, err := h.userService.CreateResident(c.Request.Context(), t, actor, property.CreateResidentInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
		Role:     resident.Role(req.Role),
		FlatID:   flatID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, user)
}

// List godoc
// @ID           listUsers
// @Summary      List users
// @Description  List the society's users
// @Tags         users
// @Produce      json
// @Param        X-Society-ID header string false "Society id or code, used when the token carries none"
// @Param        role query string false "Role" Enums(admin, owner, tenant)
// @Param        flat_id query string false "Flat ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]property.UserResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /users [get]
func (h *UserHandler) List(c *gin.Context) {
	t, _, ok := h.Society(c)
	if !ok {
		return
	}
	var q UserListQuery
	if !h.BindQuery(c, &q) {
		return
	}
	filter := resident.UserFilter{Role: resident.Role(q.Role)}
	if q.FlatID != "" {
		flatID, _ := uuid.Parse(q.FlatID)
		filter.FlatID = &flatID
	}
	users, err := h.userService.List(c.Request.Context(), t, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, users, len(users))
}

// Get godoc
// @ID           getUser
// @Summary      Get a user
// @Description  Admins read any user, residents only themselves
// @Tags         users
// @Produce      json
// @Param        X-Society-ID header string false "Society id or code, used when the token carries none"
// @Param        id path string true "User ID" format(uuid)
// @Success      200 {object} dto.Response{data=property.UserResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /users/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	t, actor, ok := h.Society(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	user, err := h.userService.Get(c.Request.Context(), t, actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// Update godoc
// @ID           updateUser
// @Summary      Update a user
// @Description  Replace a user's profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        X-Society-ID header string false "Society id or code, used when the token carries none"
// @Param        id path string true "User ID" format(uuid)
// @Param        request body UpdateUserRequest true "Profile"
// @Success      200 {object} dto.Response{data=property.UserResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /users/{id} [put]
func (h *UserHandler) Update(c *gin.Context) {
	t, actor, ok := h.Society(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var req UpdateUserRequest
	if !h.BindJSON(c, &req) {
		return
	}
	user, err := h.userService.Update(c.Request.Context(), t, actor, id, property.UpdateUserInput{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// Deactivate godoc
// @ID           deactivateUser
// @Summary      Deactivate a user
// @Description  Deactivate a user and revoke their sessions
// @Tags         users
// @Produce      json
// @Param        X-Society-ID header string false "Society id or code, used when the token carries none"
// @Param        id path string true "User ID" format(uuid)
// @Success      204 "No Content"
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /users/{id} [delete]
func (h *UserHandler) Deactivate(c *gin.Context) {
	t, actor, ok := h.Society(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	if err := h.userService.Deactivate(c.Request.Context(), t, actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
