package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appcomplaint "github.com/societyhub/backend/internal/application/complaint"
	"github.com/societyhub/backend/internal/domain/complaint"
)

// CreateComplaintRequest opens a complaint
type CreateComplaintRequest struct {
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description" binding:"required,max=5000"`
	FlatID      string `json:"flat_id" binding:"omitempty,uuid"`
	Category    string `json:"category" binding:"omitempty,oneof=maintenance security noise billing other"`
	Priority    string `json:"priority" binding:"omitempty,oneof=low medium high"`
	IsPrivate   bool   `json:"is_private"`
}

// UpdateComplaintStatusRequest moves a complaint through its lifecycle
type UpdateComplaintStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=open in_progress resolved closed"`
}

// AssignComplaintRequest replaces the assignees of a complaint
type AssignComplaintRequest struct {
	Admins []string `json:"admins" binding:"dive,uuid"`
	Users  []string `json:"users" binding:"dive,uuid"`
}

// CommentRequest adds a comment to a complaint
type CommentRequest struct {
	Message string `json:"message" binding:"required,max=2000"`
}

// ComplaintHandler handles complaint endpoints
type ComplaintHandler struct {
	BaseHandler
	service *appcomplaint.Service
}

// NewComplaintHandler creates a new ComplaintHandler
func NewComplaintHandler(service *appcomplaint.Service) *ComplaintHandler {
	return &ComplaintHandler{service: service}
}

// Create godoc
// @ID           createComplaint
// @Summary      Open a complaint
// @Description  Open a complaint. Residents file against their own flat.
// @Tags         complaints
// @Accept       json
// @Produce      json
// @Param        X-Society-ID header string false "Society id or code, used when the token carries none"
// @Param        request body CreateComplaintRequest true "Complaint"
// @Success      201 {object} dto.Response{data=complaint.ComplaintResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /complaints [post]
func (h *ComplaintHandler) Create(c *gin.Context) {
	t, actor, ok := h.Society(c)
	if !ok {
		return
	}
	var req CreateComplaintRequest
	if !h.BindJSON(c, &req) {
		return
	}
	input := appcomplaint.CreateComplaintInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    complaint.Category(req.Category),
		Priority:    complaint.Priority(req.Priority),
		IsPrivate:   req.IsPrivate,
	}
	if req.FlatID != "" {
		flatID, _ := uuid.Parse(req.FlatID)
		input.FlatID = &flatID
	}
	resp, err := h.service.Create(c.Request.Context(), t, actor, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List godoc
// @ID           listComplaints
// @Summary      List complaints
// @Description  Admins see every complaint, residents public ones and their own
// @Tags         complaints
// @Produce      json
// @Param        X-Society-ID header string false "Society id or code, used when the token carries none"
// @Success      200 {object} dto.Response{data=[]complaint.ComplaintResponse,meta=dto.Meta}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /complaints [get]
func (h *ComplaintHandler) List(c *gin.Context) {
	t, actor, ok := h.Society(c)
	if !ok {
		return
	}
	items, err := h.service.List(c.Request.Context(), t, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, items, len(items))
}

// Get godoc
// @ID           getComplaint
// @Summary      Get a complaint
// @Description  Retrieve a complaint by ID
// @Tags         complaints
// @Produce      json
// @Param        X-Society-ID header string false "Society id or code, used when the token carries none"
// @Param        id path string true "Complaint ID" format(uuid)
// @Success      200 {object} dto.Response{data=complaint.ComplaintResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /complaints/{id} [get]
func (h *ComplaintHandler) Get(c *gin.Context) {
	t, actor, ok := h.Society(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	resp, err := h.service.Get(c.Request.Context(), t, actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateStatus godoc
// @ID           updateComplaintStatus
// @Summary      Change complaint status
// @Description  Move a complaint through its lifecycle
// @Tags         complaints
// @Accept       json
// @Produce      json
// @Param        X-Society-ID header string false "Society id or code, used when the token carries none"
// @Param        id path string true "Complaint ID" format(uuid)
// @Param        request body UpdateComplaintStatusRequest true "New status"
// @Success      200 {object} dto.Response{data=complaint.ComplaintResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /complaints/{id}/status [patch]
func (h *ComplaintHandler) UpdateStatus(c *gin.Context) {
	t, actor, ok := h.Society(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var req UpdateComplaintStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resp, err := h.service.UpdateStatus(c.Request.Context(), t, actor, id, complaint.Status(req.Status))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Assign godoc
// @ID           assignComplaint
// @Summary      Assign a complaint
// @Description  Replace the admins and users assigned to a complaint
// @Tags         complaints
// @Accept       json
// @Produce      json
// @Param        X-Society-ID header string false "Society id or code, used when the token carries none"
// @Param        id path string true "Complaint ID" format(uuid)
// @Param        request body AssignComplaintRequest true "Assignees"
// @Success      200 {object} dto.Response{data=complaint.ComplaintResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /complaints/{id}/assign [put]
func (h *ComplaintHandler) Assign(c *gin.Context) {
	t, actor, ok := h.Society(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var req AssignComplaintRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resp, err := h.service.Assign(c.Request.Context(), t, actor, id, appcomplaint.AssignInput{
		Admins: parseUUIDs(req.Admins),
		Users:  parseUUIDs(req.Users),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete godoc
// @ID           deleteComplaint
// @Summary      Delete a complaint
// @Description  Delete a complaint and its comments
// @Tags         complaints
// @Produce      json
// @Param        X-Society-ID header string false "Society id or code, used when the token carries none"
// @Param        id path string true "Complaint ID" format(uuid)
// @Success      204 "No Content"
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /complaints/{id} [delete]
func (h *ComplaintHandler) Delete(c *gin.Context) {
	t, actor, ok := h.Society(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), t, actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Comments godoc
// @ID           listComplaintComments
// @Summary      List comments
// @Description  List the comments of a complaint in posting order
// @Tags         complaints
// @Produce      json
// @Param        X-Society-ID header string false "Society id or code, used when the token carries none"
// @Param        id path string true "Complaint ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]complaint.CommentResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /complaints/{id}/comments [get]
func (h *ComplaintHandler) Comments(c *gin.Context) {
	t, actor, ok := h.Society(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	items, err := h.service.Comments(c.Request.Context(), t, actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, items, len(items))
}

// AddComment godoc
// @ID           addComplaintComment
// @Summary      Add a comment
// @Description  Comment on a complaint the caller can see
// @Tags         complaints
// @Accept       json
// @Produce      json
// @Param        X-Society-ID header string false "Society id or code, used when the token carries none"
// @Param        id path string true "Complaint ID" format(uuid)
// @Param        request body CommentRequest true "Comment"
// @Success      201 {object} dto.Response{data=complaint.CommentResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /complaints/{id}/comments [post]
func (h *ComplaintHandler) AddComment(c *gin.Context) {
	t, actor, ok := h.Society(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var req CommentRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resp, err := h.service.AddComment(c.Request.Context(), t, actor, id, req.Message)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// parseUUIDs converts ids already checked by the uuid binding tag
func parseUUIDs(raw []string) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		if id, err := uuid.Parse(s); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}
