package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/societyhub/backend/internal/application/notice"
)

// SendNoticeRequest publishes a notice to residents
type SendNoticeRequest struct {
	Title   string `json:"title" binding:"required,max=200"`
	Message string `json:"message" binding:"required,max=5000"`
	Type    string `json:"type" binding:"required,oneof=meeting general event maintenance"`
	UserID  string `json:"user_id" binding:"required_if=Type maintenance,omitempty,uuid"`
}

func (r SendNoticeRequest) toInput() notice.SendInput {
	input := notice.SendInput{Title: r.Title, Message: r.Message, Type: r.Type}
	if r.UserID != "" {
		userID, _ := uuid.Parse(r.UserID)
		input.UserID = &userID
	}
	return input
}

// NoticeHandler handles notice endpoints
type NoticeHandler struct {
	BaseHandler
	service *notice.Service
}

// NewNoticeHandler creates a new NoticeHandler
func NewNoticeHandler(service *notice.Service) *NoticeHandler {
	return &NoticeHandler{service: service}
}

// Send godoc
// @ID           sendNotice
// @Summary      Send a notice
// @Description  Publish a notice to every resident, or to one user for maintenance notices
// @Tags         notices
// @Accept       json
// @Produce      json
// @Param        X-Society-ID header string false "Society id or code, used when the token carries none"
// @Param        request body SendNoticeRequest true "Notice"
// @Success      201 {object} dto.Response{data=notice.DispatchResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /notices [post]
func (h *NoticeHandler) Send(c *gin.Context) {
	t, actor, ok := h.Society(c)
	if !ok {
		return
	}
	var req SendNoticeRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resp, err := h.service.Send(c.Request.Context(), t, actor, req.toInput())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Update godoc
// @ID           updateNotice
// @Summary      Update a notice
// @Description  Rewrite a sent notice, replace the delivered copies and announce the change to the new recipients
// @Tags         notices
// @Accept       json
// @Produce      json
// @Param        X-Society-ID header string false "Society id or code, used when the token carries none"
// @Param        id path string true "Dispatch ID" format(uuid)
// @Param        request body SendNoticeRequest true "Notice"
// @Success      200 {object} dto.Response{data=notice.DispatchResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /notices/{id} [put]
func (h *NoticeHandler) Update(c *gin.Context) {
	t, actor, ok := h.Society(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var req SendNoticeRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resp, err := h.service.Update(c.Request.Context(), t, actor, id, req.toInput())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// All godoc
// @ID           listAllNotices
// @Summary      List all notices
// @Description  List every delivered notice copy in the society, newest first
// @Tags         notices
// @Produce      json
// @Param        X-Society-ID header string false "Society id or code, used when the token carries none"
// @Success      200 {object} dto.Response{data=[]notice.NoticeResponse,meta=dto.Meta}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /notices/all [get]
func (h *NoticeHandler) All(c *gin.Context) {
	t, _, ok := h.Society(c)
	if !ok {
		return
	}
	items, err := h.service.ListAll(c.Request.Context(), t)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, items, len(items))
}

// Mine godoc
// @ID           listMyNotices
// @Summary      List my notices
// @Description  List the notices delivered to the caller
// @Tags         notices
// @Produce      json
// @Param        X-Society-ID header string false "Society id or code, used when the token carries none"
// @Success      200 {object} dto.Response{data=[]notice.NoticeResponse,meta=dto.Meta}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /notices [get]
func (h *NoticeHandler) Mine(c *gin.Context) {
	t, actor, ok := h.Society(c)
	if !ok {
		return
	}
	items, err := h.service.ListForUser(c.Request.Context(), t, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, items, len(items))
}

// Registry godoc
// @ID           noticeRegistry
// @Summary      Notice registry
// @Description  List every dispatch with its recipients
// @Tags         notices
// @Produce      json
// @Param        X-Society-ID header string false "Society id or code, used when the token carries none"
// @Success      200 {object} dto.Response{data=[]notice.DispatchResponse,meta=dto.Meta}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /notices/registry [get]
func (h *NoticeHandler) Registry(c *gin.Context) {
	t, _, ok := h.Society(c)
	if !ok {
		return
	}
	items, err := h.service.Registry(c.Request.Context(), t)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, items, len(items))
}

// Delete godoc
// @ID           deleteNotice
// @Summary      Delete a notice
// @Description  Delete a dispatch and every delivered copy
// @Tags         notices
// @Produce      json
// @Param        X-Society-ID header string false "Society id or code, used when the token carries none"
// @Param        id path string true "Dispatch ID" format(uuid)
// @Success      204 "No Content"
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /notices/{id} [delete]
func (h *NoticeHandler) Delete(c *gin.Context) {
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
