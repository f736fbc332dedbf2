package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/societyhub/backend/internal/application/audit"
)

// AuditQuery limits the audit listing
type AuditQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=500"`
}

// AuditHandler lists the society's audit trail
type AuditHandler struct {
	BaseHandler
	service *audit.Service
}

// NewAuditHandler creates a new AuditHandler
func NewAuditHandler(service *audit.Service) *AuditHandler {
	return &AuditHandler{service: service}
}

// List godoc
// @ID           listAudit
// @Summary      Audit trail
// @Description  List the latest audit entries of the society
// @Tags         audit
// @Produce      json
// @Param        X-Society-ID header string false "Society id or code, used when the token carries none"
// @Param        limit query int false "Maximum entries (1-500)"
// @Success      200 {object} dto.Response{data=[]audit.EntryResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /audit [get]
func (h *AuditHandler) List(c *gin.Context) {
	t, _, ok := h.Society(c)
	if !ok {
		return
	}
	var q AuditQuery
	if !h.BindQuery(c, &q) {
		return
	}
	items, err := h.service.List(c.Request.Context(), t, q.Limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, items, len(items))
}
