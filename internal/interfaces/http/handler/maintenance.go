package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	appbilling "github.com/societyhub/backend/internal/application/billing"
	"github.com/societyhub/backend/internal/domain/billing"
	"github.com/societyhub/backend/internal/interfaces/http/dto"
)

const dateLayout = "2006-01-02"

// CreateMaintenanceRequest raises a charge against a flat
type CreateMaintenanceRequest struct {
	FlatID  string          `json:"flat_id" binding:"required,uuid"`
	Amount  decimal.Decimal `json:"amount"`
	DueDate string          `json:"due_date" binding:"required,datetime=2006-01-02"`
	Status  string          `json:"status" binding:"omitempty,oneof=pending paid"`
	Notes   string          `json:"notes" binding:"max=500"`
}

// UpdateMaintenanceRequest changes a charge. Omitted fields keep their value.
type UpdateMaintenanceRequest struct {
	Amount  *decimal.Decimal `json:"amount"`
	DueDate string           `json:"due_date" binding:"omitempty,datetime=2006-01-02"`
	Status  string           `json:"status" binding:"omitempty,oneof=pending paid"`
	Notes   *string          `json:"notes" binding:"omitempty,max=500"`
}

// CycleQuery selects one billing cycle
type CycleQuery struct {
	Year  int `form:"year" binding:"omitempty,min=2000,max=9999"`
	Month int `form:"month" binding:"omitempty,min=1,max=12"`
}

// MaintenanceListQuery adds ordering to a cycle filter
type MaintenanceListQuery struct {
	CycleQuery
	Sort  string `form:"sort" binding:"omitempty,oneof=due_date amount status created_at"`
	Order string `form:"order" binding:"omitempty,oneof=asc desc ASC DESC"`
}

// ReportQuery selects the month of a report
type ReportQuery struct {
	Year  int `form:"year" binding:"required,min=2000,max=9999"`
	Month int `form:"month" binding:"required,min=1,max=12"`
}

// MaintenanceHandler handles maintenance billing endpoints
type MaintenanceHandler struct {
	BaseHandler
	service *appbilling.MaintenanceService
}

// NewMaintenanceHandler creates a new MaintenanceHandler
func NewMaintenanceHandler(service *appbilling.MaintenanceService) *MaintenanceHandler {
	return &MaintenanceHandler{service: service}
}

// Create godoc
// @ID           createMaintenance
// @Summary      Raise a maintenance charge
// @Description  Raise a charge against a flat. A charge created as paid gets its slip immediately.
// @Tags         maintenance
// @Accept       json
// @Produce      json
// @Param        X-Society-ID header string false "Society id or code, used when the token carries none"
// @Param        request body CreateMaintenanceRequest true "Charge"
// @Success      201 {object} dto.Response{data=billing.MaintenanceResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /maintenance [post]
func (h *MaintenanceHandler) Create(c *gin.Context) {
	t, actor, ok := h.Society(c)
	if !ok {
		return
	}
	var req CreateMaintenanceRequest
	if !h.BindJSON(c, &req) {
		return
	}
	if !req.Amount.IsPositive() {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, "amount must be positive")
		return
	}
	flatID, _ := uuid.Parse(req.FlatID)
	due, _ := time.Parse(dateLayout, req.DueDate)

	resp, err := h.service.Create(c.Request.Context(), t, actor, appbilling.CreateMaintenanceInput{
		FlatID:  flatID,
		Amount:  req.Amount,
		DueDate: due,
		Status:  billing.Status(req.Status),
		Notes:   req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Update godoc
// @ID           updateMaintenance
// @Summary      Update a charge
// @Description  Change a charge. Moving it to paid issues exactly one slip.
// @Tags         maintenance
// @Accept       json
// @Produce      json
// @Param        X-Society-ID header string false "Society id or code, used when the token carries none"
// @Param        id path string true "Charge ID" format(uuid)
// @Param        request body UpdateMaintenanceRequest true "Changed fields"
// @Success      200 {object} dto.Response{data=billing.MaintenanceResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /maintenance/{id} [put]
func (h *MaintenanceHandler) Update(c *gin.Context) {
	t, actor, ok := h.Society(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var req UpdateMaintenanceRequest
	if !h.BindJSON(c, &req) {
		return
	}
	input := appbilling.UpdateMaintenanceInput{
		Status: billing.Status(req.Status),
		Notes:  req.Notes,
	}
	if req.Amount != nil {
		if !req.Amount.IsPositive() {
			h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, "amount must be positive")
			return
		}
		input.Amount = *req.Amount
	}
	if req.DueDate != "" {
		input.DueDate, _ = time.Parse(dateLayout, req.DueDate)
	}

	resp, err := h.service.Update(c.Request.Context(), t, actor, id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Pay godoc
// @ID           payMaintenance
// @Summary      Mark a charge paid
// @Description  Settle a charge and issue its slip. Paying a paid charge returns it unchanged.
// @Tags         maintenance
// @Produce      json
// @Param        X-Society-ID header string false "Society id or code, used when the token carries none"
// @Param        id path string true "Charge ID" format(uuid)
// @Success      200 {object} dto.Response{data=billing.MaintenanceResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /maintenance/{id}/pay [post]
func (h *MaintenanceHandler) Pay(c *gin.Context) {
	t, actor, ok := h.Society(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	resp, err := h.service.Pay(c.Request.Context(), t, actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Get godoc
// @ID           getMaintenance
// @Summary      Get a charge
// @Description  Retrieve a maintenance charge by ID
// @Tags         maintenance
// @Produce      json
// @Param        X-Society-ID header string false "Society id or code, used when the token carries none"
// @Param        id path string true "Charge ID" format(uuid)
// @Success      200 {object} dto.Response{data=billing.MaintenanceResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /maintenance/{id} [get]
func (h *MaintenanceHandler) Get(c *gin.Context) {
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

// List godoc
// @ID           listMaintenance
// @Summary      List maintenance charges
// @Description  Admins see every charge, residents the charges of their flat
// @Tags         maintenance
// @Produce      json
// @Param        X-Society-ID header string false "Society id or code, used when the token carries none"
// @Param        year query int false "Billing year"
// @Param        month query int false "Billing month (1-12)"
// @Param        sort query string false "Sort field" Enums(due_date, amount, status, created_at)
// @Param        order query string false "Sort order" Enums(asc, desc)
// @Success      200 {object} dto.Response{data=[]billing.MaintenanceResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /maintenance [get]
func (h *MaintenanceHandler) List(c *gin.Context) {
	t, actor, ok := h.Society(c)
	if !ok {
		return
	}
	var q MaintenanceListQuery
	if !h.BindQuery(c, &q) {
		return
	}
	items, err := h.service.List(c.Request.Context(), t, actor, appbilling.ListFilter{
		Year:    q.Year,
		Month:   q.Month,
		SortBy:  q.Sort,
		SortDir: q.Order,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, items, len(items))
}

// ByFlat godoc
// @ID           maintenanceByFlat
// @Summary      Charges of a flat
// @Description  List the charges raised against one flat
// @Tags         maintenance
// @Produce      json
// @Param        X-Society-ID header string false "Society id or code, used when the token carries none"
// @Param        flatId path string true "Flat ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]billing.MaintenanceResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /maintenance/flat/{flatId} [get]
func (h *MaintenanceHandler) ByFlat(c *gin.Context) {
	t, actor, ok := h.Society(c)
	if !ok {
		return
	}
	flatID, ok := h.ParamID(c, "flatId")
	if !ok {
		return
	}
	items, err := h.service.ByFlat(c.Request.Context(), t, actor, flatID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, items, len(items))
}

// Delete godoc
// @ID           deleteMaintenance
// @Summary      Delete a charge
// @Description  Delete a maintenance charge
// @Tags         maintenance
// @Produce      json
// @Param        X-Society-ID header string false "Society id or code, used when the token carries none"
// @Param        id path string true "Charge ID" format(uuid)
// @Success      204 "No Content"
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /maintenance/{id} [delete]
func (h *MaintenanceHandler) Delete(c *gin.Context) {
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

// Slips godoc
// @ID           listSlips
// @Summary      List payment slips
// @Description  List the issued slips, optionally for one billing cycle
// @Tags         maintenance
// @Produce      json
// @Param        X-Society-ID header string false "Society id or code, used when the token carries none"
// @Param        year query int false "Billing year"
// @Param        month query int false "Billing month (1-12)"
// @Success      200 {object} dto.Response{data=[]billing.SlipResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /maintenance/slips [get]
func (h *MaintenanceHandler) Slips(c *gin.Context) {
	t, actor, ok := h.Society(c)
	if !ok {
		return
	}
	var q CycleQuery
	if !h.BindQuery(c, &q) {
		return
	}
	slips, err := h.service.Slips(c.Request.Context(), t, actor, appbilling.ListFilter{Year: q.Year, Month: q.Month})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, slips, len(slips))
}

// MonthlyReport godoc
// @ID           maintenanceReport
// @Summary      Monthly collection report
// @Description  Totals of collected and pending charges for one month
// @Tags         maintenance
// @Produce      json
// @Param        X-Society-ID header string false "Society id or code, used when the token carries none"
// @Param        year query int true "Billing year"
// @Param        month query int true "Billing month (1-12)"
// @Success      200 {object} dto.Response{data=billing.MonthlyReportResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /maintenance/report [get]
func (h *MaintenanceHandler) MonthlyReport(c *gin.Context) {
	t, _, ok := h.Society(c)
	if !ok {
		return
	}
	var q ReportQuery
	if !h.BindQuery(c, &q) {
		return
	}
	report, err := h.service.MonthlyReport(c.Request.Context(), t, q.Year, q.Month)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}
