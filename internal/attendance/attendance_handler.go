package attendance

import (
	"net/http"
	"strconv"

	"go-hrms/internal/shared/apperror"
	"go-hrms/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
	reports ReportService
}

func NewHandler(service Service, reports ReportService) *Handler {
	return &Handler{service: service, reports: reports}
}

func getActorID(c *gin.Context) string {
	actorID := c.GetString("employee_id")
	if actorID == "" {
		actorID = c.GetString("user_id")
	}
	return actorID
}

func writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func writeBindingError(c *gin.Context, err error) {
	mapped := apperror.ToHTTP(apperror.MapValidationError(err))
	response.Error(c, mapped.Status, mapped.Code, mapped.Message, err.Error())
}

func (h *Handler) Create(c *gin.Context) {
	companyID := c.GetString("company_id")

	var req CreateAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindingError(c, err)
		return
	}

	resp, err := h.service.Create(c.Request.Context(), companyID, getActorID(c), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) Update(c *gin.Context) {
	companyID := c.GetString("company_id")
	id := c.Param("id")

	var req UpdateAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindingError(c, err)
		return
	}

	resp, err := h.service.Update(c.Request.Context(), companyID, getActorID(c), id, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Delete(c *gin.Context) {
	companyID := c.GetString("company_id")
	id := c.Param("id")

	deleted, err := h.service.Delete(c.Request.Context(), companyID, id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": deleted}, nil)
}

func (h *Handler) List(c *gin.Context) {
	companyID := c.GetString("company_id")

	var filter ListAttendanceFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		writeBindingError(c, err)
		return
	}

	resp, err := h.service.List(c.Request.Context(), companyID, filter)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))
	if pageSize < 1 {
		pageSize = 20
	}

	total := int64(len(resp))
	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(resp) {
		start = len(resp)
	}
	if end > len(resp) {
		end = len(resp)
	}

	meta := response.NewPaginationMeta(total, page, pageSize)
	response.Success(c, http.StatusOK, resp[start:end], &meta)
}

func (h *Handler) GetEmployeeAttendance(c *gin.Context) {
	companyID := c.GetString("company_id")
	employeeID := c.Param("employeeId")

	var req EmployeeRangeRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		writeBindingError(c, err)
		return
	}

	resp, err := h.service.GetEmployeeAttendance(c.Request.Context(), companyID, employeeID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) ReportException(c *gin.Context) {
	companyID := c.GetString("company_id")

	var req ReportExceptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindingError(c, err)
		return
	}

	resp, err := h.service.ReportException(c.Request.Context(), companyID, getActorID(c), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) ResolveException(c *gin.Context) {
	companyID := c.GetString("company_id")
	id := c.Param("id")

	var req ResolveExceptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindingError(c, err)
		return
	}

	resp, err := h.service.ResolveException(c.Request.Context(), companyID, getActorID(c), id, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) MonthlyReport(c *gin.Context) {
	companyID := c.GetString("company_id")

	var req MonthlyReportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		writeBindingError(c, err)
		return
	}

	resp, err := h.reports.MonthlyReport(c.Request.Context(), companyID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) LateAttendanceReport(c *gin.Context) {
	companyID := c.GetString("company_id")

	var req LateReportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		writeBindingError(c, err)
		return
	}

	resp, err := h.reports.LateAttendanceReport(c.Request.Context(), companyID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) DepartmentStats(c *gin.Context) {
	companyID := c.GetString("company_id")

	var req DepartmentStatsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		writeBindingError(c, err)
		return
	}

	resp, err := h.reports.DepartmentStats(c.Request.Context(), companyID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}
