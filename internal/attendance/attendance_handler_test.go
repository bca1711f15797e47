package attendance_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-hrms/internal/attendance"
	attendanceerrors "go-hrms/internal/attendance/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeAttendanceService struct {
	createFn                func(ctx context.Context, companyID, actorID string, req attendance.CreateAttendanceRequest) (attendance.AttendanceResponse, error)
	updateFn                func(ctx context.Context, companyID, actorID, id string, req attendance.UpdateAttendanceRequest) (attendance.AttendanceResponse, error)
	deleteFn                func(ctx context.Context, companyID, id string) (bool, error)
	listFn                  func(ctx context.Context, companyID string, req attendance.ListAttendanceFilterRequest) ([]attendance.AttendanceResponse, error)
	getEmployeeAttendanceFn func(ctx context.Context, companyID, employeeID string, req attendance.EmployeeRangeRequest) (attendance.EmployeeAttendanceResponse, error)
	reportExceptionFn       func(ctx context.Context, companyID, actorID string, req attendance.ReportExceptionRequest) (attendance.AttendanceResponse, error)
	resolveExceptionFn      func(ctx context.Context, companyID, actorID, id string, req attendance.ResolveExceptionRequest) (attendance.AttendanceResponse, error)
}

func (f *fakeAttendanceService) Create(ctx context.Context, companyID, actorID string, req attendance.CreateAttendanceRequest) (attendance.AttendanceResponse, error) {
	return f.createFn(ctx, companyID, actorID, req)
}

func (f *fakeAttendanceService) Update(ctx context.Context, companyID, actorID, id string, req attendance.UpdateAttendanceRequest) (attendance.AttendanceResponse, error) {
	return f.updateFn(ctx, companyID, actorID, id, req)
}

func (f *fakeAttendanceService) Delete(ctx context.Context, companyID, id string) (bool, error) {
	return f.deleteFn(ctx, companyID, id)
}

func (f *fakeAttendanceService) List(ctx context.Context, companyID string, req attendance.ListAttendanceFilterRequest) ([]attendance.AttendanceResponse, error) {
	return f.listFn(ctx, companyID, req)
}

func (f *fakeAttendanceService) GetEmployeeAttendance(ctx context.Context, companyID, employeeID string, req attendance.EmployeeRangeRequest) (attendance.EmployeeAttendanceResponse, error) {
	return f.getEmployeeAttendanceFn(ctx, companyID, employeeID, req)
}

func (f *fakeAttendanceService) ReportException(ctx context.Context, companyID, actorID string, req attendance.ReportExceptionRequest) (attendance.AttendanceResponse, error) {
	return f.reportExceptionFn(ctx, companyID, actorID, req)
}

func (f *fakeAttendanceService) ResolveException(ctx context.Context, companyID, actorID, id string, req attendance.ResolveExceptionRequest) (attendance.AttendanceResponse, error) {
	return f.resolveExceptionFn(ctx, companyID, actorID, id, req)
}

type fakeReportService struct {
	monthlyFn   func(ctx context.Context, companyID string, req attendance.MonthlyReportRequest) (attendance.MonthlyReportResponse, error)
	lateFn      func(ctx context.Context, companyID string, req attendance.LateReportRequest) (attendance.LateReportResponse, error)
	deptStatsFn func(ctx context.Context, companyID string, req attendance.DepartmentStatsRequest) (attendance.DepartmentStatsResponse, error)
}

func (f *fakeReportService) MonthlyReport(ctx context.Context, companyID string, req attendance.MonthlyReportRequest) (attendance.MonthlyReportResponse, error) {
	return f.monthlyFn(ctx, companyID, req)
}

func (f *fakeReportService) LateAttendanceReport(ctx context.Context, companyID string, req attendance.LateReportRequest) (attendance.LateReportResponse, error) {
	return f.lateFn(ctx, companyID, req)
}

func (f *fakeReportService) DepartmentStats(ctx context.Context, companyID string, req attendance.DepartmentStatsRequest) (attendance.DepartmentStatsResponse, error) {
	return f.deptStatsFn(ctx, companyID, req)
}

func testContext(t *testing.T, method, target, body, companyID, employeeID string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("company_id", companyID)
	c.Set("employee_id", employeeID)
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	c.Request = httptest.NewRequest(method, target, reader)
	if body != "" {
		c.Request.Header.Set("Content-Type", "application/json")
	}
	return c, w
}

func TestHandler_Create(t *testing.T) {
	gin.SetMode(gin.TestMode)
	companyID := uuid.New().String()
	employeeID := uuid.New().String()

	t.Run("created", func(t *testing.T) {
		svc := &fakeAttendanceService{
			createFn: func(ctx context.Context, cid, actorID string, req attendance.CreateAttendanceRequest) (attendance.AttendanceResponse, error) {
				assert.Equal(t, companyID, cid)
				assert.Equal(t, employeeID, actorID)
				return attendance.AttendanceResponse{ID: uuid.New().String(), Status: "PRESENT"}, nil
			},
		}
		h := attendance.NewHandler(svc, &fakeReportService{})

		body := `{"employee_id":"` + uuid.New().String() + `","date":"2026-03-02","status":"PRESENT"}`
		c, w := testContext(t, http.MethodPost, "/attendances", body, companyID, employeeID)

		h.Create(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), "PRESENT")
	})

	t.Run("duplicate maps to conflict", func(t *testing.T) {
		svc := &fakeAttendanceService{
			createFn: func(ctx context.Context, cid, actorID string, req attendance.CreateAttendanceRequest) (attendance.AttendanceResponse, error) {
				return attendance.AttendanceResponse{}, attendanceerrors.ErrDuplicateRecord
			},
		}
		h := attendance.NewHandler(svc, &fakeReportService{})

		body := `{"employee_id":"` + uuid.New().String() + `","date":"2026-03-02","status":"PRESENT"}`
		c, w := testContext(t, http.MethodPost, "/attendances", body, companyID, employeeID)

		h.Create(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "CONFLICT")
	})

	t.Run("malformed body is a validation error", func(t *testing.T) {
		h := attendance.NewHandler(&fakeAttendanceService{}, &fakeReportService{})

		c, w := testContext(t, http.MethodPost, "/attendances", `{"employee_id":"not-a-uuid"}`, companyID, employeeID)

		h.Create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandler_List(t *testing.T) {
	gin.SetMode(gin.TestMode)
	companyID := uuid.New().String()

	svc := &fakeAttendanceService{
		listFn: func(ctx context.Context, cid string, req attendance.ListAttendanceFilterRequest) ([]attendance.AttendanceResponse, error) {
			return []attendance.AttendanceResponse{
				{ID: uuid.New().String()},
				{ID: uuid.New().String()},
				{ID: uuid.New().String()},
			}, nil
		},
	}
	h := attendance.NewHandler(svc, &fakeReportService{})

	c, w := testContext(t, http.MethodGet, "/attendances?page=1&pageSize=2", "", companyID, "")

	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "\"meta\"")
	assert.Contains(t, w.Body.String(), "\"total\":3")
}

func TestHandler_Delete(t *testing.T) {
	gin.SetMode(gin.TestMode)
	companyID := uuid.New().String()

	svc := &fakeAttendanceService{
		deleteFn: func(ctx context.Context, cid, id string) (bool, error) {
			return false, nil
		},
	}
	h := attendance.NewHandler(svc, &fakeReportService{})

	c, w := testContext(t, http.MethodDelete, "/attendances/"+uuid.New().String(), "", companyID, "")
	c.Params = gin.Params{{Key: "id", Value: uuid.New().String()}}

	h.Delete(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "\"deleted\":false")
}

func TestHandler_MonthlyReport(t *testing.T) {
	gin.SetMode(gin.TestMode)
	companyID := uuid.New().String()

	reports := &fakeReportService{
		monthlyFn: func(ctx context.Context, cid string, req attendance.MonthlyReportRequest) (attendance.MonthlyReportResponse, error) {
			assert.Equal(t, 2026, req.Year)
			assert.Equal(t, 4, req.Month)
			return attendance.MonthlyReportResponse{Year: req.Year, Month: req.Month}, nil
		},
	}
	h := attendance.NewHandler(&fakeAttendanceService{}, reports)

	c, w := testContext(t, http.MethodGet, "/attendances/reports/monthly?year=2026&month=4", "", companyID, "")

	h.MonthlyReport(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "\"year\":2026")
}
