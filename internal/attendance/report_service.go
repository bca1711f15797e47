package attendance

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	attendanceerrors "go-hrms/internal/attendance/errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const reportCacheTTL = 5 * time.Minute

//go:generate mockgen -source=report_service.go -destination=mock/report_service_mock.go -package=mock
type ReportService interface {
	MonthlyReport(ctx context.Context, companyID string, req MonthlyReportRequest) (MonthlyReportResponse, error)
	LateAttendanceReport(ctx context.Context, companyID string, req LateReportRequest) (LateReportResponse, error)
	DepartmentStats(ctx context.Context, companyID string, req DepartmentStatsRequest) (DepartmentStatsResponse, error)
}

type reportService struct {
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewReportService(repo Repository, rdb *redis.Client, logger ...*zap.Logger) ReportService {
	l := zap.L().Named("attendance.reports")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.reports")
	}
	return &reportService{repo: repo, rdb: rdb, sf: &singleflight.Group{}, logger: l}
}

func (s *reportService) MonthlyReport(ctx context.Context, companyID string, req MonthlyReportRequest) (MonthlyReportResponse, error) {
	if req.Month < 1 || req.Month > 12 {
		return MonthlyReportResponse{}, attendanceerrors.ErrInvalidMonth
	}
	if req.Year < 2000 || req.Year > 2100 {
		return MonthlyReportResponse{}, attendanceerrors.ErrInvalidYear
	}

	key := fmt.Sprintf("reports:monthly:%s:%d-%02d:%s", companyID, req.Year, req.Month, req.DepartmentID)
	var cached MonthlyReportResponse
	if s.getCached(ctx, key, &cached) {
		return cached, nil
	}

	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		return s.buildMonthlyReport(ctx, companyID, req)
	})
	if err != nil {
		return MonthlyReportResponse{}, err
	}
	resp := v.(MonthlyReportResponse)
	s.setCached(ctx, key, resp)
	return resp, nil
}

func (s *reportService) buildMonthlyReport(ctx context.Context, companyID string, req MonthlyReportRequest) (MonthlyReportResponse, error) {
	start := time.Date(req.Year, time.Month(req.Month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)

	var departmentID *string
	if req.DepartmentID != "" {
		exists, err := s.repo.DepartmentExists(ctx, companyID, req.DepartmentID)
		if err != nil {
			s.logger.Error("monthly report department check failed", zap.Error(err))
			return MonthlyReportResponse{}, err
		}
		if !exists {
			return MonthlyReportResponse{}, attendanceerrors.ErrDepartmentNotFound
		}
		v := req.DepartmentID
		departmentID = &v
	}

	employees, err := s.repo.ListActiveEmployees(ctx, companyID, departmentID)
	if err != nil {
		s.logger.Error("monthly report employee list failed", zap.Error(err))
		return MonthlyReportResponse{}, err
	}

	resp := MonthlyReportResponse{
		Year:          req.Year,
		Month:         req.Month,
		DepartmentID:  departmentID,
		EmployeeCount: len(employees),
		Employees:     make([]EmployeeMonthlySummary, 0, len(employees)),
	}

	var totals ReportTotals
	for _, emp := range employees {
		records, err := s.repo.FindByEmployeeAndRange(ctx, companyID, emp.ID.String(), start, end)
		if err != nil {
			s.logger.Error("monthly report range query failed",
				zap.String("employee_id", emp.ID.String()),
				zap.Error(err),
			)
			return MonthlyReportResponse{}, err
		}
		summary := Summarize(records, start, end)

		entry := EmployeeMonthlySummary{
			EmployeeID:   emp.ID.String(),
			EmployeeName: emp.FullName,
			Summary:      summary,
		}
		if emp.DepartmentID != nil {
			v := emp.DepartmentID.String()
			entry.DepartmentID = &v
		}
		if emp.Department != nil {
			entry.DepartmentName = emp.Department.Name
		}
		resp.Employees = append(resp.Employees, entry)

		accumulateTotals(&totals, summary)
	}

	finalizeTotals(&totals)
	resp.Totals = totals

	s.logger.Info("monthly report built",
		zap.String("company_id", companyID),
		zap.Int("year", req.Year),
		zap.Int("month", req.Month),
		zap.Int("employees", len(employees)),
	)
	return resp, nil
}

func (s *reportService) LateAttendanceReport(ctx context.Context, companyID string, req LateReportRequest) (LateReportResponse, error) {
	start, err := parseDate(req.StartDate)
	if err != nil {
		return LateReportResponse{}, err
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return LateReportResponse{}, err
	}
	if start.After(end) {
		return LateReportResponse{}, attendanceerrors.ErrInvalidDateRange
	}

	status := StatusPresent
	records, err := s.repo.FindByDateRange(ctx, companyID, RangeFilter{
		Start:  start,
		End:    end,
		Status: &status,
	})
	if err != nil {
		s.logger.Error("late report query failed", zap.Error(err))
		return LateReportResponse{}, err
	}

	resp := LateReportResponse{
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		IncidentsByDept: map[string]int{},
		Incidents:       []LateIncident{},
	}

	deptCounts := map[string]int{}
	deptNames := map[string]string{}
	for _, r := range records {
		if !IsLate(r) {
			continue
		}
		minutes := LateMinutes(r)

		incident := LateIncident{
			RecordID:    r.ID.String(),
			EmployeeID:  r.EmployeeID.String(),
			Date:        r.AttendanceDate.Format("2006-01-02"),
			CheckInTime: r.CheckInTime.Format("15:04"),
			LateMinutes: minutes,
		}
		if r.Employee != nil {
			incident.EmployeeName = r.Employee.FullName
			if r.Employee.DepartmentID != nil {
				incident.DepartmentID = r.Employee.DepartmentID.String()
				deptCounts[incident.DepartmentID]++
			}
			if r.Employee.Department != nil {
				incident.DepartmentName = r.Employee.Department.Name
				deptNames[incident.DepartmentID] = r.Employee.Department.Name
			}
		}
		resp.Incidents = append(resp.Incidents, incident)

		resp.TotalIncidents++
		resp.TotalLateMinutes += minutes
		if minutes > resp.MaxLateMinutes {
			resp.MaxLateMinutes = minutes
		}
	}

	if resp.TotalIncidents > 0 {
		resp.AverageLateMinutes = round2(float64(resp.TotalLateMinutes) / float64(resp.TotalIncidents))
	}

	// Worst department by raw incident count; ties break toward the lowest
	// department id so the result is deterministic.
	worstID := ""
	worstCount := 0
	for id, count := range deptCounts {
		resp.IncidentsByDept[id] = count
		if count > worstCount || (count == worstCount && (worstID == "" || id < worstID)) {
			worstID, worstCount = id, count
		}
	}
	if worstID != "" {
		resp.WorstDepartmentID = &worstID
		resp.WorstDepartmentName = deptNames[worstID]
	}

	return resp, nil
}

func (s *reportService) DepartmentStats(ctx context.Context, companyID string, req DepartmentStatsRequest) (DepartmentStatsResponse, error) {
	start, err := parseDate(req.StartDate)
	if err != nil {
		return DepartmentStatsResponse{}, err
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return DepartmentStatsResponse{}, err
	}
	if start.After(end) {
		return DepartmentStatsResponse{}, attendanceerrors.ErrInvalidDateRange
	}

	key := fmt.Sprintf("reports:deptstats:%s:%s:%s:%s", companyID, req.StartDate, req.EndDate, req.DepartmentID)
	var cached DepartmentStatsResponse
	if s.getCached(ctx, key, &cached) {
		return cached, nil
	}

	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		return s.buildDepartmentStats(ctx, companyID, req, start, end)
	})
	if err != nil {
		return DepartmentStatsResponse{}, err
	}
	resp := v.(DepartmentStatsResponse)
	s.setCached(ctx, key, resp)
	return resp, nil
}

func (s *reportService) buildDepartmentStats(ctx context.Context, companyID string, req DepartmentStatsRequest, start, end time.Time) (DepartmentStatsResponse, error) {
	var departmentID *string
	if req.DepartmentID != "" {
		exists, err := s.repo.DepartmentExists(ctx, companyID, req.DepartmentID)
		if err != nil {
			return DepartmentStatsResponse{}, err
		}
		if !exists {
			return DepartmentStatsResponse{}, attendanceerrors.ErrDepartmentNotFound
		}
		v := req.DepartmentID
		departmentID = &v
	}

	employees, err := s.repo.ListActiveEmployees(ctx, companyID, departmentID)
	if err != nil {
		s.logger.Error("department stats employee list failed", zap.Error(err))
		return DepartmentStatsResponse{}, err
	}

	calendarDays := CalendarDays(start, end)
	var overall ReportTotals
	buckets := map[string]*DepartmentBreakdown{}
	workingDays := map[string]int{}
	order := []string{}

	for _, emp := range employees {
		records, err := s.repo.FindByEmployeeAndRange(ctx, companyID, emp.ID.String(), start, end)
		if err != nil {
			return DepartmentStatsResponse{}, err
		}
		summary := Summarize(records, start, end)
		accumulateTotals(&overall, summary)

		if emp.DepartmentID == nil {
			continue
		}
		deptID := emp.DepartmentID.String()
		bucket, ok := buckets[deptID]
		if !ok {
			bucket = &DepartmentBreakdown{DepartmentID: deptID}
			if emp.Department != nil {
				bucket.DepartmentName = emp.Department.Name
			}
			buckets[deptID] = bucket
			order = append(order, deptID)
		}
		bucket.EmployeeCount++
		bucket.PresentDays += summary.PresentDays
		bucket.AbsentDays += summary.AbsentDays
		bucket.LateDays += summary.LateDays
		bucket.HalfDays += summary.HalfDays
		bucket.LeaveDays += summary.LeaveDays
		bucket.TotalHours += summary.TotalHours
		bucket.RegularHours += summary.RegularHours
		bucket.OvertimeHours += summary.OvertimeHours
		workingDays[deptID] += summary.WorkingDays
	}

	finalizeTotals(&overall)

	resp := DepartmentStatsResponse{
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Overall:     overall,
		Departments: make([]DepartmentBreakdown, 0, len(order)),
	}
	for _, deptID := range order {
		b := buckets[deptID]
		b.TotalHours = round2(b.TotalHours)
		b.RegularHours = round2(b.RegularHours)
		b.OvertimeHours = round2(b.OvertimeHours)
		// Rates from aggregated counts, not averaged per employee.
		b.AttendanceRate = rate(b.PresentDays+b.HalfDays, workingDays[deptID])
		b.PunctualityRate = rate(b.PresentDays-b.LateDays, b.PresentDays)
		if b.EmployeeCount > 0 {
			b.AverageHoursPerEmployee = round2(b.TotalHours / float64(b.EmployeeCount))
		}
		if calendarDays > 0 {
			b.AverageHoursPerDay = round2(b.TotalHours / float64(calendarDays))
		}
		resp.Departments = append(resp.Departments, *b)
	}

	s.logger.Info("department stats built",
		zap.String("company_id", companyID),
		zap.Int("departments", len(resp.Departments)),
		zap.Int("employees", len(employees)),
	)
	return resp, nil
}

func accumulateTotals(t *ReportTotals, s Summary) {
	t.PresentDays += s.PresentDays
	t.AbsentDays += s.AbsentDays
	t.LateDays += s.LateDays
	t.HalfDays += s.HalfDays
	t.Holidays += s.Holidays
	t.LeaveDays += s.LeaveDays
	t.ExceptionDays += s.ExceptionDays
	t.WorkingDays += s.WorkingDays
	t.TotalHours += s.TotalHours
	t.RegularHours += s.RegularHours
	t.OvertimeHours += s.OvertimeHours
}

func finalizeTotals(t *ReportTotals) {
	t.TotalHours = round2(t.TotalHours)
	t.RegularHours = round2(t.RegularHours)
	t.OvertimeHours = round2(t.OvertimeHours)
	t.AttendanceRate = rate(t.PresentDays+t.HalfDays, t.WorkingDays)
	t.PunctualityRate = rate(t.PresentDays-t.LateDays, t.PresentDays)
}

func (s *reportService) getCached(ctx context.Context, key string, out any) bool {
	if s.rdb == nil {
		return false
	}
	val, err := s.rdb.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	return json.Unmarshal([]byte(val), out) == nil
}

func (s *reportService) setCached(ctx context.Context, key string, v any) {
	if s.rdb == nil {
		return
	}
	payload, err := json.Marshal(v)
	if err != nil {
		return
	}
	_ = s.rdb.Set(ctx, key, payload, reportCacheTTL).Err()
}
