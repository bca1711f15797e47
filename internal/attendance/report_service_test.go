package attendance_test

import (
	"context"
	"testing"
	"time"

	"go-hrms/internal/attendance"
	attendanceerrors "go-hrms/internal/attendance/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func lateRecord(day, checkIn string, deptID uuid.UUID, deptName string) attendance.AttendanceRecord {
	rec := recordWithTimes(day, checkIn, "17:00", attendance.StatusPresent)
	rec.ID = uuid.New()
	rec.EmployeeID = uuid.New()
	rec.Employee = &attendance.EmployeeRef{
		ID:           rec.EmployeeID,
		FullName:     "Employee " + rec.EmployeeID.String()[:8],
		DepartmentID: &deptID,
		Department:   &attendance.DepartmentRef{ID: deptID, Name: deptName},
	}
	return rec
}

func TestReportService_MonthlyReport(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()

	t.Run("success totals across employees", func(t *testing.T) {
		repo := &fakeAttendanceRepository{}
		svc := attendance.NewReportService(repo, nil)

		empA := uuid.New()
		empB := uuid.New()
		repo.listActiveEmployeesFn = func(ctx context.Context, cid string, departmentID *string) ([]attendance.EmployeeRef, error) {
			assert.Equal(t, companyID, cid)
			assert.Nil(t, departmentID)
			return []attendance.EmployeeRef{
				{ID: empA, FullName: "Alice"},
				{ID: empB, FullName: "Bob"},
			}, nil
		}
		repo.findByEmployeeAndRangeFn = func(ctx context.Context, cid, eid string, start, end time.Time) ([]attendance.AttendanceRecord, error) {
			assert.Equal(t, "2026-04-01", start.Format("2006-01-02"))
			assert.Equal(t, "2026-04-30", end.Format("2006-01-02"))
			if eid == empA.String() {
				return []attendance.AttendanceRecord{
					recordWithTimes("2026-04-01", "09:00", "17:00", attendance.StatusPresent),
					{Status: attendance.StatusAbsent},
				}, nil
			}
			return []attendance.AttendanceRecord{
				recordWithTimes("2026-04-01", "09:30", "17:30", attendance.StatusPresent),
			}, nil
		}

		resp, err := svc.MonthlyReport(ctx, companyID, attendance.MonthlyReportRequest{Year: 2026, Month: 4})

		assert.NoError(t, err)
		assert.Equal(t, 2, resp.EmployeeCount)
		assert.Len(t, resp.Employees, 2)
		assert.Equal(t, 2, resp.Totals.PresentDays)
		assert.Equal(t, 1, resp.Totals.AbsentDays)
		assert.Equal(t, 1, resp.Totals.LateDays)
		assert.Equal(t, 16.0, resp.Totals.TotalHours)
		assert.Equal(t, 50.0, resp.Totals.PunctualityRate)
	})

	t.Run("negative month out of range", func(t *testing.T) {
		svc := attendance.NewReportService(&fakeAttendanceRepository{}, nil)

		_, err := svc.MonthlyReport(ctx, companyID, attendance.MonthlyReportRequest{Year: 2026, Month: 13})

		assert.ErrorIs(t, err, attendanceerrors.ErrInvalidMonth)
	})

	t.Run("negative unknown department", func(t *testing.T) {
		repo := &fakeAttendanceRepository{}
		svc := attendance.NewReportService(repo, nil)

		repo.departmentExistsFn = func(ctx context.Context, cid, did string) (bool, error) {
			return false, nil
		}

		_, err := svc.MonthlyReport(ctx, companyID, attendance.MonthlyReportRequest{
			Year:         2026,
			Month:        4,
			DepartmentID: uuid.New().String(),
		})

		assert.ErrorIs(t, err, attendanceerrors.ErrDepartmentNotFound)
	})
}

func TestReportService_LateAttendanceReport(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()

	deptLow := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	deptHigh := uuid.MustParse("22222222-2222-2222-2222-222222222222")

	t.Run("aggregates incidents and picks worst department", func(t *testing.T) {
		repo := &fakeAttendanceRepository{}
		svc := attendance.NewReportService(repo, nil)

		repo.findByDateRangeFn = func(ctx context.Context, cid string, f attendance.RangeFilter) ([]attendance.AttendanceRecord, error) {
			assert.NotNil(t, f.Status)
			assert.Equal(t, attendance.StatusPresent, *f.Status)
			return []attendance.AttendanceRecord{
				lateRecord("2026-04-01", "09:10", deptHigh, "Sales"),
				lateRecord("2026-04-02", "09:30", deptLow, "Engineering"),
				lateRecord("2026-04-03", "08:50", deptHigh, "Sales"),
			}, nil
		}

		resp, err := svc.LateAttendanceReport(ctx, companyID, attendance.LateReportRequest{
			StartDate: "2026-04-01",
			EndDate:   "2026-04-30",
		})

		assert.NoError(t, err)
		assert.Equal(t, 2, resp.TotalIncidents)
		assert.Equal(t, 40, resp.TotalLateMinutes)
		assert.Equal(t, 20.0, resp.AverageLateMinutes)
		assert.Equal(t, 30, resp.MaxLateMinutes)
		assert.Equal(t, 1, resp.IncidentsByDept[deptLow.String()])
		assert.Equal(t, 1, resp.IncidentsByDept[deptHigh.String()])

		// Equal counts resolve toward the lowest department id.
		assert.NotNil(t, resp.WorstDepartmentID)
		assert.Equal(t, deptLow.String(), *resp.WorstDepartmentID)
		assert.Equal(t, "Engineering", resp.WorstDepartmentName)
	})

	t.Run("higher count beats lower id", func(t *testing.T) {
		repo := &fakeAttendanceRepository{}
		svc := attendance.NewReportService(repo, nil)

		repo.findByDateRangeFn = func(ctx context.Context, cid string, f attendance.RangeFilter) ([]attendance.AttendanceRecord, error) {
			return []attendance.AttendanceRecord{
				lateRecord("2026-04-01", "09:05", deptLow, "Engineering"),
				lateRecord("2026-04-02", "09:05", deptHigh, "Sales"),
				lateRecord("2026-04-03", "09:05", deptHigh, "Sales"),
			}, nil
		}

		resp, err := svc.LateAttendanceReport(ctx, companyID, attendance.LateReportRequest{
			StartDate: "2026-04-01",
			EndDate:   "2026-04-30",
		})

		assert.NoError(t, err)
		assert.NotNil(t, resp.WorstDepartmentID)
		assert.Equal(t, deptHigh.String(), *resp.WorstDepartmentID)
	})

	t.Run("negative inverted range", func(t *testing.T) {
		svc := attendance.NewReportService(&fakeAttendanceRepository{}, nil)

		_, err := svc.LateAttendanceReport(ctx, companyID, attendance.LateReportRequest{
			StartDate: "2026-04-30",
			EndDate:   "2026-04-01",
		})

		assert.ErrorIs(t, err, attendanceerrors.ErrInvalidDateRange)
	})
}

func TestReportService_DepartmentStats(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	deptID := uuid.New()

	t.Run("rates come from aggregated counts", func(t *testing.T) {
		repo := &fakeAttendanceRepository{}
		svc := attendance.NewReportService(repo, nil)

		empA := uuid.New()
		empB := uuid.New()
		repo.listActiveEmployeesFn = func(ctx context.Context, cid string, departmentID *string) ([]attendance.EmployeeRef, error) {
			dept := &attendance.DepartmentRef{ID: deptID, Name: "Engineering"}
			return []attendance.EmployeeRef{
				{ID: empA, FullName: "Alice", DepartmentID: &deptID, Department: dept},
				{ID: empB, FullName: "Bob", DepartmentID: &deptID, Department: dept},
			}, nil
		}
		repo.findByEmployeeAndRangeFn = func(ctx context.Context, cid, eid string, start, end time.Time) ([]attendance.AttendanceRecord, error) {
			if eid == empA.String() {
				return []attendance.AttendanceRecord{
					recordWithTimes("2026-04-01", "09:00", "17:00", attendance.StatusPresent),
					recordWithTimes("2026-04-02", "09:00", "17:00", attendance.StatusPresent),
				}, nil
			}
			return []attendance.AttendanceRecord{
				{Status: attendance.StatusAbsent},
				{Status: attendance.StatusAbsent},
			}, nil
		}

		resp, err := svc.DepartmentStats(ctx, companyID, attendance.DepartmentStatsRequest{
			StartDate: "2026-04-01",
			EndDate:   "2026-04-02",
		})

		assert.NoError(t, err)
		assert.Len(t, resp.Departments, 1)

		dept := resp.Departments[0]
		assert.Equal(t, deptID.String(), dept.DepartmentID)
		assert.Equal(t, 2, dept.EmployeeCount)
		assert.Equal(t, 2, dept.PresentDays)
		assert.Equal(t, 2, dept.AbsentDays)
		assert.Equal(t, 16.0, dept.TotalHours)
		// 2 present days over 4 combined working days, not a 50/0 average.
		assert.Equal(t, 50.0, dept.AttendanceRate)
		assert.Equal(t, 8.0, dept.AverageHoursPerEmployee)
		assert.Equal(t, 8.0, dept.AverageHoursPerDay)

		assert.Equal(t, 2, resp.Overall.PresentDays)
		assert.Equal(t, 50.0, resp.Overall.AttendanceRate)
	})
}
