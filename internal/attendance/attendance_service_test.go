package attendance_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"go-hrms/internal/attendance"
	attendanceerrors "go-hrms/internal/attendance/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeAttendanceRepository struct {
	withTxFn                  func(tx *sql.Tx) attendance.Repository
	createFn                  func(ctx context.Context, r *attendance.AttendanceRecord) error
	findByIDAndCompanyFn      func(ctx context.Context, companyID, id string) (*attendance.AttendanceRecord, error)
	findByEmployeeAndDateFn   func(ctx context.Context, companyID, employeeID string, date time.Time) (*attendance.AttendanceRecord, error)
	findByEmployeeAndRangeFn  func(ctx context.Context, companyID, employeeID string, start, end time.Time) ([]attendance.AttendanceRecord, error)
	findByDateRangeFn         func(ctx context.Context, companyID string, f attendance.RangeFilter) ([]attendance.AttendanceRecord, error)
	countByEmployeeAndDatesFn func(ctx context.Context, companyID, employeeID string, dates []time.Time) (int64, error)
	updateFn                  func(ctx context.Context, r *attendance.AttendanceRecord) error
	deleteFn                  func(ctx context.Context, companyID, id string) (bool, error)
	findEmployeeRefFn         func(ctx context.Context, companyID, employeeID string) (*attendance.EmployeeRef, error)
	listActiveEmployeesFn     func(ctx context.Context, companyID string, departmentID *string) ([]attendance.EmployeeRef, error)
	departmentExistsFn        func(ctx context.Context, companyID, departmentID string) (bool, error)
}

func (f *fakeAttendanceRepository) WithTx(tx *sql.Tx) attendance.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeAttendanceRepository) Create(ctx context.Context, r *attendance.AttendanceRecord) error {
	if f.createFn != nil {
		return f.createFn(ctx, r)
	}
	return nil
}

func (f *fakeAttendanceRepository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*attendance.AttendanceRecord, error) {
	if f.findByIDAndCompanyFn != nil {
		return f.findByIDAndCompanyFn(ctx, companyID, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAttendanceRepository) FindByEmployeeAndDate(ctx context.Context, companyID, employeeID string, date time.Time) (*attendance.AttendanceRecord, error) {
	if f.findByEmployeeAndDateFn != nil {
		return f.findByEmployeeAndDateFn(ctx, companyID, employeeID, date)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAttendanceRepository) FindByEmployeeAndRange(ctx context.Context, companyID, employeeID string, start, end time.Time) ([]attendance.AttendanceRecord, error) {
	if f.findByEmployeeAndRangeFn != nil {
		return f.findByEmployeeAndRangeFn(ctx, companyID, employeeID, start, end)
	}
	return nil, nil
}

func (f *fakeAttendanceRepository) FindByDateRange(ctx context.Context, companyID string, filter attendance.RangeFilter) ([]attendance.AttendanceRecord, error) {
	if f.findByDateRangeFn != nil {
		return f.findByDateRangeFn(ctx, companyID, filter)
	}
	return nil, nil
}

func (f *fakeAttendanceRepository) CountByEmployeeAndDates(ctx context.Context, companyID, employeeID string, dates []time.Time) (int64, error) {
	if f.countByEmployeeAndDatesFn != nil {
		return f.countByEmployeeAndDatesFn(ctx, companyID, employeeID, dates)
	}
	return 0, nil
}

func (f *fakeAttendanceRepository) Update(ctx context.Context, r *attendance.AttendanceRecord) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, r)
	}
	return nil
}

func (f *fakeAttendanceRepository) Delete(ctx context.Context, companyID, id string) (bool, error) {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, companyID, id)
	}
	return false, nil
}

func (f *fakeAttendanceRepository) FindEmployeeRef(ctx context.Context, companyID, employeeID string) (*attendance.EmployeeRef, error) {
	if f.findEmployeeRefFn != nil {
		return f.findEmployeeRefFn(ctx, companyID, employeeID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAttendanceRepository) ListActiveEmployees(ctx context.Context, companyID string, departmentID *string) ([]attendance.EmployeeRef, error) {
	if f.listActiveEmployeesFn != nil {
		return f.listActiveEmployeesFn(ctx, companyID, departmentID)
	}
	return nil, nil
}

func (f *fakeAttendanceRepository) DepartmentExists(ctx context.Context, companyID, departmentID string) (bool, error) {
	if f.departmentExistsFn != nil {
		return f.departmentExistsFn(ctx, companyID, departmentID)
	}
	return true, nil
}

type attendanceServiceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service attendance.Service
	repo    *fakeAttendanceRepository
}

func setupAttendanceServiceTest(t *testing.T) *attendanceServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeAttendanceRepository{}
	svc := attendance.NewService(db, repo)

	return &attendanceServiceDeps{
		db:      db,
		sqlMock: sqlMock,
		service: svc,
		repo:    repo,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func activeEmployeeRef(companyID, employeeID string) *attendance.EmployeeRef {
	return &attendance.EmployeeRef{
		ID:        uuid.MustParse(employeeID),
		CompanyID: uuid.MustParse(companyID),
		FullName:  "Jane Doe",
		Status:    "ACTIVE",
	}
}

func TestAttendanceService_Create(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	actorID := uuid.New().String()
	employeeID := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		deps := setupAttendanceServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		checkIn := "08:55"
		checkOut := "18:00"
		req := attendance.CreateAttendanceRequest{
			EmployeeID:   employeeID,
			Date:         "2026-03-02",
			Status:       "PRESENT",
			CheckInTime:  &checkIn,
			CheckOutTime: &checkOut,
		}

		deps.repo.findEmployeeRefFn = func(ctx context.Context, cid, eid string) (*attendance.EmployeeRef, error) {
			assert.Equal(t, companyID, cid)
			assert.Equal(t, employeeID, eid)
			return activeEmployeeRef(companyID, employeeID), nil
		}
		deps.repo.createFn = func(ctx context.Context, r *attendance.AttendanceRecord) error {
			assert.Equal(t, uuid.MustParse(companyID), r.CompanyID)
			assert.Equal(t, uuid.MustParse(employeeID), r.EmployeeID)
			assert.Equal(t, uuid.MustParse(actorID), r.CreatedBy)
			assert.Equal(t, attendance.StatusPresent, r.Status)
			assert.Equal(t, "2026-03-02", r.AttendanceDate.Format("2006-01-02"))
			return nil
		}

		resp, err := deps.service.Create(ctx, companyID, actorID, req)

		assert.NoError(t, err)
		assert.Equal(t, employeeID, resp.EmployeeID)
		assert.Equal(t, "PRESENT", resp.Status)
		assert.Equal(t, 9.08, resp.WorkedHours)
		assert.Equal(t, "Jane Doe", resp.EmployeeName)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative duplicate day", func(t *testing.T) {
		deps := setupAttendanceServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		req := attendance.CreateAttendanceRequest{
			EmployeeID: employeeID,
			Date:       "2026-03-02",
			Status:     "PRESENT",
		}

		deps.repo.findEmployeeRefFn = func(ctx context.Context, cid, eid string) (*attendance.EmployeeRef, error) {
			return activeEmployeeRef(companyID, employeeID), nil
		}
		deps.repo.findByEmployeeAndDateFn = func(ctx context.Context, cid, eid string, date time.Time) (*attendance.AttendanceRecord, error) {
			return &attendance.AttendanceRecord{ID: uuid.New()}, nil
		}

		_, err := deps.service.Create(ctx, companyID, actorID, req)

		assert.ErrorIs(t, err, attendanceerrors.ErrDuplicateRecord)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative check out before check in", func(t *testing.T) {
		deps := setupAttendanceServiceTest(t)
		defer deps.db.Close()

		checkIn := "17:00"
		checkOut := "09:00"
		req := attendance.CreateAttendanceRequest{
			EmployeeID:   employeeID,
			Date:         "2026-03-02",
			Status:       "PRESENT",
			CheckInTime:  &checkIn,
			CheckOutTime: &checkOut,
		}

		_, err := deps.service.Create(ctx, companyID, actorID, req)

		assert.ErrorIs(t, err, attendanceerrors.ErrCheckOutBeforeCheckIn)
	})

	t.Run("negative employee of another company", func(t *testing.T) {
		deps := setupAttendanceServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		req := attendance.CreateAttendanceRequest{
			EmployeeID: employeeID,
			Date:       "2026-03-02",
			Status:     "PRESENT",
		}

		deps.repo.findEmployeeRefFn = func(ctx context.Context, cid, eid string) (*attendance.EmployeeRef, error) {
			return nil, gorm.ErrRecordNotFound
		}

		_, err := deps.service.Create(ctx, companyID, actorID, req)

		assert.ErrorIs(t, err, attendanceerrors.ErrEmployeeNotInCompany)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative unknown status", func(t *testing.T) {
		deps := setupAttendanceServiceTest(t)
		defer deps.db.Close()

		req := attendance.CreateAttendanceRequest{
			EmployeeID: employeeID,
			Date:       "2026-03-02",
			Status:     "WORKING",
		}

		_, err := deps.service.Create(ctx, companyID, actorID, req)

		assert.ErrorIs(t, err, attendanceerrors.ErrInvalidStatus)
	})
}

func TestAttendanceService_Update(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	actorID := uuid.New().String()
	recordID := uuid.New().String()

	t.Run("success partial update", func(t *testing.T) {
		deps := setupAttendanceServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		status := "HALF_DAY"
		req := attendance.UpdateAttendanceRequest{Status: &status}

		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*attendance.AttendanceRecord, error) {
			rec := recordWithTimes("2026-03-02", "09:00", "13:00", attendance.StatusPresent)
			rec.ID = uuid.MustParse(recordID)
			rec.CompanyID = uuid.MustParse(cid)
			rec.EmployeeID = uuid.New()
			return &rec, nil
		}
		deps.repo.updateFn = func(ctx context.Context, r *attendance.AttendanceRecord) error {
			assert.Equal(t, attendance.StatusHalfDay, r.Status)
			assert.NotNil(t, r.UpdatedBy)
			assert.Equal(t, uuid.MustParse(actorID), *r.UpdatedBy)
			return nil
		}

		resp, err := deps.service.Update(ctx, companyID, actorID, recordID, req)

		assert.NoError(t, err)
		assert.Equal(t, "HALF_DAY", resp.Status)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative record not found", func(t *testing.T) {
		deps := setupAttendanceServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		status := "ABSENT"
		req := attendance.UpdateAttendanceRequest{Status: &status}

		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*attendance.AttendanceRecord, error) {
			return nil, gorm.ErrRecordNotFound
		}

		_, err := deps.service.Update(ctx, companyID, actorID, recordID, req)

		assert.ErrorIs(t, err, attendanceerrors.ErrRecordNotFound)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative new check out before stored check in", func(t *testing.T) {
		deps := setupAttendanceServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		checkOut := "08:00"
		req := attendance.UpdateAttendanceRequest{CheckOutTime: &checkOut}

		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*attendance.AttendanceRecord, error) {
			rec := recordWithTimes("2026-03-02", "09:00", "17:00", attendance.StatusPresent)
			rec.ID = uuid.MustParse(recordID)
			return &rec, nil
		}

		_, err := deps.service.Update(ctx, companyID, actorID, recordID, req)

		assert.ErrorIs(t, err, attendanceerrors.ErrCheckOutBeforeCheckIn)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestAttendanceService_Delete(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	recordID := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		deps := setupAttendanceServiceTest(t)
		defer deps.db.Close()

		deps.repo.deleteFn = func(ctx context.Context, cid, id string) (bool, error) {
			assert.Equal(t, companyID, cid)
			assert.Equal(t, recordID, id)
			return true, nil
		}

		deleted, err := deps.service.Delete(ctx, companyID, recordID)

		assert.NoError(t, err)
		assert.True(t, deleted)
	})

	t.Run("unknown record is not an error", func(t *testing.T) {
		deps := setupAttendanceServiceTest(t)
		defer deps.db.Close()

		deps.repo.deleteFn = func(ctx context.Context, cid, id string) (bool, error) {
			return false, nil
		}

		deleted, err := deps.service.Delete(ctx, companyID, recordID)

		assert.NoError(t, err)
		assert.False(t, deleted)
	})
}

func TestAttendanceService_ReportException(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	actorID := uuid.New().String()
	employeeID := uuid.New().String()

	t.Run("overwrites existing record status", func(t *testing.T) {
		deps := setupAttendanceServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		req := attendance.ReportExceptionRequest{
			EmployeeID: employeeID,
			Date:       "2026-03-02",
			Reason:     "badge reader offline",
		}

		deps.repo.findEmployeeRefFn = func(ctx context.Context, cid, eid string) (*attendance.EmployeeRef, error) {
			return activeEmployeeRef(companyID, employeeID), nil
		}
		deps.repo.findByEmployeeAndDateFn = func(ctx context.Context, cid, eid string, date time.Time) (*attendance.AttendanceRecord, error) {
			rec := recordWithTimes("2026-03-02", "09:00", "17:00", attendance.StatusPresent)
			rec.ID = uuid.New()
			rec.CompanyID = uuid.MustParse(companyID)
			rec.EmployeeID = uuid.MustParse(employeeID)
			return &rec, nil
		}
		deps.repo.updateFn = func(ctx context.Context, r *attendance.AttendanceRecord) error {
			assert.Equal(t, attendance.StatusException, r.Status)
			assert.NotNil(t, r.Notes)
			assert.Contains(t, *r.Notes, "badge reader offline")
			return nil
		}

		resp, err := deps.service.ReportException(ctx, companyID, actorID, req)

		assert.NoError(t, err)
		assert.Equal(t, "EXCEPTION", resp.Status)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("creates record when the day is empty", func(t *testing.T) {
		deps := setupAttendanceServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		proof := "https://files.example/ticket-123"
		req := attendance.ReportExceptionRequest{
			EmployeeID: employeeID,
			Date:       "2026-03-03",
			Reason:     "forgot to check in",
			Proof:      &proof,
		}

		deps.repo.findEmployeeRefFn = func(ctx context.Context, cid, eid string) (*attendance.EmployeeRef, error) {
			return activeEmployeeRef(companyID, employeeID), nil
		}

		created := false
		deps.repo.createFn = func(ctx context.Context, r *attendance.AttendanceRecord) error {
			created = true
			assert.Equal(t, attendance.StatusException, r.Status)
			assert.Contains(t, *r.Notes, "proof: "+proof)
			return nil
		}

		resp, err := deps.service.ReportException(ctx, companyID, actorID, req)

		assert.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, "EXCEPTION", resp.Status)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestAttendanceService_ResolveException(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	actorID := uuid.New().String()
	recordID := uuid.New().String()

	exceptionRecord := func() *attendance.AttendanceRecord {
		rec := recordWithTimes("2026-03-02", "", "", attendance.StatusException)
		rec.ID = uuid.MustParse(recordID)
		rec.CompanyID = uuid.MustParse(companyID)
		rec.EmployeeID = uuid.New()
		return &rec
	}

	t.Run("success", func(t *testing.T) {
		deps := setupAttendanceServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		notes := "confirmed with manager"
		req := attendance.ResolveExceptionRequest{Status: "PRESENT", Notes: &notes}

		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*attendance.AttendanceRecord, error) {
			return exceptionRecord(), nil
		}
		deps.repo.updateFn = func(ctx context.Context, r *attendance.AttendanceRecord) error {
			assert.Equal(t, attendance.StatusPresent, r.Status)
			return nil
		}

		resp, err := deps.service.ResolveException(ctx, companyID, actorID, recordID, req)

		assert.NoError(t, err)
		assert.Equal(t, "PRESENT", resp.Status)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative record not in exception", func(t *testing.T) {
		deps := setupAttendanceServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		req := attendance.ResolveExceptionRequest{Status: "PRESENT"}

		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*attendance.AttendanceRecord, error) {
			rec := recordWithTimes("2026-03-02", "09:00", "17:00", attendance.StatusPresent)
			rec.ID = uuid.MustParse(recordID)
			return &rec, nil
		}

		_, err := deps.service.ResolveException(ctx, companyID, actorID, recordID, req)

		assert.ErrorIs(t, err, attendanceerrors.ErrNotException)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative holiday is not a valid outcome", func(t *testing.T) {
		deps := setupAttendanceServiceTest(t)
		defer deps.db.Close()

		req := attendance.ResolveExceptionRequest{Status: "HOLIDAY"}

		_, err := deps.service.ResolveException(ctx, companyID, actorID, recordID, req)

		assert.ErrorIs(t, err, attendanceerrors.ErrInvalidResolutionStatus)
	})
}
