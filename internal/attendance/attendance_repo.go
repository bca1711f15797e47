package attendance

import (
	"context"
	"database/sql"
	"time"

	"go-hrms/internal/tenant"

	"gorm.io/gorm"
)

// RangeFilter narrows FindByDateRange. Department filtering goes through the
// employees join; everything else is a column match.
type RangeFilter struct {
	Start        time.Time
	End          time.Time
	EmployeeID   *string
	DepartmentID *string
	ProjectID    *string
	Status       *Status
}

//go:generate mockgen -source=attendance_repo.go -destination=mock/attendance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, r *AttendanceRecord) error
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*AttendanceRecord, error)
	FindByEmployeeAndDate(ctx context.Context, companyID, employeeID string, date time.Time) (*AttendanceRecord, error)
	FindByEmployeeAndRange(ctx context.Context, companyID, employeeID string, start, end time.Time) ([]AttendanceRecord, error)
	FindByDateRange(ctx context.Context, companyID string, f RangeFilter) ([]AttendanceRecord, error)
	CountByEmployeeAndDates(ctx context.Context, companyID, employeeID string, dates []time.Time) (int64, error)
	Update(ctx context.Context, r *AttendanceRecord) error
	Delete(ctx context.Context, companyID, id string) (bool, error)

	FindEmployeeRef(ctx context.Context, companyID, employeeID string) (*EmployeeRef, error)
	ListActiveEmployees(ctx context.Context, companyID string, departmentID *string) ([]EmployeeRef, error)
	DepartmentExists(ctx context.Context, companyID, departmentID string) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx returns a repository whose statements run on tx, so callers can
// commit or roll back multi-row mutations as one unit.
func (r *repository) WithTx(tx *sql.Tx) Repository {
	session := r.db.Session(&gorm.Session{Context: r.db.Statement.Context, NewDB: true})
	session.Statement.ConnPool = tx
	return &repository{db: session}
}

func (r *repository) Create(ctx context.Context, rec *AttendanceRecord) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*AttendanceRecord, error) {
	var rec AttendanceRecord
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Preload("Employee").
		Preload("Employee.Department").
		First(&rec, "id = ?", id).Error
	return &rec, err
}

func (r *repository) FindByEmployeeAndDate(ctx context.Context, companyID, employeeID string, date time.Time) (*AttendanceRecord, error) {
	var rec AttendanceRecord
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Where("attendance_date = ?", date.Format("2006-01-02")).
		First(&rec).Error
	return &rec, err
}

func (r *repository) FindByEmployeeAndRange(ctx context.Context, companyID, employeeID string, start, end time.Time) ([]AttendanceRecord, error) {
	var rows []AttendanceRecord
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Where("attendance_date BETWEEN ? AND ?", start.Format("2006-01-02"), end.Format("2006-01-02")).
		Order("attendance_date ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindByDateRange(ctx context.Context, companyID string, f RangeFilter) ([]AttendanceRecord, error) {
	db := r.db.WithContext(ctx).
		Model(&AttendanceRecord{}).
		Scopes(tenant.Scope(companyID)).
		Preload("Employee").
		Preload("Employee.Department").
		Where("attendance_date BETWEEN ? AND ?", f.Start.Format("2006-01-02"), f.End.Format("2006-01-02"))

	if f.EmployeeID != nil {
		db = db.Where("employee_id = ?", *f.EmployeeID)
	}
	if f.ProjectID != nil {
		db = db.Where("project_id = ?", *f.ProjectID)
	}
	if f.Status != nil {
		db = db.Where("status = ?", string(*f.Status))
	}
	if f.DepartmentID != nil {
		db = db.Where(
			"employee_id IN (SELECT id FROM employees WHERE department_id = ? AND deleted_at IS NULL)",
			*f.DepartmentID,
		)
	}

	var rows []AttendanceRecord
	err := db.Order("attendance_date ASC, employee_id ASC").Find(&rows).Error
	return rows, err
}

func (r *repository) CountByEmployeeAndDates(ctx context.Context, companyID, employeeID string, dates []time.Time) (int64, error) {
	if len(dates) == 0 {
		return 0, nil
	}
	days := make([]string, len(dates))
	for i, d := range dates {
		days[i] = d.Format("2006-01-02")
	}

	var count int64
	err := r.db.WithContext(ctx).
		Model(&AttendanceRecord{}).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Where("attendance_date IN ?", days).
		Count(&count).Error
	return count, err
}

func (r *repository) Update(ctx context.Context, rec *AttendanceRecord) error {
	return r.db.WithContext(ctx).Save(rec).Error
}

func (r *repository) Delete(ctx context.Context, companyID, id string) (bool, error) {
	res := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Delete(&AttendanceRecord{}, "id = ?", id)
	return res.RowsAffected > 0, res.Error
}

func (r *repository) FindEmployeeRef(ctx context.Context, companyID, employeeID string) (*EmployeeRef, error) {
	var emp EmployeeRef
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Preload("Department").
		Where("deleted_at IS NULL").
		First(&emp, "id = ?", employeeID).Error
	return &emp, err
}

func (r *repository) ListActiveEmployees(ctx context.Context, companyID string, departmentID *string) ([]EmployeeRef, error) {
	db := r.db.WithContext(ctx).
		Model(&EmployeeRef{}).
		Scopes(tenant.Scope(companyID)).
		Preload("Department").
		Where("status = ?", "ACTIVE").
		Where("deleted_at IS NULL")

	if departmentID != nil {
		db = db.Where("department_id = ?", *departmentID)
	}

	var emps []EmployeeRef
	err := db.Order("full_name ASC").Find(&emps).Error
	return emps, err
}

func (r *repository) DepartmentExists(ctx context.Context, companyID, departmentID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("departments").
		Where("id = ?", departmentID).
		Where("company_id = ?", companyID).
		Where("deleted_at IS NULL").
		Count(&count).Error
	return count > 0, err
}
