package attendance

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AttendanceRecord struct {
	ID             uuid.UUID      `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID      uuid.UUID      `gorm:"column:company_id;type:uuid;not null;uniqueIndex:uq_attendance_employee_date"`
	EmployeeID     uuid.UUID      `gorm:"column:employee_id;type:uuid;not null;uniqueIndex:uq_attendance_employee_date"`
	ProjectID      *uuid.UUID     `gorm:"column:project_id;type:uuid"`
	AttendanceDate time.Time      `gorm:"column:attendance_date;type:date;not null;uniqueIndex:uq_attendance_employee_date"`
	CheckInTime    *time.Time     `gorm:"column:check_in_time;type:timestamptz"`
	CheckOutTime   *time.Time     `gorm:"column:check_out_time;type:timestamptz"`
	Status         Status         `gorm:"column:status;type:varchar(20);not null;default:'PRESENT'"`
	OvertimeHours  float64        `gorm:"column:overtime_hours;type:numeric(5,2);not null;default:0"`
	Notes          *string        `gorm:"column:notes;type:text"`
	CreatedBy      uuid.UUID      `gorm:"column:created_by;type:uuid;not null"`
	UpdatedBy      *uuid.UUID     `gorm:"column:updated_by;type:uuid"`
	CreatedAt      time.Time      `gorm:"column:created_at"`
	UpdatedAt      time.Time      `gorm:"column:updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"column:deleted_at;index"`
	Employee       *EmployeeRef   `gorm:"foreignKey:EmployeeID;references:ID"`
}

func (AttendanceRecord) TableName() string {
	return "attendance_records"
}

// EmployeeRef is a read-only view of the employees table. Attendance never
// writes employees; it only validates and joins against them.
type EmployeeRef struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey"`
	CompanyID    uuid.UUID      `gorm:"column:company_id;type:uuid"`
	FullName     string         `gorm:"column:full_name"`
	DepartmentID *uuid.UUID     `gorm:"column:department_id;type:uuid"`
	Status       string         `gorm:"column:status"`
	Department   *DepartmentRef `gorm:"foreignKey:DepartmentID;references:ID"`
}

func (EmployeeRef) TableName() string {
	return "employees"
}

type DepartmentRef struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name string    `gorm:"column:name"`
}

func (DepartmentRef) TableName() string {
	return "departments"
}
