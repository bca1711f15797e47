package employee

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusActive   = "ACTIVE"
	StatusInactive = "INACTIVE"
)

type Employee struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CompanyID      uuid.UUID  `gorm:"type:uuid;index"`
	DepartmentID   *uuid.UUID `gorm:"type:uuid"`
	PositionID     *uuid.UUID `gorm:"type:uuid"`
	EmployeeNumber string     `gorm:"type:varchar(32);uniqueIndex:uq_employee_number"`
	FullName       string     `gorm:"type:varchar(255);not null"`
	Email          string     `gorm:"type:varchar(255);uniqueIndex:uq_employee_email"`
	Phone          string     `gorm:"type:varchar(32)"`
	HireDate       time.Time  `gorm:"type:date"`
	Status         string     `gorm:"type:varchar(16);not null;default:'ACTIVE'"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      gorm.DeletedAt `gorm:"index"`

	Department *Department `gorm:"foreignKey:DepartmentID"`
	Position   *Position   `gorm:"foreignKey:PositionID"`
}

// Department and Position are read-only projections; their own modules own
// the full rows.
type Department struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name string
}

func (Department) TableName() string { return "departments" }

type Position struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name string
}

func (Position) TableName() string { return "positions" }
