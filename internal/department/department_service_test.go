package department_test

import (
	"context"
	"database/sql"
	"testing"

	"go-hrms/internal/department"
	departmenterrors "go-hrms/internal/department/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeDepartmentRepository struct {
	createFn             func(ctx context.Context, dept *department.Department) error
	findAllByCompanyFn   func(ctx context.Context, companyID string) ([]department.Department, error)
	findByIDAndCompanyFn func(ctx context.Context, companyID, id string) (*department.Department, error)
	updateFn             func(ctx context.Context, dept *department.Department) error
	deleteFn             func(ctx context.Context, companyID, id string) error
}

func (f *fakeDepartmentRepository) WithTx(tx *sql.Tx) department.Repository {
	return f
}

func (f *fakeDepartmentRepository) Create(ctx context.Context, dept *department.Department) error {
	if f.createFn != nil {
		return f.createFn(ctx, dept)
	}
	return nil
}

func (f *fakeDepartmentRepository) FindAllByCompany(ctx context.Context, companyID string) ([]department.Department, error) {
	if f.findAllByCompanyFn != nil {
		return f.findAllByCompanyFn(ctx, companyID)
	}
	return nil, nil
}

func (f *fakeDepartmentRepository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*department.Department, error) {
	if f.findByIDAndCompanyFn != nil {
		return f.findByIDAndCompanyFn(ctx, companyID, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeDepartmentRepository) Update(ctx context.Context, dept *department.Department) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, dept)
	}
	return nil
}

func (f *fakeDepartmentRepository) Delete(ctx context.Context, companyID, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, companyID, id)
	}
	return nil
}

type departmentServiceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service department.Service
	repo    *fakeDepartmentRepository
}

func setupDepartmentServiceTest(t *testing.T) *departmentServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeDepartmentRepository{}
	svc := department.NewService(db, repo)

	return &departmentServiceDeps{
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

func TestDepartmentService_Create(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		deps := setupDepartmentServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		req := department.CreateDepartmentRequest{Name: "Engineering", Description: "Builds things"}

		deps.repo.createFn = func(ctx context.Context, dept *department.Department) error {
			assert.Equal(t, uuid.MustParse(companyID), dept.CompanyID)
			assert.Equal(t, "Engineering", dept.Name)
			assert.Equal(t, "Builds things", dept.Description)
			return nil
		}

		resp, err := deps.service.Create(ctx, companyID, req)

		assert.NoError(t, err)
		assert.Equal(t, "Engineering", resp.Name)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative duplicate name", func(t *testing.T) {
		deps := setupDepartmentServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		req := department.CreateDepartmentRequest{Name: "Engineering"}

		deps.repo.createFn = func(ctx context.Context, dept *department.Department) error {
			return &pgconn.PgError{Code: "23505", ConstraintName: "uq_department_name"}
		}

		_, err := deps.service.Create(ctx, companyID, req)

		assert.ErrorIs(t, err, departmenterrors.ErrDepartmentNameTaken)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestDepartmentService_GetByID(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()

	t.Run("negative other company department", func(t *testing.T) {
		deps := setupDepartmentServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*department.Department, error) {
			return nil, gorm.ErrRecordNotFound
		}

		_, err := deps.service.GetByID(ctx, companyID, uuid.New().String())

		assert.ErrorIs(t, err, departmenterrors.ErrDepartmentNotFound)
	})
}

func TestDepartmentService_Update(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	deptID := uuid.New()

	t.Run("success", func(t *testing.T) {
		deps := setupDepartmentServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		req := department.UpdateDepartmentRequest{Name: "Platform", Description: "Renamed"}

		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*department.Department, error) {
			return &department.Department{
				ID:        deptID,
				CompanyID: uuid.MustParse(companyID),
				Name:      "Engineering",
			}, nil
		}
		deps.repo.updateFn = func(ctx context.Context, dept *department.Department) error {
			assert.Equal(t, "Platform", dept.Name)
			assert.Equal(t, "Renamed", dept.Description)
			return nil
		}

		resp, err := deps.service.Update(ctx, companyID, deptID.String(), req)

		assert.NoError(t, err)
		assert.Equal(t, "Platform", resp.Name)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestDepartmentService_Delete(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		deps := setupDepartmentServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		called := false
		deps.repo.deleteFn = func(ctx context.Context, cid, id string) error {
			called = true
			return nil
		}

		err := deps.service.Delete(ctx, companyID, uuid.New().String())

		assert.NoError(t, err)
		assert.True(t, called)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}
