package position

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	positionerrors "go-hrms/internal/position/errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const PositionAllKeyPrefix = "positions:all:"

func GetPositionAllKey(companyID string) string {
	return PositionAllKeyPrefix + companyID
}

//go:generate mockgen -source=position_service.go -destination=mock/position_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID string, req CreatePositionRequest) (PositionResponse, error)
	GetAll(ctx context.Context, companyID string) ([]PositionResponse, error)
	GetByID(ctx context.Context, companyID, id string) (PositionResponse, error)
	Update(ctx context.Context, companyID, id string, req UpdatePositionRequest) (PositionResponse, error)
	Delete(ctx context.Context, companyID, id string) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("position.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("position.service")
	}
	return &service{db: db, repo: repo, rdb: rdb, sf: &singleflight.Group{}, logger: l}
}

func (s *service) Create(ctx context.Context, companyID string, req CreatePositionRequest) (PositionResponse, error) {
	departmentID, err := uuid.Parse(req.DepartmentID)
	if err != nil {
		return PositionResponse{}, positionerrors.ErrInvalidDepartmentID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PositionResponse{}, err
	}
	defer tx.Rollback()

	pos := &Position{
		ID:           uuid.New(),
		CompanyID:    uuid.MustParse(companyID),
		DepartmentID: departmentID,
		Name:         req.Name,
	}
	if err := s.repo.WithTx(tx).Create(ctx, pos); err != nil {
		return PositionResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return PositionResponse{}, err
	}

	s.invalidateCache(ctx, companyID)
	return mapToResponse(*pos), nil
}

// GetAll is cache-backed: positions are master data, so a 30 minute TTL plus
// invalidation on writes is enough.
func (s *service) GetAll(ctx context.Context, companyID string) ([]PositionResponse, error) {
	cacheKey := GetPositionAllKey(companyID)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp []PositionResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		positions, err := s.repo.FindAllByCompany(ctx, companyID)
		if err != nil {
			return nil, mapRepositoryError(err)
		}

		resp := mapToListResponse(positions)
		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, cacheKey, jsonData, 30*time.Minute)
			}
		}
		return resp, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]PositionResponse), nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (PositionResponse, error) {
	pos, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return PositionResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*pos), nil
}

func (s *service) Update(ctx context.Context, companyID, id string, req UpdatePositionRequest) (PositionResponse, error) {
	departmentID, err := uuid.Parse(req.DepartmentID)
	if err != nil {
		return PositionResponse{}, positionerrors.ErrInvalidDepartmentID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PositionResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	pos, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return PositionResponse{}, mapRepositoryError(err)
	}

	pos.Name = req.Name
	pos.DepartmentID = departmentID

	if err := qtx.Update(ctx, pos); err != nil {
		return PositionResponse{}, mapRepositoryError(err)
	}
	if err := tx.Commit(); err != nil {
		return PositionResponse{}, err
	}

	s.invalidateCache(ctx, companyID)
	return mapToResponse(*pos), nil
}

func (s *service) Delete(ctx context.Context, companyID, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).Delete(ctx, companyID, id); err != nil {
		return mapRepositoryError(err)
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	s.invalidateCache(ctx, companyID)
	return nil
}

func (s *service) invalidateCache(ctx context.Context, companyID string) {
	if s.rdb == nil {
		return
	}
	cacheKey := GetPositionAllKey(companyID)
	if err := s.rdb.Del(ctx, cacheKey).Err(); err != nil {
		s.logger.Error("failed to invalidate position cache",
			zap.String("key", cacheKey),
			zap.Error(err),
		)
	}
}

func mapRepositoryError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return positionerrors.ErrPositionNotFound
	}
	return err
}

func mapToResponse(pos Position) PositionResponse {
	resp := PositionResponse{
		ID:           pos.ID.String(),
		CompanyID:    pos.CompanyID.String(),
		DepartmentID: pos.DepartmentID.String(),
		Name:         pos.Name,
		CreatedAt:    pos.CreatedAt.Format("2006-01-02"),
		UpdatedAt:    pos.UpdatedAt.Format("2006-01-02"),
	}
	if pos.Department != nil {
		resp.DepartmentName = pos.Department.Name
	}
	return resp
}

func mapToListResponse(positions []Position) []PositionResponse {
	res := make([]PositionResponse, len(positions))
	for i, p := range positions {
		res[i] = mapToResponse(p)
	}
	return res
}
