package leave

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"go-hrms/internal/attendance"
	attendanceerrors "go-hrms/internal/attendance/errors"
	"go-hrms/internal/events"
	leaveerrors "go-hrms/internal/leave/errors"
	"go-hrms/internal/messaging/kafka"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// A leave application is not its own aggregate: it is one attendance record
// per calendar day of the range, each carrying the leave-type status and the
// application reason. Approval-style updates rewrite the status of a single
// underlying record.

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	CreateApplication(ctx context.Context, companyID, actorID string, req CreateLeaveApplicationRequest) (LeaveApplicationResponse, error)
	UpdateApplication(ctx context.Context, companyID, actorID, recordID string, req UpdateLeaveApplicationRequest) (attendance.AttendanceResponse, error)
}

type service struct {
	db     *sql.DB
	repo   attendance.Repository
	outbox kafka.OutboxRepository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo attendance.Repository, logger ...*zap.Logger) Service {
	return NewServiceWithOutbox(db, repo, nil, logger...)
}

func NewServiceWithOutbox(db *sql.DB, repo attendance.Repository, outboxRepo kafka.OutboxRepository, logger ...*zap.Logger) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{db: db, repo: repo, outbox: outboxRepo, logger: l}
}

// CreateApplication expands the range into one record per day, all inside a
// single transaction: if any day is already occupied nothing is persisted.
func (s *service) CreateApplication(ctx context.Context, companyID, actorID string, req CreateLeaveApplicationRequest) (LeaveApplicationResponse, error) {
	s.logger.Debug("create leave application requested",
		zap.String("company_id", companyID),
		zap.String("employee_id", req.EmployeeID),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
		zap.String("leave_type", req.LeaveType),
	)

	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return LeaveApplicationResponse{}, leaveerrors.ErrInvalidCompanyID
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveApplicationResponse{}, leaveerrors.ErrInvalidActorID
	}
	employeeUUID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return LeaveApplicationResponse{}, leaveerrors.ErrInvalidEmployeeID
	}
	leaveType, ok := attendance.ParseStatus(req.LeaveType)
	if !ok || !leaveType.IsLeave() {
		return LeaveApplicationResponse{}, leaveerrors.ErrInvalidLeaveType
	}
	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return LeaveApplicationResponse{}, leaveerrors.ErrInvalidDateRange
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return LeaveApplicationResponse{}, leaveerrors.ErrInvalidDateRange
	}
	if start.After(end) {
		return LeaveApplicationResponse{}, leaveerrors.ErrInvalidDateRange
	}

	days := expandDays(start, end)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create leave application begin tx failed", zap.Error(err))
		return LeaveApplicationResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	emp, err := qtx.FindEmployeeRef(ctx, companyID, req.EmployeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveApplicationResponse{}, leaveerrors.ErrEmployeeNotInCompany
		}
		s.logger.Error("create leave application employee check failed", zap.Error(err))
		return LeaveApplicationResponse{}, err
	}

	occupied, err := qtx.CountByEmployeeAndDates(ctx, companyID, req.EmployeeID, days)
	if err != nil {
		s.logger.Error("create leave application conflict check failed", zap.Error(err))
		return LeaveApplicationResponse{}, err
	}
	if occupied > 0 {
		s.logger.Warn("create leave application conflict",
			zap.String("employee_id", req.EmployeeID),
			zap.Int64("occupied_days", occupied),
		)
		return LeaveApplicationResponse{}, leaveerrors.ErrLeaveConflict
	}

	reason := req.Reason
	records := make([]attendance.AttendanceResponse, 0, len(days))
	for _, day := range days {
		rec := &attendance.AttendanceRecord{
			ID:             uuid.New(),
			CompanyID:      companyUUID,
			EmployeeID:     employeeUUID,
			AttendanceDate: day,
			Status:         leaveType,
			Notes:          &reason,
			CreatedBy:      actorUUID,
		}
		if err := qtx.Create(ctx, rec); err != nil {
			// A concurrent writer can still win a day between the count and
			// the insert; the unique constraint rolls the whole range back.
			s.logger.Warn("create leave application insert failed",
				zap.String("date", day.Format("2006-01-02")),
				zap.Error(err),
			)
			return LeaveApplicationResponse{}, mapLeaveStorageError(err)
		}
		rec.Employee = emp
		records = append(records, attendance.MapToResponse(*rec))
	}

	if err := s.enqueueLeaveEvent(ctx, tx, companyID, req, len(days)); err != nil {
		s.logger.Error("create leave application enqueue event failed", zap.Error(err))
		return LeaveApplicationResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create leave application commit failed", zap.Error(err))
		return LeaveApplicationResponse{}, err
	}

	s.logger.Info("create leave application success",
		zap.String("employee_id", req.EmployeeID),
		zap.Int("days", len(days)),
		zap.String("leave_type", req.LeaveType),
	)

	return LeaveApplicationResponse{
		EmployeeID: req.EmployeeID,
		LeaveType:  req.LeaveType,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		TotalDays:  len(days),
		Reason:     req.Reason,
		Records:    records,
	}, nil
}

// UpdateApplication changes the leave-type status of a single day record.
// Only records already in a leave status may transition; days move between
// leave types independently of their siblings.
func (s *service) UpdateApplication(ctx context.Context, companyID, actorID, recordID string, req UpdateLeaveApplicationRequest) (attendance.AttendanceResponse, error) {
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return attendance.AttendanceResponse{}, leaveerrors.ErrInvalidActorID
	}
	newStatus, ok := attendance.ParseStatus(req.Status)
	if !ok || !newStatus.IsLeave() {
		return attendance.AttendanceResponse{}, leaveerrors.ErrInvalidLeaveType
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update leave application begin tx failed", zap.Error(err))
		return attendance.AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	rec, err := qtx.FindByIDAndCompany(ctx, companyID, recordID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return attendance.AttendanceResponse{}, leaveerrors.ErrRecordNotFound
		}
		return attendance.AttendanceResponse{}, err
	}
	if !rec.Status.IsLeave() {
		s.logger.Warn("update leave application on non-leave record",
			zap.String("record_id", recordID),
			zap.String("status", string(rec.Status)),
		)
		return attendance.AttendanceResponse{}, leaveerrors.ErrNotLeaveRecord
	}

	rec.Status = newStatus
	rec.UpdatedBy = &actorUUID

	if err := qtx.Update(ctx, rec); err != nil {
		s.logger.Error("update leave application persist failed", zap.String("record_id", recordID), zap.Error(err))
		return attendance.AttendanceResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("update leave application commit failed", zap.String("record_id", recordID), zap.Error(err))
		return attendance.AttendanceResponse{}, err
	}

	s.logger.Info("update leave application success",
		zap.String("record_id", recordID),
		zap.String("status", req.Status),
	)
	return attendance.MapToResponse(*rec), nil
}

func (s *service) enqueueLeaveEvent(ctx context.Context, tx *sql.Tx, companyID string, req CreateLeaveApplicationRequest, days int) error {
	if s.outbox == nil {
		return nil
	}

	payload, err := json.Marshal(events.LeaveRequestedEvent{
		EventType:  events.LeaveRequestedEventType,
		EmployeeID: req.EmployeeID,
		CompanyID:  companyID,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		LeaveType:  req.LeaveType,
		TotalDays:  days,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		AggregateType: "leave_application",
		AggregateID:   req.EmployeeID,
		EventType:     events.LeaveRequestedEventType,
		Topic:         events.AttendanceLeaveTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func expandDays(start, end time.Time) []time.Time {
	days := make([]time.Time, 0, int(end.Sub(start).Hours()/24)+1)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

func mapLeaveStorageError(err error) error {
	mapped := attendance.MapRepositoryError(err)
	if errors.Is(mapped, attendanceerrors.ErrDuplicateRecord) {
		return leaveerrors.ErrLeaveConflict
	}
	return mapped
}
