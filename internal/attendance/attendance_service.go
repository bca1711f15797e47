package attendance

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	attendanceerrors "go-hrms/internal/attendance/errors"
	"go-hrms/internal/events"
	"go-hrms/internal/messaging/kafka"
	"go-hrms/internal/shared/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=attendance_service.go -destination=mock/attendance_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID, actorID string, req CreateAttendanceRequest) (AttendanceResponse, error)
	Update(ctx context.Context, companyID, actorID, id string, req UpdateAttendanceRequest) (AttendanceResponse, error)
	Delete(ctx context.Context, companyID, id string) (bool, error)
	List(ctx context.Context, companyID string, req ListAttendanceFilterRequest) ([]AttendanceResponse, error)
	GetEmployeeAttendance(ctx context.Context, companyID, employeeID string, req EmployeeRangeRequest) (EmployeeAttendanceResponse, error)
	ReportException(ctx context.Context, companyID, actorID string, req ReportExceptionRequest) (AttendanceResponse, error)
	ResolveException(ctx context.Context, companyID, actorID, id string, req ResolveExceptionRequest) (AttendanceResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	outbox kafka.OutboxRepository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	return NewServiceWithOutbox(db, repo, nil, logger...)
}

func NewServiceWithOutbox(db *sql.DB, repo Repository, outboxRepo kafka.OutboxRepository, logger ...*zap.Logger) Service {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}
	return &service{db: db, repo: repo, outbox: outboxRepo, logger: l}
}

func (s *service) Create(ctx context.Context, companyID, actorID string, req CreateAttendanceRequest) (AttendanceResponse, error) {
	s.logger.Debug("create attendance requested",
		zap.String("company_id", companyID),
		zap.String("employee_id", req.EmployeeID),
		zap.String("date", req.Date),
		zap.String("status", req.Status),
	)

	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidCompanyID
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidActorID
	}
	employeeUUID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidEmployeeID
	}
	status, ok := ParseStatus(req.Status)
	if !ok {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidStatus
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return AttendanceResponse{}, err
	}
	checkIn, err := parseClock(date, req.CheckInTime)
	if err != nil {
		return AttendanceResponse{}, err
	}
	checkOut, err := parseClock(date, req.CheckOutTime)
	if err != nil {
		return AttendanceResponse{}, err
	}
	if err := validateChronology(checkIn, checkOut); err != nil {
		s.logger.Warn("create attendance chronology invalid",
			zap.String("employee_id", req.EmployeeID),
			zap.String("date", req.Date),
		)
		return AttendanceResponse{}, err
	}
	projectID, err := parseOptionalUUID(req.ProjectID, attendanceerrors.ErrInvalidProjectID)
	if err != nil {
		return AttendanceResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create attendance begin tx failed", zap.Error(err))
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	emp, err := qtx.FindEmployeeRef(ctx, companyID, req.EmployeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AttendanceResponse{}, attendanceerrors.ErrEmployeeNotInCompany
		}
		s.logger.Error("create attendance employee lookup failed", zap.Error(err))
		return AttendanceResponse{}, err
	}

	_, err = qtx.FindByEmployeeAndDate(ctx, companyID, req.EmployeeID, date)
	if err == nil {
		return AttendanceResponse{}, attendanceerrors.ErrDuplicateRecord
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("create attendance duplicate check failed", zap.Error(err))
		return AttendanceResponse{}, err
	}

	rec := &AttendanceRecord{
		ID:             uuid.New(),
		CompanyID:      companyUUID,
		EmployeeID:     employeeUUID,
		ProjectID:      projectID,
		AttendanceDate: date,
		CheckInTime:    checkIn,
		CheckOutTime:   checkOut,
		Status:         status,
		OvertimeHours:  req.OvertimeHours,
		Notes:          req.Notes,
		CreatedBy:      actorUUID,
	}

	if err := qtx.Create(ctx, rec); err != nil {
		// Concurrent create for the same (employee, date) loses here on the
		// unique constraint.
		return AttendanceResponse{}, MapRepositoryError(err)
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("create attendance commit failed", zap.Error(err))
		return AttendanceResponse{}, err
	}

	s.logger.Info("create attendance success",
		zap.String("record_id", rec.ID.String()),
		zap.String("employee_id", req.EmployeeID),
		zap.String("date", req.Date),
	)
	rec.Employee = emp
	return MapToResponse(*rec), nil
}

func (s *service) Update(ctx context.Context, companyID, actorID, id string, req UpdateAttendanceRequest) (AttendanceResponse, error) {
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidActorID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update attendance begin tx failed", zap.Error(err))
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	rec, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return AttendanceResponse{}, MapRepositoryError(err)
	}

	if req.Status != nil {
		status, ok := ParseStatus(*req.Status)
		if !ok {
			return AttendanceResponse{}, attendanceerrors.ErrInvalidStatus
		}
		rec.Status = status
	}
	if req.CheckInTime != nil {
		t, err := parseClock(rec.AttendanceDate, req.CheckInTime)
		if err != nil {
			return AttendanceResponse{}, err
		}
		rec.CheckInTime = t
	}
	if req.CheckOutTime != nil {
		t, err := parseClock(rec.AttendanceDate, req.CheckOutTime)
		if err != nil {
			return AttendanceResponse{}, err
		}
		rec.CheckOutTime = t
	}
	// Re-validate against stored values not being overwritten.
	if err := validateChronology(rec.CheckInTime, rec.CheckOutTime); err != nil {
		s.logger.Warn("update attendance chronology invalid", zap.String("record_id", id))
		return AttendanceResponse{}, err
	}
	if req.ProjectID != nil {
		projectID, err := parseOptionalUUID(req.ProjectID, attendanceerrors.ErrInvalidProjectID)
		if err != nil {
			return AttendanceResponse{}, err
		}
		rec.ProjectID = projectID
	}
	if req.OvertimeHours != nil {
		rec.OvertimeHours = *req.OvertimeHours
	}
	if req.Notes != nil {
		rec.Notes = req.Notes
	}
	rec.UpdatedBy = &actorUUID

	if err := qtx.Update(ctx, rec); err != nil {
		s.logger.Error("update attendance persist failed", zap.String("record_id", id), zap.Error(err))
		return AttendanceResponse{}, MapRepositoryError(err)
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("update attendance commit failed", zap.String("record_id", id), zap.Error(err))
		return AttendanceResponse{}, err
	}

	s.logger.Info("update attendance success", zap.String("record_id", id))
	return MapToResponse(*rec), nil
}

// Delete is idempotent: deleting an unknown record reports false, not an error.
func (s *service) Delete(ctx context.Context, companyID, id string) (bool, error) {
	deleted, err := s.repo.Delete(ctx, companyID, id)
	if err != nil {
		s.logger.Error("delete attendance failed", zap.String("record_id", id), zap.Error(err))
		return false, err
	}
	s.logger.Info("delete attendance done", zap.String("record_id", id), zap.Bool("deleted", deleted))
	return deleted, nil
}

func (s *service) List(ctx context.Context, companyID string, req ListAttendanceFilterRequest) ([]AttendanceResponse, error) {
	filter, err := buildRangeFilter(req)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.FindByDateRange(ctx, companyID, filter)
	if err != nil {
		s.logger.Error("list attendance query failed", zap.Error(err))
		return nil, err
	}

	res := make([]AttendanceResponse, len(rows))
	for i, r := range rows {
		res[i] = MapToResponse(r)
	}
	return res, nil
}

func (s *service) GetEmployeeAttendance(ctx context.Context, companyID, employeeID string, req EmployeeRangeRequest) (EmployeeAttendanceResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return EmployeeAttendanceResponse{}, attendanceerrors.ErrInvalidEmployeeID
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		return EmployeeAttendanceResponse{}, err
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return EmployeeAttendanceResponse{}, err
	}
	if start.After(end) {
		return EmployeeAttendanceResponse{}, attendanceerrors.ErrInvalidDateRange
	}

	emp, err := s.repo.FindEmployeeRef(ctx, companyID, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EmployeeAttendanceResponse{}, attendanceerrors.ErrEmployeeNotFound
		}
		s.logger.Error("employee attendance lookup failed", zap.Error(err))
		return EmployeeAttendanceResponse{}, err
	}

	records, err := s.repo.FindByEmployeeAndRange(ctx, companyID, employeeID, start, end)
	if err != nil {
		s.logger.Error("employee attendance range query failed", zap.Error(err))
		return EmployeeAttendanceResponse{}, err
	}

	summary := Summarize(records, start, end)

	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = 31
	}
	total := int64(len(records))
	from := (page - 1) * pageSize
	to := from + pageSize
	if from > len(records) {
		from = len(records)
	}
	if to > len(records) {
		to = len(records)
	}

	pageRecords := make([]AttendanceResponse, 0, to-from)
	for _, r := range records[from:to] {
		r.Employee = emp
		pageRecords = append(pageRecords, MapToResponse(r))
	}

	resp := EmployeeAttendanceResponse{
		EmployeeID:        emp.ID.String(),
		EmployeeName:      emp.FullName,
		AttendanceRecords: pageRecords,
		Statistics:        summary,
		Pagination:        response.NewPaginationMeta(total, page, pageSize),
	}
	if emp.Department != nil {
		resp.DepartmentName = emp.Department.Name
	}
	return resp, nil
}

// ReportException flags a day for adjudication. An existing record has its
// status overwritten; the prior status survives only in the outbox event
// payload, not on the row.
func (s *service) ReportException(ctx context.Context, companyID, actorID string, req ReportExceptionRequest) (AttendanceResponse, error) {
	s.logger.Debug("report exception requested",
		zap.String("company_id", companyID),
		zap.String("employee_id", req.EmployeeID),
		zap.String("date", req.Date),
	)

	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidCompanyID
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidActorID
	}
	employeeUUID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidEmployeeID
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return AttendanceResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("report exception begin tx failed", zap.Error(err))
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if _, err := qtx.FindEmployeeRef(ctx, companyID, req.EmployeeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AttendanceResponse{}, attendanceerrors.ErrEmployeeNotInCompany
		}
		return AttendanceResponse{}, err
	}

	notes := req.Reason
	if req.Proof != nil && *req.Proof != "" {
		notes = notes + "\nproof: " + *req.Proof
	}

	priorStatus := ""
	rec, err := qtx.FindByEmployeeAndDate(ctx, companyID, req.EmployeeID, date)
	switch {
	case err == nil:
		priorStatus = string(rec.Status)
		rec.Status = StatusException
		rec.Notes = &notes
		rec.UpdatedBy = &actorUUID
		if err := qtx.Update(ctx, rec); err != nil {
			return AttendanceResponse{}, MapRepositoryError(err)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		rec = &AttendanceRecord{
			ID:             uuid.New(),
			CompanyID:      companyUUID,
			EmployeeID:     employeeUUID,
			AttendanceDate: date,
			Status:         StatusException,
			Notes:          &notes,
			CreatedBy:      actorUUID,
		}
		if err := qtx.Create(ctx, rec); err != nil {
			return AttendanceResponse{}, MapRepositoryError(err)
		}
	default:
		s.logger.Error("report exception lookup failed", zap.Error(err))
		return AttendanceResponse{}, err
	}

	if err := s.enqueueExceptionEvent(ctx, tx, rec, priorStatus); err != nil {
		s.logger.Error("report exception enqueue event failed", zap.Error(err))
		return AttendanceResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("report exception commit failed", zap.Error(err))
		return AttendanceResponse{}, err
	}

	s.logger.Info("report exception success",
		zap.String("record_id", rec.ID.String()),
		zap.String("prior_status", priorStatus),
	)
	return MapToResponse(*rec), nil
}

func (s *service) ResolveException(ctx context.Context, companyID, actorID, id string, req ResolveExceptionRequest) (AttendanceResponse, error) {
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidActorID
	}
	finalStatus, ok := ParseStatus(req.Status)
	if !ok {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidStatus
	}
	if !CanResolveExceptionTo(finalStatus) {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidResolutionStatus
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("resolve exception begin tx failed", zap.Error(err))
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	rec, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return AttendanceResponse{}, MapRepositoryError(err)
	}
	if rec.Status != StatusException {
		s.logger.Warn("resolve exception on non-exception record",
			zap.String("record_id", id),
			zap.String("status", string(rec.Status)),
		)
		return AttendanceResponse{}, attendanceerrors.ErrNotException
	}

	rec.Status = finalStatus
	if req.Notes != nil && *req.Notes != "" {
		appended := *req.Notes
		if rec.Notes != nil && *rec.Notes != "" {
			appended = *rec.Notes + "\nresolution: " + *req.Notes
		}
		rec.Notes = &appended
	}
	rec.UpdatedBy = &actorUUID

	if err := qtx.Update(ctx, rec); err != nil {
		s.logger.Error("resolve exception persist failed", zap.String("record_id", id), zap.Error(err))
		return AttendanceResponse{}, MapRepositoryError(err)
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("resolve exception commit failed", zap.String("record_id", id), zap.Error(err))
		return AttendanceResponse{}, err
	}

	s.logger.Info("resolve exception success",
		zap.String("record_id", id),
		zap.String("final_status", string(finalStatus)),
	)
	return MapToResponse(*rec), nil
}

func (s *service) enqueueExceptionEvent(ctx context.Context, tx *sql.Tx, rec *AttendanceRecord, priorStatus string) error {
	if s.outbox == nil {
		return nil
	}

	payload, err := json.Marshal(events.ExceptionReportedEvent{
		EventType:   events.ExceptionReportedEventType,
		RecordID:    rec.ID.String(),
		EmployeeID:  rec.EmployeeID.String(),
		CompanyID:   rec.CompanyID.String(),
		Date:        rec.AttendanceDate.Format("2006-01-02"),
		PriorStatus: priorStatus,
		OccurredAt:  time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		AggregateType: "attendance_record",
		AggregateID:   rec.ID.String(),
		EventType:     events.ExceptionReportedEventType,
		Topic:         events.AttendanceExceptionTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func buildRangeFilter(req ListAttendanceFilterRequest) (RangeFilter, error) {
	var f RangeFilter

	switch {
	case req.Date != "":
		d, err := parseDate(req.Date)
		if err != nil {
			return f, err
		}
		f.Start, f.End = d, d
	case req.StartDate != "" && req.EndDate != "":
		start, err := parseDate(req.StartDate)
		if err != nil {
			return f, err
		}
		end, err := parseDate(req.EndDate)
		if err != nil {
			return f, err
		}
		if start.After(end) {
			return f, attendanceerrors.ErrInvalidDateRange
		}
		f.Start, f.End = start, end
	default:
		// Default window: the current calendar month.
		now := time.Now().UTC()
		f.Start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		f.End = f.Start.AddDate(0, 1, -1)
	}

	if req.EmployeeID != "" {
		v := req.EmployeeID
		f.EmployeeID = &v
	}
	if req.DepartmentID != "" {
		v := req.DepartmentID
		f.DepartmentID = &v
	}
	if req.ProjectID != "" {
		v := req.ProjectID
		f.ProjectID = &v
	}
	if req.Status != "" {
		status, ok := ParseStatus(req.Status)
		if !ok {
			return f, attendanceerrors.ErrInvalidStatus
		}
		f.Status = &status
	}
	return f, nil
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, attendanceerrors.ErrInvalidDateFormat
	}
	return t, nil
}

// parseClock resolves an HH:MM wall-clock value onto the record's date.
func parseClock(date time.Time, v *string) (*time.Time, error) {
	if v == nil || *v == "" {
		return nil, nil
	}
	clock, err := time.Parse("15:04", *v)
	if err != nil {
		return nil, attendanceerrors.ErrInvalidTimeFormat
	}
	t := time.Date(date.Year(), date.Month(), date.Day(), clock.Hour(), clock.Minute(), 0, 0, time.UTC)
	return &t, nil
}

// validateChronology enforces check-out strictly after check-in on the same
// day. Overnight shifts are unsupported.
func validateChronology(checkIn, checkOut *time.Time) error {
	if checkIn == nil || checkOut == nil {
		return nil
	}
	if !checkOut.After(*checkIn) {
		return attendanceerrors.ErrCheckOutBeforeCheckIn
	}
	return nil
}

func parseOptionalUUID(v *string, invalidErr error) (*uuid.UUID, error) {
	if v == nil || *v == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*v)
	if err != nil {
		return nil, invalidErr
	}
	return &id, nil
}

// MapToResponse converts an entity into its API shape. Worked hours are
// derived, never stored.
func MapToResponse(r AttendanceRecord) AttendanceResponse {
	resp := AttendanceResponse{
		ID:            r.ID.String(),
		CompanyID:     r.CompanyID.String(),
		EmployeeID:    r.EmployeeID.String(),
		Date:          r.AttendanceDate.Format("2006-01-02"),
		Status:        string(r.Status),
		WorkedHours:   WorkedHours(r),
		OvertimeHours: r.OvertimeHours,
		Notes:         r.Notes,
	}
	if r.ProjectID != nil {
		v := r.ProjectID.String()
		resp.ProjectID = &v
	}
	if r.CheckInTime != nil {
		v := r.CheckInTime.Format("15:04")
		resp.CheckInTime = &v
	}
	if r.CheckOutTime != nil {
		v := r.CheckOutTime.Format("15:04")
		resp.CheckOutTime = &v
	}
	if r.Employee != nil {
		resp.EmployeeName = r.Employee.FullName
		if r.Employee.Department != nil {
			resp.DepartmentName = r.Employee.Department.Name
		}
	}
	return resp
}
