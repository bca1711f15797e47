package events

import "time"

const (
	AttendanceExceptionTopic   = "hr.attendance.exception.v1"
	ExceptionReportedEventType = "attendance.exception.reported"
)

// ExceptionReportedEvent carries the status the record held before the
// overwrite; the record itself only keeps the final state.
type ExceptionReportedEvent struct {
	EventType   string    `json:"event_type"`
	RecordID    string    `json:"record_id"`
	EmployeeID  string    `json:"employee_id"`
	CompanyID   string    `json:"company_id"`
	Date        string    `json:"date"`
	PriorStatus string    `json:"prior_status,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}
