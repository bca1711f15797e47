package events

import "time"

const (
	AttendanceLeaveTopic    = "hr.attendance.leave.v1"
	LeaveRequestedEventType = "attendance.leave.requested"
)

type LeaveRequestedEvent struct {
	EventType  string    `json:"event_type"`
	EmployeeID string    `json:"employee_id"`
	CompanyID  string    `json:"company_id"`
	StartDate  string    `json:"start_date"`
	EndDate    string    `json:"end_date"`
	LeaveType  string    `json:"leave_type"`
	TotalDays  int       `json:"total_days"`
	OccurredAt time.Time `json:"occurred_at"`
}
