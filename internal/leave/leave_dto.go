package leave

import "go-hrms/internal/attendance"

type CreateLeaveApplicationRequest struct {
	EmployeeID string `json:"employee_id" binding:"required,uuid"`
	StartDate  string `json:"start_date" binding:"required"`
	EndDate    string `json:"end_date" binding:"required"`
	LeaveType  string `json:"leave_type" binding:"required,oneof=SICK_LEAVE ANNUAL_LEAVE OTHER_LEAVE"`
	Reason     string `json:"reason" binding:"required"`
}

type UpdateLeaveApplicationRequest struct {
	Status string `json:"status" binding:"required,oneof=SICK_LEAVE ANNUAL_LEAVE OTHER_LEAVE"`
}

type LeaveApplicationResponse struct {
	EmployeeID string                          `json:"employee_id"`
	LeaveType  string                          `json:"leave_type"`
	StartDate  string                          `json:"start_date"`
	EndDate    string                          `json:"end_date"`
	TotalDays  int                             `json:"total_days"`
	Reason     string                          `json:"reason"`
	Records    []attendance.AttendanceResponse `json:"records"`
}
