package attendance

import "go-hrms/internal/shared/response"

type CreateAttendanceRequest struct {
	EmployeeID    string  `json:"employee_id" binding:"required,uuid"`
	Date          string  `json:"date" binding:"required"`
	Status        string  `json:"status" binding:"required"`
	CheckInTime   *string `json:"check_in_time"`
	CheckOutTime  *string `json:"check_out_time"`
	ProjectID     *string `json:"project_id"`
	OvertimeHours float64 `json:"overtime_hours" binding:"gte=0"`
	Notes         *string `json:"notes"`
}

type UpdateAttendanceRequest struct {
	Status        *string  `json:"status"`
	CheckInTime   *string  `json:"check_in_time"`
	CheckOutTime  *string  `json:"check_out_time"`
	ProjectID     *string  `json:"project_id"`
	OvertimeHours *float64 `json:"overtime_hours" binding:"omitempty,gte=0"`
	Notes         *string  `json:"notes"`
}

type ListAttendanceFilterRequest struct {
	EmployeeID   string `form:"employeeId" binding:"omitempty,uuid"`
	DepartmentID string `form:"departmentId" binding:"omitempty,uuid"`
	ProjectID    string `form:"projectId" binding:"omitempty,uuid"`
	Status       string `form:"status"`
	Date         string `form:"date"`
	StartDate    string `form:"startDate"`
	EndDate      string `form:"endDate"`
}

type EmployeeRangeRequest struct {
	StartDate string `form:"startDate" binding:"required"`
	EndDate   string `form:"endDate" binding:"required"`
	Page      int    `form:"page"`
	PageSize  int    `form:"pageSize"`
}

type ReportExceptionRequest struct {
	EmployeeID string  `json:"employee_id" binding:"required,uuid"`
	Date       string  `json:"date" binding:"required"`
	Reason     string  `json:"reason" binding:"required"`
	Proof      *string `json:"proof"`
}

type ResolveExceptionRequest struct {
	Status string  `json:"status" binding:"required"`
	Notes  *string `json:"notes"`
}

type AttendanceResponse struct {
	ID             string  `json:"id"`
	CompanyID      string  `json:"company_id"`
	EmployeeID     string  `json:"employee_id"`
	EmployeeName   string  `json:"employee_name,omitempty"`
	DepartmentName string  `json:"department_name,omitempty"`
	ProjectID      *string `json:"project_id,omitempty"`
	Date           string  `json:"date"`
	CheckInTime    *string `json:"check_in_time,omitempty"`
	CheckOutTime   *string `json:"check_out_time,omitempty"`
	Status         string  `json:"status"`
	WorkedHours    float64 `json:"worked_hours"`
	OvertimeHours  float64 `json:"overtime_hours"`
	Notes          *string `json:"notes,omitempty"`
}

type EmployeeAttendanceResponse struct {
	EmployeeID        string                  `json:"employee_id"`
	EmployeeName      string                  `json:"employee_name"`
	DepartmentName    string                  `json:"department_name,omitempty"`
	AttendanceRecords []AttendanceResponse    `json:"attendance_records"`
	Statistics        Summary                 `json:"statistics"`
	Pagination        response.PaginationMeta `json:"pagination"`
}
