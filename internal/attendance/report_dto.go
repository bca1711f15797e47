package attendance

type MonthlyReportRequest struct {
	Year         int    `form:"year" binding:"required"`
	Month        int    `form:"month" binding:"required"`
	DepartmentID string `form:"departmentId" binding:"omitempty,uuid"`
}

type LateReportRequest struct {
	StartDate string `form:"startDate" binding:"required"`
	EndDate   string `form:"endDate" binding:"required"`
}

type DepartmentStatsRequest struct {
	StartDate    string `form:"startDate" binding:"required"`
	EndDate      string `form:"endDate" binding:"required"`
	DepartmentID string `form:"departmentId" binding:"omitempty,uuid"`
}

type EmployeeMonthlySummary struct {
	EmployeeID     string  `json:"employee_id"`
	EmployeeName   string  `json:"employee_name"`
	DepartmentID   *string `json:"department_id,omitempty"`
	DepartmentName string  `json:"department_name,omitempty"`
	Summary        Summary `json:"summary"`
}

// ReportTotals are folded from per-employee summaries. Counts and hours are
// simple sums; rates are recomputed from the aggregated counts rather than
// averaged per employee, so small-sample employees do not skew them.
type ReportTotals struct {
	PresentDays   int `json:"present_days"`
	AbsentDays    int `json:"absent_days"`
	LateDays      int `json:"late_days"`
	HalfDays      int `json:"half_days"`
	Holidays      int `json:"holidays"`
	LeaveDays     int `json:"leave_days"`
	ExceptionDays int `json:"exception_days"`
	WorkingDays   int `json:"working_days"`

	TotalHours    float64 `json:"total_hours"`
	RegularHours  float64 `json:"regular_hours"`
	OvertimeHours float64 `json:"overtime_hours"`

	AttendanceRate  float64 `json:"attendance_rate"`
	PunctualityRate float64 `json:"punctuality_rate"`
}

type MonthlyReportResponse struct {
	Year          int                      `json:"year"`
	Month         int                      `json:"month"`
	DepartmentID  *string                  `json:"department_id,omitempty"`
	EmployeeCount int                      `json:"employee_count"`
	Employees     []EmployeeMonthlySummary `json:"employees"`
	Totals        ReportTotals             `json:"totals"`
}

type LateIncident struct {
	RecordID       string `json:"record_id"`
	EmployeeID     string `json:"employee_id"`
	EmployeeName   string `json:"employee_name"`
	DepartmentID   string `json:"department_id,omitempty"`
	DepartmentName string `json:"department_name,omitempty"`
	Date           string `json:"date"`
	CheckInTime    string `json:"check_in_time"`
	LateMinutes    int    `json:"late_minutes"`
}

type LateReportResponse struct {
	StartDate           string         `json:"start_date"`
	EndDate             string         `json:"end_date"`
	TotalIncidents      int            `json:"total_incidents"`
	TotalLateMinutes    int            `json:"total_late_minutes"`
	AverageLateMinutes  float64        `json:"average_late_minutes"`
	MaxLateMinutes      int            `json:"max_late_minutes"`
	WorstDepartmentID   *string        `json:"worst_department_id,omitempty"`
	WorstDepartmentName string         `json:"worst_department_name,omitempty"`
	IncidentsByDept     map[string]int `json:"incidents_by_department"`
	Incidents           []LateIncident `json:"incidents"`
}

type DepartmentBreakdown struct {
	DepartmentID   string `json:"department_id"`
	DepartmentName string `json:"department_name"`
	EmployeeCount  int    `json:"employee_count"`

	PresentDays int `json:"present_days"`
	AbsentDays  int `json:"absent_days"`
	LateDays    int `json:"late_days"`
	HalfDays    int `json:"half_days"`
	LeaveDays   int `json:"leave_days"`

	TotalHours    float64 `json:"total_hours"`
	RegularHours  float64 `json:"regular_hours"`
	OvertimeHours float64 `json:"overtime_hours"`

	AverageHoursPerEmployee float64 `json:"average_hours_per_employee"`
	AverageHoursPerDay      float64 `json:"average_hours_per_day"`

	AttendanceRate  float64 `json:"attendance_rate"`
	PunctualityRate float64 `json:"punctuality_rate"`
}

type DepartmentStatsResponse struct {
	StartDate   string                `json:"start_date"`
	EndDate     string                `json:"end_date"`
	Overall     ReportTotals          `json:"overall"`
	Departments []DepartmentBreakdown `json:"departments"`
}
