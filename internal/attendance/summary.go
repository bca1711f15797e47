package attendance

import "time"

// Summary is the per-employee rollup over a date range.
type Summary struct {
	PresentDays   int `json:"present_days"`
	AbsentDays    int `json:"absent_days"`
	LateDays      int `json:"late_days"`
	HalfDays      int `json:"half_days"`
	Holidays      int `json:"holidays"`
	LeaveDays     int `json:"leave_days"`
	ExceptionDays int `json:"exception_days"`

	TotalCalendarDays int `json:"total_calendar_days"`
	WorkingDays       int `json:"working_days"`

	TotalHours    float64 `json:"total_hours"`
	RegularHours  float64 `json:"regular_hours"`
	OvertimeHours float64 `json:"overtime_hours"`

	AttendanceRate  float64 `json:"attendance_rate"`
	PunctualityRate float64 `json:"punctuality_rate"`
}

// CalendarDays is the inclusive day count of [start, end].
func CalendarDays(start, end time.Time) int {
	if end.Before(start) {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}

// Summarize folds a set of records into a Summary for the inclusive range
// [start, end]. Late days are the stored LATE records plus PRESENT records
// that checked in after the expected start; both count as present days.
// EXCEPTION records are still awaiting adjudication and count toward neither
// present nor absent. Rates are rounded to two decimals and guarded against
// zero denominators.
func Summarize(records []AttendanceRecord, start, end time.Time) Summary {
	s := Summary{
		TotalCalendarDays: CalendarDays(start, end),
	}

	for _, r := range records {
		switch {
		case r.Status.CountsAsPresent():
			s.PresentDays++
			if r.Status == StatusLate || IsLate(r) {
				s.LateDays++
			}
			worked := WorkedHours(r)
			regular, overtime := SplitHours(worked)
			s.TotalHours += worked
			s.RegularHours += regular
			s.OvertimeHours += overtime + r.OvertimeHours
		case r.Status == StatusAbsent:
			s.AbsentDays++
		case r.Status == StatusHalfDay:
			s.HalfDays++
			s.TotalHours += HalfDayRegularHours
			s.RegularHours += HalfDayRegularHours
		case r.Status == StatusHoliday:
			s.Holidays++
		case r.Status.IsLeave():
			s.LeaveDays++
		case r.Status == StatusException:
			s.ExceptionDays++
		}
	}

	s.TotalHours = round2(s.TotalHours)
	s.RegularHours = round2(s.RegularHours)
	s.OvertimeHours = round2(s.OvertimeHours)

	s.WorkingDays = s.TotalCalendarDays - s.Holidays
	s.AttendanceRate = rate(s.PresentDays+s.HalfDays, s.WorkingDays)
	s.PunctualityRate = rate(s.PresentDays-s.LateDays, s.PresentDays)

	return s
}

func rate(numerator, denominator int) float64 {
	if denominator == 0 {
		return 0
	}
	return round2(float64(numerator) / float64(denominator) * 100)
}
