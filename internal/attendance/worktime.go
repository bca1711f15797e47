package attendance

import (
	"math"
	"time"
)

// Working-time policy. The expected start is a fixed 09:00; up to 8 worked
// hours per day count as regular, the excess counts as overtime. Half days
// are credited a flat 4 regular hours regardless of timestamps.
const (
	WorkDayStartHour    = 9
	WorkDayStartMinute  = 0
	RegularHoursPerDay  = 8.0
	HalfDayRegularHours = 4.0
)

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// WorkedHours returns check-out minus check-in in hours, rounded to two
// decimals and clamped to zero. Records missing either timestamp work zero
// hours. Shifts crossing midnight are not supported; a check-out before the
// check-in is rejected at write time.
func WorkedHours(r AttendanceRecord) float64 {
	if r.CheckInTime == nil || r.CheckOutTime == nil {
		return 0
	}
	hours := r.CheckOutTime.Sub(*r.CheckInTime).Hours()
	if hours < 0 {
		return 0
	}
	return round2(hours)
}

// expectedStart is the 09:00 mark on the record's check-in day.
func expectedStart(checkIn time.Time) time.Time {
	return time.Date(
		checkIn.Year(), checkIn.Month(), checkIn.Day(),
		WorkDayStartHour, WorkDayStartMinute, 0, 0, checkIn.Location(),
	)
}

// IsLate reports whether a PRESENT record checked in strictly after the
// expected start. Records of any other status are never late here, even
// when a check-in time happens to be set; a stored LATE status is already
// classified and is counted by the aggregator directly.
func IsLate(r AttendanceRecord) bool {
	if r.Status != StatusPresent || r.CheckInTime == nil {
		return false
	}
	return r.CheckInTime.After(expectedStart(*r.CheckInTime))
}

// LateMinutes returns the whole minutes past 09:00, zero unless IsLate.
func LateMinutes(r AttendanceRecord) int {
	if !IsLate(r) {
		return 0
	}
	return int(math.Round(r.CheckInTime.Sub(expectedStart(*r.CheckInTime)).Minutes()))
}

// TotalWorkTime is worked hours plus the explicit overtime_hours field.
func TotalWorkTime(r AttendanceRecord) float64 {
	return round2(WorkedHours(r) + r.OvertimeHours)
}

// SplitHours divides worked hours into the regular share (capped at 8) and
// the derived overtime share above it. The explicit overtime_hours field is
// accounted separately, on top of the derived share.
func SplitHours(worked float64) (regular, overtime float64) {
	if worked <= RegularHoursPerDay {
		return worked, 0
	}
	return RegularHoursPerDay, round2(worked - RegularHoursPerDay)
}
