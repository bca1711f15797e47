package attendance_test

import (
	"testing"
	"time"

	"go-hrms/internal/attendance"

	"github.com/stretchr/testify/assert"
)

func recordWithTimes(day string, checkIn, checkOut string, status attendance.Status) attendance.AttendanceRecord {
	date, _ := time.Parse("2006-01-02", day)
	rec := attendance.AttendanceRecord{
		AttendanceDate: date,
		Status:         status,
	}
	if checkIn != "" {
		clock, _ := time.Parse("15:04", checkIn)
		t := time.Date(date.Year(), date.Month(), date.Day(), clock.Hour(), clock.Minute(), 0, 0, time.UTC)
		rec.CheckInTime = &t
	}
	if checkOut != "" {
		clock, _ := time.Parse("15:04", checkOut)
		t := time.Date(date.Year(), date.Month(), date.Day(), clock.Hour(), clock.Minute(), 0, 0, time.UTC)
		rec.CheckOutTime = &t
	}
	return rec
}

func TestWorkedHours(t *testing.T) {
	t.Run("full day with derived overtime", func(t *testing.T) {
		rec := recordWithTimes("2026-03-02", "08:55", "18:00", attendance.StatusPresent)

		worked := attendance.WorkedHours(rec)
		assert.Equal(t, 9.08, worked)

		regular, overtime := attendance.SplitHours(worked)
		assert.Equal(t, 8.0, regular)
		assert.Equal(t, 1.08, overtime)
	})

	t.Run("exactly eight hours is all regular", func(t *testing.T) {
		rec := recordWithTimes("2026-03-02", "09:00", "17:00", attendance.StatusPresent)

		worked := attendance.WorkedHours(rec)
		assert.Equal(t, 8.0, worked)

		regular, overtime := attendance.SplitHours(worked)
		assert.Equal(t, 8.0, regular)
		assert.Equal(t, 0.0, overtime)
	})

	t.Run("missing checkout works zero hours", func(t *testing.T) {
		rec := recordWithTimes("2026-03-02", "09:00", "", attendance.StatusPresent)
		assert.Equal(t, 0.0, attendance.WorkedHours(rec))
	})

	t.Run("missing both timestamps works zero hours", func(t *testing.T) {
		rec := recordWithTimes("2026-03-02", "", "", attendance.StatusPresent)
		assert.Equal(t, 0.0, attendance.WorkedHours(rec))
	})
}

func TestIsLate(t *testing.T) {
	t.Run("before nine is on time", func(t *testing.T) {
		rec := recordWithTimes("2026-03-02", "08:55", "18:00", attendance.StatusPresent)
		assert.False(t, attendance.IsLate(rec))
		assert.Equal(t, 0, attendance.LateMinutes(rec))
	})

	t.Run("exactly nine is on time", func(t *testing.T) {
		rec := recordWithTimes("2026-03-02", "09:00", "17:00", attendance.StatusPresent)
		assert.False(t, attendance.IsLate(rec))
	})

	t.Run("after nine is late", func(t *testing.T) {
		rec := recordWithTimes("2026-03-02", "09:15", "17:30", attendance.StatusPresent)
		assert.True(t, attendance.IsLate(rec))
		assert.Equal(t, 15, attendance.LateMinutes(rec))
	})

	t.Run("non present status is never late", func(t *testing.T) {
		rec := recordWithTimes("2026-03-02", "10:00", "14:00", attendance.StatusHalfDay)
		assert.False(t, attendance.IsLate(rec))
		assert.Equal(t, 0, attendance.LateMinutes(rec))
	})

	t.Run("missing check in is never late", func(t *testing.T) {
		rec := recordWithTimes("2026-03-02", "", "", attendance.StatusPresent)
		assert.False(t, attendance.IsLate(rec))
	})
}

func TestTotalWorkTime(t *testing.T) {
	rec := recordWithTimes("2026-03-02", "09:00", "17:00", attendance.StatusPresent)
	rec.OvertimeHours = 1.5

	assert.Equal(t, 9.5, attendance.TotalWorkTime(rec))
}
