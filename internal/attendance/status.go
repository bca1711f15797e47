package attendance

// Status is the closed set of daily attendance states. The record store,
// the working-time calculator and the aggregator all share this type.
type Status string

const (
	StatusPresent     Status = "PRESENT"
	StatusAbsent      Status = "ABSENT"
	StatusLate        Status = "LATE"
	StatusHalfDay     Status = "HALF_DAY"
	StatusHoliday     Status = "HOLIDAY"
	StatusSickLeave   Status = "SICK_LEAVE"
	StatusAnnualLeave Status = "ANNUAL_LEAVE"
	StatusOtherLeave  Status = "OTHER_LEAVE"
	StatusException   Status = "EXCEPTION"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusLate, StatusHalfDay, StatusHoliday,
		StatusSickLeave, StatusAnnualLeave, StatusOtherLeave, StatusException:
		return true
	default:
		return false
	}
}

// IsLeave reports whether s is one of the leave variants.
func (s Status) IsLeave() bool {
	switch s {
	case StatusSickLeave, StatusAnnualLeave, StatusOtherLeave:
		return true
	default:
		return false
	}
}

// CountsAsPresent reports whether s counts toward present days.
// A stored LATE is a present day that arrived after the expected start.
func (s Status) CountsAsPresent() bool {
	return s == StatusPresent || s == StatusLate
}

// CanResolveExceptionTo lists the statuses an EXCEPTION record may be
// adjudicated into. HOLIDAY and EXCEPTION itself are not valid outcomes.
func CanResolveExceptionTo(s Status) bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusLate, StatusHalfDay,
		StatusSickLeave, StatusAnnualLeave, StatusOtherLeave:
		return true
	default:
		return false
	}
}

func ParseStatus(v string) (Status, bool) {
	s := Status(v)
	return s, s.Valid()
}
