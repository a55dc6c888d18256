package domain

import "github.com/m04kA/SMC-BookingOps/pkg/types"

// TimeSlot represents one bucket of a day view
type TimeSlot struct {
	StartTime       types.TimeString
	DurationMinutes int
	Appointments    []Appointment
}

// IsEmpty returns true if nothing is scheduled in the slot
func (s *TimeSlot) IsEmpty() bool {
	return len(s.Appointments) == 0
}

// IsDoubleBooked returns true if more than one appointment starts in the slot
func (s *TimeSlot) IsDoubleBooked() bool {
	return len(s.Appointments) > 1
}
