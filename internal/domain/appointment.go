package domain

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-BookingOps/pkg/types"
)

// AppointmentStatus represents the schedule-facing status of a booking
type AppointmentStatus string

const (
	AppointmentPending    AppointmentStatus = "pending"
	AppointmentConfirmed  AppointmentStatus = "confirmed"
	AppointmentInProgress AppointmentStatus = "in-progress"
	AppointmentCompleted  AppointmentStatus = "completed"
	AppointmentCancelled  AppointmentStatus = "cancelled"
)

// Appointment is a booking projected onto the calendar
type Appointment struct {
	ID              string
	CustomerID      string
	ServiceCode     string
	Address         string
	BranchID        string
	Date            time.Time
	Time            *types.TimeString // nil when the booking has no time of day
	DurationMinutes int
	DurationLabel   string
	StaffIDs        []string
	Status          AppointmentStatus
}

// DateKey returns the YYYY-MM-DD key of the appointment date
func (a Appointment) DateKey() string {
	return a.Date.Format(DateFormat)
}

// HasTime returns true if the appointment has a time of day
func (a Appointment) HasTime() bool {
	return a.Time != nil && !a.Time.IsZero()
}

// AppointmentStatusOf maps a booking status onto the appointment graph
// Draft bookings are shown as pending, rejected and expired ones as cancelled
func AppointmentStatusOf(s BookingStatus) AppointmentStatus {
	switch s {
	case StatusConfirmed:
		return AppointmentConfirmed
	case StatusInProgress:
		return AppointmentInProgress
	case StatusCompleted:
		return AppointmentCompleted
	case StatusCancelled, StatusRejected, StatusExpired:
		return AppointmentCancelled
	default:
		return AppointmentPending
	}
}

// AppointmentFromBooking projects a booking onto the calendar
func AppointmentFromBooking(b *Booking) Appointment {
	var t *types.TimeString
	if b.ScheduledTime != nil {
		v := *b.ScheduledTime
		t = &v
	}
	return Appointment{
		ID:              b.ID,
		CustomerID:      b.CustomerID,
		ServiceCode:     b.ServiceCode,
		Address:         b.Address,
		BranchID:        b.BranchID,
		Date:            b.ScheduledDate,
		Time:            t,
		DurationMinutes: b.DurationMinutes,
		DurationLabel:   FormatDuration(b.DurationMinutes),
		StaffIDs:        append([]string(nil), b.AssignedStaffIDs...),
		Status:          AppointmentStatusOf(b.Status),
	}
}

// FormatDuration renders minutes as "1h 30m", "45m" or "2h"
func FormatDuration(minutes int) string {
	if minutes <= 0 {
		return "0m"
	}
	h, m := minutes/60, minutes%60
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", m)
	case m == 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dh %dm", h, m)
	}
}
