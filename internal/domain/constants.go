package domain

// Default values for the calendar slot window
const (
	DefaultSlotWidthMinutes = 30
	DefaultSlotDayStart     = "08:00"
	DefaultSlotDayEnd       = "18:00"
)

// Business validation constants
const (
	MinDurationMinutes          = 5
	MaxDurationMinutes          = 480 // 8 hours
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
	MaxAssignedStaff            = 20
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// TerminalStatuses bookings in these statuses never change again
var TerminalStatuses = BookingStatusSet{
	StatusCompleted,
	StatusCancelled,
	StatusRejected,
	StatusExpired,
}

// ActiveStatuses bookings that occupy the schedule
var ActiveStatuses = BookingStatusSet{
	StatusPending,
	StatusConfirmed,
	StatusInProgress,
	StatusCompleted,
}

// StaffHoldingStatuses statuses where assigned staff is kept
var StaffHoldingStatuses = BookingStatusSet{
	StatusConfirmed,
	StatusInProgress,
	StatusCompleted,
}

// CustomerCancellableStatuses statuses a customer may cancel from
var CustomerCancellableStatuses = BookingStatusSet{
	StatusPending,
	StatusConfirmed,
}
