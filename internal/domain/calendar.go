package domain

import "time"

// CalendarCell is one date of a calendar grid
type CalendarCell struct {
	Date            time.Time
	Key             string // YYYY-MM-DD
	IsCurrentPeriod bool   // false for leading/trailing days of a month grid
	IsToday         bool
	Appointments    []Appointment
}
