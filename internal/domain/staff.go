package domain

import "time"

// StaffStatus represents the employment state of a staff member
type StaffStatus string

const (
	StaffActive     StaffStatus = "active"
	StaffInactive   StaffStatus = "inactive"
	StaffTerminated StaffStatus = "terminated"
)

// Staff represents an employee who can be assigned to bookings
type Staff struct {
	ID         string
	Name       string
	BranchID   string
	Status     StaffStatus
	Version    int64
	CreatedAt  time.Time
	ModifiedAt time.Time
}

// IsAssignable returns true if the staff member can take new bookings
func (s *Staff) IsAssignable() bool {
	return s.Status == StaffActive
}

// StaffFilter filter for staff queries
type StaffFilter struct {
	BranchID *string
	Status   *StaffStatus
}
