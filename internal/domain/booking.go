package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-BookingOps/pkg/types"
)

// BookingStatus represents the lifecycle status of a booking
type BookingStatus string

const (
	StatusDraft      BookingStatus = "draft"
	StatusPending    BookingStatus = "pending"
	StatusConfirmed  BookingStatus = "confirmed"
	StatusInProgress BookingStatus = "in-progress"
	StatusCompleted  BookingStatus = "completed"
	StatusCancelled  BookingStatus = "cancelled"
	StatusRejected   BookingStatus = "rejected"
	StatusExpired    BookingStatus = "expired"
)

// PaymentStatus represents the payment state of a booking
type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "unpaid"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// Booking represents a customer's request for a service at a given date
type Booking struct {
	ID              string
	CustomerID      string
	ServiceCode     string
	BranchID        string
	ScheduledDate   time.Time
	ScheduledTime   *types.TimeString
	DurationMinutes int
	Address         string
	Amount          decimal.Decimal

	Status        BookingStatus
	PaymentStatus PaymentStatus
	PaymentToken  *string

	// AssignedStaffIDs keeps assignment order, no duplicates
	AssignedStaffIDs []string

	Notes              *string
	CancellationReason *string

	Version    int64
	CreatedAt  time.Time
	ModifiedAt time.Time
}

// IsTerminal returns true if no further status change is possible
func (b *Booking) IsTerminal() bool {
	switch b.Status {
	case StatusCompleted, StatusCancelled, StatusRejected, StatusExpired:
		return true
	}
	return false
}

// IsCancelled returns true for cancelled and expired bookings
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled || b.Status == StatusExpired
}

// IsPaid returns true if the payment has been recorded
func (b *Booking) IsPaid() bool {
	return b.PaymentStatus == PaymentPaid
}

// RequiresPayment returns true if the booking has a non-zero amount
func (b *Booking) RequiresPayment() bool {
	return b.Amount.IsPositive()
}

// CanHoldStaff returns true if staff may be attached in the current status
func (b *Booking) CanHoldStaff() bool {
	return StaffHoldingStatuses.Contains(b.Status)
}

// IsOwnedBy returns true if the booking belongs to the customer
func (b *Booking) IsOwnedBy(customerID string) bool {
	return b.CustomerID == customerID
}

// Clone returns a deep copy so callers can mutate without touching shared state
func (b *Booking) Clone() *Booking {
	if b == nil {
		return nil
	}
	c := *b
	if b.ScheduledTime != nil {
		t := *b.ScheduledTime
		c.ScheduledTime = &t
	}
	if b.PaymentToken != nil {
		t := *b.PaymentToken
		c.PaymentToken = &t
	}
	if b.Notes != nil {
		n := *b.Notes
		c.Notes = &n
	}
	if b.CancellationReason != nil {
		r := *b.CancellationReason
		c.CancellationReason = &r
	}
	if b.AssignedStaffIDs != nil {
		c.AssignedStaffIDs = append([]string(nil), b.AssignedStaffIDs...)
	}
	return &c
}

// DraftCursor is the position after the last stale draft seen, drafts are ordered by (CreatedAt, ID)
type DraftCursor struct {
	CreatedAt time.Time
	ID        string
}

// After reports whether b comes strictly after the cursor
func (c *DraftCursor) After(b *Booking) bool {
	if c == nil {
		return true
	}
	if !b.CreatedAt.Equal(c.CreatedAt) {
		return b.CreatedAt.After(c.CreatedAt)
	}
	return b.ID > c.ID
}

// BookingsFilter filter for booking queries
type BookingsFilter struct {
	CustomerID    *string         // Only bookings of this customer
	BranchID      *string         // Exact branch
	Statuses      []BookingStatus // Empty means any status
	PaymentStatus *PaymentStatus
	StartDate     *time.Time // Inclusive, by scheduled date
	EndDate       *time.Time // Inclusive, by scheduled date
}

// BookingStatusSet is a small set helper for status lists
type BookingStatusSet []BookingStatus

// Contains returns true if the status is in the set
func (s BookingStatusSet) Contains(status BookingStatus) bool {
	for _, v := range s {
		if v == status {
			return true
		}
	}
	return false
}

// BookingLockKey is the lock key that serializes changes of one booking
func BookingLockKey(id string) string {
	return "booking:" + id
}
