package domain

import "time"

// CancellationStatus represents the state of a customer's cancellation request
type CancellationStatus string

const (
	CancellationPending  CancellationStatus = "pending"
	CancellationApproved CancellationStatus = "approved"
	CancellationDenied   CancellationStatus = "denied"
)

// CancellationRequest is a customer's request to cancel an appointment
type CancellationRequest struct {
	ID            string
	AppointmentID string
	CustomerID    string
	Reason        string
	Status        CancellationStatus
	ResolvedBy    *string
	ResolvedAt    *time.Time
	Version       int64
	CreatedAt     time.Time
}

// IsResolved returns true once the request was approved or denied
func (c *CancellationRequest) IsResolved() bool {
	return c.Status != CancellationPending
}

// CancellationsFilter filter for cancellation request queries
type CancellationsFilter struct {
	AppointmentID *string
	CustomerID    *string
	Status        *CancellationStatus
}
