package cancel_booking

import (
	"strings"

	"github.com/m04kA/SMC-BookingOps/internal/domain"
	"github.com/m04kA/SMC-BookingOps/internal/service/bookings/models"
)

// CancelBookingRequest HTTP request model
type CancelBookingRequest struct {
	CancellationReason *string `json:"cancellationReason,omitempty"`
	ExpectedVersion    int64   `json:"expectedVersion"`
}

// ToServiceRequest конвертирует HTTP request в переход в cancelled
func (r *CancelBookingRequest) ToServiceRequest(bookingID string, actor domain.Actor) *models.CommitRequest {
	var reason *string
	if r.CancellationReason != nil {
		if v := strings.TrimSpace(*r.CancellationReason); v != "" {
			reason = &v
		}
	}

	return &models.CommitRequest{
		BookingID:       bookingID,
		Actor:           actor,
		To:              domain.StatusCancelled,
		ExpectedVersion: r.ExpectedVersion,
		Reason:          reason,
	}
}
