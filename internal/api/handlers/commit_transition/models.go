package commit_transition

import (
	"strings"

	"github.com/m04kA/SMC-BookingOps/internal/domain"
	"github.com/m04kA/SMC-BookingOps/internal/service/bookings/models"
)

// CommitTransitionRequest HTTP request model
// ExpectedVersion берется из предпросмотра, 0 отключает проверку
type CommitTransitionRequest struct {
	To              string  `json:"to"`
	ExpectedVersion int64   `json:"expectedVersion"`
	Reason          *string `json:"reason,omitempty"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *CommitTransitionRequest) ToServiceRequest(bookingID string, actor domain.Actor) *models.CommitRequest {
	req := &models.CommitRequest{
		BookingID:       bookingID,
		Actor:           actor,
		To:              domain.BookingStatus(strings.TrimSpace(r.To)),
		ExpectedVersion: r.ExpectedVersion,
	}
	if r.Reason != nil && strings.TrimSpace(*r.Reason) != "" {
		reason := strings.TrimSpace(*r.Reason)
		req.Reason = &reason
	}
	return req
}
