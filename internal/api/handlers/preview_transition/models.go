package preview_transition

import (
	"github.com/m04kA/SMC-BookingOps/internal/service/bookings/models"
)

// PreviewResponse HTTP response model
type PreviewResponse struct {
	BookingID       string   `json:"bookingId"`
	From            string   `json:"from"`
	To              string   `json:"to"`
	ExpectedVersion int64    `json:"expectedVersion"`
	Allowed         bool     `json:"allowed"`
	Reason          string   `json:"reason,omitempty"`
	Message         string   `json:"message,omitempty"`
	Effects         []string `json:"effects"`
	AllowedTargets  []string `json:"allowedTargets"`
}

func newPreviewResponse(p *models.Preview) PreviewResponse {
	resp := PreviewResponse{
		BookingID:       p.BookingID,
		From:            string(p.From),
		To:              string(p.To),
		ExpectedVersion: p.ExpectedVersion,
		Allowed:         p.Allowed,
		Reason:          p.Reason,
		Message:         p.Message,
		Effects:         append([]string{}, p.Effects...),
		AllowedTargets:  make([]string, 0, len(p.AllowedTargets)),
	}
	for _, t := range p.AllowedTargets {
		resp.AllowedTargets = append(resp.AllowedTargets, string(t))
	}
	return resp
}
