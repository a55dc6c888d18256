package submit_booking

import (
	"fmt"
	"strings"

	"github.com/m04kA/SMC-BookingOps/internal/domain"
	"github.com/m04kA/SMC-BookingOps/internal/service/calendar"
	submitBooking "github.com/m04kA/SMC-BookingOps/internal/usecase/submit_booking"
	"github.com/m04kA/SMC-BookingOps/pkg/types"
)

// SubmitBookingRequest HTTP request model
// CustomerID учитывается только для сотрудника, оформляющего бронирование за клиента
type SubmitBookingRequest struct {
	CustomerID      string  `json:"customerId,omitempty"`
	ServiceCode     string  `json:"serviceCode"`
	BranchID        string  `json:"branchId,omitempty"`
	Date            string  `json:"date"`           // YYYY-MM-DD
	Time            *string `json:"time,omitempty"` // HH:MM
	DurationMinutes int     `json:"durationMinutes,omitempty"`
	Address         string  `json:"address,omitempty"`
	Notes           *string `json:"notes,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP request в модель use case
func (r *SubmitBookingRequest) ToUseCaseRequest(actor domain.Actor) (*submitBooking.Request, error) {
	date, err := calendar.ParseDate(r.Date)
	if err != nil {
		return nil, err
	}

	req := &submitBooking.Request{
		CustomerID:      actor.ID,
		ServiceCode:     strings.TrimSpace(r.ServiceCode),
		BranchID:        r.BranchID,
		Date:            date,
		DurationMinutes: r.DurationMinutes,
		Address:         r.Address,
		Notes:           r.Notes,
	}
	if actor.Role == domain.RoleStaff {
		req.CustomerID = strings.TrimSpace(r.CustomerID)
	}

	if r.Time != nil && strings.TrimSpace(*r.Time) != "" {
		t, err := types.NewTimeStringFromString(strings.TrimSpace(*r.Time))
		if err != nil {
			return nil, fmt.Errorf("time: %w", err)
		}
		req.Time = &t
	}
	return req, nil
}

// SubmitBookingResponse HTTP response model
type SubmitBookingResponse struct {
	BookingID       string `json:"bookingId"`
	Amount          string `json:"amount"`
	RequiresPayment bool   `json:"requiresPayment"`
	Status          string `json:"status"`
}
