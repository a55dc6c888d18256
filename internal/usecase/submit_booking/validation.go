package submit_booking

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/m04kA/SMC-BookingOps/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(v *validator.Validate, req *Request) error {
	if err := v.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if req.Time != nil {
		if err := req.Time.Validate(); err != nil {
			return fmt.Errorf("%w: invalid time format: %v", ErrInvalidInput, err)
		}
	}

	return nil
}

// validateDate проверяет, что дата не в прошлом
func validateDate(bookingDate, now time.Time) error {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if dateOnly(bookingDate).Before(today) {
		return fmt.Errorf("%w: %s is in the past", ErrInvalidDate, bookingDate.Format(domain.DateFormat))
	}
	return nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
