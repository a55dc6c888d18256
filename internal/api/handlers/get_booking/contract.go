package get_booking

import (
	"context"

	"github.com/m04kA/SMC-BookingOps/internal/domain"
)

type BookingService interface {
	GetByID(ctx context.Context, id string, actor domain.Actor) (*domain.Booking, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
