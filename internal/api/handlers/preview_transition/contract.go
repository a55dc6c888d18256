package preview_transition

import (
	"context"

	"github.com/m04kA/SMC-BookingOps/internal/domain"
	"github.com/m04kA/SMC-BookingOps/internal/service/bookings/models"
)

type BookingService interface {
	RequestTransition(ctx context.Context, bookingID string, actor domain.Actor, to domain.BookingStatus) (*models.Preview, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
