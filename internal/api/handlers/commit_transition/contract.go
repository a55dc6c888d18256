package commit_transition

import (
	"context"

	"github.com/m04kA/SMC-BookingOps/internal/domain"
	"github.com/m04kA/SMC-BookingOps/internal/service/bookings/models"
)

type BookingService interface {
	CommitTransition(ctx context.Context, req *models.CommitRequest) (*domain.Booking, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
