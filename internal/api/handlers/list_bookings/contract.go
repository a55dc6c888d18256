package list_bookings

import (
	"context"

	"github.com/m04kA/SMC-BookingOps/internal/domain"
	"github.com/m04kA/SMC-BookingOps/internal/service/bookings/models"
	"github.com/m04kA/SMC-BookingOps/pkg/listquery"
)

type BookingService interface {
	List(ctx context.Context, req *models.ListRequest) (*listquery.Page[*domain.Booking], error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
