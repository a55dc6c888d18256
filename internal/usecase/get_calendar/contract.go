package get_calendar

import (
	"context"
	"time"

	"github.com/m04kA/SMC-BookingOps/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей календаря
type AppointmentRepository interface {
	ListInRange(ctx context.Context, from, to time.Time) ([]domain.Appointment, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
