package staff

import (
	"context"

	"github.com/m04kA/SMC-BookingOps/internal/domain"
)

// StaffRepository интерфейс репозитория сотрудников
type StaffRepository interface {
	Create(ctx context.Context, staff *domain.Staff) (*domain.Staff, error)
	GetByID(ctx context.Context, id string) (*domain.Staff, error)
	Save(ctx context.Context, staff *domain.Staff) (*domain.Staff, error)
	List(ctx context.Context, filter domain.StaffFilter) ([]*domain.Staff, error)
}

// Metrics учет переходов статусов
type Metrics interface {
	RecordTransition(entity, from, to string)
	RecordRejection(entity, reason string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
