package bookings

import (
	"context"

	"github.com/m04kA/SMC-BookingOps/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	Save(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	Query(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
}

// StaffRepository интерфейс репозитория сотрудников
type StaffRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Staff, error)
}

// Locker блокировка бронирования на время изменения
type Locker interface {
	Lock(ctx context.Context, key string) (func(), error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier отправка уведомлений клиенту
type Notifier interface {
	Notify(ctx context.Context, recipient, template string, data map[string]string) error
}

// Metrics учет переходов статусов
type Metrics interface {
	RecordTransition(entity, from, to string)
	RecordRejection(entity, reason string)
	RecordNotificationFailure(template string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
