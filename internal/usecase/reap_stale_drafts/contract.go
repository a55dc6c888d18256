package reap_stale_drafts

import (
	"context"
	"time"

	"github.com/m04kA/SMC-BookingOps/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	Save(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	ListStaleDrafts(ctx context.Context, before time.Time, after *domain.DraftCursor, limit int) ([]*domain.Booking, error)
}

// Locker блокировка бронирования на время изменения
type Locker interface {
	Lock(ctx context.Context, key string) (func(), error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics учет истекших черновиков
type Metrics interface {
	RecordTransition(entity, from, to string)
	AddReaped(n int)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
