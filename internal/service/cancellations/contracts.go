package cancellations

import (
	"context"
	"time"

	"github.com/m04kA/SMC-BookingOps/internal/domain"
	"github.com/m04kA/SMC-BookingOps/internal/service/bookings/models"
)

// CancellationRepository интерфейс репозитория заявок на отмену
type CancellationRepository interface {
	Create(ctx context.Context, req *domain.CancellationRequest) (*domain.CancellationRequest, error)
	GetByID(ctx context.Context, id string) (*domain.CancellationRequest, error)
	Save(ctx context.Context, req *domain.CancellationRequest) (*domain.CancellationRequest, error)
	List(ctx context.Context, filter domain.CancellationsFilter) ([]*domain.CancellationRequest, error)
}

// BookingRepository чтение бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
}

// BookingService применение перехода бронирования при одобрении заявки
// ApplyTransition выполняется в транзакции заявки, FinishTransition после её фиксации
type BookingService interface {
	ApplyTransition(ctx context.Context, req *models.CommitRequest) (*models.AppliedTransition, error)
	FinishTransition(ctx context.Context, applied *models.AppliedTransition)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
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
