package create_payment_session

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-BookingOps/internal/domain"
	"github.com/m04kA/SMC-BookingOps/internal/integrations/stripepay"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
}

// PaymentProvider создает сессию оплаты у платежного провайдера
type PaymentProvider interface {
	CreateSession(ctx context.Context, bookingID string, amount decimal.Decimal, returnURL string) (*stripepay.Session, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
