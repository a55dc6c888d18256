package stripe_webhook

import (
	"context"

	"github.com/m04kA/SMC-BookingOps/internal/domain"
	"github.com/m04kA/SMC-BookingOps/internal/integrations/stripepay"
	confirmPayment "github.com/m04kA/SMC-BookingOps/internal/usecase/confirm_payment"
)

type WebhookParser interface {
	ParseWebhook(payload []byte, sigHeader string) (*stripepay.Event, error)
}

type ConfirmPaymentUseCase interface {
	Execute(ctx context.Context, res *confirmPayment.PaymentResult) (*domain.Booking, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
