package create_payment_session

import (
	"context"

	createPaymentSession "github.com/m04kA/SMC-BookingOps/internal/usecase/create_payment_session"
)

type CreatePaymentSessionUseCase interface {
	Execute(ctx context.Context, req *createPaymentSession.Request) (*createPaymentSession.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
