package file_cancellation

import (
	"context"

	"github.com/m04kA/SMC-BookingOps/internal/domain"
	"github.com/m04kA/SMC-BookingOps/internal/service/cancellations"
)

type CancellationService interface {
	File(ctx context.Context, req *cancellations.FileRequest) (*domain.CancellationRequest, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
