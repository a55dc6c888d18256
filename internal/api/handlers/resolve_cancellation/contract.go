package resolve_cancellation

import (
	"context"

	"github.com/m04kA/SMC-BookingOps/internal/domain"
	"github.com/m04kA/SMC-BookingOps/internal/service/cancellations"
)

type CancellationService interface {
	Resolve(ctx context.Context, req *cancellations.ResolveRequest) (*domain.CancellationRequest, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
