package list_cancellations

import (
	"context"

	"github.com/m04kA/SMC-BookingOps/internal/domain"
	"github.com/m04kA/SMC-BookingOps/internal/service/cancellations"
	"github.com/m04kA/SMC-BookingOps/pkg/listquery"
)

type CancellationService interface {
	List(ctx context.Context, req *cancellations.ListRequest) (*listquery.Page[*domain.CancellationRequest], error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
