package list_staff

import (
	"context"

	"github.com/m04kA/SMC-BookingOps/internal/domain"
	"github.com/m04kA/SMC-BookingOps/internal/service/staff"
	"github.com/m04kA/SMC-BookingOps/pkg/listquery"
)

type StaffService interface {
	List(ctx context.Context, req *staff.ListRequest) (*listquery.Page[*domain.Staff], error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
