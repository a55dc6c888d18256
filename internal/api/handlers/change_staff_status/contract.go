package change_staff_status

import (
	"context"

	"github.com/m04kA/SMC-BookingOps/internal/domain"
	"github.com/m04kA/SMC-BookingOps/internal/service/staff"
)

type StaffService interface {
	ChangeStatus(ctx context.Context, req *staff.ChangeStatusRequest) (*domain.Staff, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
