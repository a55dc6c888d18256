package cancellations

import (
	"github.com/m04kA/SMC-BookingOps/internal/domain"
	"github.com/m04kA/SMC-BookingOps/pkg/listquery"
)

// FileRequest заявка клиента на отмену записи
type FileRequest struct {
	Actor         domain.Actor
	AppointmentID string `validate:"required"`
	Reason        string `validate:"required,max=500"`
}

// ResolveRequest решение сотрудника по заявке
type ResolveRequest struct {
	Actor           domain.Actor
	RequestID       string                    `validate:"required"`
	Decision        domain.CancellationStatus `validate:"required,oneof=approved denied"`
	ExpectedVersion int64                     `validate:"gte=0"`
}

// ListRequest параметры списка заявок
type ListRequest struct {
	Actor         domain.Actor
	AppointmentID *string
	Search        string
	Status        string
	SortKey       string
	SortDir       listquery.SortDir
	Page          int
	PageSize      int
}
