package staff

import (
	"github.com/m04kA/SMC-BookingOps/internal/domain"
	"github.com/m04kA/SMC-BookingOps/pkg/listquery"
)

// CreateRequest запрос на добавление сотрудника
type CreateRequest struct {
	Actor    domain.Actor
	ID       string `validate:"omitempty,max=64"`
	Name     string `validate:"required,max=200"`
	BranchID string `validate:"max=64"`
}

// ChangeStatusRequest запрос на смену статуса сотрудника
type ChangeStatusRequest struct {
	Actor           domain.Actor
	StaffID         string
	To              domain.StaffStatus
	ExpectedVersion int64
}

// ListRequest параметры списка сотрудников
type ListRequest struct {
	Actor    domain.Actor
	BranchID *string
	Search   string
	Status   string
	SortKey  string
	SortDir  listquery.SortDir
	Page     int
	PageSize int
}
