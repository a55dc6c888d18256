package models

import (
	"time"

	"github.com/m04kA/SMC-BookingOps/internal/domain"
	"github.com/m04kA/SMC-BookingOps/pkg/listquery"
)

// ListRequest параметры списка бронирований
// Статус и поиск обрабатываются движком списков, остальное сужает выборку в хранилище
type ListRequest struct {
	Actor         domain.Actor
	Search        string
	Status        string // "" или "all" - любой
	BranchID      *string
	PaymentStatus *domain.PaymentStatus
	StartDate     *time.Time
	EndDate       *time.Time
	SortKey       string
	SortDir       listquery.SortDir
	Page          int
	PageSize      int
}

// CommitRequest запрос на применение перехода
// ExpectedVersion = 0 отключает проверку версии
type CommitRequest struct {
	BookingID       string
	Actor           domain.Actor
	To              domain.BookingStatus
	ExpectedVersion int64
	Reason          *string
}

// AppliedTransition сохраненный переход, метрики и уведомление по которому еще не отправлены
type AppliedTransition struct {
	From    domain.BookingStatus
	Booking *domain.Booking
}

// AssignStaffRequest запрос на назначение сотрудников
type AssignStaffRequest struct {
	BookingID       string
	Actor           domain.Actor
	StaffIDs        []string
	ExpectedVersion int64
}

// Эффекты перехода, которые показываются в предпросмотре
const (
	EffectReleaseStaff   = "release-assigned-staff"
	EffectRecordReason   = "record-cancellation-reason"
	EffectRefundRequired = "refund-required"
	EffectNotifyPrefix   = "notify:"
)

// Preview результат предварительной проверки перехода, ничего не меняет
type Preview struct {
	BookingID       string
	From            domain.BookingStatus
	To              domain.BookingStatus
	ExpectedVersion int64
	Allowed         bool
	Reason          string // invalid-transition, terminal-state, precondition-failed, validation
	Message         string
	Effects         []string
	AllowedTargets  []domain.BookingStatus
}
