package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-BookingOps/internal/domain"
	bookingRepo "github.com/m04kA/SMC-BookingOps/internal/infra/storage/booking"
	"github.com/m04kA/SMC-BookingOps/internal/service/bookings/models"
	"github.com/m04kA/SMC-BookingOps/internal/service/transitions"
	"github.com/m04kA/SMC-BookingOps/pkg/listquery"
)

const defaultLockWait = 5 * time.Second

// Service сервис для работы с бронированиями
// Все изменения статуса проходят через движок переходов под блокировкой бронирования
type Service struct {
	bookingRepo BookingRepository
	staffRepo   StaffRepository
	locker      Locker
	txManager   TransactionManager
	notifier    Notifier
	metrics     Metrics
	lockWait    time.Duration
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	staffRepo StaffRepository,
	locker Locker,
	txManager TransactionManager,
	notifier Notifier,
	metrics Metrics,
	lockWait time.Duration,
	logger Logger,
) *Service {
	if lockWait <= 0 {
		lockWait = defaultLockWait
	}
	return &Service{
		bookingRepo: bookingRepo,
		staffRepo:   staffRepo,
		locker:      locker,
		txManager:   txManager,
		notifier:    notifier,
		metrics:     metrics,
		lockWait:    lockWait,
		logger:      logger,
	}
}

// GetByID получает бронирование по ID
// Клиент видит только свои бронирования, сотрудники и система - любые
func (s *Service) GetByID(ctx context.Context, id string, actor domain.Actor) (*domain.Booking, error) {
	s.logger.Info("GetByID: fetching booking id=%s for %s=%s", id, actor.Role, actor.ID)

	booking, err := s.load(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	if !actor.Role.IsValid() || (actor.Role == domain.RoleCustomer && !booking.IsOwnedBy(actor.ID)) {
		s.logger.Warn("GetByID: access denied for %s=%s to booking id=%s", actor.Role, actor.ID, id)
		return nil, ErrAccessDenied
	}

	return booking, nil
}

// List возвращает страницу бронирований
// Для клиента выборка всегда ограничена его собственными бронированиями
func (s *Service) List(ctx context.Context, req *models.ListRequest) (*listquery.Page[*domain.Booking], error) {
	s.logger.Info("List: %s=%s search=%q status=%q page=%d", req.Actor.Role, req.Actor.ID, req.Search, req.Status, req.Page)

	if !req.Actor.Role.IsValid() {
		return nil, ErrAccessDenied
	}

	filter := domain.BookingsFilter{
		BranchID:      req.BranchID,
		PaymentStatus: req.PaymentStatus,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
	}
	if req.Actor.Role == domain.RoleCustomer {
		customerID := req.Actor.ID
		filter.CustomerID = &customerID
	}

	if req.SortKey != "" {
		if _, ok := bookingSchema[req.SortKey]; !ok {
			return nil, fmt.Errorf("%w: unknown sort key %q", ErrInvalidInput, req.SortKey)
		}
	}
	if !listquery.IsAll(req.Status) && !transitions.IsKnown(transitions.KindBooking, req.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, req.Status)
	}

	list, err := s.bookingRepo.Query(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	page := listquery.Query(list, bookingSchema, listquery.Params{
		Search:       req.Search,
		SearchFields: bookingSearchFields,
		Filters:      map[string]string{"status": req.Status},
		SortKey:      req.SortKey,
		SortDir:      req.SortDir,
		Page:         req.Page,
		PageSize:     req.PageSize,
	})

	s.logger.Info("List: returning %d of %d bookings", len(page.Items), page.TotalCount)
	return &page, nil
}

// RequestTransition проверяет переход без изменения данных
// Отказ движка не является ошибкой: он возвращается в Preview с причиной
func (s *Service) RequestTransition(ctx context.Context, bookingID string, actor domain.Actor, to domain.BookingStatus) (*models.Preview, error) {
	s.logger.Info("RequestTransition: booking id=%s to=%s by %s=%s", bookingID, to, actor.Role, actor.ID)

	booking, err := s.load(ctx, "RequestTransition", bookingID)
	if err != nil {
		return nil, err
	}

	if err := checkActor(actor, booking, to); err != nil {
		s.logger.Warn("RequestTransition: %v (booking id=%s, %s=%s)", err, bookingID, actor.Role, actor.ID)
		return nil, err
	}

	facts := transitions.BookingFacts(booking)
	preview := &models.Preview{
		BookingID:       booking.ID,
		From:            booking.Status,
		To:              to,
		ExpectedVersion: booking.Version,
		AllowedTargets:  allowedTargets(booking, facts),
	}

	if err := transitions.CheckBooking(booking.Status, to, facts); err != nil {
		preview.Reason = transitions.ReasonOf(err)
		preview.Message = err.Error()
		return preview, nil
	}

	preview.Allowed = true
	preview.Effects = effectsOf(booking, to)
	return preview, nil
}

// CommitTransition применяет переход статуса
// Порядок: блокировка, проверка прав, проверка версии, движок переходов, сохранение, уведомление
func (s *Service) CommitTransition(ctx context.Context, req *models.CommitRequest) (*domain.Booking, error) {
	applied, err := s.ApplyTransition(ctx, req)
	if err != nil {
		return nil, err
	}
	s.FinishTransition(ctx, applied)
	return applied.Booking, nil
}

// ApplyTransition проверяет и сохраняет переход без побочных эффектов
// Вызывающий внутри своей транзакции обязан вызвать FinishTransition только после её фиксации
func (s *Service) ApplyTransition(ctx context.Context, req *models.CommitRequest) (*models.AppliedTransition, error) {
	s.logger.Info("ApplyTransition: booking id=%s to=%s by %s=%s expectedVersion=%d",
		req.BookingID, req.To, req.Actor.Role, req.Actor.ID, req.ExpectedVersion)

	if req.Reason != nil && len(*req.Reason) > domain.MaxCancellationReasonLength {
		return nil, fmt.Errorf("%w: reason exceeds %d characters", ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	unlock, err := s.lock(ctx, "ApplyTransition", req.BookingID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	booking, err := s.load(ctx, "ApplyTransition", req.BookingID)
	if err != nil {
		return nil, err
	}

	if err := checkActor(req.Actor, booking, req.To); err != nil {
		s.logger.Warn("ApplyTransition: %v (booking id=%s, %s=%s)", err, req.BookingID, req.Actor.Role, req.Actor.ID)
		return nil, err
	}

	if req.ExpectedVersion != 0 && req.ExpectedVersion != booking.Version {
		s.logger.Warn("ApplyTransition: version mismatch for booking id=%s: expected=%d actual=%d",
			req.BookingID, req.ExpectedVersion, booking.Version)
		return nil, fmt.Errorf("%w: expected version %d, actual %d", ErrConflict, req.ExpectedVersion, booking.Version)
	}

	from := booking.Status
	if err := transitions.CheckBooking(from, req.To, transitions.BookingFacts(booking)); err != nil {
		s.metrics.RecordRejection(string(transitions.KindBooking), transitions.ReasonOf(err))
		s.logger.Warn("ApplyTransition: rejected for booking id=%s: %v", req.BookingID, err)
		return nil, err
	}

	// Проекция в календарь должна двигаться по графу записей
	apptFrom, apptTo := domain.AppointmentStatusOf(from), domain.AppointmentStatusOf(req.To)
	if apptFrom != apptTo {
		if err := transitions.CheckAppointment(apptFrom, apptTo); err != nil {
			s.logger.Error("ApplyTransition: appointment projection %s -> %s rejected: %v", apptFrom, apptTo, err)
			return nil, fmt.Errorf("%w: ApplyTransition - appointment projection: %v", ErrInternal, err)
		}
	}

	ApplyStatus(booking, req.To, req.Reason)

	saved, err := s.save(ctx, "ApplyTransition", booking)
	if err != nil {
		return nil, err
	}

	s.logger.Info("ApplyTransition: booking id=%s moved %s -> %s, version=%d", saved.ID, from, saved.Status, saved.Version)
	return &models.AppliedTransition{From: from, Booking: saved}, nil
}

// FinishTransition учитывает переход в метриках и уведомляет клиента
func (s *Service) FinishTransition(ctx context.Context, applied *models.AppliedTransition) {
	s.metrics.RecordTransition(string(transitions.KindBooking), string(applied.From), string(applied.Booking.Status))
	s.notifyStatus(ctx, applied.Booking)
}

// AssignStaff заменяет список назначенных сотрудников
// Доступно только сотрудникам, бронирование должно быть confirmed или in-progress
func (s *Service) AssignStaff(ctx context.Context, req *models.AssignStaffRequest) (*domain.Booking, error) {
	s.logger.Info("AssignStaff: booking id=%s staff=%v by %s=%s", req.BookingID, req.StaffIDs, req.Actor.Role, req.Actor.ID)

	if req.Actor.Role != domain.RoleStaff {
		s.logger.Warn("AssignStaff: access denied for %s=%s", req.Actor.Role, req.Actor.ID)
		return nil, ErrAccessDenied
	}

	staffIDs := dedupe(req.StaffIDs)
	if len(staffIDs) > domain.MaxAssignedStaff {
		return nil, fmt.Errorf("%w: at most %d staff can be assigned", ErrInvalidInput, domain.MaxAssignedStaff)
	}

	unlock, err := s.lock(ctx, "AssignStaff", req.BookingID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	booking, err := s.load(ctx, "AssignStaff", req.BookingID)
	if err != nil {
		return nil, err
	}

	if req.ExpectedVersion != 0 && req.ExpectedVersion != booking.Version {
		return nil, fmt.Errorf("%w: expected version %d, actual %d", ErrConflict, req.ExpectedVersion, booking.Version)
	}

	if booking.Status != domain.StatusConfirmed && booking.Status != domain.StatusInProgress {
		s.logger.Warn("AssignStaff: booking id=%s is %s", req.BookingID, booking.Status)
		return nil, fmt.Errorf("%w: booking is %s", ErrStaffNotAssignable, booking.Status)
	}
	// in-progress держится только при назначенном сотруднике
	if booking.Status == domain.StatusInProgress && len(staffIDs) == 0 {
		return nil, fmt.Errorf("%w: in-progress booking requires at least one staff member", ErrInvalidInput)
	}

	for _, id := range staffIDs {
		member, err := s.staffRepo.GetByID(ctx, id)
		if err != nil {
			if isNotFound(err) {
				s.logger.Warn("AssignStaff: staff id=%s not found", id)
				return nil, fmt.Errorf("%w: staff %s not found", ErrInvalidInput, id)
			}
			s.logger.Error("AssignStaff: staff repository error for id=%s: %v", id, err)
			return nil, fmt.Errorf("%w: AssignStaff - staff repository error: %v", ErrInternal, err)
		}
		if !member.IsAssignable() {
			s.logger.Warn("AssignStaff: staff id=%s is %s", id, member.Status)
			return nil, fmt.Errorf("%w: staff %s is %s", ErrInvalidInput, id, member.Status)
		}
	}

	booking.AssignedStaffIDs = staffIDs

	saved, err := s.save(ctx, "AssignStaff", booking)
	if err != nil {
		return nil, err
	}

	s.logger.Info("AssignStaff: booking id=%s now has %d staff, version=%d", saved.ID, len(saved.AssignedStaffIDs), saved.Version)
	return saved, nil
}

// ApplyStatus меняет статус и поддерживает инварианты бронирования
// Сотрудники снимаются, когда бронирование уходит из статусов, где они удерживаются
func ApplyStatus(b *domain.Booking, to domain.BookingStatus, reason *string) {
	b.Status = to
	if !b.CanHoldStaff() {
		b.AssignedStaffIDs = []string{}
	}
	if reason != nil && (to == domain.StatusCancelled || to == domain.StatusRejected) {
		r := *reason
		b.CancellationReason = &r
	}
}

// Вспомогательные методы

func (s *Service) load(ctx context.Context, op, id string) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%s not found", op, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%s: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return booking, nil
}

func (s *Service) save(ctx context.Context, op string, booking *domain.Booking) (*domain.Booking, error) {
	var saved *domain.Booking
	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		var err error
		saved, err = s.bookingRepo.Save(txCtx, booking)
		return err
	})
	if err != nil {
		switch {
		case errors.Is(err, bookingRepo.ErrConflict):
			s.logger.Warn("%s: concurrent update of booking id=%s", op, booking.ID)
			return nil, ErrConflict
		case errors.Is(err, bookingRepo.ErrBookingNotFound):
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: failed to save booking id=%s: %v", op, booking.ID, err)
		return nil, fmt.Errorf("%w: %s - save: %v", ErrInternal, op, err)
	}
	return saved, nil
}

func (s *Service) lock(ctx context.Context, op, bookingID string) (func(), error) {
	lockCtx, cancel := context.WithTimeout(ctx, s.lockWait)
	defer cancel()

	unlock, err := s.locker.Lock(lockCtx, domain.BookingLockKey(bookingID))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			s.logger.Warn("%s: booking id=%s is locked by another operation", op, bookingID)
			return nil, fmt.Errorf("%w: booking is being modified", ErrConflict)
		}
		s.logger.Error("%s: failed to lock booking id=%s: %v", op, bookingID, err)
		return nil, fmt.Errorf("%w: %s - lock: %v", ErrInternal, op, err)
	}
	return unlock, nil
}

// notifyStatus отправляет уведомление, ошибка доставки не отменяет переход
func (s *Service) notifyStatus(ctx context.Context, b *domain.Booking) {
	template, ok := domain.NotificationFor(b.Status)
	if !ok {
		return
	}
	if err := s.notifier.Notify(ctx, b.CustomerID, template, NotificationData(b)); err != nil {
		s.metrics.RecordNotificationFailure(template)
		s.logger.Warn("notify: %s for booking id=%s failed: %v", template, b.ID, err)
	}
}

// NotificationData данные шаблона уведомления о бронировании
func NotificationData(b *domain.Booking) map[string]string {
	data := map[string]string{
		"bookingId":   b.ID,
		"status":      string(b.Status),
		"serviceCode": b.ServiceCode,
		"date":        b.ScheduledDate.Format(domain.DateFormat),
		"amount":      b.Amount.StringFixed(2),
	}
	if b.ScheduledTime != nil {
		data["time"] = b.ScheduledTime.String()
	}
	if b.CancellationReason != nil {
		data["reason"] = *b.CancellationReason
	}
	return data
}

// checkActor проверяет, может ли actor запросить переход бронирования в to
func checkActor(actor domain.Actor, b *domain.Booking, to domain.BookingStatus) error {
	switch actor.Role {
	case domain.RoleSystem:
		return nil
	case domain.RoleStaff:
		// Черновики двигают только оплата и очистка просроченных
		if b.Status == domain.StatusDraft {
			return fmt.Errorf("%w: draft bookings are changed by the system only", ErrAccessDenied)
		}
		return nil
	case domain.RoleCustomer:
		if !b.IsOwnedBy(actor.ID) {
			return ErrAccessDenied
		}
		if to != domain.StatusCancelled {
			return fmt.Errorf("%w: customers may only cancel", ErrAccessDenied)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown role %q", ErrAccessDenied, actor.Role)
	}
}

func allowedTargets(b *domain.Booking, facts transitions.Facts) []domain.BookingStatus {
	targets := transitions.Allowed(transitions.KindBooking, string(b.Status), facts)
	out := make([]domain.BookingStatus, 0, len(targets))
	for _, t := range targets {
		out = append(out, domain.BookingStatus(t))
	}
	return out
}

func effectsOf(b *domain.Booking, to domain.BookingStatus) []string {
	effects := make([]string, 0, 3)
	if len(b.AssignedStaffIDs) > 0 && !domain.StaffHoldingStatuses.Contains(to) {
		effects = append(effects, models.EffectReleaseStaff)
	}
	if to == domain.StatusCancelled || to == domain.StatusRejected {
		effects = append(effects, models.EffectRecordReason)
		if b.IsPaid() {
			effects = append(effects, models.EffectRefundRequired)
		}
	}
	if template, ok := domain.NotificationFor(to); ok {
		effects = append(effects, models.EffectNotifyPrefix+template)
	}
	return effects
}

// dedupe убирает повторы и пустые ID, сохраняя порядок
func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
