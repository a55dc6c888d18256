package submit_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-BookingOps/internal/domain"
	"github.com/m04kA/SMC-BookingOps/internal/integrations/catalog"
	"github.com/m04kA/SMC-BookingOps/internal/service/bookings"
	"github.com/m04kA/SMC-BookingOps/internal/service/transitions"
)

// UseCase use case для оформления нового бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	catalog      Catalog
	txManager    TransactionManager
	notifier     Notifier
	metrics      Metrics
	validate     *validator.Validate
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	catalog Catalog,
	txManager TransactionManager,
	notifier Notifier,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		catalog:      catalog,
		txManager:    txManager,
		notifier:     notifier,
		metrics:      metrics,
		validate:     validator.New(),
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute создает бронирование
// С ненулевой суммой бронирование начинается в draft и ждет оплаты, иначе сразу pending
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("SubmitBooking: customer=%s, service=%s, date=%s",
		req.CustomerID, req.ServiceCode, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(uc.validate, req); err != nil {
		uc.logger.Warn("SubmitBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Дата не должна быть в прошлом
	if err := validateDate(req.Date, uc.timeProvider.Now()); err != nil {
		uc.logger.Warn("SubmitBooking: %v", err)
		return nil, err
	}

	// 3. Находим услугу в каталоге
	service, err := uc.catalog.Get(req.ServiceCode)
	if err != nil {
		if errors.Is(err, catalog.ErrServiceNotFound) {
			uc.logger.Warn("SubmitBooking: service %s not found", req.ServiceCode)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("SubmitBooking: failed to get service %s: %v", req.ServiceCode, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	// 4. Считаем сумму по длительности
	duration := req.DurationMinutes
	if duration == 0 {
		duration = service.BaseDurationMinutes
	}
	amount := service.PriceFor(duration)

	// 5. Выбираем начальный статус
	status := domain.StatusPending
	if amount.IsPositive() {
		status = domain.StatusDraft
	}
	if err := transitions.CheckInitialBooking(status, amount.IsPositive()); err != nil {
		uc.logger.Error("SubmitBooking: initial status %s rejected: %v", status, err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	booking := &domain.Booking{
		ID:              uuid.NewString(),
		CustomerID:      req.CustomerID,
		ServiceCode:     service.Code,
		BranchID:        strings.TrimSpace(req.BranchID),
		ScheduledDate:   dateOnly(req.Date),
		ScheduledTime:   req.Time,
		DurationMinutes: duration,
		Address:         strings.TrimSpace(req.Address),
		Amount:          amount,
		Status:          status,
		PaymentStatus:   domain.PaymentUnpaid,
		Notes:           req.Notes,
	}

	// 6. Сохраняем бронирование
	var created *domain.Booking
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		saved, createErr := uc.bookingRepo.Create(txCtx, booking)
		if createErr != nil {
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, createErr)
		}
		created = saved
		return nil
	})
	if err != nil {
		uc.logger.Error("SubmitBooking: %v", err)
		return nil, err
	}

	// 7. Бесплатное бронирование сразу уходит на подтверждение
	if created.Status == domain.StatusPending {
		uc.notify(ctx, created)
	}

	uc.logger.Info("SubmitBooking: created booking id=%s, status=%s, amount=%s",
		created.ID, created.Status, created.Amount.StringFixed(2))

	return &Response{
		BookingID:       created.ID,
		Amount:          created.Amount,
		RequiresPayment: created.RequiresPayment(),
		Status:          created.Status,
		Booking:         created,
	}, nil
}

// notify ошибки уведомления только логируются
func (uc *UseCase) notify(ctx context.Context, b *domain.Booking) {
	err := uc.notifier.Notify(ctx, b.CustomerID, domain.NotifyBookingReceived, bookings.NotificationData(b))
	if err != nil {
		uc.metrics.RecordNotificationFailure(domain.NotifyBookingReceived)
		uc.logger.Warn("SubmitBooking: failed to notify customer=%s about booking id=%s: %v", b.CustomerID, b.ID, err)
	}
}
