package confirm_payment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-BookingOps/internal/domain"
	bookingRepo "github.com/m04kA/SMC-BookingOps/internal/infra/storage/booking"
	"github.com/m04kA/SMC-BookingOps/internal/service/bookings"
	"github.com/m04kA/SMC-BookingOps/internal/service/transitions"
	"github.com/m04kA/SMC-BookingOps/pkg/ptr"
)

// UseCase use case для приема результата оплаты
// Провайдер доставляет результат минимум один раз, поэтому повтор с тем же токеном ничего не меняет
type UseCase struct {
	bookingRepo BookingRepository
	locker      Locker
	txManager   TransactionManager
	notifier    Notifier
	metrics     Metrics
	lockWait    time.Duration
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	locker Locker,
	txManager TransactionManager,
	notifier Notifier,
	metrics Metrics,
	lockWait time.Duration,
	logger Logger,
) *UseCase {
	if lockWait <= 0 {
		lockWait = 5 * time.Second
	}
	return &UseCase{
		bookingRepo: bookingRepo,
		locker:      locker,
		txManager:   txManager,
		notifier:    notifier,
		metrics:     metrics,
		lockWait:    lockWait,
		logger:      logger,
	}
}

// Execute применяет результат оплаты к бронированию
// Успех переводит draft в pending и отмечает оплату, неуспех оставляет бронирование в draft
func (uc *UseCase) Execute(ctx context.Context, res *PaymentResult) (*domain.Booking, error) {
	uc.logger.Info("ConfirmPayment: booking=%s, token=%s, success=%t", res.BookingID, res.PaymentToken, res.Success)

	// 1. Валидация входных данных
	if strings.TrimSpace(res.BookingID) == "" || strings.TrimSpace(res.PaymentToken) == "" {
		return nil, fmt.Errorf("%w: booking id and payment token are required", ErrInvalidInput)
	}

	// 2. Блокируем бронирование
	lockCtx, cancel := context.WithTimeout(ctx, uc.lockWait)
	defer cancel()
	unlock, err := uc.locker.Lock(lockCtx, domain.BookingLockKey(res.BookingID))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			uc.logger.Warn("ConfirmPayment: booking id=%s is locked by another operation", res.BookingID)
			return nil, fmt.Errorf("%w: booking is being modified", ErrConflict)
		}
		uc.logger.Error("ConfirmPayment: failed to lock booking id=%s: %v", res.BookingID, err)
		return nil, fmt.Errorf("%w: lock: %v", ErrInternal, err)
	}
	defer unlock()

	// 3. Получаем бронирование
	booking, err := uc.bookingRepo.GetByID(ctx, res.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("ConfirmPayment: booking id=%s not found", res.BookingID)
			return nil, ErrBookingNotFound
		}
		uc.logger.Error("ConfirmPayment: failed to get booking id=%s: %v", res.BookingID, err)
		return nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}

	// 4. Повтор того же платежа возвращает сохраненное состояние
	if booking.PaymentToken != nil && *booking.PaymentToken == res.PaymentToken {
		uc.logger.Info("ConfirmPayment: token %s already applied to booking id=%s", res.PaymentToken, booking.ID)
		return booking, nil
	}

	// 5. Неуспешная оплата не меняет бронирование, клиент может попробовать снова
	if !res.Success {
		uc.logger.Warn("ConfirmPayment: payment %s failed for booking id=%s, status stays %s",
			res.PaymentToken, booking.ID, booking.Status)
		return booking, nil
	}

	// 6. Бронирование уже оплачено другим платежом
	if booking.IsPaid() {
		uc.logger.Warn("ConfirmPayment: booking id=%s already paid with another token", booking.ID)
		return nil, fmt.Errorf("%w: booking %s", ErrPaymentAlreadyRecorded, booking.ID)
	}

	// 7. Отмечаем оплату и проверяем переход draft -> pending
	from := booking.Status
	booking.PaymentStatus = domain.PaymentPaid
	booking.PaymentToken = ptr.Ptr(res.PaymentToken)

	if err := transitions.CheckBooking(from, domain.StatusPending, transitions.BookingFacts(booking)); err != nil {
		uc.metrics.RecordRejection(string(transitions.KindBooking), transitions.ReasonOf(err))
		uc.logger.Warn("ConfirmPayment: booking id=%s cannot accept payment: %v", booking.ID, err)
		return nil, err
	}
	bookings.ApplyStatus(booking, domain.StatusPending, nil)

	// 8. Сохраняем
	var saved *domain.Booking
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		var saveErr error
		saved, saveErr = uc.bookingRepo.Save(txCtx, booking)
		return saveErr
	})
	if err != nil {
		if errors.Is(err, bookingRepo.ErrConflict) {
			uc.logger.Warn("ConfirmPayment: concurrent update of booking id=%s", booking.ID)
			return nil, ErrConflict
		}
		uc.logger.Error("ConfirmPayment: failed to save booking id=%s: %v", booking.ID, err)
		return nil, fmt.Errorf("%w: failed to save booking: %v", ErrInternal, err)
	}

	uc.metrics.RecordTransition(string(transitions.KindBooking), string(from), string(saved.Status))

	// 9. Уведомляем клиента, ошибка доставки не откатывает оплату
	if err := uc.notifier.Notify(ctx, saved.CustomerID, domain.NotifyBookingReceived, bookings.NotificationData(saved)); err != nil {
		uc.metrics.RecordNotificationFailure(domain.NotifyBookingReceived)
		uc.logger.Warn("ConfirmPayment: failed to notify customer=%s: %v", saved.CustomerID, err)
	}

	uc.logger.Info("ConfirmPayment: booking id=%s paid, status=%s, version=%d", saved.ID, saved.Status, saved.Version)
	return saved, nil
}
