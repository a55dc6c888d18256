package reap_stale_drafts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-BookingOps/internal/domain"
	bookingRepo "github.com/m04kA/SMC-BookingOps/internal/infra/storage/booking"
	"github.com/m04kA/SMC-BookingOps/internal/service/bookings"
	"github.com/m04kA/SMC-BookingOps/internal/service/transitions"
)

const defaultBatchSize = 100

// UseCase use case для перевода неоплаченных черновиков в expired
type UseCase struct {
	bookingRepo  BookingRepository
	locker       Locker
	txManager    TransactionManager
	metrics      Metrics
	batchSize    int
	lockWait     time.Duration
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	locker Locker,
	txManager TransactionManager,
	metrics Metrics,
	batchSize int,
	lockWait time.Duration,
	logger Logger,
) *UseCase {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	if lockWait <= 0 {
		lockWait = 5 * time.Second
	}
	return &UseCase{
		bookingRepo:  bookingRepo,
		locker:       locker,
		txManager:    txManager,
		metrics:      metrics,
		batchSize:    batchSize,
		lockWait:     lockWait,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute переводит в expired черновики, созданные раньше now - olderThan
// Возвращает количество истекших бронирований
func (uc *UseCase) Execute(ctx context.Context, olderThan time.Duration) (int, error) {
	if olderThan <= 0 {
		return 0, fmt.Errorf("%w: olderThan must be positive", ErrInvalidInput)
	}

	before := uc.timeProvider.Now().Add(-olderThan)
	var cursor *domain.DraftCursor
	reaped := 0

	for {
		// 1. Берем очередную пачку черновиков после курсора
		drafts, err := uc.bookingRepo.ListStaleDrafts(ctx, before, cursor, uc.batchSize)
		if err != nil {
			uc.logger.Error("ReapStaleDrafts: failed to list drafts: %v", err)
			return reaped, fmt.Errorf("%w: failed to list drafts: %v", ErrInternal, err)
		}

		// 2. Переводим каждый в expired, неудачные остаются позади курсора до следующего запуска
		for _, draft := range drafts {
			if ctx.Err() != nil {
				return reaped, ctx.Err()
			}

			ok, err := uc.expire(ctx, draft.ID)
			if err != nil {
				uc.logger.Warn("ReapStaleDrafts: booking id=%s skipped: %v", draft.ID, err)
				continue
			}
			if ok {
				reaped++
			}
		}

		// Неполная пачка - дальше искать нечего
		if len(drafts) < uc.batchSize {
			break
		}
		last := drafts[len(drafts)-1]
		cursor = &domain.DraftCursor{CreatedAt: last.CreatedAt, ID: last.ID}
	}

	if reaped > 0 {
		uc.metrics.AddReaped(reaped)
		uc.logger.Info("ReapStaleDrafts: expired %d drafts created before %s", reaped, before.Format(time.RFC3339))
	}
	return reaped, nil
}

// expire переводит один черновик в expired под блокировкой
// Возвращает false, если бронирование уже ушло из draft (например, пришла оплата)
func (uc *UseCase) expire(ctx context.Context, id string) (bool, error) {
	lockCtx, cancel := context.WithTimeout(ctx, uc.lockWait)
	defer cancel()

	unlock, err := uc.locker.Lock(lockCtx, domain.BookingLockKey(id))
	if err != nil {
		return false, fmt.Errorf("lock: %w", err)
	}
	defer unlock()

	booking, err := uc.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return false, nil
		}
		return false, err
	}

	if booking.Status != domain.StatusDraft {
		return false, nil
	}

	if err := transitions.CheckBooking(booking.Status, domain.StatusExpired, transitions.BookingFacts(booking)); err != nil {
		return false, err
	}
	bookings.ApplyStatus(booking, domain.StatusExpired, nil)

	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		_, saveErr := uc.bookingRepo.Save(txCtx, booking)
		return saveErr
	})
	if err != nil {
		return false, err
	}

	uc.metrics.RecordTransition(string(transitions.KindBooking), string(domain.StatusDraft), string(domain.StatusExpired))
	return true, nil
}
