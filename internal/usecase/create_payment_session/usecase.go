package create_payment_session

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BookingOps/internal/domain"
	bookingRepo "github.com/m04kA/SMC-BookingOps/internal/infra/storage/booking"
)

// UseCase use case для создания сессии оплаты бронирования
type UseCase struct {
	bookingRepo BookingRepository
	payments    PaymentProvider
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(bookingRepo BookingRepository, payments PaymentProvider, logger Logger) *UseCase {
	return &UseCase{
		bookingRepo: bookingRepo,
		payments:    payments,
		logger:      logger,
	}
}

// Execute создает сессию оплаты для бронирования в статусе draft
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreatePaymentSession: booking=%s, customer=%s", req.BookingID, req.CustomerID)

	if req.BookingID == "" || req.CustomerID == "" {
		return nil, fmt.Errorf("%w: booking id and customer id are required", ErrInvalidInput)
	}

	// 1. Получаем бронирование
	booking, err := uc.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("CreatePaymentSession: booking id=%s not found", req.BookingID)
			return nil, ErrBookingNotFound
		}
		uc.logger.Error("CreatePaymentSession: failed to get booking id=%s: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}

	// 2. Оплатить можно только свое бронирование
	if !booking.IsOwnedBy(req.CustomerID) {
		uc.logger.Warn("CreatePaymentSession: customer=%s does not own booking id=%s", req.CustomerID, req.BookingID)
		return nil, ErrAccessDenied
	}

	// 3. Бронирование должно ждать оплаты
	if booking.Status != domain.StatusDraft || booking.IsPaid() || !booking.RequiresPayment() {
		uc.logger.Warn("CreatePaymentSession: booking id=%s status=%s payment=%s is not payable",
			booking.ID, booking.Status, booking.PaymentStatus)
		return nil, fmt.Errorf("%w: status %s", ErrNotPayable, booking.Status)
	}

	// 4. Создаем сессию у провайдера
	session, err := uc.payments.CreateSession(ctx, booking.ID, booking.Amount, req.ReturnURL)
	if err != nil {
		uc.logger.Error("CreatePaymentSession: provider failed for booking id=%s: %v", booking.ID, err)
		return nil, fmt.Errorf("%w: failed to create session: %v", ErrInternal, err)
	}

	uc.logger.Info("CreatePaymentSession: session=%s created for booking id=%s", session.ID, booking.ID)

	return &Response{
		SessionID:  session.ID,
		SessionURL: session.URL,
	}, nil
}
