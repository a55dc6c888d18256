package confirm_payment

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/m04kA/SMC-BookingOps/internal/api/handlers"
	"github.com/m04kA/SMC-BookingOps/internal/service/transitions"
	confirmPayment "github.com/m04kA/SMC-BookingOps/internal/usecase/confirm_payment"
)

// HeaderResultsToken заголовок с общим секретом платежного шлюза
const HeaderResultsToken = "X-Payments-Token"

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidToken       = "неверный токен платежного шлюза"
	msgNotFound           = "бронирование не найдено"
	msgAlreadyRecorded    = "оплата уже зарегистрирована другим платежом"
	msgConflict           = "бронирование изменено, повторите позже"
	msgRejected           = "бронирование не может принять оплату"
)

type Handler struct {
	useCase ConfirmPaymentUseCase
	token   string
	logger  Logger
}

// NewHandler создает обработчик, пустой token отключает проверку заголовка
func NewHandler(useCase ConfirmPaymentUseCase, token string, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		token:   token,
		logger:  logger,
	}
}

// Handle POST /api/v1/payments/results
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	if h.token != "" {
		got := r.Header.Get(HeaderResultsToken)
		if subtle.ConstantTimeCompare([]byte(got), []byte(h.token)) != 1 {
			h.logger.Warn("POST /payments/results - Invalid results token")
			handlers.RespondUnauthorized(w, msgInvalidToken)
			return
		}
	}

	var req PaymentResultRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /payments/results - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	booking, err := h.useCase.Execute(r.Context(), &confirmPayment.PaymentResult{
		BookingID:    req.BookingID,
		PaymentToken: req.PaymentToken,
		Success:      req.Success,
	})
	if err != nil {
		switch {
		case errors.Is(err, confirmPayment.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, confirmPayment.ErrBookingNotFound):
			h.logger.Warn("POST /payments/results - Booking not found: booking_id=%s", req.BookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, confirmPayment.ErrPaymentAlreadyRecorded):
			h.logger.Warn("POST /payments/results - Already paid: booking_id=%s, token=%s", req.BookingID, req.PaymentToken)
			handlers.RespondConflict(w, msgAlreadyRecorded)

		case errors.Is(err, confirmPayment.ErrConflict):
			handlers.RespondConflict(w, msgConflict)

		case transitions.IsRejection(err):
			h.logger.Warn("POST /payments/results - Rejected: booking_id=%s: %v", req.BookingID, err)
			handlers.RespondRejected(w, msgRejected, transitions.ReasonOf(err))

		default:
			h.logger.Error("POST /payments/results - Failed to apply result: booking_id=%s, error=%v", req.BookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /payments/results - Result applied: booking_id=%s, status=%s, payment=%s",
		booking.ID, booking.Status, booking.PaymentStatus)
	handlers.RespondJSON(w, http.StatusOK, handlers.NewBookingResponse(booking))
}
