package create_payment_session

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-BookingOps/internal/api/handlers"
	"github.com/m04kA/SMC-BookingOps/internal/api/middleware"
	"github.com/m04kA/SMC-BookingOps/internal/domain"
	createPaymentSession "github.com/m04kA/SMC-BookingOps/internal/usecase/create_payment_session"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgNotFound           = "бронирование не найдено"
	msgForbidden          = "доступ запрещен"
	msgNotPayable         = "бронирование не ожидает оплаты"
)

type Handler struct {
	useCase CreatePaymentSessionUseCase
	logger  Logger
}

func NewHandler(useCase CreatePaymentSessionUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/{bookingId}/payment-session
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID := strings.TrimSpace(mux.Vars(r)["bookingId"])
	if bookingID == "" {
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings/{id}/payment-session - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}
	if actor.Role != domain.RoleCustomer {
		h.logger.Warn("POST /bookings/{id}/payment-session - Role %s cannot pay: booking_id=%s", actor.Role, bookingID)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	var req CreatePaymentSessionRequest
	if err := handlers.DecodeOptionalJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/{id}/payment-session - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	resp, err := h.useCase.Execute(r.Context(), &createPaymentSession.Request{
		BookingID:  bookingID,
		CustomerID: actor.ID,
		ReturnURL:  req.ReturnURL,
	})
	if err != nil {
		switch {
		case errors.Is(err, createPaymentSession.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, createPaymentSession.ErrBookingNotFound):
			h.logger.Warn("POST /bookings/{id}/payment-session - Booking not found: booking_id=%s", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, createPaymentSession.ErrAccessDenied):
			h.logger.Warn("POST /bookings/{id}/payment-session - Access denied: booking_id=%s, user_id=%s", bookingID, actor.ID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, createPaymentSession.ErrNotPayable):
			h.logger.Warn("POST /bookings/{id}/payment-session - Not payable: booking_id=%s", bookingID)
			handlers.RespondConflict(w, msgNotPayable)

		default:
			h.logger.Error("POST /bookings/{id}/payment-session - Failed to create session: booking_id=%s, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/{id}/payment-session - Session created: booking_id=%s, session=%s", bookingID, resp.SessionID)
	handlers.RespondJSON(w, http.StatusCreated, CreatePaymentSessionResponse{
		SessionID:  resp.SessionID,
		SessionURL: resp.SessionURL,
	})
}
