package commit_transition

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-BookingOps/internal/api/handlers"
	"github.com/m04kA/SMC-BookingOps/internal/api/middleware"
	"github.com/m04kA/SMC-BookingOps/internal/service/bookings"
	"github.com/m04kA/SMC-BookingOps/internal/service/transitions"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgNotFound           = "бронирование не найдено"
	msgForbidden          = "доступ запрещен"
	msgConflict           = "бронирование изменено, обновите данные"
	msgRejected           = "переход статуса недопустим"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/{bookingId}/transitions
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID := strings.TrimSpace(mux.Vars(r)["bookingId"])
	if bookingID == "" {
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings/{id}/transitions - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CommitTransitionRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/{id}/transitions - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	booking, err := h.service.CommitTransition(r.Context(), req.ToServiceRequest(bookingID, actor))
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("POST /bookings/{id}/transitions - Booking not found: booking_id=%s", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("POST /bookings/{id}/transitions - Access denied: booking_id=%s, user_id=%s", bookingID, actor.ID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrInvalidInput), errors.Is(err, transitions.ErrUnknownStatus):
			h.logger.Warn("POST /bookings/{id}/transitions - Invalid request: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, bookings.ErrConflict):
			h.logger.Warn("POST /bookings/{id}/transitions - Conflict: booking_id=%s: %v", bookingID, err)
			handlers.RespondConflict(w, msgConflict)

		case transitions.IsRejection(err):
			h.logger.Warn("POST /bookings/{id}/transitions - Rejected: booking_id=%s, to=%s: %v", bookingID, req.To, err)
			handlers.RespondRejected(w, msgRejected, transitions.ReasonOf(err))

		default:
			h.logger.Error("POST /bookings/{id}/transitions - Failed to commit: booking_id=%s, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/{id}/transitions - Booking moved to %s: booking_id=%s, user_id=%s",
		booking.Status, bookingID, actor.ID)
	handlers.RespondJSON(w, http.StatusOK, handlers.NewBookingResponse(booking))
}
