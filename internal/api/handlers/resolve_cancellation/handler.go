package resolve_cancellation

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-BookingOps/internal/api/handlers"
	"github.com/m04kA/SMC-BookingOps/internal/api/middleware"
	"github.com/m04kA/SMC-BookingOps/internal/domain"
	"github.com/m04kA/SMC-BookingOps/internal/service/bookings"
	"github.com/m04kA/SMC-BookingOps/internal/service/cancellations"
	"github.com/m04kA/SMC-BookingOps/internal/service/transitions"
)

const (
	msgInvalidRequestID   = "некорректный ID заявки"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgNotFound           = "заявка не найдена"
	msgBookingNotFound    = "запись не найдена"
	msgForbidden          = "доступ запрещен"
	msgConflict           = "заявка или запись изменены, обновите данные"
	msgRejected           = "решение по заявке недопустимо"
)

type Handler struct {
	service CancellationService
	logger  Logger
}

func NewHandler(service CancellationService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/cancellations/{requestId}/resolve
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	requestID := strings.TrimSpace(mux.Vars(r)["requestId"])
	if requestID == "" {
		handlers.RespondBadRequest(w, msgInvalidRequestID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("POST /cancellations/{id}/resolve - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req ResolveCancellationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /cancellations/{id}/resolve - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	resolved, err := h.service.Resolve(r.Context(), &cancellations.ResolveRequest{
		Actor:           actor,
		RequestID:       requestID,
		Decision:        domain.CancellationStatus(strings.ToLower(strings.TrimSpace(req.Decision))),
		ExpectedVersion: req.ExpectedVersion,
	})
	if err != nil {
		switch {
		case errors.Is(err, cancellations.ErrInvalidInput), errors.Is(err, bookings.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, cancellations.ErrRequestNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrBookingNotFound):
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, cancellations.ErrAccessDenied), errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("POST /cancellations/{id}/resolve - Access denied: request_id=%s, user_id=%s", requestID, actor.ID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, cancellations.ErrConflict), errors.Is(err, bookings.ErrConflict):
			handlers.RespondConflict(w, msgConflict)

		case transitions.IsRejection(err):
			h.logger.Warn("POST /cancellations/{id}/resolve - Rejected: request_id=%s: %v", requestID, err)
			handlers.RespondRejected(w, msgRejected, transitions.ReasonOf(err))

		default:
			h.logger.Error("POST /cancellations/{id}/resolve - Failed to resolve: request_id=%s, error=%v", requestID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /cancellations/{id}/resolve - Request %s: request_id=%s, user_id=%s", resolved.Status, requestID, actor.ID)
	handlers.RespondJSON(w, http.StatusOK, handlers.NewCancellationResponse(resolved))
}
