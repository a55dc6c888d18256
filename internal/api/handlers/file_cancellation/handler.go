package file_cancellation

import (
	"errors"
	"net/http"
	"strings"

	"github.com/m04kA/SMC-BookingOps/internal/api/handlers"
	"github.com/m04kA/SMC-BookingOps/internal/api/middleware"
	"github.com/m04kA/SMC-BookingOps/internal/service/cancellations"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgNotFound           = "запись не найдена"
	msgForbidden          = "доступ запрещен"
	msgNotCancellable     = "запись в текущем статусе нельзя отменить"
	msgDuplicate          = "по записи уже есть открытая заявка на отмену"
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

// Handle POST /api/v1/cancellations
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("POST /cancellations - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req FileCancellationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /cancellations - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	created, err := h.service.File(r.Context(), &cancellations.FileRequest{
		Actor:         actor,
		AppointmentID: strings.TrimSpace(req.AppointmentID),
		Reason:        strings.TrimSpace(req.Reason),
	})
	if err != nil {
		switch {
		case errors.Is(err, cancellations.ErrInvalidInput):
			h.logger.Warn("POST /cancellations - Invalid request: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, cancellations.ErrAppointmentNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, cancellations.ErrAccessDenied):
			h.logger.Warn("POST /cancellations - Access denied: appointment_id=%s, user_id=%s", req.AppointmentID, actor.ID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, cancellations.ErrNotCancellable):
			handlers.RespondConflict(w, msgNotCancellable)

		case errors.Is(err, cancellations.ErrDuplicateRequest):
			handlers.RespondConflict(w, msgDuplicate)

		default:
			h.logger.Error("POST /cancellations - Failed to file request: appointment_id=%s, error=%v", req.AppointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /cancellations - Request filed: id=%s, appointment_id=%s", created.ID, created.AppointmentID)
	handlers.RespondJSON(w, http.StatusCreated, handlers.NewCancellationResponse(created))
}
