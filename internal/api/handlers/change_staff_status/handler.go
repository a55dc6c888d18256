package change_staff_status

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-BookingOps/internal/api/handlers"
	"github.com/m04kA/SMC-BookingOps/internal/api/middleware"
	"github.com/m04kA/SMC-BookingOps/internal/domain"
	"github.com/m04kA/SMC-BookingOps/internal/service/staff"
	"github.com/m04kA/SMC-BookingOps/internal/service/transitions"
)

const (
	msgInvalidStaffID     = "некорректный ID сотрудника"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgNotFound           = "сотрудник не найден"
	msgForbidden          = "доступ запрещен"
	msgConflict           = "сотрудник изменен, обновите данные"
	msgRejected           = "смена статуса недопустима"
)

type Handler struct {
	service StaffService
	logger  Logger
}

func NewHandler(service StaffService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/staff/{staffId}/status
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	staffID := strings.TrimSpace(mux.Vars(r)["staffId"])
	if staffID == "" {
		handlers.RespondBadRequest(w, msgInvalidStaffID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("PATCH /staff/{id}/status - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req ChangeStatusRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /staff/{id}/status - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	saved, err := h.service.ChangeStatus(r.Context(), &staff.ChangeStatusRequest{
		Actor:           actor,
		StaffID:         staffID,
		To:              domain.StaffStatus(strings.ToLower(strings.TrimSpace(req.Status))),
		ExpectedVersion: req.ExpectedVersion,
	})
	if err != nil {
		switch {
		case errors.Is(err, staff.ErrStaffNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, staff.ErrAccessDenied):
			h.logger.Warn("PATCH /staff/{id}/status - Access denied: staff_id=%s, user_id=%s", staffID, actor.ID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, staff.ErrInvalidInput), errors.Is(err, transitions.ErrUnknownStatus):
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, staff.ErrConflict):
			handlers.RespondConflict(w, msgConflict)

		case transitions.IsRejection(err):
			h.logger.Warn("PATCH /staff/{id}/status - Rejected: staff_id=%s, to=%s: %v", staffID, req.Status, err)
			handlers.RespondRejected(w, msgRejected, transitions.ReasonOf(err))

		default:
			h.logger.Error("PATCH /staff/{id}/status - Failed to change status: staff_id=%s, error=%v", staffID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /staff/{id}/status - Staff is %s: staff_id=%s", saved.Status, staffID)
	handlers.RespondJSON(w, http.StatusOK, handlers.NewStaffResponse(saved))
}
