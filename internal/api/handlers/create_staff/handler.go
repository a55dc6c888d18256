package create_staff

import (
	"errors"
	"net/http"
	"strings"

	"github.com/m04kA/SMC-BookingOps/internal/api/handlers"
	"github.com/m04kA/SMC-BookingOps/internal/api/middleware"
	"github.com/m04kA/SMC-BookingOps/internal/service/staff"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgForbidden          = "добавлять сотрудников могут только сотрудники"
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

// Handle POST /api/v1/staff
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("POST /staff - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateStaffRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /staff - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	created, err := h.service.Create(r.Context(), &staff.CreateRequest{
		Actor:    actor,
		ID:       strings.TrimSpace(req.ID),
		Name:     strings.TrimSpace(req.Name),
		BranchID: strings.TrimSpace(req.BranchID),
	})
	if err != nil {
		switch {
		case errors.Is(err, staff.ErrAccessDenied):
			h.logger.Warn("POST /staff - Access denied: user_id=%s, role=%s", actor.ID, actor.Role)
			handlers.RespondForbidden(w, msgForbidden)
		case errors.Is(err, staff.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())
		default:
			h.logger.Error("POST /staff - Failed to create staff: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /staff - Staff created: staff_id=%s", created.ID)
	handlers.RespondJSON(w, http.StatusCreated, handlers.NewStaffResponse(created))
}
