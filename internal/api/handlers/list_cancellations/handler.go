package list_cancellations

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-BookingOps/internal/api/handlers"
	"github.com/m04kA/SMC-BookingOps/internal/api/middleware"
	"github.com/m04kA/SMC-BookingOps/internal/service/cancellations"
)

const (
	msgMissingUserID = "отсутствует ID пользователя"
	msgForbidden     = "доступ запрещен"
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

// Handle GET /api/v1/cancellations?appointmentId=&status=&search=&sort=&dir=&page=&pageSize=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("GET /cancellations - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	params := handlers.ParseListParams(r)
	page, err := h.service.List(r.Context(), &cancellations.ListRequest{
		Actor:         actor,
		AppointmentID: handlers.OptionalString(r.URL.Query().Get("appointmentId")),
		Search:        params.Search,
		Status:        params.Status,
		SortKey:       params.SortKey,
		SortDir:       params.SortDir,
		Page:          params.Page,
		PageSize:      params.PageSize,
	})
	if err != nil {
		switch {
		case errors.Is(err, cancellations.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())
		case errors.Is(err, cancellations.ErrAccessDenied):
			handlers.RespondForbidden(w, msgForbidden)
		default:
			h.logger.Error("GET /cancellations - Failed to list requests: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, handlers.NewPageResponse(page, handlers.NewCancellationResponse))
}
