package list_staff

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-BookingOps/internal/api/handlers"
	"github.com/m04kA/SMC-BookingOps/internal/api/middleware"
	"github.com/m04kA/SMC-BookingOps/internal/service/staff"
)

const (
	msgMissingUserID = "отсутствует ID пользователя"
	msgForbidden     = "доступ запрещен"
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

// Handle GET /api/v1/staff?branchId=&status=&search=&sort=&dir=&page=&pageSize=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("GET /staff - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	params := handlers.ParseListParams(r)
	page, err := h.service.List(r.Context(), &staff.ListRequest{
		Actor:    actor,
		BranchID: handlers.OptionalString(r.URL.Query().Get("branchId")),
		Search:   params.Search,
		Status:   params.Status,
		SortKey:  params.SortKey,
		SortDir:  params.SortDir,
		Page:     params.Page,
		PageSize: params.PageSize,
	})
	if err != nil {
		switch {
		case errors.Is(err, staff.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())
		case errors.Is(err, staff.ErrAccessDenied):
			handlers.RespondForbidden(w, msgForbidden)
		default:
			h.logger.Error("GET /staff - Failed to list staff: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, handlers.NewPageResponse(page, handlers.NewStaffResponse))
}
