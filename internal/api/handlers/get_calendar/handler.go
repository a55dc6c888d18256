package get_calendar

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/m04kA/SMC-BookingOps/internal/api/handlers"
	"github.com/m04kA/SMC-BookingOps/internal/api/middleware"
	getCalendar "github.com/m04kA/SMC-BookingOps/internal/usecase/get_calendar"
)

const (
	msgMissingUserID = "отсутствует ID пользователя"
	msgForbidden     = "календарь доступен только сотрудникам"
	msgInvalidSlots  = "параметр slots должен быть true или false"
)

type Handler struct {
	useCase GetCalendarUseCase
	logger  Logger
}

func NewHandler(useCase GetCalendarUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/calendar?date=YYYY-MM-DD&view=week&search=&status=&branch=&slots=true
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("GET /calendar - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	q := r.URL.Query()

	withSlots := false
	if raw := strings.TrimSpace(q.Get("slots")); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidSlots)
			return
		}
		withSlots = v
	}

	resp, err := h.useCase.Execute(r.Context(), &getCalendar.Request{
		Actor:     actor,
		Date:      strings.TrimSpace(q.Get("date")),
		View:      strings.TrimSpace(q.Get("view")),
		Search:    strings.TrimSpace(q.Get("search")),
		Status:    strings.TrimSpace(q.Get("status")),
		Branch:    strings.TrimSpace(q.Get("branch")),
		WithSlots: withSlots,
	})
	if err != nil {
		switch {
		case errors.Is(err, getCalendar.ErrAccessDenied):
			h.logger.Warn("GET /calendar - Access denied: user_id=%s, role=%s", actor.ID, actor.Role)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, getCalendar.ErrInvalidInput):
			h.logger.Warn("GET /calendar - Invalid request: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("GET /calendar - Failed to build calendar: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, newCalendarResponse(resp))
}
