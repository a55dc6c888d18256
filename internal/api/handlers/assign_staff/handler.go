package assign_staff

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-BookingOps/internal/api/handlers"
	"github.com/m04kA/SMC-BookingOps/internal/api/middleware"
	"github.com/m04kA/SMC-BookingOps/internal/service/bookings"
	"github.com/m04kA/SMC-BookingOps/internal/service/bookings/models"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgNotFound           = "бронирование не найдено"
	msgForbidden          = "доступ запрещен"
	msgConflict           = "бронирование изменено, обновите данные"
	msgNotAssignable      = "в текущем статусе нельзя назначать сотрудников"
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

// Handle PUT /api/v1/bookings/{bookingId}/staff
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID := strings.TrimSpace(mux.Vars(r)["bookingId"])
	if bookingID == "" {
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("PUT /bookings/{id}/staff - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req AssignStaffRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /bookings/{id}/staff - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	booking, err := h.service.AssignStaff(r.Context(), &models.AssignStaffRequest{
		BookingID:       bookingID,
		Actor:           actor,
		StaffIDs:        req.StaffIDs,
		ExpectedVersion: req.ExpectedVersion,
	})
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("PUT /bookings/{id}/staff - Access denied: booking_id=%s, user_id=%s", bookingID, actor.ID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("PUT /bookings/{id}/staff - Invalid request: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, bookings.ErrStaffNotAssignable):
			h.logger.Warn("PUT /bookings/{id}/staff - Not assignable: booking_id=%s: %v", bookingID, err)
			handlers.RespondConflict(w, msgNotAssignable)

		case errors.Is(err, bookings.ErrConflict):
			handlers.RespondConflict(w, msgConflict)

		default:
			h.logger.Error("PUT /bookings/{id}/staff - Failed to assign staff: booking_id=%s, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /bookings/{id}/staff - Staff assigned: booking_id=%s, count=%d", bookingID, len(booking.AssignedStaffIDs))
	handlers.RespondJSON(w, http.StatusOK, handlers.NewBookingResponse(booking))
}
