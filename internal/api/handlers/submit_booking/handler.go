package submit_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-BookingOps/internal/api/handlers"
	"github.com/m04kA/SMC-BookingOps/internal/api/middleware"
	submitBooking "github.com/m04kA/SMC-BookingOps/internal/usecase/submit_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgServiceNotFound    = "услуга не найдена"
	msgInvalidDate        = "дата бронирования в прошлом"
)

type Handler struct {
	useCase SubmitBookingUseCase
	logger  Logger
}

func NewHandler(useCase SubmitBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	// Декодируем body
	var req SubmitBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	ucReq, err := req.ToUseCaseRequest(actor)
	if err != nil {
		h.logger.Warn("POST /bookings - Invalid request: %v", err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	resp, err := h.useCase.Execute(r.Context(), ucReq)
	if err != nil {
		switch {
		case errors.Is(err, submitBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Validation failed: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, submitBooking.ErrInvalidDate):
			h.logger.Warn("POST /bookings - Invalid date: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDate)

		case errors.Is(err, submitBooking.ErrServiceNotFound):
			h.logger.Warn("POST /bookings - Service not found: %s", req.ServiceCode)
			handlers.RespondNotFound(w, msgServiceNotFound)

		default:
			h.logger.Error("POST /bookings - Failed to submit booking: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking submitted: booking_id=%s, status=%s", resp.BookingID, resp.Status)
	handlers.RespondJSON(w, http.StatusCreated, SubmitBookingResponse{
		BookingID:       resp.BookingID,
		Amount:          resp.Amount.StringFixed(2),
		RequiresPayment: resp.RequiresPayment,
		Status:          string(resp.Status),
	})
}
