package list_bookings

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/m04kA/SMC-BookingOps/internal/api/handlers"
	"github.com/m04kA/SMC-BookingOps/internal/api/middleware"
	"github.com/m04kA/SMC-BookingOps/internal/domain"
	"github.com/m04kA/SMC-BookingOps/internal/service/bookings"
	"github.com/m04kA/SMC-BookingOps/internal/service/bookings/models"
	"github.com/m04kA/SMC-BookingOps/internal/service/calendar"
)

const (
	msgMissingUserID  = "отсутствует ID пользователя"
	msgInvalidDate    = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidPayment = "некорректный статус оплаты"
	msgInvalidQuery   = "некорректные параметры списка"
	msgForbidden      = "доступ запрещен"
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

// Handle GET /api/v1/bookings
// Query: search, status, branchId, paymentStatus, startDate, endDate, sort, dir, page, pageSize
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("GET /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	q := r.URL.Query()
	params := handlers.ParseListParams(r)

	req := &models.ListRequest{
		Actor:    actor,
		Search:   params.Search,
		Status:   params.Status,
		BranchID: handlers.OptionalString(q.Get("branchId")),
		SortKey:  params.SortKey,
		SortDir:  params.SortDir,
		Page:     params.Page,
		PageSize: params.PageSize,
	}

	if v := handlers.OptionalString(q.Get("paymentStatus")); v != nil {
		ps := domain.PaymentStatus(strings.ToLower(*v))
		if ps != domain.PaymentUnpaid && ps != domain.PaymentPaid && ps != domain.PaymentRefunded {
			h.logger.Warn("GET /bookings - Invalid payment status: %s", *v)
			handlers.RespondBadRequest(w, msgInvalidPayment)
			return
		}
		req.PaymentStatus = &ps
	}

	var err error
	if req.StartDate, err = parseDate(q.Get("startDate")); err != nil {
		h.logger.Warn("GET /bookings - Invalid startDate: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}
	if req.EndDate, err = parseDate(q.Get("endDate")); err != nil {
		h.logger.Warn("GET /bookings - Invalid endDate: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	page, err := h.service.List(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /bookings - Invalid query: %v", err)
			handlers.RespondBadRequest(w, msgInvalidQuery)

		case errors.Is(err, bookings.ErrAccessDenied):
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /bookings - Failed to list bookings: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /bookings - Returned %d of %d bookings for %s=%s",
		len(page.Items), page.TotalCount, actor.Role, actor.ID)
	handlers.RespondJSON(w, http.StatusOK, handlers.NewPageResponse(page, handlers.NewBookingResponse))
}

// parseDate пустое значение означает отсутствие фильтра
func parseDate(raw string) (*time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	d, err := calendar.ParseDate(raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
