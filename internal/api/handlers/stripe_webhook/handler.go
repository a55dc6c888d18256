package stripe_webhook

import (
	"errors"
	"io"
	"net/http"

	"github.com/m04kA/SMC-BookingOps/internal/api/handlers"
	"github.com/m04kA/SMC-BookingOps/internal/integrations/stripepay"
	"github.com/m04kA/SMC-BookingOps/internal/service/transitions"
	confirmPayment "github.com/m04kA/SMC-BookingOps/internal/usecase/confirm_payment"
)

// Stripe не присылает события больше 64KB
const maxPayloadBytes = 64 << 10

const (
	msgInvalidPayload = "некорректное событие"
	msgNotConfigured  = "вебхук не настроен"
)

// AckResponse ответ Stripe
type AckResponse struct {
	Received bool `json:"received"`
}

type Handler struct {
	parser  WebhookParser
	useCase ConfirmPaymentUseCase
	logger  Logger
}

func NewHandler(parser WebhookParser, useCase ConfirmPaymentUseCase, logger Logger) *Handler {
	return &Handler{
		parser:  parser,
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/payments/stripe/webhook
// 2xx подтверждает событие, 5xx заставляет Stripe повторить доставку
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxPayloadBytes))
	if err != nil {
		h.logger.Warn("POST /payments/stripe/webhook - Failed to read body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPayload)
		return
	}

	event, err := h.parser.ParseWebhook(payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		switch {
		case errors.Is(err, stripepay.ErrNotConfigured):
			h.logger.Error("POST /payments/stripe/webhook - Webhook secret is not configured")
			handlers.RespondError(w, http.StatusServiceUnavailable, msgNotConfigured)
		default:
			h.logger.Warn("POST /payments/stripe/webhook - Rejected event: %v", err)
			handlers.RespondBadRequest(w, msgInvalidPayload)
		}
		return
	}

	if !event.Handled {
		h.logger.Info("POST /payments/stripe/webhook - Ignored event: id=%s, type=%s", event.ID, event.Type)
		handlers.RespondJSON(w, http.StatusOK, AckResponse{Received: true})
		return
	}

	booking, err := h.useCase.Execute(r.Context(), &confirmPayment.PaymentResult{
		BookingID:    event.BookingID,
		PaymentToken: event.SessionID,
		Success:      event.Success,
	})
	if err != nil {
		switch {
		// Повтор доставки не поможет, подтверждаем событие
		case errors.Is(err, confirmPayment.ErrBookingNotFound),
			errors.Is(err, confirmPayment.ErrInvalidInput),
			errors.Is(err, confirmPayment.ErrPaymentAlreadyRecorded),
			transitions.IsRejection(err):
			h.logger.Warn("POST /payments/stripe/webhook - Event dropped: id=%s, booking_id=%s: %v", event.ID, event.BookingID, err)
			handlers.RespondJSON(w, http.StatusOK, AckResponse{Received: true})

		default:
			h.logger.Error("POST /payments/stripe/webhook - Failed to apply event: id=%s, booking_id=%s, error=%v", event.ID, event.BookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /payments/stripe/webhook - Event applied: id=%s, type=%s, booking_id=%s, status=%s",
		event.ID, event.Type, booking.ID, booking.Status)
	handlers.RespondJSON(w, http.StatusOK, AckResponse{Received: true})
}
