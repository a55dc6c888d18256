package stripe_webhook

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BookingOps/internal/domain"
	"github.com/m04kA/SMC-BookingOps/internal/integrations/stripepay"
	"github.com/m04kA/SMC-BookingOps/internal/service/transitions"
	confirmPayment "github.com/m04kA/SMC-BookingOps/internal/usecase/confirm_payment"
	"github.com/m04kA/SMC-BookingOps/pkg/logger"
)

type fakeParser struct {
	event *stripepay.Event
	err   error
}

func (p *fakeParser) ParseWebhook(payload []byte, sigHeader string) (*stripepay.Event, error) {
	return p.event, p.err
}

type fakeConfirm struct {
	got *confirmPayment.PaymentResult
	err error
}

func (f *fakeConfirm) Execute(ctx context.Context, res *confirmPayment.PaymentResult) (*domain.Booking, error) {
	f.got = res
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Booking{ID: res.BookingID, Status: domain.StatusPending}, nil
}

func serve(h *Handler) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/stripe/webhook", strings.NewReader(`{}`))
	req.Header.Set("Stripe-Signature", "t=1,v1=abc")
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandle_AppliesCompletedSession(t *testing.T) {
	parser := &fakeParser{event: &stripepay.Event{
		ID:        "evt_1",
		Type:      "checkout.session.completed",
		BookingID: "b1",
		SessionID: "cs_1",
		Success:   true,
		Handled:   true,
	}}
	uc := &fakeConfirm{}

	rec := serve(NewHandler(parser, uc, logger.Nop()))
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, uc.got)
	assert.Equal(t, "b1", uc.got.BookingID)
	assert.Equal(t, "cs_1", uc.got.PaymentToken)
	assert.True(t, uc.got.Success)
}

func TestHandle_IgnoredEvent(t *testing.T) {
	parser := &fakeParser{event: &stripepay.Event{ID: "evt_2", Type: "customer.created"}}
	uc := &fakeConfirm{}

	rec := serve(NewHandler(parser, uc, logger.Nop()))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, uc.got)
}

func TestHandle_Errors(t *testing.T) {
	handled := &stripepay.Event{ID: "evt_3", BookingID: "b1", SessionID: "cs_1", Success: true, Handled: true}

	tests := []struct {
		name      string
		parserErr error
		useCase   error
		code      int
	}{
		{name: "bad signature", parserErr: errors.New("signature mismatch"), code: http.StatusBadRequest},
		{name: "not configured", parserErr: stripepay.ErrNotConfigured, code: http.StatusServiceUnavailable},
		{name: "unknown booking acked", useCase: confirmPayment.ErrBookingNotFound, code: http.StatusOK},
		{name: "already paid acked", useCase: confirmPayment.ErrPaymentAlreadyRecorded, code: http.StatusOK},
		{name: "rejected acked", useCase: transitions.ErrTerminalState, code: http.StatusOK},
		{name: "transient retried", useCase: confirmPayment.ErrConflict, code: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := &fakeParser{event: handled, err: tt.parserErr}
			if tt.parserErr != nil {
				parser.event = nil
			}
			rec := serve(NewHandler(parser, &fakeConfirm{err: tt.useCase}, logger.Nop()))
			assert.Equal(t, tt.code, rec.Code)
		})
	}
}
