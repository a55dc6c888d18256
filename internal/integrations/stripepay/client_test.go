package stripepay

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v79/webhook"

	"github.com/m04kA/SMC-BookingOps/pkg/logger"
)

const testSecret = "whsec_test"

func signedEvent(t *testing.T, eventType string, session map[string]any) ([]byte, string) {
	t.Helper()

	payload, err := json.Marshal(map[string]any{
		"id":     "evt_1",
		"object": "event",
		"type":   eventType,
		"data":   map[string]any{"object": session},
	})
	require.NoError(t, err)

	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   payload,
		Secret:    testSecret,
		Timestamp: time.Now(),
	})
	return signed.Payload, signed.Header
}

func newTestClient() *Client {
	return NewClient(Config{
		WebhookSecret: testSecret,
		SuccessURL:    "https://example.com/bookings/{booking_id}",
		CancelURL:     "https://example.com/bookings/{booking_id}?cancelled=1",
	}, logger.Nop())
}

func TestParseWebhook_Completed(t *testing.T) {
	c := newTestClient()
	payload, header := signedEvent(t, "checkout.session.completed", map[string]any{
		"id":             "cs_1",
		"object":         "checkout.session",
		"payment_status": "paid",
		"metadata":       map[string]string{"booking_id": "b1"},
	})

	evt, err := c.ParseWebhook(payload, header)
	require.NoError(t, err)
	assert.True(t, evt.Handled)
	assert.True(t, evt.Success)
	assert.Equal(t, "b1", evt.BookingID)
	assert.Equal(t, "cs_1", evt.SessionID)
}

func TestParseWebhook_CompletedButUnpaidWaitsForAsyncEvent(t *testing.T) {
	c := newTestClient()
	payload, header := signedEvent(t, "checkout.session.completed", map[string]any{
		"id":                  "cs_1",
		"object":              "checkout.session",
		"payment_status":      "unpaid",
		"client_reference_id": "b1",
	})

	evt, err := c.ParseWebhook(payload, header)
	require.NoError(t, err)
	assert.False(t, evt.Handled)
	assert.Equal(t, "b1", evt.BookingID)
}

func TestParseWebhook_Expired(t *testing.T) {
	c := newTestClient()
	payload, header := signedEvent(t, "checkout.session.expired", map[string]any{
		"id":       "cs_2",
		"object":   "checkout.session",
		"metadata": map[string]string{"booking_id": "b2"},
	})

	evt, err := c.ParseWebhook(payload, header)
	require.NoError(t, err)
	assert.True(t, evt.Handled)
	assert.False(t, evt.Success)
}

func TestParseWebhook_IgnoresOtherEvents(t *testing.T) {
	c := newTestClient()
	payload, header := signedEvent(t, "customer.created", map[string]any{"id": "cus_1", "object": "customer"})

	evt, err := c.ParseWebhook(payload, header)
	require.NoError(t, err)
	assert.False(t, evt.Handled)
}

func TestParseWebhook_BadSignature(t *testing.T) {
	c := newTestClient()
	payload, _ := signedEvent(t, "checkout.session.completed", map[string]any{"id": "cs_1"})

	_, err := c.ParseWebhook(payload, "t=1,v1=deadbeef")
	assert.ErrorIs(t, err, ErrInvalidSignature)

	_, err = NewClient(Config{}, logger.Nop()).ParseWebhook(payload, "t=1,v1=deadbeef")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestCreateSession_LocalStub(t *testing.T) {
	c := newTestClient()
	require.False(t, c.IsLive())

	sess, err := c.CreateSession(context.Background(), "b1", decimal.RequireFromString("350.00"), "")
	require.NoError(t, err)
	assert.Contains(t, sess.ID, "cs_local_")
	assert.Equal(t, "https://example.com/bookings/b1?session_id="+sess.ID, sess.URL)
}

func TestSessionIdempotencyKey_NewPerAttempt(t *testing.T) {
	amount := decimal.RequireFromString("350.00")

	first := sessionIdempotencyKey("b1", amount)
	retry := sessionIdempotencyKey("b1", amount)

	// повторная попытка после неудачной оплаты не должна получить закешированную сессию
	assert.NotEqual(t, first, retry)
	assert.True(t, strings.HasPrefix(first, "checkout:b1:350.00:"), first)
	assert.True(t, strings.HasPrefix(retry, "checkout:b1:350.00:"), retry)
	assert.LessOrEqual(t, len(first), 255, "Stripe limits idempotency keys to 255 characters")
}

func TestToMinorUnits(t *testing.T) {
	assert.Equal(t, int64(35000), toMinorUnits(decimal.RequireFromString("350.00")))
	assert.Equal(t, int64(1999), toMinorUnits(decimal.RequireFromString("19.985")))
}
