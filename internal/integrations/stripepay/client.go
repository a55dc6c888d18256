// Package stripepay платежная сессия Stripe Checkout и разбор вебхуков
package stripepay

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"github.com/stripe/stripe-go/v79/webhook"
)

const (
	metadataBookingID = "booking_id"

	// Stripe подставляет ID сессии вместо этого шаблона в success_url
	sessionIDTemplate = "{CHECKOUT_SESSION_ID}"
	bookingIDTemplate = "{booking_id}"

	defaultTolerance = 5 * time.Minute
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Config параметры подключения к Stripe
// Без SecretKey сессии создаются локальной заглушкой
type Config struct {
	SecretKey        string
	WebhookSecret    string
	Currency         string
	SuccessURL       string
	CancelURL        string
	WebhookTolerance time.Duration
}

// Session созданная платежная сессия
type Session struct {
	ID  string
	URL string
}

// Event результат разбора вебхука
// Handled = false для событий, которые не влияют на оплату бронирования
type Event struct {
	ID        string
	Type      string
	BookingID string
	SessionID string
	Success   bool
	Handled   bool
}

// Client клиент Stripe Checkout
type Client struct {
	cfg    Config
	api    *client.API
	logger Logger
}

// NewClient создает клиента Stripe
func NewClient(cfg Config, logger Logger) *Client {
	if cfg.Currency == "" {
		cfg.Currency = string(stripe.CurrencyUSD)
	}
	if cfg.WebhookTolerance <= 0 {
		cfg.WebhookTolerance = defaultTolerance
	}

	c := &Client{cfg: cfg, logger: logger}
	if strings.TrimSpace(cfg.SecretKey) != "" {
		c.api = client.New(cfg.SecretKey, nil)
	}
	return c
}

// IsLive возвращает true, если сессии создаются в Stripe, а не заглушкой
func (c *Client) IsLive() bool {
	return c.api != nil
}

// CreateSession создает Checkout Session на сумму amount для бронирования
// Каждый вызов создает новую сессию, сетевые повторы внутри вызова идут с одним ключом идемпотентности
func (c *Client) CreateSession(ctx context.Context, bookingID string, amount decimal.Decimal, returnURL string) (*Session, error) {
	successURL, cancelURL := c.returnURLs(bookingID, returnURL)

	if c.api == nil {
		id := "cs_local_" + uuid.NewString()
		c.logger.Warn("Stripe: secret key is not configured, local session %s for booking=%s", id, bookingID)
		return &Session{ID: id, URL: strings.ReplaceAll(successURL, sessionIDTemplate, id)}, nil
	}

	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:        stripe.String(successURL),
		CancelURL:         stripe.String(cancelURL),
		ClientReferenceID: stripe.String(bookingID),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(c.cfg.Currency),
					UnitAmount: stripe.Int64(toMinorUnits(amount)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String("Booking " + bookingID),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		Metadata: map[string]string{
			metadataBookingID: bookingID,
		},
		PaymentIntentData: &stripe.CheckoutSessionPaymentIntentDataParams{
			Metadata: map[string]string{
				metadataBookingID: bookingID,
			},
		},
	}
	params.Context = ctx
	params.IdempotencyKey = stripe.String(sessionIdempotencyKey(bookingID, amount))

	sess, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		c.logger.Error("Stripe: checkout session create failed for booking=%s: %v", bookingID, err)
		return nil, fmt.Errorf("%w: CreateSession - booking %s: %v", ErrProvider, bookingID, err)
	}

	c.logger.Info("Stripe: checkout session %s created for booking=%s", sess.ID, bookingID)
	return &Session{ID: sess.ID, URL: sess.URL}, nil
}

// ParseWebhook проверяет подпись и переводит событие Stripe в результат оплаты
func (c *Client) ParseWebhook(payload []byte, sigHeader string) (*Event, error) {
	if strings.TrimSpace(c.cfg.WebhookSecret) == "" {
		return nil, ErrNotConfigured
	}

	evt, err := webhook.ConstructEventWithOptions(payload, sigHeader, c.cfg.WebhookSecret, webhook.ConstructEventOptions{
		Tolerance:                c.cfg.WebhookTolerance,
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	out := &Event{ID: evt.ID, Type: string(evt.Type)}

	switch evt.Type {
	case "checkout.session.completed",
		"checkout.session.async_payment_succeeded",
		"checkout.session.expired",
		"checkout.session.async_payment_failed":
	default:
		return out, nil
	}

	var session stripe.CheckoutSession
	if err := json.Unmarshal(evt.Data.Raw, &session); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidPayload, evt.Type, err)
	}

	out.SessionID = session.ID
	out.BookingID = strings.TrimSpace(session.Metadata[metadataBookingID])
	if out.BookingID == "" {
		out.BookingID = strings.TrimSpace(session.ClientReferenceID)
	}
	if out.BookingID == "" {
		return nil, fmt.Errorf("%w: %s: session %s has no booking_id", ErrInvalidPayload, evt.Type, session.ID)
	}

	switch evt.Type {
	case "checkout.session.completed":
		// Отложенные методы оплаты приходят позже отдельным async-событием
		if session.PaymentStatus == stripe.CheckoutSessionPaymentStatusUnpaid {
			return out, nil
		}
		out.Success, out.Handled = true, true
	case "checkout.session.async_payment_succeeded":
		out.Success, out.Handled = true, true
	default:
		out.Success, out.Handled = false, true
	}

	return out, nil
}

// sessionIdempotencyKey ключ на одну попытку оплаты
// После async_payment_failed клиент должен получить новую сессию, а не закешированную Stripe на сутки
func sessionIdempotencyKey(bookingID string, amount decimal.Decimal) string {
	return "checkout:" + bookingID + ":" + amount.StringFixed(2) + ":" + uuid.NewString()
}

func (c *Client) returnURLs(bookingID, returnURL string) (string, string) {
	success := strings.TrimSpace(returnURL)
	cancel := success
	if success == "" {
		success = c.cfg.SuccessURL
		cancel = c.cfg.CancelURL
	}
	if cancel == "" {
		cancel = success
	}

	success = strings.ReplaceAll(success, bookingIDTemplate, bookingID)
	cancel = strings.ReplaceAll(cancel, bookingIDTemplate, bookingID)
	if !strings.Contains(success, sessionIDTemplate) {
		success = withQueryParam(success, "session_id", sessionIDTemplate)
	}
	return success, cancel
}

// toMinorUnits переводит сумму в центы
func toMinorUnits(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}

func withQueryParam(u, key, value string) string {
	sep := "?"
	if strings.Contains(u, "?") {
		sep = "&"
	}
	return u + sep + key + "=" + value
}
