package stripepay

import "errors"

var (
	// ErrNotConfigured возвращается, когда не задан секрет вебхука
	ErrNotConfigured = errors.New("stripepay: webhook secret is not configured")

	// ErrInvalidSignature возвращается при неверной подписи Stripe-Signature
	ErrInvalidSignature = errors.New("stripepay: invalid webhook signature")

	// ErrInvalidPayload возвращается, когда тело события не разбирается
	ErrInvalidPayload = errors.New("stripepay: invalid event payload")

	// ErrProvider возвращается при ошибке API Stripe
	ErrProvider = errors.New("stripepay: provider error")
)
