package confirm_payment

// PaymentResult результат оплаты от платежного провайдера
// PaymentToken - идентификатор платежа у провайдера (для Stripe - ID сессии Checkout)
type PaymentResult struct {
	BookingID    string
	PaymentToken string
	Success      bool
}
