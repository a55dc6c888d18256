package confirm_payment

// PaymentResultRequest результат оплаты от платежного шлюза
type PaymentResultRequest struct {
	BookingID    string `json:"bookingId"`
	PaymentToken string `json:"paymentToken"`
	Success      bool   `json:"success"`
}
