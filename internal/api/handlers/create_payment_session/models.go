package create_payment_session

// CreatePaymentSessionRequest HTTP request model, тело опционально
type CreatePaymentSessionRequest struct {
	ReturnURL string `json:"returnUrl,omitempty"`
}

// CreatePaymentSessionResponse HTTP response model
type CreatePaymentSessionResponse struct {
	SessionID  string `json:"sessionId"`
	SessionURL string `json:"sessionUrl"`
}
