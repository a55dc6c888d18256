package create_payment_session

// Request запрос на создание сессии оплаты
type Request struct {
	BookingID  string
	CustomerID string
	ReturnURL  string // Куда вернуть клиента после оплаты, пусто - из конфигурации
}

// Response данные сессии оплаты
type Response struct {
	SessionID  string
	SessionURL string
}
