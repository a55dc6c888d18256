package confirm_payment

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("confirm_payment: booking not found")

	// ErrPaymentAlreadyRecorded возвращается, когда бронирование уже оплачено другим платежом
	ErrPaymentAlreadyRecorded = errors.New("confirm_payment: payment already recorded")

	// ErrConflict возвращается при параллельном изменении бронирования
	ErrConflict = errors.New("confirm_payment: booking was modified concurrently")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("confirm_payment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("confirm_payment: internal error")
)
