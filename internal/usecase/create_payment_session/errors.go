package create_payment_session

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("create_payment_session: booking not found")

	// ErrAccessDenied возвращается, когда бронирование принадлежит другому клиенту
	ErrAccessDenied = errors.New("create_payment_session: access denied")

	// ErrNotPayable возвращается, когда бронирование не ждет оплаты
	ErrNotPayable = errors.New("create_payment_session: booking is not awaiting payment")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_payment_session: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_payment_session: internal error")
)
