package bookings

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("bookings: booking not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав на операцию
	ErrAccessDenied = errors.New("bookings: access denied")

	// ErrConflict возвращается при несовпадении версии или занятой блокировке бронирования
	ErrConflict = errors.New("bookings: booking was modified concurrently")

	// ErrStaffNotAssignable возвращается, когда в текущем статусе нельзя назначать сотрудников
	ErrStaffNotAssignable = errors.New("bookings: staff cannot be assigned in current status")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("bookings: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("bookings: internal error")
)
