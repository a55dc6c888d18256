package get_calendar

import "errors"

var (
	// ErrAccessDenied возвращается, когда календарь запрашивает не сотрудник
	ErrAccessDenied = errors.New("get_calendar: access denied")

	// ErrInvalidInput возвращается при некорректных параметрах запроса
	ErrInvalidInput = errors.New("get_calendar: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_calendar: internal error")
)
