package calendar

import "errors"

var (
	// ErrInvalidDate возвращается, когда дата не в формате YYYY-MM-DD
	ErrInvalidDate = errors.New("calendar: invalid date")

	// ErrInvalidGranularity возвращается для неизвестного вида календаря
	ErrInvalidGranularity = errors.New("calendar: invalid granularity")
)
