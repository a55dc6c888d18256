package reap_stale_drafts

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных параметрах запуска
	ErrInvalidInput = errors.New("reap_stale_drafts: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("reap_stale_drafts: internal error")
)
