package cancellations

import "errors"

var (
	// ErrRequestNotFound возвращается, когда заявка на отмену не найдена
	ErrRequestNotFound = errors.New("cancellations: request not found")

	// ErrAppointmentNotFound возвращается, когда запись для отмены не найдена
	ErrAppointmentNotFound = errors.New("cancellations: appointment not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав на операцию
	ErrAccessDenied = errors.New("cancellations: access denied")

	// ErrNotCancellable возвращается, когда запись в текущем статусе нельзя отменить
	ErrNotCancellable = errors.New("cancellations: appointment cannot be cancelled")

	// ErrDuplicateRequest возвращается, когда по записи уже есть открытая заявка
	ErrDuplicateRequest = errors.New("cancellations: pending request already exists")

	// ErrConflict возвращается при несовпадении версии заявки
	ErrConflict = errors.New("cancellations: request was modified concurrently")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("cancellations: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("cancellations: internal error")
)
