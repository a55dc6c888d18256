package cancellation

import "errors"

var (
	// ErrRequestNotFound возвращается, когда заявка на отмену не найдена
	ErrRequestNotFound = errors.New("cancellation.repository: request not found")

	// ErrConflict возвращается, когда версия заявки в БД отличается от ожидаемой
	ErrConflict = errors.New("cancellation.repository: version conflict")

	// ErrPendingExists возвращается, когда у бронирования уже есть заявка в ожидании
	ErrPendingExists = errors.New("cancellation.repository: pending request already exists")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("cancellation.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("cancellation.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("cancellation.repository: failed to scan row")
)
