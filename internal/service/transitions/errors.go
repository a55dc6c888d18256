package transitions

import "errors"

var (
	// ErrInvalidTransition возвращается, когда ребра from -> to нет в графе
	ErrInvalidTransition = errors.New("transitions: invalid transition")

	// ErrTerminalState возвращается при любом переходе из терминального статуса
	ErrTerminalState = errors.New("transitions: status is terminal")

	// ErrPreconditionFailed возвращается, когда ребро есть, но условие перехода не выполнено
	ErrPreconditionFailed = errors.New("transitions: precondition failed")

	// ErrUnknownStatus возвращается для статуса вне перечисления сущности
	ErrUnknownStatus = errors.New("transitions: unknown status")

	// ErrUnknownKind возвращается для неизвестного типа сущности
	ErrUnknownKind = errors.New("transitions: unknown entity kind")
)

// Причины отказа, которые уходят клиенту в теле ответа
const (
	ReasonInvalidTransition  = "invalid-transition"
	ReasonTerminalState      = "terminal-state"
	ReasonPreconditionFailed = "precondition-failed"
	ReasonValidation         = "validation"
)

// ReasonOf возвращает причину отказа для ошибки движка, пустую строку для nil
func ReasonOf(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTerminalState):
		return ReasonTerminalState
	case errors.Is(err, ErrPreconditionFailed):
		return ReasonPreconditionFailed
	case errors.Is(err, ErrInvalidTransition):
		return ReasonInvalidTransition
	default:
		return ReasonValidation
	}
}

// IsRejection возвращает true, если ошибка пришла от движка переходов
func IsRejection(err error) bool {
	return errors.Is(err, ErrInvalidTransition) ||
		errors.Is(err, ErrTerminalState) ||
		errors.Is(err, ErrPreconditionFailed) ||
		errors.Is(err, ErrUnknownStatus) ||
		errors.Is(err, ErrUnknownKind)
}
