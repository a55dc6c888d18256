package transitions

import (
	"fmt"

	"github.com/m04kA/SMC-BookingOps/internal/domain"
)

// Transition проверяет переход from -> to для сущности kind
// Порядок проверок: неизвестный from, терминальный from, неизвестный to, наличие ребра, условие ребра
// Функция чистая: ничего не меняет и не зависит от времени
func Transition(kind EntityKind, from, to string, facts Facts) error {
	g, ok := registry[kind]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	if !g.isKnown(from) {
		return fmt.Errorf("%w: %s status %q", ErrUnknownStatus, kind, from)
	}

	if g.isTerminal(from) {
		return fmt.Errorf("%w: %s is %s", ErrTerminalState, kind, from)
	}

	if !g.isKnown(to) {
		return fmt.Errorf("%w: %s status %q", ErrUnknownStatus, kind, to)
	}

	pre, ok := g.edges[from][to]
	if !ok {
		return fmt.Errorf("%w: %s %s -> %s", ErrInvalidTransition, kind, from, to)
	}

	if pre != nil && !pre.check(facts) {
		return fmt.Errorf("%w: %s %s -> %s: %s", ErrPreconditionFailed, kind, from, to, pre.name)
	}

	return nil
}

// CheckInitial проверяет, что сущность может быть создана в статусе status
func CheckInitial(kind EntityKind, status string) error {
	g, ok := registry[kind]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	if !g.isKnown(status) {
		return fmt.Errorf("%w: %s status %q", ErrUnknownStatus, kind, status)
	}
	if _, ok := g.initial[status]; !ok {
		return fmt.Errorf("%w: %s cannot start as %s", ErrInvalidTransition, kind, status)
	}
	return nil
}

// Allowed возвращает статусы, в которые переход из from разрешен при данных facts
func Allowed(kind EntityKind, from string, facts Facts) []string {
	var out []string
	for _, to := range Targets(kind, from) {
		if Transition(kind, from, to, facts) == nil {
			out = append(out, to)
		}
	}
	return out
}

// BookingFacts собирает факты для проверки перехода бронирования
func BookingFacts(b *domain.Booking) Facts {
	return Facts{
		PaymentConfirmed: b.IsPaid() || !b.RequiresPayment(),
		AssignedStaff:    len(b.AssignedStaffIDs),
	}
}

// CheckBooking проверяет переход бронирования
func CheckBooking(from, to domain.BookingStatus, facts Facts) error {
	return Transition(KindBooking, string(from), string(to), facts)
}

// CheckInitialBooking проверяет начальный статус нового бронирования
// Бронирование с ненулевой суммой обязано начинаться с draft
func CheckInitialBooking(status domain.BookingStatus, requiresPayment bool) error {
	if err := CheckInitial(KindBooking, string(status)); err != nil {
		return err
	}
	if requiresPayment && status != domain.StatusDraft {
		return fmt.Errorf("%w: booking with amount due must start as %s", ErrPreconditionFailed, domain.StatusDraft)
	}
	return nil
}

// CheckAppointment проверяет переход записи в календаре
func CheckAppointment(from, to domain.AppointmentStatus) error {
	return Transition(KindAppointment, string(from), string(to), Facts{})
}

// CheckCancellation проверяет переход заявки на отмену
func CheckCancellation(from, to domain.CancellationStatus) error {
	return Transition(KindCancellation, string(from), string(to), Facts{})
}

// CheckStaff проверяет переход статуса сотрудника
func CheckStaff(from, to domain.StaffStatus) error {
	return Transition(KindStaff, string(from), string(to), Facts{})
}
