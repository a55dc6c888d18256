package get_calendar

import (
	"time"

	"github.com/m04kA/SMC-BookingOps/internal/domain"
	"github.com/m04kA/SMC-BookingOps/internal/service/calendar"
)

// Request параметры календаря
type Request struct {
	Actor domain.Actor
	Date  string // YYYY-MM-DD, пусто - сегодня
	View  string // day, week, month, list; пусто - week
	// Фильтры, пустое значение или "all" не фильтрует
	Search string
	Status string
	Branch string
	// WithSlots раскладывает записи дня по слотам (только для view=day)
	WithSlots bool
}

// Response календарь за окно сетки
// Для month/week/day заполнены Cells, для list - Appointments
type Response struct {
	View         calendar.Granularity
	From         time.Time
	To           time.Time
	Cells        []domain.CalendarCell
	Appointments []domain.Appointment
	Slots        []domain.TimeSlot
}
