package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-BookingOps/internal/domain"
)

// Granularity вид календаря
type Granularity string

const (
	Day   Granularity = "day"
	Week  Granularity = "week"
	Month Granularity = "month"
	List  Granularity = "list"
)

// monthGridDays сетка месяца всегда 5 недель, шестая неделя обрезается
const monthGridDays = 35

// ParseGranularity парсит вид календаря
func ParseGranularity(s string) (Granularity, error) {
	switch g := Granularity(strings.ToLower(strings.TrimSpace(s))); g {
	case Day, Week, Month, List:
		return g, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidGranularity, s)
}

// Clock источник текущего времени
type Clock interface {
	Now() time.Time
}

// RealClock часы для production
type RealClock struct{}

// Now возвращает текущее время
func (RealClock) Now() time.Time {
	return time.Now()
}

// GridBuilder строит сетку дат для календаря
type GridBuilder struct {
	clock Clock
}

// NewGridBuilder создает построитель сетки, nil clock означает системные часы
func NewGridBuilder(clock Clock) *GridBuilder {
	if clock == nil {
		clock = RealClock{}
	}
	return &GridBuilder{clock: clock}
}

// Today текущая дата по часам построителя
func (b *GridBuilder) Today() time.Time {
	return DateOf(b.clock.Now())
}

// BuildGridFromString строит сетку для даты в формате YYYY-MM-DD
func (b *GridBuilder) BuildGridFromString(date string, g Granularity) ([]domain.CalendarCell, error) {
	ref, err := ParseDate(date)
	if err != nil {
		return nil, err
	}
	return b.BuildGrid(ref, g)
}

// BuildGrid строит сетку дат вокруг ref
//   - day: одна дата
//   - week: 7 дат с понедельника
//   - month, list: 35 дат с понедельника недели, в которую попадает 1-е число
func (b *GridBuilder) BuildGrid(ref time.Time, g Granularity) ([]domain.CalendarCell, error) {
	ref = DateOf(ref)
	today := DateOf(b.clock.Now())

	switch g {
	case Day:
		return []domain.CalendarCell{newCell(ref, true, today)}, nil

	case Week:
		start := StartOfWeek(ref)
		cells := make([]domain.CalendarCell, 0, 7)
		for i := 0; i < 7; i++ {
			cells = append(cells, newCell(start.AddDate(0, 0, i), true, today))
		}
		return cells, nil

	case Month, List:
		first := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, time.UTC)
		start := StartOfWeek(first)
		cells := make([]domain.CalendarCell, 0, monthGridDays)
		for i := 0; i < monthGridDays; i++ {
			d := start.AddDate(0, 0, i)
			cells = append(cells, newCell(d, d.Month() == ref.Month(), today))
		}
		return cells, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrInvalidGranularity, g)
}

// GridRange возвращает первую и последнюю дату сетки
func GridRange(cells []domain.CalendarCell) (from, to time.Time, ok bool) {
	if len(cells) == 0 {
		return time.Time{}, time.Time{}, false
	}
	return cells[0].Date, cells[len(cells)-1].Date, true
}

// ParseDate парсит дату YYYY-MM-DD в полночь UTC
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(domain.DateFormat, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return d, nil
}

// DateOf берет календарную дату t в её зоне и возвращает полночь этой даты в UTC
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// StartOfWeek возвращает понедельник недели, в которую попадает d
func StartOfWeek(d time.Time) time.Time {
	offset := (int(d.Weekday()) + 6) % 7
	return DateOf(d).AddDate(0, 0, -offset)
}

func newCell(d time.Time, current bool, today time.Time) domain.CalendarCell {
	return domain.CalendarCell{
		Date:            d,
		Key:             d.Format(domain.DateFormat),
		IsCurrentPeriod: current,
		IsToday:         d.Equal(today),
		Appointments:    []domain.Appointment{},
	}
}
