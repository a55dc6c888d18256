package appointments

import (
	"sort"
	"strings"

	"github.com/m04kA/SMC-BookingOps/internal/domain"
	"github.com/m04kA/SMC-BookingOps/pkg/listquery"
)

// Filters фильтры календаря, пустое значение или "all" не фильтрует
type Filters struct {
	Search string // подстрока без учета регистра по id, клиенту, услуге и адресу
	Status string // точное совпадение статуса записи
	Branch string // подстрока без учета регистра по филиалу
}

// Matches проверяет, что запись проходит все фильтры
func (f Filters) Matches(a domain.Appointment) bool {
	if !listquery.IsAll(f.Search) {
		needle := strings.ToLower(strings.TrimSpace(f.Search))
		if !containsFold(a.ID, needle) &&
			!containsFold(a.CustomerID, needle) &&
			!containsFold(a.ServiceCode, needle) &&
			!containsFold(a.Address, needle) {
			return false
		}
	}

	if !listquery.IsAll(f.Status) && string(a.Status) != strings.TrimSpace(f.Status) {
		return false
	}

	if !listquery.IsAll(f.Branch) && !containsFold(a.BranchID, strings.ToLower(strings.TrimSpace(f.Branch))) {
		return false
	}

	return true
}

// Aggregate раскладывает записи по дням сетки
// Ключ - YYYY-MM-DD, для каждой ячейки сетки есть ключ (возможно с пустым списком)
// Записи вне сетки отбрасываются, внутри дня сортировка по времени (без времени - первыми), затем по ID
// Входной слайс не меняется, повторный вызов на тех же данных дает тот же результат
func Aggregate(list []domain.Appointment, cells []domain.CalendarCell, filters Filters) map[string][]domain.Appointment {
	grouped := make(map[string][]domain.Appointment, len(cells))
	for _, c := range cells {
		grouped[c.Key] = []domain.Appointment{}
	}

	for _, a := range list {
		key := a.DateKey()
		day, ok := grouped[key]
		if !ok {
			continue
		}
		if !filters.Matches(a) {
			continue
		}
		grouped[key] = append(day, a)
	}

	for key := range grouped {
		SortDay(grouped[key])
	}

	return grouped
}

// Project возвращает новые ячейки с заполненными списками записей
func Project(cells []domain.CalendarCell, grouped map[string][]domain.Appointment) []domain.CalendarCell {
	out := make([]domain.CalendarCell, len(cells))
	for i, c := range cells {
		c.Appointments = append([]domain.Appointment{}, grouped[c.Key]...)
		out[i] = c
	}
	return out
}

// Flatten возвращает записи сетки одним списком в порядке дата, время, ID
func Flatten(cells []domain.CalendarCell, grouped map[string][]domain.Appointment) []domain.Appointment {
	out := make([]domain.Appointment, 0)
	for _, c := range cells {
		out = append(out, grouped[c.Key]...)
	}
	return out
}

// SortDay сортирует записи одного дня на месте
func SortDay(day []domain.Appointment) {
	sort.SliceStable(day, func(i, j int) bool {
		ti, tj := timeKey(day[i]), timeKey(day[j])
		if ti != tj {
			return ti < tj
		}
		return day[i].ID < day[j].ID
	})
}

// timeKey минуты от полуночи, -1 для записи без времени
func timeKey(a domain.Appointment) int {
	if !a.HasTime() {
		return -1
	}
	m, err := a.Time.Minutes()
	if err != nil {
		return -1
	}
	return m
}

func containsFold(s, lowerNeedle string) bool {
	return strings.Contains(strings.ToLower(s), lowerNeedle)
}
