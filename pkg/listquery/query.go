// Package listquery реализует поиск, фильтрацию, сортировку и пагинацию
// поверх произвольной коллекции. Используется всеми списками админки.
package listquery

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// AllSentinel значение фильтра, отключающее его
const AllSentinel = "all"

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// FieldKind тип поля для сортировки
type FieldKind int

const (
	KindString FieldKind = iota
	KindNumber
	KindTime
)

// SortDir направление сортировки
type SortDir string

const (
	Asc  SortDir = "asc"
	Desc SortDir = "desc"
)

// ParseSortDir парсит направление сортировки, по умолчанию asc
func ParseSortDir(s string) SortDir {
	if strings.EqualFold(strings.TrimSpace(s), string(Desc)) {
		return Desc
	}
	return Asc
}

// Field описание поля элемента коллекции
type Field[T any] struct {
	Kind   FieldKind
	String func(T) string
	Number func(T) float64
	Time   func(T) time.Time
}

// StringField строковое поле
func StringField[T any](fn func(T) string) Field[T] {
	return Field[T]{Kind: KindString, String: fn}
}

// NumberField числовое поле
func NumberField[T any](fn func(T) float64) Field[T] {
	return Field[T]{Kind: KindNumber, Number: fn}
}

// TimeField поле даты/времени
func TimeField[T any](fn func(T) time.Time) Field[T] {
	return Field[T]{Kind: KindTime, Time: fn}
}

// text возвращает строковое представление поля для поиска и фильтров
// Даты сравниваются в формате YYYY-MM-DD
func (f Field[T]) text(item T) string {
	switch f.Kind {
	case KindNumber:
		return strconv.FormatFloat(f.Number(item), 'f', -1, 64)
	case KindTime:
		return f.Time(item).Format("2006-01-02")
	default:
		return f.String(item)
	}
}

func (f Field[T]) compare(a, b T) int {
	switch f.Kind {
	case KindNumber:
		x, y := f.Number(a), f.Number(b)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		default:
			return 0
		}
	case KindTime:
		return f.Time(a).Compare(f.Time(b))
	default:
		return strings.Compare(f.String(a), f.String(b))
	}
}

// Schema именованные поля коллекции
type Schema[T any] map[string]Field[T]

// Params параметры запроса к списку
type Params struct {
	Search       string
	SearchFields []string
	Filters      map[string]string
	SortKey      string
	SortDir      SortDir
	Page         int
	PageSize     int
}

// Page страница результата
type Page[T any] struct {
	Items      []T
	TotalCount int
	TotalPages int
	Page       int
	PageSize   int
}

// Query применяет поиск, фильтры, сортировку и пагинацию к коллекции
// Исходный слайс не модифицируется
func Query[T any](items []T, schema Schema[T], p Params) Page[T] {
	page, pageSize := normalizePaging(p.Page, p.PageSize)

	filtered := make([]T, 0, len(items))
	search := strings.ToLower(strings.TrimSpace(p.Search))

	for _, item := range items {
		if !matchesSearch(item, schema, p.SearchFields, search) {
			continue
		}
		if !matchesFilters(item, schema, p.Filters) {
			continue
		}
		filtered = append(filtered, item)
	}

	if field, ok := schema[p.SortKey]; ok {
		desc := p.SortDir == Desc
		sort.SliceStable(filtered, func(i, j int) bool {
			if desc {
				return field.compare(filtered[j], filtered[i]) < 0
			}
			return field.compare(filtered[i], filtered[j]) < 0
		})
	}

	total := len(filtered)
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	start := (page - 1) * pageSize
	result := make([]T, 0, pageSize)
	if start < total {
		end := start + pageSize
		if end > total {
			end = total
		}
		result = append(result, filtered[start:end]...)
	}

	return Page[T]{
		Items:      result,
		TotalCount: total,
		TotalPages: totalPages,
		Page:       page,
		PageSize:   pageSize,
	}
}

func normalizePaging(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}

// matchesSearch - подстрока без учета регистра хотя бы в одном из полей
func matchesSearch[T any](item T, schema Schema[T], fields []string, search string) bool {
	if search == "" {
		return true
	}
	for _, name := range fields {
		field, ok := schema[name]
		if !ok {
			continue
		}
		if strings.Contains(strings.ToLower(field.text(item)), search) {
			return true
		}
	}
	return false
}

// matchesFilters - точное совпадение по каждому фильтру, "all" и пустое значение пропускаются
func matchesFilters[T any](item T, schema Schema[T], filters map[string]string) bool {
	for name, want := range filters {
		if IsAll(want) {
			continue
		}
		field, ok := schema[name]
		if !ok {
			continue
		}
		if field.text(item) != want {
			return false
		}
	}
	return true
}

// IsAll возвращает true для значений фильтра, которые его отключают
func IsAll(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || strings.EqualFold(v, AllSentinel)
}
