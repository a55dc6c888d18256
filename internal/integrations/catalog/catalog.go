// Package catalog справочник услуг и цен, загруженный из конфигурации
package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-BookingOps/internal/config"
	"github.com/m04kA/SMC-BookingOps/internal/domain"
)

var (
	// ErrServiceNotFound возвращается, когда услуги с таким кодом нет в каталоге
	ErrServiceNotFound = errors.New("catalog: service not found")

	// ErrInvalidEntry возвращается для записи каталога с некорректной ценой или длительностью
	ErrInvalidEntry = errors.New("catalog: invalid entry")
)

// Catalog неизменяемый справочник услуг
type Catalog struct {
	services map[string]domain.CatalogService
}

// New собирает каталог из готовых услуг
func New(services ...domain.CatalogService) *Catalog {
	c := &Catalog{services: make(map[string]domain.CatalogService, len(services))}
	for _, s := range services {
		c.services[normalize(s.Code)] = s
	}
	return c
}

// FromConfig собирает каталог из секции [[catalog]]
func FromConfig(entries []config.CatalogEntry) (*Catalog, error) {
	services := make([]domain.CatalogService, 0, len(entries))
	for _, e := range entries {
		price, err := decimal.NewFromString(strings.TrimSpace(e.Price))
		if err != nil {
			return nil, fmt.Errorf("%w: %s price %q: %v", ErrInvalidEntry, e.Code, e.Price, err)
		}
		if price.IsNegative() || e.BaseDurationMinutes <= 0 {
			return nil, fmt.Errorf("%w: %s", ErrInvalidEntry, e.Code)
		}
		services = append(services, domain.CatalogService{
			Code:                e.Code,
			Name:                e.Name,
			Price:               price,
			BaseDurationMinutes: e.BaseDurationMinutes,
		})
	}
	return New(services...), nil
}

// Get возвращает услугу по коду (без учета регистра)
func (c *Catalog) Get(code string) (domain.CatalogService, error) {
	s, ok := c.services[normalize(code)]
	if !ok {
		return domain.CatalogService{}, fmt.Errorf("%w: %q", ErrServiceNotFound, code)
	}
	return s, nil
}

// List возвращает все услуги, отсортированные по коду
func (c *Catalog) List() []domain.CatalogService {
	out := make([]domain.CatalogService, 0, len(c.services))
	for _, s := range c.services {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

func normalize(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}
