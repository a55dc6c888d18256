package domain

import "github.com/shopspring/decimal"

// CatalogService is a bookable service with its base price
// Price is charged for BaseDurationMinutes and scaled by the booked duration
type CatalogService struct {
	Code                string
	Name                string
	Price               decimal.Decimal
	BaseDurationMinutes int
}

// PriceFor returns the amount for the given duration rounded to cents
func (s CatalogService) PriceFor(durationMinutes int) decimal.Decimal {
	if s.BaseDurationMinutes <= 0 || durationMinutes == s.BaseDurationMinutes {
		return s.Price.Round(2)
	}
	return s.Price.
		Mul(decimal.NewFromInt(int64(durationMinutes))).
		Div(decimal.NewFromInt(int64(s.BaseDurationMinutes))).
		Round(2)
}
