package bookings

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-BookingOps/internal/domain"
	staffRepo "github.com/m04kA/SMC-BookingOps/internal/infra/storage/staff"
	"github.com/m04kA/SMC-BookingOps/pkg/listquery"
)

// bookingSchema поля бронирования, доступные для поиска, фильтров и сортировки
var bookingSchema = listquery.Schema[*domain.Booking]{
	"id":              listquery.StringField(func(b *domain.Booking) string { return b.ID }),
	"customerId":      listquery.StringField(func(b *domain.Booking) string { return b.CustomerID }),
	"serviceCode":     listquery.StringField(func(b *domain.Booking) string { return b.ServiceCode }),
	"branchId":        listquery.StringField(func(b *domain.Booking) string { return b.BranchID }),
	"address":         listquery.StringField(func(b *domain.Booking) string { return b.Address }),
	"status":          listquery.StringField(func(b *domain.Booking) string { return string(b.Status) }),
	"paymentStatus":   listquery.StringField(func(b *domain.Booking) string { return string(b.PaymentStatus) }),
	"scheduledTime":   listquery.StringField(scheduledTimeOf),
	"amount":          listquery.NumberField(func(b *domain.Booking) float64 { return b.Amount.InexactFloat64() }),
	"durationMinutes": listquery.NumberField(func(b *domain.Booking) float64 { return float64(b.DurationMinutes) }),
	"scheduledDate":   listquery.TimeField(func(b *domain.Booking) time.Time { return b.ScheduledDate }),
	"createdAt":       listquery.TimeField(func(b *domain.Booking) time.Time { return b.CreatedAt }),
}

var bookingSearchFields = []string{"id", "customerId", "serviceCode", "address"}

func scheduledTimeOf(b *domain.Booking) string {
	if b.ScheduledTime == nil {
		return ""
	}
	return b.ScheduledTime.String()
}

func isNotFound(err error) bool {
	return errors.Is(err, staffRepo.ErrStaffNotFound)
}
