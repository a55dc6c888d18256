package submit_booking

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-BookingOps/internal/domain"
	"github.com/m04kA/SMC-BookingOps/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	CustomerID  string    `validate:"required,max=64"`
	ServiceCode string    `validate:"required,max=64"`
	BranchID    string    `validate:"max=64"`
	Date        time.Time `validate:"required"` // Дата (без времени)

	// Время начала, опционально
	Time *types.TimeString

	// 0 - базовая длительность услуги
	DurationMinutes int `validate:"omitempty,min=5,max=480"`

	Address string  `validate:"max=500"`
	Notes   *string `validate:"omitempty,max=500"`
}

// Response результат создания бронирования
type Response struct {
	BookingID       string
	Amount          decimal.Decimal
	RequiresPayment bool
	Status          domain.BookingStatus
	Booking         *domain.Booking
}
