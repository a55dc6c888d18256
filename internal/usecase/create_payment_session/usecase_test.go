package create_payment_session

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BookingOps/internal/domain"
	"github.com/m04kA/SMC-BookingOps/internal/infra/storage/memory"
	"github.com/m04kA/SMC-BookingOps/internal/integrations/stripepay"
	"github.com/m04kA/SMC-BookingOps/pkg/logger"
)

type failingProvider struct{}

func (failingProvider) CreateSession(ctx context.Context, bookingID string, amount decimal.Decimal, returnURL string) (*stripepay.Session, error) {
	return nil, errors.New("provider unavailable")
}

func seed(t *testing.T, store *memory.Store, id string, status domain.BookingStatus, amount string) {
	t.Helper()
	_, err := store.Bookings().Create(context.Background(), &domain.Booking{
		ID:              id,
		CustomerID:      "c1",
		ServiceCode:     "wash-basic",
		ScheduledDate:   time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC),
		DurationMinutes: 60,
		Amount:          decimal.RequireFromString(amount),
		Status:          status,
		PaymentStatus:   domain.PaymentUnpaid,
	})
	require.NoError(t, err)
}

func TestExecute_CreatesSessionForDraft(t *testing.T) {
	store := memory.NewStore()
	seed(t, store, "b1", domain.StatusDraft, "350.00")

	stripe := stripepay.NewClient(stripepay.Config{SuccessURL: "https://shop.test/bookings/{booking_id}/paid"}, logger.Nop())
	uc := NewUseCase(store.Bookings(), stripe, logger.Nop())

	resp, err := uc.Execute(context.Background(), &Request{BookingID: "b1", CustomerID: "c1"})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(resp.SessionID, "cs_local_"))
	assert.Contains(t, resp.SessionURL, "https://shop.test/bookings/b1/paid")
	assert.Contains(t, resp.SessionURL, resp.SessionID)
}

func TestExecute_Rejections(t *testing.T) {
	store := memory.NewStore()
	seed(t, store, "draft", domain.StatusDraft, "350.00")
	seed(t, store, "pending", domain.StatusPending, "350.00")
	seed(t, store, "free", domain.StatusDraft, "0")

	uc := NewUseCase(store.Bookings(), stripepay.NewClient(stripepay.Config{}, logger.Nop()), logger.Nop())

	tests := []struct {
		name    string
		req     *Request
		wantErr error
	}{
		{"missing customer", &Request{BookingID: "draft"}, ErrInvalidInput},
		{"unknown booking", &Request{BookingID: "nope", CustomerID: "c1"}, ErrBookingNotFound},
		{"foreign booking", &Request{BookingID: "draft", CustomerID: "c2"}, ErrAccessDenied},
		{"already submitted", &Request{BookingID: "pending", CustomerID: "c1"}, ErrNotPayable},
		{"nothing to pay", &Request{BookingID: "free", CustomerID: "c1"}, ErrNotPayable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestExecute_ProviderFailure(t *testing.T) {
	store := memory.NewStore()
	seed(t, store, "b1", domain.StatusDraft, "350.00")

	uc := NewUseCase(store.Bookings(), failingProvider{}, logger.Nop())

	_, err := uc.Execute(context.Background(), &Request{BookingID: "b1", CustomerID: "c1"})
	assert.ErrorIs(t, err, ErrInternal)
}
