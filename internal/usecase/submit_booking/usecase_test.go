package submit_booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BookingOps/internal/domain"
	"github.com/m04kA/SMC-BookingOps/internal/infra/storage/memory"
	"github.com/m04kA/SMC-BookingOps/internal/integrations/catalog"
	"github.com/m04kA/SMC-BookingOps/pkg/logger"
	"github.com/m04kA/SMC-BookingOps/pkg/metrics"
	"github.com/m04kA/SMC-BookingOps/pkg/ptr"
	"github.com/m04kA/SMC-BookingOps/pkg/txmanager"
	"github.com/m04kA/SMC-BookingOps/pkg/types"
)

type fixedTime struct{ now time.Time }

func (f *fixedTime) Now() time.Time { return f.now }

type countingNotifier struct {
	templates []string
	err       error
}

func (n *countingNotifier) Notify(ctx context.Context, recipient, template string, data map[string]string) error {
	n.templates = append(n.templates, template)
	return n.err
}

func newUseCase(t *testing.T) (*UseCase, *memory.Store, *countingNotifier) {
	t.Helper()
	store := memory.NewStore()
	cat := catalog.New(
		domain.CatalogService{Code: "wash-basic", Name: "Basic wash", Price: decimal.RequireFromString("350.00"), BaseDurationMinutes: 60},
		domain.CatalogService{Code: "inspection", Name: "Inspection", Price: decimal.Zero, BaseDurationMinutes: 30},
	)
	n := &countingNotifier{}
	uc := NewUseCase(store.Bookings(), cat, txmanager.Nop{}, n, metrics.Nop{}, logger.Nop()).
		WithTimeProvider(&fixedTime{now: time.Date(2025, 4, 10, 15, 0, 0, 0, time.UTC)})
	return uc, store, n
}

func day(s string) time.Time {
	d, _ := time.Parse(domain.DateFormat, s)
	return d
}

func TestExecute_PaidServiceStartsAsDraft(t *testing.T) {
	uc, store, n := newUseCase(t)

	resp, err := uc.Execute(context.Background(), &Request{
		CustomerID:  "c1",
		ServiceCode: "wash-basic",
		Date:        day("2025-04-15"),
		Time:        ptr.Ptr(types.TimeString("09:15")),
		Address:     "  Main st 1 ",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusDraft, resp.Status)
	assert.True(t, resp.RequiresPayment)
	assert.Equal(t, "350.00", resp.Amount.StringFixed(2))
	assert.Empty(t, n.templates, "draft waits for payment before the customer is notified")

	stored, err := store.Bookings().GetByID(context.Background(), resp.BookingID)
	require.NoError(t, err)
	assert.Equal(t, 60, stored.DurationMinutes)
	assert.Equal(t, "Main st 1", stored.Address)
	assert.Equal(t, domain.PaymentUnpaid, stored.PaymentStatus)
	assert.Equal(t, "09:15", stored.ScheduledTime.String())
}

func TestExecute_AmountScalesWithDuration(t *testing.T) {
	uc, _, _ := newUseCase(t)

	resp, err := uc.Execute(context.Background(), &Request{
		CustomerID:      "c1",
		ServiceCode:     "wash-basic",
		Date:            day("2025-04-15"),
		DurationMinutes: 90,
	})
	require.NoError(t, err)
	assert.Equal(t, "525.00", resp.Amount.StringFixed(2))
}

func TestExecute_FreeServiceGoesStraightToPending(t *testing.T) {
	uc, _, n := newUseCase(t)

	resp, err := uc.Execute(context.Background(), &Request{
		CustomerID:  "c1",
		ServiceCode: "INSPECTION",
		Date:        day("2025-04-10"),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusPending, resp.Status)
	assert.False(t, resp.RequiresPayment)
	assert.Equal(t, []string{domain.NotifyBookingReceived}, n.templates)
}

func TestExecute_NotifyFailureDoesNotFailSubmission(t *testing.T) {
	uc, _, n := newUseCase(t)
	n.err = errors.New("broker down")

	resp, err := uc.Execute(context.Background(), &Request{
		CustomerID:  "c1",
		ServiceCode: "inspection",
		Date:        day("2025-04-11"),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, resp.Status)
}

func TestExecute_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		req     *Request
		wantErr error
	}{
		{
			name:    "missing customer",
			req:     &Request{ServiceCode: "wash-basic", Date: day("2025-04-15")},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "missing date",
			req:     &Request{CustomerID: "c1", ServiceCode: "wash-basic"},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "bad time",
			req:     &Request{CustomerID: "c1", ServiceCode: "wash-basic", Date: day("2025-04-15"), Time: ptr.Ptr(types.TimeString("25:00"))},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "duration too short",
			req:     &Request{CustomerID: "c1", ServiceCode: "wash-basic", Date: day("2025-04-15"), DurationMinutes: 3},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "duration too long",
			req:     &Request{CustomerID: "c1", ServiceCode: "wash-basic", Date: day("2025-04-15"), DurationMinutes: 481},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "date in the past",
			req:     &Request{CustomerID: "c1", ServiceCode: "wash-basic", Date: day("2025-04-09")},
			wantErr: ErrInvalidDate,
		},
		{
			name:    "unknown service",
			req:     &Request{CustomerID: "c1", ServiceCode: "polish", Date: day("2025-04-15")},
			wantErr: ErrServiceNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, _, _ := newUseCase(t)
			_, err := uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
