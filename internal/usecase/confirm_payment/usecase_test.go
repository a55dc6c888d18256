package confirm_payment

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BookingOps/internal/domain"
	"github.com/m04kA/SMC-BookingOps/internal/infra/storage/memory"
	"github.com/m04kA/SMC-BookingOps/internal/service/transitions"
	"github.com/m04kA/SMC-BookingOps/pkg/keylock"
	"github.com/m04kA/SMC-BookingOps/pkg/logger"
	"github.com/m04kA/SMC-BookingOps/pkg/metrics"
	"github.com/m04kA/SMC-BookingOps/pkg/txmanager"
)

type recordingNotifier struct {
	mu        sync.Mutex
	templates []string
}

func (n *recordingNotifier) Notify(ctx context.Context, recipient, template string, data map[string]string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.templates = append(n.templates, template)
	return nil
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.templates)
}

func setup(t *testing.T, status domain.BookingStatus) (*UseCase, *memory.Store, *recordingNotifier) {
	t.Helper()
	store := memory.NewStore()
	_, err := store.Bookings().Create(context.Background(), &domain.Booking{
		ID:              "b1",
		CustomerID:      "c1",
		ServiceCode:     "wash-basic",
		ScheduledDate:   time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC),
		DurationMinutes: 60,
		Amount:          decimal.RequireFromString("350.00"),
		Status:          status,
		PaymentStatus:   domain.PaymentUnpaid,
	})
	require.NoError(t, err)

	n := &recordingNotifier{}
	uc := NewUseCase(store.Bookings(), keylock.New(), txmanager.Nop{}, n, metrics.Nop{}, time.Second, logger.Nop())
	return uc, store, n
}

func TestExecute_SuccessMovesDraftToPending(t *testing.T) {
	uc, _, n := setup(t, domain.StatusDraft)

	b, err := uc.Execute(context.Background(), &PaymentResult{BookingID: "b1", PaymentToken: "t1", Success: true})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusPending, b.Status)
	assert.Equal(t, domain.PaymentPaid, b.PaymentStatus)
	require.NotNil(t, b.PaymentToken)
	assert.Equal(t, "t1", *b.PaymentToken)
	assert.Equal(t, []string{domain.NotifyBookingReceived}, n.templates)
}

func TestExecute_SameTokenIsIdempotent(t *testing.T) {
	uc, store, n := setup(t, domain.StatusDraft)
	ctx := context.Background()

	first, err := uc.Execute(ctx, &PaymentResult{BookingID: "b1", PaymentToken: "t1", Success: true})
	require.NoError(t, err)

	second, err := uc.Execute(ctx, &PaymentResult{BookingID: "b1", PaymentToken: "t1", Success: true})
	require.NoError(t, err)

	assert.Equal(t, first.Version, second.Version)
	assert.Equal(t, first.Status, second.Status)
	assert.Equal(t, 1, n.count())

	stored, err := store.Bookings().GetByID(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, first.Version, stored.Version)
}

func TestExecute_SameTokenAfterConfirmationIsNoop(t *testing.T) {
	uc, store, _ := setup(t, domain.StatusDraft)
	ctx := context.Background()

	_, err := uc.Execute(ctx, &PaymentResult{BookingID: "b1", PaymentToken: "t1", Success: true})
	require.NoError(t, err)

	b, err := store.Bookings().GetByID(ctx, "b1")
	require.NoError(t, err)
	b.Status = domain.StatusConfirmed
	_, err = store.Bookings().Save(ctx, b)
	require.NoError(t, err)

	again, err := uc.Execute(ctx, &PaymentResult{BookingID: "b1", PaymentToken: "t1", Success: true})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, again.Status)
}

func TestExecute_DifferentTokenOnPaidBooking(t *testing.T) {
	uc, _, _ := setup(t, domain.StatusDraft)
	ctx := context.Background()

	_, err := uc.Execute(ctx, &PaymentResult{BookingID: "b1", PaymentToken: "t1", Success: true})
	require.NoError(t, err)

	_, err = uc.Execute(ctx, &PaymentResult{BookingID: "b1", PaymentToken: "t2", Success: true})
	assert.ErrorIs(t, err, ErrPaymentAlreadyRecorded)
}

func TestExecute_FailureLeavesDraft(t *testing.T) {
	uc, _, n := setup(t, domain.StatusDraft)

	b, err := uc.Execute(context.Background(), &PaymentResult{BookingID: "b1", PaymentToken: "t1", Success: false})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusDraft, b.Status)
	assert.Equal(t, domain.PaymentUnpaid, b.PaymentStatus)
	assert.Nil(t, b.PaymentToken)
	assert.Zero(t, n.count())
}

func TestExecute_ExpiredDraftIsTerminal(t *testing.T) {
	uc, _, _ := setup(t, domain.StatusExpired)

	_, err := uc.Execute(context.Background(), &PaymentResult{BookingID: "b1", PaymentToken: "t1", Success: true})
	assert.ErrorIs(t, err, transitions.ErrTerminalState)
	assert.Equal(t, "terminal-state", transitions.ReasonOf(err))
}

func TestExecute_Validation(t *testing.T) {
	uc, _, _ := setup(t, domain.StatusDraft)
	ctx := context.Background()

	_, err := uc.Execute(ctx, &PaymentResult{BookingID: "b1"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(ctx, &PaymentResult{BookingID: "missing", PaymentToken: "t1", Success: true})
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestExecute_ConcurrentDeliveriesApplyOnce(t *testing.T) {
	uc, store, n := setup(t, domain.StatusDraft)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = uc.Execute(ctx, &PaymentResult{BookingID: "b1", PaymentToken: "t1", Success: true})
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, 1, n.count())

	stored, err := store.Bookings().GetByID(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), stored.Version)
}
