package reap_stale_drafts

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BookingOps/internal/domain"
	"github.com/m04kA/SMC-BookingOps/internal/infra/storage/memory"
	"github.com/m04kA/SMC-BookingOps/pkg/keylock"
	"github.com/m04kA/SMC-BookingOps/pkg/logger"
	"github.com/m04kA/SMC-BookingOps/pkg/txmanager"
)

type fixedTime struct{ now time.Time }

func (f *fixedTime) Now() time.Time { return f.now }

type countingMetrics struct {
	mu          sync.Mutex
	reaped      int
	transitions int
}

func (m *countingMetrics) RecordTransition(entity, from, to string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transitions++
}

func (m *countingMetrics) AddReaped(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reaped += n
}

var now = time.Date(2025, 4, 15, 12, 0, 0, 0, time.UTC)

func addBooking(t *testing.T, store *memory.Store, id string, status domain.BookingStatus, age time.Duration) {
	t.Helper()
	_, err := store.Bookings().Create(context.Background(), &domain.Booking{
		ID:              id,
		CustomerID:      "c1",
		ServiceCode:     "wash-basic",
		ScheduledDate:   time.Date(2025, 4, 20, 0, 0, 0, 0, time.UTC),
		DurationMinutes: 60,
		Amount:          decimal.RequireFromString("350.00"),
		Status:          status,
		PaymentStatus:   domain.PaymentUnpaid,
		CreatedAt:       now.Add(-age),
	})
	require.NoError(t, err)
}

func newUseCase(store *memory.Store, m Metrics, batch int) *UseCase {
	return NewUseCase(store.Bookings(), keylock.New(), txmanager.Nop{}, m, batch, time.Second, logger.Nop()).
		WithTimeProvider(&fixedTime{now: now})
}

func TestExecute_ExpiresOnlyStaleDrafts(t *testing.T) {
	store := memory.NewStore().WithClock(func() time.Time { return now })
	addBooking(t, store, "old-draft", domain.StatusDraft, 2*time.Hour)
	addBooking(t, store, "fresh-draft", domain.StatusDraft, 5*time.Minute)
	addBooking(t, store, "old-pending", domain.StatusPending, 3*time.Hour)

	m := &countingMetrics{}
	count, err := newUseCase(store, m, 10).Execute(context.Background(), 30*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, 1, m.reaped)
	assert.Equal(t, 1, m.transitions)

	ctx := context.Background()
	expired, err := store.Bookings().GetByID(ctx, "old-draft")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusExpired, expired.Status)
	assert.True(t, expired.IsCancelled())

	fresh, err := store.Bookings().GetByID(ctx, "fresh-draft")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDraft, fresh.Status)

	pending, err := store.Bookings().GetByID(ctx, "old-pending")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, pending.Status)
}

func TestExecute_WalksAllBatches(t *testing.T) {
	store := memory.NewStore().WithClock(func() time.Time { return now })
	for i := 0; i < 7; i++ {
		addBooking(t, store, fmt.Sprintf("d%d", i), domain.StatusDraft, time.Hour+time.Duration(i)*time.Minute)
	}

	count, err := newUseCase(store, &countingMetrics{}, 3).Execute(context.Background(), 30*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 7, count)

	again, err := newUseCase(store, &countingMetrics{}, 3).Execute(context.Background(), 30*time.Minute)
	require.NoError(t, err)
	assert.Zero(t, again)
}

// stuckLocker никогда не отдает блокировку указанных бронирований
type stuckLocker struct {
	stuck map[string]bool
}

func (l *stuckLocker) Lock(ctx context.Context, key string) (func(), error) {
	if l.stuck[key] {
		return nil, errors.New("held by another instance")
	}
	return func() {}, nil
}

func TestExecute_StuckDraftsDoNotHideNewerOnes(t *testing.T) {
	store := memory.NewStore().WithClock(func() time.Time { return now })
	addBooking(t, store, "stuck-1", domain.StatusDraft, 4*time.Hour)
	addBooking(t, store, "stuck-2", domain.StatusDraft, 3*time.Hour)
	addBooking(t, store, "d1", domain.StatusDraft, 2*time.Hour)
	addBooking(t, store, "d2", domain.StatusDraft, time.Hour)

	locker := &stuckLocker{stuck: map[string]bool{
		domain.BookingLockKey("stuck-1"): true,
		domain.BookingLockKey("stuck-2"): true,
	}}
	uc := NewUseCase(store.Bookings(), locker, txmanager.Nop{}, &countingMetrics{}, 2, time.Second, logger.Nop()).
		WithTimeProvider(&fixedTime{now: now})

	count, err := uc.Execute(context.Background(), 30*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	ctx := context.Background()
	for id, want := range map[string]domain.BookingStatus{
		"stuck-1": domain.StatusDraft,
		"stuck-2": domain.StatusDraft,
		"d1":      domain.StatusExpired,
		"d2":      domain.StatusExpired,
	} {
		b, err := store.Bookings().GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, want, b.Status, id)
	}
}

func TestExecute_InvalidAge(t *testing.T) {
	_, err := newUseCase(memory.NewStore(), &countingMetrics{}, 10).Execute(context.Background(), 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestWorker_RunsUntilCancelled(t *testing.T) {
	store := memory.NewStore().WithClock(func() time.Time { return now })
	addBooking(t, store, "old-draft", domain.StatusDraft, 2*time.Hour)

	m := &countingMetrics{}
	w := NewWorker(newUseCase(store, m, 10), 10*time.Millisecond, 30*time.Minute, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		m.mu.Lock()
		defer m.mu.Unlock()
		return m.reaped == 1
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}
