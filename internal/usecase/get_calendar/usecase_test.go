package get_calendar

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BookingOps/internal/domain"
	"github.com/m04kA/SMC-BookingOps/internal/infra/storage/memory"
	"github.com/m04kA/SMC-BookingOps/internal/service/calendar"
	"github.com/m04kA/SMC-BookingOps/pkg/logger"
	"github.com/m04kA/SMC-BookingOps/pkg/ptr"
	"github.com/m04kA/SMC-BookingOps/pkg/types"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

var operator = domain.Actor{ID: "op1", Role: domain.RoleStaff}

func seed(t *testing.T) *memory.Store {
	t.Helper()
	store := memory.NewStore()
	add := func(id, date, at, branch string, status domain.BookingStatus) {
		d, err := time.Parse(domain.DateFormat, date)
		require.NoError(t, err)
		b := &domain.Booking{
			ID:              id,
			CustomerID:      "c-" + id,
			ServiceCode:     "wash-basic",
			BranchID:        branch,
			ScheduledDate:   d,
			DurationMinutes: 30,
			Status:          status,
		}
		if at != "" {
			b.ScheduledTime = ptr.Ptr(types.TimeString(at))
		}
		_, err = store.Bookings().Create(context.Background(), b)
		require.NoError(t, err)
	}

	add("a1", "2025-04-15", "09:15", "north", domain.StatusConfirmed)
	add("a2", "2025-04-15", "09:00", "south", domain.StatusPending)
	add("a3", "2025-04-15", "", "north", domain.StatusPending)
	add("a4", "2025-04-18", "14:00", "north", domain.StatusCompleted)
	add("a5", "2025-04-15", "10:00", "north", domain.StatusDraft)
	add("a6", "2025-04-30", "10:00", "north", domain.StatusPending)
	return store
}

func newUseCase(store *memory.Store) *UseCase {
	grid := calendar.NewGridBuilder(fixedClock{now: time.Date(2025, 4, 16, 10, 0, 0, 0, time.UTC)})
	return NewUseCase(store.Appointments(), grid, domain.DefaultSlotsConfig(), logger.Nop())
}

func ids(list []domain.Appointment) []string {
	out := make([]string, 0, len(list))
	for _, a := range list {
		out = append(out, a.ID)
	}
	return out
}

func TestExecute_WeekView(t *testing.T) {
	uc := newUseCase(seed(t))

	resp, err := uc.Execute(context.Background(), &Request{Actor: operator, Date: "2025-04-15", View: "week"})
	require.NoError(t, err)

	require.Len(t, resp.Cells, 7)
	assert.Equal(t, "2025-04-14", resp.From.Format(domain.DateFormat))
	assert.Equal(t, "2025-04-20", resp.To.Format(domain.DateFormat))

	tuesday := resp.Cells[1]
	assert.Equal(t, "2025-04-15", tuesday.Key)
	assert.Equal(t, []string{"a3", "a2", "a1"}, ids(tuesday.Appointments), "untimed first, drafts hidden")
	assert.True(t, resp.Cells[2].IsToday)
	assert.Equal(t, []string{"a4"}, ids(resp.Cells[4].Appointments))
}

func TestExecute_DefaultsToCurrentWeek(t *testing.T) {
	uc := newUseCase(seed(t))

	resp, err := uc.Execute(context.Background(), &Request{Actor: operator})
	require.NoError(t, err)
	assert.Equal(t, calendar.Week, resp.View)
	assert.Equal(t, "2025-04-14", resp.From.Format(domain.DateFormat))
}

func TestExecute_ListViewWithFilters(t *testing.T) {
	uc := newUseCase(seed(t))

	resp, err := uc.Execute(context.Background(), &Request{
		Actor:  operator,
		Date:   "2025-04-15",
		View:   "list",
		Branch: "NORTH",
	})
	require.NoError(t, err)

	assert.Nil(t, resp.Cells)
	assert.Equal(t, []string{"a3", "a1", "a4", "a6"}, ids(resp.Appointments))

	resp, err = uc.Execute(context.Background(), &Request{
		Actor:  operator,
		Date:   "2025-04-15",
		View:   "list",
		Status: "pending",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a3", "a2", "a6"}, ids(resp.Appointments))
}

func TestExecute_DaySlots(t *testing.T) {
	uc := newUseCase(seed(t))

	resp, err := uc.Execute(context.Background(), &Request{Actor: operator, Date: "2025-04-15", View: "day", WithSlots: true})
	require.NoError(t, err)

	require.Len(t, resp.Slots, 20)
	nine := resp.Slots[2]
	assert.Equal(t, "09:00", nine.StartTime.String())
	assert.Equal(t, []string{"a2", "a1"}, ids(nine.Appointments))
	assert.True(t, nine.IsDoubleBooked())
}

func TestExecute_Rejections(t *testing.T) {
	uc := newUseCase(seed(t))
	ctx := context.Background()

	_, err := uc.Execute(ctx, &Request{Actor: domain.Actor{ID: "c1", Role: domain.RoleCustomer}})
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = uc.Execute(ctx, &Request{Actor: operator, View: "year"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(ctx, &Request{Actor: operator, Date: "15.04.2025"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(ctx, &Request{Actor: operator, Date: "2025-04-15", View: "week", WithSlots: true})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
