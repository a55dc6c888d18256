package appointments

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BookingOps/internal/domain"
	"github.com/m04kA/SMC-BookingOps/internal/service/calendar"
	"github.com/m04kA/SMC-BookingOps/pkg/types"
)

type fixedClock struct{}

func (fixedClock) Now() time.Time { return time.Date(2025, 4, 16, 12, 0, 0, 0, time.UTC) }

func appt(id, date string, at string, status domain.AppointmentStatus) domain.Appointment {
	d, _ := time.Parse(domain.DateFormat, date)
	a := domain.Appointment{
		ID:          id,
		CustomerID:  "cust-" + id,
		ServiceCode: "wash",
		Address:     "Main st 1",
		BranchID:    "north",
		Date:        d,
		Status:      status,
	}
	if at != "" {
		ts := types.TimeString(at)
		a.Time = &ts
	}
	return a
}

func weekCells(t *testing.T) []domain.CalendarCell {
	t.Helper()
	cells, err := calendar.NewGridBuilder(fixedClock{}).BuildGridFromString("2025-04-15", calendar.Week)
	require.NoError(t, err)
	return cells
}

func ids(list []domain.Appointment) []string {
	out := make([]string, 0, len(list))
	for _, a := range list {
		out = append(out, a.ID)
	}
	return out
}

func TestAggregate_GroupsAndSortsByTime(t *testing.T) {
	list := []domain.Appointment{
		appt("c", "2025-04-15", "10:00", domain.AppointmentConfirmed),
		appt("b", "2025-04-15", "09:00", domain.AppointmentPending),
		appt("a", "2025-04-15", "10:00", domain.AppointmentPending),
		appt("u", "2025-04-15", "", domain.AppointmentPending),
		appt("x", "2025-04-18", "08:00", domain.AppointmentPending),
		appt("out", "2025-05-01", "08:00", domain.AppointmentPending),
	}

	grouped := Aggregate(list, weekCells(t), Filters{})

	assert.Len(t, grouped, 7)
	assert.Equal(t, []string{"u", "b", "a", "c"}, ids(grouped["2025-04-15"]))
	assert.Equal(t, []string{"x"}, ids(grouped["2025-04-18"]))
	assert.Empty(t, grouped["2025-04-14"])
	assert.NotNil(t, grouped["2025-04-14"])
	_, ok := grouped["2025-05-01"]
	assert.False(t, ok)

	// входной список не переупорядочен
	assert.Equal(t, "c", list[0].ID)
}

func TestAggregate_Idempotent(t *testing.T) {
	list := []domain.Appointment{
		appt("2", "2025-04-16", "11:00", domain.AppointmentPending),
		appt("1", "2025-04-16", "11:00", domain.AppointmentPending),
		appt("3", "2025-04-14", "", domain.AppointmentCancelled),
	}
	cells := weekCells(t)

	first := Aggregate(list, cells, Filters{Status: "all"})
	second := Aggregate(list, cells, Filters{Status: "all"})
	assert.Equal(t, first, second)
}

func TestAggregate_Filters(t *testing.T) {
	a := appt("A-1", "2025-04-15", "09:00", domain.AppointmentConfirmed)
	b := appt("B-2", "2025-04-15", "09:30", domain.AppointmentPending)
	b.BranchID = "South-East"
	b.Address = "Harbor Road"
	list := []domain.Appointment{a, b}
	cells := weekCells(t)

	tests := []struct {
		name    string
		filters Filters
		want    []string
	}{
		{name: "no filters", filters: Filters{}, want: []string{"A-1", "B-2"}},
		{name: "all sentinels", filters: Filters{Search: "all", Status: "all", Branch: "all"}, want: []string{"A-1", "B-2"}},
		{name: "search address", filters: Filters{Search: "harbor"}, want: []string{"B-2"}},
		{name: "search id", filters: Filters{Search: "a-1"}, want: []string{"A-1"}},
		{name: "search customer", filters: Filters{Search: "CUST-B"}, want: []string{"B-2"}},
		{name: "status", filters: Filters{Status: "confirmed"}, want: []string{"A-1"}},
		{name: "branch substring", filters: Filters{Branch: "south"}, want: []string{"B-2"}},
		{name: "and of filters", filters: Filters{Status: "confirmed", Branch: "south"}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grouped := Aggregate(list, cells, tt.filters)
			assert.Equal(t, tt.want, ids(grouped["2025-04-15"]))
		})
	}
}

func TestProjectAndFlatten(t *testing.T) {
	list := []domain.Appointment{
		appt("late", "2025-04-20", "08:00", domain.AppointmentPending),
		appt("p2", "2025-04-14", "12:00", domain.AppointmentPending),
		appt("p1", "2025-04-14", "08:30", domain.AppointmentPending),
	}
	cells := weekCells(t)
	grouped := Aggregate(list, cells, Filters{})

	projected := Project(cells, grouped)
	require.Len(t, projected, 7)
	assert.Equal(t, []string{"p1", "p2"}, ids(projected[0].Appointments))
	assert.Empty(t, cells[0].Appointments, "source cells must stay untouched")

	assert.Equal(t, []string{"p1", "p2", "late"}, ids(Flatten(cells, grouped)))
}

func TestBucketBySlot(t *testing.T) {
	list := []domain.Appointment{
		appt("a", "2025-04-01", "09:15", domain.AppointmentPending),
		appt("b", "2025-04-01", "09:00", domain.AppointmentPending),
		appt("c", "2025-04-01", "07:59", domain.AppointmentPending),
		appt("d", "2025-04-01", "18:00", domain.AppointmentPending),
		appt("e", "2025-04-01", "", domain.AppointmentPending),
		appt("f", "2025-04-01", "17:59", domain.AppointmentPending),
	}

	slots, err := BucketBySlot(list, domain.DefaultSlotsConfig())
	require.NoError(t, err)
	require.Len(t, slots, 20)

	assert.Equal(t, types.TimeString("08:00"), slots[0].StartTime)
	assert.Equal(t, types.TimeString("09:00"), slots[2].StartTime)
	assert.Equal(t, []string{"b", "a"}, ids(slots[2].Appointments))
	assert.True(t, slots[2].IsDoubleBooked())
	assert.Equal(t, types.TimeString("17:30"), slots[19].StartTime)
	assert.Equal(t, []string{"f"}, ids(slots[19].Appointments))

	placed := 0
	for _, s := range slots {
		placed += len(s.Appointments)
	}
	assert.Equal(t, 3, placed)
}

func TestBucketBySlot_TruncatesRelativeToStart(t *testing.T) {
	cfg := domain.SlotsConfig{DayStart: "08:15", DayEnd: "10:15", WidthMinutes: 45}
	slots, err := BucketBySlot([]domain.Appointment{appt("a", "2025-04-01", "09:30", domain.AppointmentPending)}, cfg)
	require.NoError(t, err)
	require.Len(t, slots, 3)
	assert.Equal(t, types.TimeString("09:00"), slots[1].StartTime)
	assert.Equal(t, []string{"a"}, ids(slots[1].Appointments))

	slot, ok := SlotOf("09:30", cfg)
	assert.True(t, ok)
	assert.Equal(t, types.TimeString("09:00"), slot)

	_, ok = SlotOf("07:00", cfg)
	assert.False(t, ok)
}

func TestBucketBySlot_InvalidConfig(t *testing.T) {
	_, err := BucketBySlot(nil, domain.SlotsConfig{DayStart: "18:00", DayEnd: "08:00", WidthMinutes: 30})
	assert.ErrorIs(t, err, ErrInvalidSlotConfig)

	_, err = BucketBySlot(nil, domain.SlotsConfig{DayStart: "bad", DayEnd: "18:00", WidthMinutes: 30})
	assert.ErrorIs(t, err, ErrInvalidSlotConfig)

	_, err = BucketBySlot(nil, domain.SlotsConfig{DayStart: "08:00", DayEnd: "18:00", WidthMinutes: 0})
	assert.ErrorIs(t, err, ErrInvalidSlotConfig)
}
