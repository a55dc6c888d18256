package get_calendar

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BookingOps/internal/api/middleware"
	"github.com/m04kA/SMC-BookingOps/internal/domain"
	"github.com/m04kA/SMC-BookingOps/internal/service/calendar"
	getCalendar "github.com/m04kA/SMC-BookingOps/internal/usecase/get_calendar"
	"github.com/m04kA/SMC-BookingOps/pkg/logger"
	"github.com/m04kA/SMC-BookingOps/pkg/types"
)

type stubUseCase struct {
	got  *getCalendar.Request
	resp *getCalendar.Response
	err  error
}

func (s *stubUseCase) Execute(ctx context.Context, req *getCalendar.Request) (*getCalendar.Response, error) {
	s.got = req
	return s.resp, s.err
}

var staff = domain.Actor{ID: "op1", Role: domain.RoleStaff}

func get(uc *stubUseCase, query string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/calendar"+query, nil)
	req = req.WithContext(middleware.WithActor(req.Context(), staff))
	rec := httptest.NewRecorder()
	NewHandler(uc, logger.Nop()).Handle(rec, req)
	return rec
}

func TestHandle_DayWithSlots(t *testing.T) {
	day := time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC)
	nine := types.TimeString("09:00")
	appt := domain.Appointment{ID: "b1", CustomerID: "c1", Date: day, Time: &nine, DurationMinutes: 60, Status: domain.AppointmentConfirmed}

	uc := &stubUseCase{resp: &getCalendar.Response{
		View:  calendar.Day,
		From:  day,
		To:    day,
		Cells: []domain.CalendarCell{{Date: day, Key: "2025-04-15", IsCurrentPeriod: true, Appointments: []domain.Appointment{appt}}},
		Slots: []domain.TimeSlot{
			{StartTime: "09:00", DurationMinutes: 30, Appointments: []domain.Appointment{appt, appt}},
			{StartTime: "09:30", DurationMinutes: 30},
		},
	}}

	rec := get(uc, "?date=2025-04-15&view=day&status=confirmed&branch=north&slots=true")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	require.NotNil(t, uc.got)
	assert.Equal(t, "2025-04-15", uc.got.Date)
	assert.Equal(t, "day", uc.got.View)
	assert.Equal(t, "confirmed", uc.got.Status)
	assert.Equal(t, "north", uc.got.Branch)
	assert.True(t, uc.got.WithSlots)

	var resp CalendarResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "day", resp.View)
	assert.Equal(t, "2025-04-15", resp.From)
	require.Len(t, resp.Cells, 1)
	assert.Len(t, resp.Cells[0].Appointments, 1)
	require.Len(t, resp.Slots, 2)
	assert.True(t, resp.Slots[0].IsDoubleBooked)
	assert.False(t, resp.Slots[1].IsDoubleBooked)
	assert.Empty(t, resp.Appointments)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name  string
		query string
		err   error
		code  int
	}{
		{name: "bad slots flag", query: "?slots=maybe", code: http.StatusBadRequest},
		{name: "invalid input", query: "?view=year", err: getCalendar.ErrInvalidInput, code: http.StatusBadRequest},
		{name: "customer", err: getCalendar.ErrAccessDenied, code: http.StatusForbidden},
		{name: "internal", err: getCalendar.ErrInternal, code: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(&stubUseCase{err: tt.err}, tt.query)
			assert.Equal(t, tt.code, rec.Code)
		})
	}
}
