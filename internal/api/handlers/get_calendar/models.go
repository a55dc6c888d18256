package get_calendar

import (
	"github.com/m04kA/SMC-BookingOps/internal/api/handlers"
	"github.com/m04kA/SMC-BookingOps/internal/domain"
	getCalendar "github.com/m04kA/SMC-BookingOps/internal/usecase/get_calendar"
)

// CellResponse ячейка сетки календаря
type CellResponse struct {
	Date            string                         `json:"date"`
	IsCurrentPeriod bool                           `json:"isCurrentPeriod"`
	IsToday         bool                           `json:"isToday"`
	Appointments    []handlers.AppointmentResponse `json:"appointments"`
}

// SlotResponse слот дня
type SlotResponse struct {
	StartTime       string                         `json:"startTime"`
	DurationMinutes int                            `json:"durationMinutes"`
	IsDoubleBooked  bool                           `json:"isDoubleBooked"`
	Appointments    []handlers.AppointmentResponse `json:"appointments"`
}

// CalendarResponse HTTP response model
// cells заполняется для day/week/month, appointments для list, slots при slots=true
type CalendarResponse struct {
	View         string                         `json:"view"`
	From         string                         `json:"from"`
	To           string                         `json:"to"`
	Cells        []CellResponse                 `json:"cells,omitempty"`
	Appointments []handlers.AppointmentResponse `json:"appointments,omitempty"`
	Slots        []SlotResponse                 `json:"slots,omitempty"`
}

func newCalendarResponse(resp *getCalendar.Response) *CalendarResponse {
	out := &CalendarResponse{
		View: string(resp.View),
		From: resp.From.Format(domain.DateFormat),
		To:   resp.To.Format(domain.DateFormat),
	}

	if resp.Cells != nil {
		out.Cells = make([]CellResponse, 0, len(resp.Cells))
		for _, c := range resp.Cells {
			out.Cells = append(out.Cells, CellResponse{
				Date:            c.Key,
				IsCurrentPeriod: c.IsCurrentPeriod,
				IsToday:         c.IsToday,
				Appointments:    handlers.NewAppointmentList(c.Appointments),
			})
		}
	}

	if resp.Appointments != nil {
		out.Appointments = handlers.NewAppointmentList(resp.Appointments)
	}

	if resp.Slots != nil {
		out.Slots = make([]SlotResponse, 0, len(resp.Slots))
		for i := range resp.Slots {
			s := &resp.Slots[i]
			out.Slots = append(out.Slots, SlotResponse{
				StartTime:       s.StartTime.String(),
				DurationMinutes: s.DurationMinutes,
				IsDoubleBooked:  s.IsDoubleBooked(),
				Appointments:    handlers.NewAppointmentList(s.Appointments),
			})
		}
	}

	return out
}
