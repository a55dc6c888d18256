package get_calendar

import (
	"context"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-BookingOps/internal/domain"
	"github.com/m04kA/SMC-BookingOps/internal/service/appointments"
	"github.com/m04kA/SMC-BookingOps/internal/service/calendar"
)

// UseCase use case для получения календаря записей
type UseCase struct {
	appointmentRepo AppointmentRepository
	grid            *calendar.GridBuilder
	slots           domain.SlotsConfig
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(appointmentRepo AppointmentRepository, grid *calendar.GridBuilder, slots domain.SlotsConfig, logger Logger) *UseCase {
	if slots.SlotCount() == 0 {
		slots = domain.DefaultSlotsConfig()
	}
	return &UseCase{
		appointmentRepo: appointmentRepo,
		grid:            grid,
		slots:           slots,
		logger:          logger,
	}
}

// Execute строит сетку, загружает записи в её диапазоне и раскладывает их по дням
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetCalendar: date=%s, view=%s, search=%q, status=%q, branch=%q",
		req.Date, req.View, req.Search, req.Status, req.Branch)

	// 1. Календарь доступен только сотрудникам
	if req.Actor.Role != domain.RoleStaff && req.Actor.Role != domain.RoleSystem {
		uc.logger.Warn("GetCalendar: %s=%s is not allowed", req.Actor.Role, req.Actor.ID)
		return nil, ErrAccessDenied
	}

	// 2. Разбираем вид и строим сетку
	view := req.View
	if strings.TrimSpace(view) == "" {
		view = string(calendar.Week)
	}
	g, err := calendar.ParseGranularity(view)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var cells []domain.CalendarCell
	if strings.TrimSpace(req.Date) == "" {
		cells, err = uc.grid.BuildGrid(uc.grid.Today(), g)
	} else {
		cells, err = uc.grid.BuildGridFromString(req.Date, g)
	}
	if err != nil {
		uc.logger.Warn("GetCalendar: failed to build grid: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	from, to, ok := calendar.GridRange(cells)
	if !ok {
		return nil, fmt.Errorf("%w: empty grid", ErrInternal)
	}

	// 3. Загружаем записи окна
	list, err := uc.appointmentRepo.ListInRange(ctx, from, to)
	if err != nil {
		uc.logger.Error("GetCalendar: failed to list appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to list appointments: %v", ErrInternal, err)
	}

	// 4. Раскладываем по дням
	filters := appointments.Filters{Search: req.Search, Status: req.Status, Branch: req.Branch}
	grouped := appointments.Aggregate(list, cells, filters)

	resp := &Response{View: g, From: from, To: to}
	if g == calendar.List {
		resp.Appointments = appointments.Flatten(cells, grouped)
	} else {
		resp.Cells = appointments.Project(cells, grouped)
	}

	// 5. Слоты дня
	if req.WithSlots {
		if g != calendar.Day {
			return nil, fmt.Errorf("%w: slots are available for the day view only", ErrInvalidInput)
		}
		resp.Slots, err = appointments.BucketBySlot(resp.Cells[0].Appointments, uc.slots)
		if err != nil {
			uc.logger.Error("GetCalendar: failed to bucket slots: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrInternal, err)
		}
	}

	uc.logger.Info("GetCalendar: %s %s..%s, %d appointments loaded", g,
		from.Format(domain.DateFormat), to.Format(domain.DateFormat), len(list))
	return resp, nil
}
