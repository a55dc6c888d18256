package appointments

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BookingOps/internal/domain"
	"github.com/m04kA/SMC-BookingOps/pkg/types"
)

// ErrInvalidSlotConfig возвращается для некорректного окна слотов
var ErrInvalidSlotConfig = errors.New("appointments: invalid slot config")

// BucketBySlot раскладывает записи одного дня по слотам окна cfg
// Время записи округляется вниз до границы слота, считая от начала окна
// Записи без времени и вне окна не попадают ни в один слот
// Несколько записей в одном слоте допустимы - это двойное бронирование, оно не отклоняется
func BucketBySlot(list []domain.Appointment, cfg domain.SlotsConfig) ([]domain.TimeSlot, error) {
	start, err := cfg.DayStart.Minutes()
	if err != nil {
		return nil, fmt.Errorf("%w: day start: %v", ErrInvalidSlotConfig, err)
	}
	end, err := cfg.DayEnd.Minutes()
	if err != nil {
		return nil, fmt.Errorf("%w: day end: %v", ErrInvalidSlotConfig, err)
	}
	if cfg.WidthMinutes <= 0 || end <= start {
		return nil, fmt.Errorf("%w: window %s-%s by %d minutes", ErrInvalidSlotConfig, cfg.DayStart, cfg.DayEnd, cfg.WidthMinutes)
	}

	count := cfg.SlotCount()
	slots := make([]domain.TimeSlot, 0, count)
	for i := 0; i < count; i++ {
		ts, err := types.NewTimeStringFromMinutes(start + i*cfg.WidthMinutes)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSlotConfig, err)
		}
		slots = append(slots, domain.TimeSlot{
			StartTime:       ts,
			DurationMinutes: cfg.WidthMinutes,
			Appointments:    []domain.Appointment{},
		})
	}

	sorted := append([]domain.Appointment(nil), list...)
	SortDay(sorted)

	for _, a := range sorted {
		m := timeKey(a)
		if m < start || m >= end {
			continue
		}
		idx := (m - start) / cfg.WidthMinutes
		slots[idx].Appointments = append(slots[idx].Appointments, a)
	}

	return slots, nil
}

// SlotOf возвращает начало слота для времени t в окне cfg
func SlotOf(t types.TimeString, cfg domain.SlotsConfig) (types.TimeString, bool) {
	m, err := t.Minutes()
	if err != nil {
		return "", false
	}
	start, err := cfg.DayStart.Minutes()
	if err != nil {
		return "", false
	}
	end, err := cfg.DayEnd.Minutes()
	if err != nil || cfg.WidthMinutes <= 0 || m < start || m >= end {
		return "", false
	}
	slot, err := types.NewTimeStringFromMinutes(start + (m-start)/cfg.WidthMinutes*cfg.WidthMinutes)
	if err != nil {
		return "", false
	}
	return slot, true
}
