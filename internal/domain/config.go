package domain

import "github.com/m04kA/SMC-BookingOps/pkg/types"

// SlotsConfig describes the time window used to bucket a day view
// Slots start at DayStart and are WidthMinutes wide; the last slot starts before DayEnd
type SlotsConfig struct {
	DayStart     types.TimeString
	DayEnd       types.TimeString
	WidthMinutes int
}

// DefaultSlotsConfig returns the 08:00-18:00 half-hour window
func DefaultSlotsConfig() SlotsConfig {
	return SlotsConfig{
		DayStart:     types.TimeString(DefaultSlotDayStart),
		DayEnd:       types.TimeString(DefaultSlotDayEnd),
		WidthMinutes: DefaultSlotWidthMinutes,
	}
}

// SlotCount returns how many slots fit into the window
func (c SlotsConfig) SlotCount() int {
	start, err := c.DayStart.Minutes()
	if err != nil {
		return 0
	}
	end, err := c.DayEnd.Minutes()
	if err != nil || c.WidthMinutes <= 0 || end <= start {
		return 0
	}
	return (end - start + c.WidthMinutes - 1) / c.WidthMinutes
}
