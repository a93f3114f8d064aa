package scheduling_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"biblio/internal/scheduling"
)

func workingDay(t *testing.T) scheduling.Interval {
	t.Helper()

	return interval(t, 8, 17)
}

func TestAvailableSlotsFullDay(t *testing.T) {
	slots := scheduling.AvailableSlots(workingDay(t), time.Hour, nil)

	// 08:00 through 16:00 inclusive.
	assert.Len(t, slots, 9)
	assert.Equal(t, at(8, 0), slots[0].Start)
	assert.Equal(t, at(9, 0), slots[0].End)
	assert.Equal(t, at(16, 0), slots[len(slots)-1].Start)
	assert.Equal(t, at(17, 0), slots[len(slots)-1].End)

	for _, slot := range slots {
		assert.Equal(t, time.Hour, slot.Duration)
	}
}

func TestAvailableSlotsExcludesBookedHour(t *testing.T) {
	busy := []scheduling.Interval{interval(t, 10, 11)}

	slots := scheduling.AvailableSlots(workingDay(t), time.Hour, busy)

	assert.Len(t, slots, 8)

	starts := make([]time.Time, 0, len(slots))
	for _, slot := range slots {
		starts = append(starts, slot.Start)
	}

	assert.NotContains(t, starts, at(10, 0))
	assert.Contains(t, starts, at(9, 0))
	assert.Contains(t, starts, at(11, 0))
}

func TestAvailableSlotsPartialOverlapBlocksBothSlots(t *testing.T) {
	// A 90-minute booking from 10:00 covers both the 10:00 and 11:00 slots.
	busy := []scheduling.Interval{{Start: at(10, 0), End: at(11, 30)}}

	slots := scheduling.AvailableSlots(workingDay(t), time.Hour, busy)

	for _, slot := range slots {
		assert.NotEqual(t, at(10, 0), slot.Start)
		assert.NotEqual(t, at(11, 0), slot.Start)
	}

	assert.Len(t, slots, 7)
}

func TestAvailableSlotsIdempotent(t *testing.T) {
	busy := []scheduling.Interval{interval(t, 10, 11), interval(t, 14, 15)}

	first := scheduling.AvailableSlots(workingDay(t), time.Hour, busy)
	second := scheduling.AvailableSlots(workingDay(t), time.Hour, busy)

	assert.Equal(t, first, second)
}

func TestAvailableSlotsDegenerateInputs(t *testing.T) {
	assert.Empty(t, scheduling.AvailableSlots(workingDay(t), 0, nil))
	assert.Empty(t, scheduling.AvailableSlots(scheduling.Interval{Start: at(17, 0), End: at(8, 0)}, time.Hour, nil))

	// Window shorter than one slot yields nothing.
	short := scheduling.Interval{Start: at(8, 0), End: at(8, 30)}
	assert.Empty(t, scheduling.AvailableSlots(short, time.Hour, nil))
}

func TestAvailableSlotsHalfHourSlots(t *testing.T) {
	window := scheduling.Interval{Start: at(9, 0), End: at(11, 0)}

	slots := scheduling.AvailableSlots(window, 30*time.Minute, nil)

	assert.Len(t, slots, 4)
	assert.Equal(t, at(9, 30), slots[1].Start)
	assert.Equal(t, at(10, 0), slots[1].End)
}
