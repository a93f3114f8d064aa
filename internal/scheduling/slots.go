package scheduling

import "time"

// Slot is a fixed-size candidate interval offered for tour scheduling.
type Slot struct {
	Start    time.Time
	End      time.Time
	Duration time.Duration
}

// AvailableSlots walks the window start to end in slotSize steps and emits
// every slot that no busy interval overlaps. Busy intervals are expected to be
// the approved reservations of the day; the generator itself applies no status
// policy. The result is deterministic for identical inputs.
func AvailableSlots(window Interval, slotSize time.Duration, busy []Interval) []Slot {
	if slotSize <= 0 || !window.End.After(window.Start) {
		return []Slot{}
	}

	slots := []Slot{}

	for cur := window.Start; !cur.Add(slotSize).After(window.End); cur = cur.Add(slotSize) {
		candidate := Interval{Start: cur, End: cur.Add(slotSize)}

		if overlapsAny(candidate, busy) {
			continue
		}

		slots = append(slots, Slot{
			Start:    candidate.Start,
			End:      candidate.End,
			Duration: slotSize,
		})
	}

	return slots
}

func overlapsAny(candidate Interval, busy []Interval) bool {
	for _, b := range busy {
		if candidate.Overlaps(b) {
			return true
		}
	}

	return false
}
