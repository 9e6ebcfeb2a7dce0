package booking

import "time"

// Slots are offered on a fixed grid regardless of service duration, so a
// 60-minute service on the 30-minute grid yields candidates at :00 and :30
// that overlap each other. That is intentional.
const DefaultSlotInterval = 30 * time.Minute

// CandidateSlot is ephemeral: computed on demand, never persisted.
type CandidateSlot struct {
	Start time.Time
	End   time.Time
}

// GenerateSlots walks the work window from its start in slotInterval steps,
// emitting a candidate [cursor, cursor+duration) per step until the candidate
// would overrun the window. Candidates overlapping any blocker (half-open
// semantics) are dropped.
//
// The returned candidates count includes dropped ones, so a caller can tell
// "fully booked" apart from "window too small" — the API surface shows both
// as an empty list.
//
// Pure function of its inputs; calling it twice yields identical output.
func GenerateSlots(w Window, slotInterval, duration time.Duration, blocks []BlockingInterval) (free []CandidateSlot, candidates int) {
	if slotInterval <= 0 || duration <= 0 {
		return nil, 0
	}
	if !w.End.After(w.Start) {
		return nil, 0
	}

	for cursor := w.Start; !cursor.Add(duration).After(w.End); cursor = cursor.Add(slotInterval) {
		iv := Interval{Start: cursor, End: cursor.Add(duration)}
		candidates++

		if OverlapsAny(iv, blocks) {
			continue
		}

		free = append(free, CandidateSlot{Start: iv.Start, End: iv.End})
	}

	return free, candidates
}
