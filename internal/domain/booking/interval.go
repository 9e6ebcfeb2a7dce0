package booking

import "time"

// Interval is a half-open time range [Start, End) in UTC instants.
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (i Interval) Valid() bool {
	return i.End.After(i.Start)
}

func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// Overlaps uses half-open semantics: intervals that merely touch at a
// boundary do not overlap.
func (i Interval) Overlaps(o Interval) bool {
	return i.Start.Before(o.End) && i.End.After(o.Start)
}

// BlockKind tags where a blocking interval came from. The slot generator
// treats all kinds identically; the tag exists for diagnostics.
type BlockKind string

const (
	BlockAppointment BlockKind = "appointment"
	BlockReservation BlockKind = "reservation"
	BlockTimeOff     BlockKind = "time_off"
)

// BlockingInterval is the unified view over appointments, active reservation
// holds and approved time-off produced by the conflict scanner.
type BlockingInterval struct {
	Kind BlockKind `json:"kind"`
	Interval
}

func OverlapsAny(iv Interval, blocks []BlockingInterval) bool {
	for _, b := range blocks {
		if iv.Overlaps(b.Interval) {
			return true
		}
	}
	return false
}
