package booking

import (
	"sort"
	"time"

	"github.com/appointra/scheduler/internal/httperr"
	"github.com/appointra/scheduler/internal/models"
)

// Window is one concrete work span on a specific date, resolved from a
// recurring WeeklyAvailability row.
type Window struct {
	Start time.Time
	End   time.Time
}

func (w Window) Contains(iv Interval) bool {
	return !iv.Start.Before(w.Start) && !iv.End.After(w.End)
}

const hmLayout = "15:04"

// WindowsForDate maps weekly availability rows onto instants of the given
// date, in the date's location. Rows that are inactive, unparseable or
// inverted are skipped. The result is ordered by start and may hold several
// windows (split shifts).
func WindowsForDate(date time.Time, rows []models.WeeklyAvailability) []Window {
	loc := date.Location()

	windows := make([]Window, 0, len(rows))
	for _, row := range rows {
		if !row.Available {
			continue
		}

		start, err1 := time.Parse(hmLayout, row.StartTime)
		end, err2 := time.Parse(hmLayout, row.EndTime)
		if err1 != nil || err2 != nil {
			continue
		}

		w := Window{
			Start: time.Date(date.Year(), date.Month(), date.Day(), start.Hour(), start.Minute(), 0, 0, loc),
			End:   time.Date(date.Year(), date.Month(), date.Day(), end.Hour(), end.Minute(), 0, 0, loc),
		}
		if !w.End.After(w.Start) {
			continue
		}
		windows = append(windows, w)
	}

	sort.Slice(windows, func(i, j int) bool {
		return windows[i].Start.Before(windows[j].Start)
	})

	return windows
}

// WindowsCover reports whether some single window fully contains iv.
// A booking may not straddle two shifts.
func WindowsCover(windows []Window, iv Interval) bool {
	for _, w := range windows {
		if w.Contains(iv) {
			return true
		}
	}
	return false
}

// ValidateWeekly enforces the creation-time invariants on a weekly schedule:
// parseable times, start before end, and no overlapping active windows on
// the same weekday.
func ValidateWeekly(rows []models.WeeklyAvailability) error {
	type span struct {
		weekday    int
		start, end time.Time
	}

	spans := make([]span, 0, len(rows))
	for _, row := range rows {
		if !row.Available {
			continue
		}

		start, err := time.Parse(hmLayout, row.StartTime)
		if err != nil {
			return httperr.ErrBusiness("invalid_window")
		}
		end, err := time.Parse(hmLayout, row.EndTime)
		if err != nil {
			return httperr.ErrBusiness("invalid_window")
		}
		if !end.After(start) {
			return httperr.ErrBusiness("invalid_window")
		}

		spans = append(spans, span{weekday: row.Weekday, start: start, end: end})
	}

	for i := 0; i < len(spans); i++ {
		for j := i + 1; j < len(spans); j++ {
			if spans[i].weekday != spans[j].weekday {
				continue
			}
			if spans[i].start.Before(spans[j].end) && spans[i].end.After(spans[j].start) {
				return httperr.ErrBusiness("overlapping_windows")
			}
		}
	}

	return nil
}
