package booking

import (
	"context"
	"time"

	domain "github.com/appointra/scheduler/internal/domain/booking"
)

// ConflictScanner gathers every interval during which a staff member cannot
// be booked, folding the three sources into one blocking-interval list so
// the slot generator needs a single overlap test.
type ConflictScanner struct {
	repo  domain.Repository
	holds domain.HoldStore
}

func NewConflictScanner(repo domain.Repository, holds domain.HoldStore) *ConflictScanner {
	return &ConflictScanner{
		repo:  repo,
		holds: holds,
	}
}

// ScanDay returns all blockers touching [dayStart, dayEnd): non-cancelled
// appointments, reservation holds still active at now, and approved time-off
// spans covering the day. All instants are compared as-is; the caller has
// already resolved the day boundary in the right timezone.
func (s *ConflictScanner) ScanDay(
	ctx context.Context,
	staffID uint,
	dayStart time.Time,
	dayEnd time.Time,
	now time.Time,
) ([]domain.BlockingInterval, error) {

	apps, err := s.repo.ListAppointmentsForDay(ctx, staffID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	blocks := make([]domain.BlockingInterval, 0, len(apps))
	for _, ap := range apps {
		blocks = append(blocks, domain.BlockingInterval{
			Kind:     domain.BlockAppointment,
			Interval: domain.Interval{Start: ap.StartTime, End: ap.EndTime},
		})
	}

	holds, err := s.holds.ListActive(ctx, staffID, dayStart, now)
	if err != nil {
		return nil, err
	}
	for _, h := range holds {
		blocks = append(blocks, domain.BlockingInterval{
			Kind:     domain.BlockReservation,
			Interval: h.Interval(),
		})
	}

	spans, err := s.repo.ListApprovedTimeOff(ctx, staffID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	for _, span := range spans {
		blocks = append(blocks, domain.BlockingInterval{
			Kind: domain.BlockTimeOff,
			Interval: domain.Interval{
				Start: span.StartDate,
				// EndDate is an inclusive calendar date.
				End: span.EndDate.AddDate(0, 0, 1),
			},
		})
	}

	return blocks, nil
}

// ScanInterval re-checks one exact interval, used right before commit to
// close the race between slot display and submission. ignoreHoldID lets a
// submission convert its own reservation hold instead of colliding with it.
func (s *ConflictScanner) ScanInterval(
	ctx context.Context,
	staffID uint,
	iv domain.Interval,
	now time.Time,
	ignoreHoldID string,
) ([]domain.BlockingInterval, error) {

	dayStart := startOfDay(iv.Start)
	dayEnd := dayStart.AddDate(0, 0, 1)

	apps, err := s.repo.ListAppointmentsForDay(ctx, staffID, iv.Start, iv.End)
	if err != nil {
		return nil, err
	}

	var hits []domain.BlockingInterval
	for _, ap := range apps {
		b := domain.BlockingInterval{
			Kind:     domain.BlockAppointment,
			Interval: domain.Interval{Start: ap.StartTime, End: ap.EndTime},
		}
		if iv.Overlaps(b.Interval) {
			hits = append(hits, b)
		}
	}

	holds, err := s.holds.ListActive(ctx, staffID, dayStart, now)
	if err != nil {
		return nil, err
	}
	for _, h := range holds {
		if h.ID == ignoreHoldID {
			continue
		}
		if iv.Overlaps(h.Interval()) {
			hits = append(hits, domain.BlockingInterval{
				Kind:     domain.BlockReservation,
				Interval: h.Interval(),
			})
		}
	}

	spans, err := s.repo.ListApprovedTimeOff(ctx, staffID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	for _, span := range spans {
		b := domain.BlockingInterval{
			Kind: domain.BlockTimeOff,
			Interval: domain.Interval{
				Start: span.StartDate,
				End:   span.EndDate.AddDate(0, 0, 1),
			},
		}
		if iv.Overlaps(b.Interval) {
			hits = append(hits, b)
		}
	}

	return hits, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
