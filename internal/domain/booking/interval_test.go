package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func iv(startH, startM, endH, endM int) Interval {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	return Interval{
		Start: day.Add(time.Duration(startH)*time.Hour + time.Duration(startM)*time.Minute),
		End:   day.Add(time.Duration(endH)*time.Hour + time.Duration(endM)*time.Minute),
	}
}

func TestInterval_Overlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b Interval
		want bool
	}{
		{"partial overlap", iv(9, 0, 10, 0), iv(9, 30, 10, 30), true},
		{"contained", iv(9, 0, 12, 0), iv(10, 0, 11, 0), true},
		{"identical", iv(9, 0, 10, 0), iv(9, 0, 10, 0), true},
		{"touching end-to-start", iv(9, 0, 10, 0), iv(10, 0, 11, 0), false},
		{"touching start-to-end", iv(10, 0, 11, 0), iv(9, 0, 10, 0), false},
		{"disjoint", iv(9, 0, 10, 0), iv(11, 0, 12, 0), false},
		{"one-minute overlap", iv(9, 0, 10, 1), iv(10, 0, 11, 0), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Overlaps(tt.b))
			assert.Equal(t, tt.want, tt.b.Overlaps(tt.a), "overlap must be symmetric")
		})
	}
}

func TestOverlapsAny(t *testing.T) {
	blocks := []BlockingInterval{
		{Kind: BlockAppointment, Interval: iv(10, 0, 10, 30)},
		{Kind: BlockTimeOff, Interval: iv(14, 0, 18, 0)},
	}

	assert.False(t, OverlapsAny(iv(9, 0, 10, 0), blocks))
	assert.True(t, OverlapsAny(iv(10, 15, 10, 45), blocks))
	assert.True(t, OverlapsAny(iv(13, 0, 15, 0), blocks))
	assert.False(t, OverlapsAny(iv(13, 0, 14, 0), blocks))
}
