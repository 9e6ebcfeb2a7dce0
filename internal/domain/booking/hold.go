package booking

import "time"

// Hold is a short-lived soft-lock on an interval, placed while a customer
// completes checkout. It reduces booking races, it does not eliminate them;
// the storage-level check at commit time stays authoritative.
type Hold struct {
	ID        string    `json:"id"`
	CompanyID uint      `json:"company_id"`
	StaffID   uint      `json:"staff_id"`
	ServiceID uint      `json:"service_id"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// ActiveAt is the lazy-expiry predicate. Expired holds are simply ignored
// at read time; no sweeper is involved.
func (h Hold) ActiveAt(now time.Time) bool {
	return h.ExpiresAt.After(now)
}

func (h Hold) Interval() Interval {
	return Interval{Start: h.Start, End: h.End}
}
