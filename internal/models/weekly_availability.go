package models

import "time"

// WeeklyAvailability is one recurring work window for a staff member on a
// given weekday. A staff member may have several non-overlapping windows on
// the same day (split shifts).
type WeeklyAvailability struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	StaffID uint `gorm:"index" json:"staff_id"`

	Weekday int `json:"weekday"` // 0 = Sunday ... 6 = Saturday

	StartTime string `gorm:"size:5" json:"start_time"` // "09:00"
	EndTime   string `gorm:"size:5" json:"end_time"`   // "17:30"
	Available bool   `gorm:"default:true" json:"available"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
