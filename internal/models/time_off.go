package models

import "time"

// TimeOff is a requested absence span. Only approved spans block bookings.
type TimeOff struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	CompanyID uint `json:"company_id"`
	StaffID   uint `gorm:"index" json:"staff_id"`

	// Calendar dates at midnight; EndDate is inclusive.
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`

	Reason string `gorm:"size:255" json:"reason"`
	Status string `gorm:"size:20;default:'pending'" json:"status"`

	DecidedBy *uint      `json:"decided_by"`
	DecidedAt *time.Time `json:"decided_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	TimeOffPending  = "pending"
	TimeOffApproved = "approved"
	TimeOffRejected = "rejected"
)
