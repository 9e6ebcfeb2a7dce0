package models

import "time"

// Notification is a scheduled outbound message. This service only enqueues;
// delivery belongs to a separate worker.
type Notification struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CompanyID     uint `json:"company_id"`
	AppointmentID uint `json:"appointment_id"`

	Channel   string `gorm:"size:20;default:'email'" json:"channel"`
	Kind      string `gorm:"size:50;not null" json:"kind"`
	Recipient string `gorm:"size:100" json:"recipient"`

	ScheduledFor time.Time `gorm:"index" json:"scheduled_for"`
	Status       string    `gorm:"size:20;default:'pending'" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	NotificationPending = "pending"
	NotificationSent    = "sent"
)
