package notify

import (
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/appointra/scheduler/internal/models"
)

type Event struct {
	CompanyID     uint
	AppointmentID uint
	Kind          string
	Recipient     string
	ScheduledFor  time.Time
}

const (
	KindAppointmentCreated   = "appointment_created"
	KindAppointmentCancelled = "appointment_cancelled"
	KindAppointmentReminder  = "appointment_reminder"
)

// Scheduler enqueues notification rows for a delivery worker to pick up
// later. It never sends anything itself.
type Scheduler struct {
	db    *gorm.DB
	log   zerolog.Logger
	queue chan Event
}

func NewScheduler(db *gorm.DB, log zerolog.Logger) *Scheduler {
	s := &Scheduler{
		db:    db,
		log:   log,
		queue: make(chan Event, 100),
	}

	go s.worker()
	return s
}

func (s *Scheduler) worker() {
	for ev := range s.queue {
		row := models.Notification{
			CompanyID:     ev.CompanyID,
			AppointmentID: ev.AppointmentID,
			Channel:       "email",
			Kind:          ev.Kind,
			Recipient:     ev.Recipient,
			ScheduledFor:  ev.ScheduledFor,
			Status:        models.NotificationPending,
		}

		if err := s.db.Create(&row).Error; err != nil {
			s.log.Error().Err(err).Str("kind", ev.Kind).Msg("notification enqueue failed")
		}
	}
}

func (s *Scheduler) Schedule(ev Event) {
	select {
	case s.queue <- ev:
	default:
		s.log.Warn().Str("kind", ev.Kind).Msg("notification queue full, dropping event")
	}
}
