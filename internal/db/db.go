package db

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/appointra/scheduler/internal/config"
	"github.com/appointra/scheduler/internal/models"
	"github.com/appointra/scheduler/internal/timezone"
)

func New(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("unwrap sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(
		&models.Company{},
		&models.Staff{},
		&models.Service{},
		&models.Customer{},
		&models.WeeklyAvailability{},
		&models.Appointment{},
		&models.TimeOff{},
		&models.AuditLog{},
		&models.Notification{},
	); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	db.Exec(
		"UPDATE companies SET timezone = ? WHERE timezone IS NULL OR timezone = ''",
		timezone.DefaultTimezone,
	)

	if err := ensureOverlapConstraint(db); err != nil {
		return nil, fmt.Errorf("overlap constraint: %w", err)
	}

	return db, nil
}

// ensureOverlapConstraint installs the exclusion constraint that makes the
// database the final arbiter against double-booking. The row-locked re-check
// in the repository only sees rows that already exist; two transactions
// booking the same free interval both lock nothing, so without this
// constraint both inserts would commit. Violations surface as SQLSTATE 23P01
// and are translated to the slot_taken outcome.
func ensureOverlapConstraint(db *gorm.DB) error {
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS btree_gist").Error; err != nil {
		return err
	}

	var count int64
	if err := db.Raw(
		"SELECT count(*) FROM pg_constraint WHERE conname = 'appointments_no_overlap'",
	).Scan(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	return db.Exec(`
        ALTER TABLE appointments
        ADD CONSTRAINT appointments_no_overlap
        EXCLUDE USING gist (
            staff_id WITH =,
            tsrange(start_time, end_time) WITH &&
        ) WHERE (status <> 'cancelled')
    `).Error
}
