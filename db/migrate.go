package db

import (
	"fmt"
	"log"

	"github.com/adirsaban8-oss/ADIRS/models"
)

func Migrate() error {
	err := DB.AutoMigrate(
		&models.Customer{},
		&models.Appointment{},
		&models.OTPCode{},
		&models.ReminderSend{},
		&models.BlockedSlot{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Constraints gorm cannot express. These, not the application-level
	// checks, are the real guarantees under concurrent bookings.
	constraints := []string{
		`ALTER TABLE appointments DROP CONSTRAINT IF EXISTS chk_appointments_status`,
		`ALTER TABLE appointments ADD CONSTRAINT chk_appointments_status
			CHECK (status IN ('active', 'cancelled', 'completed'))`,
		`ALTER TABLE appointments DROP CONSTRAINT IF EXISTS chk_appointments_duration`,
		`ALTER TABLE appointments ADD CONSTRAINT chk_appointments_duration
			CHECK (duration_min > 0)`,

		// One active appointment per customer. Past actives are retired
		// to 'completed' by the hourly sweep, so active means future in
		// steady state.
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_one_active_per_customer
			ON appointments (customer_id) WHERE status = 'active'`,

		// No two active appointments may overlap in time: the shared
		// calendar has a single chair.
		`CREATE EXTENSION IF NOT EXISTS btree_gist`,
		`ALTER TABLE appointments DROP CONSTRAINT IF EXISTS excl_active_overlap`,
		`ALTER TABLE appointments ADD CONSTRAINT excl_active_overlap
			EXCLUDE USING gist (
				tsrange(start_time, start_time + (duration_min || ' minutes')::interval) WITH &&
			) WHERE (status = 'active')`,
	}

	for _, stmt := range constraints {
		if err := DB.Exec(stmt).Error; err != nil {
			return fmt.Errorf("constraint migration failed: %w", err)
		}
	}

	log.Println("✅ Migrations applied successfully!")
	return nil
}
