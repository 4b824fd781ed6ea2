package store

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/adirsaban8-oss/ADIRS/models"
)

// Postgres error codes surfaced by the appointments constraints.
const (
	pgUniqueViolation    = "23505"
	pgExclusionViolation = "23P01"
)

// GormStore is the production Store backed by Postgres.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// ---------- customers ----------

func (s *GormStore) CreateCustomer(c *models.Customer) error {
	if err := s.db.Create(c).Error; err != nil {
		if isPgError(err, pgUniqueViolation) {
			return ErrDuplicatePhone
		}
		return err
	}
	return nil
}

func (s *GormStore) CustomerByPhone(phone string) (*models.Customer, error) {
	var c models.Customer
	err := s.db.Where("phone = ?", phone).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *GormStore) CustomerByID(id uuid.UUID) (*models.Customer, error) {
	var c models.Customer
	err := s.db.First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *GormStore) UpdateCustomer(c *models.Customer) error {
	return s.db.Save(c).Error
}

func (s *GormStore) DeleteCustomer(id uuid.UUID) error {
	res := s.db.Delete(&models.Customer{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) ListCustomers(limit, offset int) ([]models.Customer, int64, error) {
	var customers []models.Customer
	var total int64
	if err := s.db.Model(&models.Customer{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := s.db.Order("created_at DESC").Limit(limit).Offset(offset).Find(&customers).Error
	return customers, total, err
}

func (s *GormStore) SearchCustomers(term string, limit, offset int) ([]models.Customer, int64, error) {
	pattern := "%" + term + "%"
	q := s.db.Model(&models.Customer{}).Where("name ILIKE ? OR phone LIKE ?", pattern, pattern)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var customers []models.Customer
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&customers).Error
	return customers, total, err
}

// ---------- appointments ----------

func (s *GormStore) CreateBooked(a *models.Appointment) error {
	end := a.EndTime()
	return s.db.Transaction(func(tx *gorm.DB) error {
		// Lock any row that would conflict so the checks stay fresh
		// until our insert commits.
		var existing models.Appointment
		err := tx.Raw(`
			SELECT * FROM appointments
			WHERE customer_id = ? AND status = 'active'
			LIMIT 1 FOR UPDATE
		`, a.CustomerID).Scan(&existing).Error
		if err != nil {
			return err
		}
		if existing.ID != uuid.Nil {
			return ErrActiveExists
		}

		var conflict models.Appointment
		err = tx.Raw(`
			SELECT * FROM appointments
			WHERE status = 'active'
			AND start_time < ?
			AND start_time + (duration_min || ' minutes')::interval > ?
			LIMIT 1 FOR UPDATE
		`, end, a.StartTime).Scan(&conflict).Error
		if err != nil {
			return err
		}
		if conflict.ID != uuid.Nil {
			return ErrSlotTaken
		}

		if err := tx.Create(a).Error; err != nil {
			if isPgError(err, pgUniqueViolation) {
				return ErrActiveExists
			}
			if isPgError(err, pgExclusionViolation) {
				return ErrSlotTaken
			}
			return err
		}
		return nil
	})
}

func (s *GormStore) AppointmentByID(id uuid.UUID) (*models.Appointment, error) {
	var a models.Appointment
	err := s.db.Preload("Customer").First(&a, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *GormStore) UpdateAppointment(a *models.Appointment) error {
	return s.db.Omit("Customer").Save(a).Error
}

func (s *GormStore) SetGoogleEventID(id uuid.UUID, eventID string) error {
	return s.db.Model(&models.Appointment{}).Where("id = ?", id).
		Update("google_event_id", eventID).Error
}

func (s *GormStore) ActiveFutureAppointment(customerID uuid.UUID, now time.Time) (*models.Appointment, error) {
	var a models.Appointment
	err := s.db.Where("customer_id = ? AND status = ? AND start_time >= ?",
		customerID, models.StatusActive, now).
		Order("start_time ASC").First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *GormStore) ActiveAppointmentsBetween(from, to time.Time) ([]models.Appointment, error) {
	var appointments []models.Appointment
	err := s.db.Preload("Customer").
		Where("status = ? AND start_time >= ? AND start_time < ?", models.StatusActive, from, to).
		Order("start_time ASC").Find(&appointments).Error
	return appointments, err
}

func (s *GormStore) FutureAppointmentsByCustomer(customerID uuid.UUID, now time.Time) ([]models.Appointment, error) {
	var appointments []models.Appointment
	err := s.db.Where("customer_id = ? AND status = ? AND start_time > ?",
		customerID, models.StatusActive, now).
		Order("start_time ASC").Find(&appointments).Error
	return appointments, err
}

func (s *GormStore) PastAppointmentsByCustomer(customerID uuid.UUID, now time.Time, limit int) ([]models.Appointment, error) {
	var appointments []models.Appointment
	err := s.db.Where("customer_id = ? AND start_time <= ?", customerID, now).
		Order("start_time DESC").Limit(limit).Find(&appointments).Error
	return appointments, err
}

func (s *GormStore) ListAppointments(status models.AppointmentStatus, limit, offset int) ([]models.Appointment, int64, error) {
	q := s.db.Model(&models.Appointment{})
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var appointments []models.Appointment
	err := q.Preload("Customer").Order("start_time DESC").
		Limit(limit).Offset(offset).Find(&appointments).Error
	return appointments, total, err
}

func (s *GormStore) CompleteElapsedAppointments(now time.Time) (int64, error) {
	res := s.db.Model(&models.Appointment{}).
		Where("status = ? AND start_time + (duration_min || ' minutes')::interval < ?",
			models.StatusActive, now).
		Update("status", models.StatusCompleted)
	return res.RowsAffected, res.Error
}

// ---------- otp ----------

func (s *GormStore) LatestOTP(phone string) (*models.OTPCode, error) {
	var code models.OTPCode
	err := s.db.Where("phone = ? AND verified = ?", phone, false).
		Order("created_at DESC").First(&code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &code, nil
}

func (s *GormStore) ReplaceOTP(code *models.OTPCode) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("phone = ?", code.Phone).Delete(&models.OTPCode{}).Error; err != nil {
			return err
		}
		return tx.Create(code).Error
	})
}

func (s *GormStore) UpdateOTP(code *models.OTPCode) error {
	return s.db.Save(code).Error
}

// ---------- reminders ----------

func (s *GormStore) ReminderSent(appointmentID uuid.UUID, kind models.ReminderKind) (bool, error) {
	var count int64
	err := s.db.Model(&models.ReminderSend{}).
		Where("appointment_id = ? AND kind = ?", appointmentID, kind).
		Count(&count).Error
	return count > 0, err
}

func (s *GormStore) MarkReminderSent(appointmentID uuid.UUID, kind models.ReminderKind) error {
	err := s.db.Create(&models.ReminderSend{
		AppointmentID: appointmentID,
		Kind:          kind,
		SentAt:        time.Now(),
	}).Error
	if isPgError(err, pgUniqueViolation) {
		return nil
	}
	return err
}

// ---------- blocked slots ----------

func (s *GormStore) BlockedTimes(date string) ([]string, error) {
	var slots []models.BlockedSlot
	if err := s.db.Where("date = ?", date).Order("time ASC").Find(&slots).Error; err != nil {
		return nil, err
	}
	times := make([]string, 0, len(slots))
	for _, slot := range slots {
		times = append(times, slot.Time)
	}
	return times, nil
}

func (s *GormStore) BlockSlot(date, timeStr string) error {
	err := s.db.Create(&models.BlockedSlot{Date: date, Time: timeStr}).Error
	if isPgError(err, pgUniqueViolation) {
		return nil
	}
	return err
}

func (s *GormStore) UnblockSlot(date, timeStr string) error {
	return s.db.Where("date = ? AND time = ?", date, timeStr).
		Delete(&models.BlockedSlot{}).Error
}

func (s *GormStore) ClearBlockedSlots(date string) error {
	return s.db.Where("date = ?", date).Delete(&models.BlockedSlot{}).Error
}

func isPgError(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}
