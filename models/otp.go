package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OTPCode rows are keyed by phone, not customer id: verification happens
// before a customer row may exist. Requesting a new code supersedes all
// prior rows for the phone.
type OTPCode struct {
	ID            uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	Phone         string     `json:"phone" gorm:"size:20;not null;index"`
	Code          string     `json:"-" gorm:"size:6;not null"`
	ExpiresAt     time.Time  `json:"expires_at" gorm:"not null;index"`
	Verified      bool       `json:"verified" gorm:"default:false"`
	Attempts      int        `json:"attempts" gorm:"default:0"`
	CooldownUntil *time.Time `json:"cooldown_until"`
	CreatedAt     time.Time  `json:"created_at"`
}

func (o *OTPCode) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

func (o *OTPCode) Expired(now time.Time) bool {
	return now.After(o.ExpiresAt)
}

func (o *OTPCode) InCooldown(now time.Time) bool {
	return o.CooldownUntil != nil && now.Before(*o.CooldownUntil)
}
