package services

import (
	"context"
	"crypto/subtle"
	"log"
	"strings"
	"time"

	"github.com/adirsaban8-oss/ADIRS/config"
	"github.com/adirsaban8-oss/ADIRS/notify"
	"github.com/adirsaban8-oss/ADIRS/store"
	"github.com/adirsaban8-oss/ADIRS/models"
	"github.com/adirsaban8-oss/ADIRS/utils"
)

// OTPService issues and verifies one-time codes keyed by normalized
// phone. A new request always supersedes the prior code for that phone,
// so "resend" is just a fresh row.
type OTPService struct {
	store    store.OTPStore
	sender   notify.Sender
	throttle *Throttle
	cfg      *config.Config

	// mock is fixed at startup: true when the log channel stands in for
	// a real SMS provider.
	mock bool

	now func() time.Time
}

func NewOTPService(st store.OTPStore, sender notify.Sender, throttle *Throttle, cfg *config.Config, mock bool) *OTPService {
	return &OTPService{
		store:    st,
		sender:   sender,
		throttle: throttle,
		cfg:      cfg,
		mock:     mock,
		now:      time.Now,
	}
}

type OTPRequestResult struct {
	Delivered bool `json:"delivered"`
	Mock      bool `json:"mock"`
}

type OTPVerifyResult struct {
	Verified bool `json:"verified"`
	Reason   Code `json:"reason,omitempty"`
}

// RequestCode generates a fresh code for the phone, persists it and
// dispatches delivery best-effort. A prior unexpired code is superseded;
// an active cooldown blocks new requests.
func (s *OTPService) RequestCode(ctx context.Context, phone string) (*OTPRequestResult, error) {
	normalized, err := utils.NormalizePhone(phone)
	if err != nil || !utils.IsValidMobile(normalized) {
		return nil, domainErr(CodeInvalidPhone, "not a valid mobile number: %q", phone)
	}

	now := s.now()

	if existing, err := s.store.LatestOTP(normalized); err == nil && existing.InCooldown(now) {
		remaining := time.Until(*existing.CooldownUntil).Round(time.Minute)
		return nil, domainErr(CodeCooldownActive, "too many attempts, retry in %s", remaining)
	}

	if s.throttle != nil {
		if ok := s.throttle.Allow(ctx, normalized); !ok {
			return nil, domainErr(CodeCooldownActive, "code already requested, wait before resending")
		}
	}

	code, err := utils.GenerateOTP(s.cfg.OTPLength)
	if err != nil {
		return nil, err
	}

	row := &models.OTPCode{
		Phone:     normalized,
		Code:      code,
		ExpiresAt: now.Add(s.cfg.OTPExpiry),
	}
	if err := s.store.ReplaceOTP(row); err != nil {
		return nil, err
	}

	// Delivery never blocks or fails the request. In mock mode the
	// channel surfaces the code through the logs instead.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.sender.Send(ctx, notify.Target{Phone: normalized}, notify.KindOTPCode,
			map[string]string{"code": code})
	}()

	return &OTPRequestResult{Delivered: !s.mock, Mock: s.mock}, nil
}

// VerifyCode checks the submitted code against the latest row for the
// phone. It fails closed: no row, expiry, and cooldown all reject
// before the digits are even compared.
func (s *OTPService) VerifyCode(ctx context.Context, phone, submitted string) (*OTPVerifyResult, error) {
	normalized, err := utils.NormalizePhone(phone)
	if err != nil {
		return nil, domainErr(CodeInvalidPhone, "not a valid phone number: %q", phone)
	}

	now := s.now()

	row, err := s.store.LatestOTP(normalized)
	if err != nil {
		return &OTPVerifyResult{Verified: false, Reason: CodeNoActiveCode}, nil
	}

	// Cooldown outlives code expiry, so it is checked first: a locked
	// phone stays locked even with the correct digits.
	if row.InCooldown(now) {
		return &OTPVerifyResult{Verified: false, Reason: CodeCooldownActive}, nil
	}

	if row.Expired(now) {
		return &OTPVerifyResult{Verified: false, Reason: CodeExpired}, nil
	}

	if subtle.ConstantTimeCompare([]byte(row.Code), []byte(strings.TrimSpace(submitted))) != 1 {
		row.Attempts++
		reason := CodeWrongCode
		if row.Attempts >= s.cfg.OTPMaxAttempts {
			cooldown := now.Add(s.cfg.OTPCooldown)
			row.CooldownUntil = &cooldown
			reason = CodeTooManyAttempts
			log.Printf("[OTP] Max attempts reached for %s, cooldown set", normalized)
		}
		if err := s.store.UpdateOTP(row); err != nil {
			return nil, err
		}
		return &OTPVerifyResult{Verified: false, Reason: reason}, nil
	}

	row.Verified = true
	if err := s.store.UpdateOTP(row); err != nil {
		return nil, err
	}

	log.Printf("[OTP] Verified successfully for %s", normalized)
	return &OTPVerifyResult{Verified: true}, nil
}
