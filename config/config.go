package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is loaded once at startup; request handlers never read the
// environment directly.
type Config struct {
	Port        string
	DatabaseURL string
	RedisAddr   string

	// Admin panel
	AdminPassword string
	JWTSecret     string

	// Booking horizon
	MinLeadDays    int
	MaxAdvanceDays int

	// OTP policy
	OTPLength          int
	OTPExpiry          time.Duration
	OTPMaxAttempts     int
	OTPCooldown        time.Duration
	OTPResendThrottle  time.Duration

	// Notification channels
	SMSEnabled         bool
	TwilioAccountSID   string
	TwilioAuthToken    string
	TwilioFrom         string
	SMTPHost           string
	SMTPPort           int
	EmailUser          string
	EmailPass          string
	EmailEnabled       bool

	// Calendar mirror
	GoogleCredentialsJSON string
	GoogleCalendarID      string

	// Flipped once by the startup health check when Postgres is
	// unreachable: registration is disabled and OTP storage becomes
	// volatile (see db.Init / main.go).
	DegradedMode bool

	Timezone *time.Location
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file. Using environment variables directly.")
	}

	tz, err := time.LoadLocation(getEnv("BUSINESS_TIMEZONE", "Asia/Jerusalem"))
	if err != nil {
		log.Printf("Invalid BUSINESS_TIMEZONE, falling back to UTC: %v", err)
		tz = time.UTC
	}

	return &Config{
		Port:        getEnv("PORT", "8000"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisAddr:   os.Getenv("REDIS_ADDR"),

		AdminPassword: getEnv("ADMIN_PASSWORD", "admin123"),
		JWTSecret:     getEnv("JWT_SECRET", "solid_secret_key"),

		MinLeadDays:    getEnvInt("BOOKING_MIN_LEAD_DAYS", 1),
		MaxAdvanceDays: getEnvInt("BOOKING_MAX_ADVANCE_DAYS", 30),

		OTPLength:         6,
		OTPExpiry:         5 * time.Minute,
		OTPMaxAttempts:    3,
		OTPCooldown:       15 * time.Minute,
		OTPResendThrottle: time.Duration(getEnvInt("OTP_RESEND_THROTTLE_SECONDS", 30)) * time.Second,

		SMSEnabled:       getEnv("SMS_ENABLED", "false") == "true",
		TwilioAccountSID: os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:  os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioFrom:       os.Getenv("TWILIO_FROM"),
		SMTPHost:         os.Getenv("SMTP_HOST"),
		SMTPPort:         getEnvInt("SMTP_PORT", 587),
		EmailUser:        os.Getenv("EMAIL_USER"),
		EmailPass:        os.Getenv("EMAIL_PASS"),
		EmailEnabled:     getEnv("EMAIL_ENABLED", "false") == "true",

		GoogleCredentialsJSON: os.Getenv("GOOGLE_CREDENTIALS_JSON"),
		GoogleCalendarID:      os.Getenv("GOOGLE_CALENDAR_ID"),

		Timezone: tz,
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}
