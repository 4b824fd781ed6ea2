package main

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/adirsaban8-oss/ADIRS/calendar"
	"github.com/adirsaban8-oss/ADIRS/config"
	"github.com/adirsaban8-oss/ADIRS/controllers"
	"github.com/adirsaban8-oss/ADIRS/cron"
	"github.com/adirsaban8-oss/ADIRS/db"
	"github.com/adirsaban8-oss/ADIRS/notify"
	"github.com/adirsaban8-oss/ADIRS/redis"
	"github.com/adirsaban8-oss/ADIRS/routes"
	"github.com/adirsaban8-oss/ADIRS/services"
	"github.com/adirsaban8-oss/ADIRS/store"
)

func main() {
	cfg := config.Load()

	// Storage mode is decided once here. When Postgres is unreachable
	// the app still serves OTP login from memory, but registration and
	// booking are disabled until restart.
	var st store.Store
	if err := db.Init(cfg.DatabaseURL); err != nil {
		log.Printf("⚠️ Database unavailable, running degraded: %v", err)
		cfg.DegradedMode = true
		st = store.NewMemoryStore()
	} else {
		if err := db.Migrate(); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		st = store.NewGormStore(db.GetDB())
	}

	redis.InitRedis(cfg.RedisAddr)

	sender := buildSender(cfg)
	mirror := buildMirror(cfg)

	throttle := services.NewThrottle(redis.Client, cfg.OTPResendThrottle)
	otpSvc := services.NewOTPService(st, sender, throttle, cfg, !cfg.SMSEnabled)
	customerDir := services.NewCustomerDirectory(st, st)
	slotEngine := services.NewSlotEngine(st, st, cfg)
	bookingSvc := services.NewBookingService(st, st, slotEngine, mirror, sender, cfg)
	reminderSvc := services.NewReminderService(st, st, st, sender, cfg)

	controllers.Init(controllers.Deps{
		Config:    cfg,
		OTP:       otpSvc,
		Customers: customerDir,
		Booking:   bookingSvc,
		Slots:     slotEngine,
		Blocked:   st,
		Sender:    sender,
	})

	cron.StartCronJobs(reminderSvc)

	app := fiber.New()
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))

	routes.SetupAPIRoutes(app)
	routes.SetupAdminRoutes(app)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}

// buildSender assembles the notification fan-out from configuration.
// Without a real SMS channel the log channel echoes codes for local
// development.
func buildSender(cfg *config.Config) notify.Sender {
	var channels notify.Multi

	if cfg.SMSEnabled && cfg.TwilioAccountSID != "" {
		twilio, err := notify.NewTwilioChannel(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFrom)
		if err != nil {
			log.Printf("Twilio init failed, SMS disabled: %v", err)
		} else {
			channels = append(channels, twilio)
		}
	}
	if cfg.EmailEnabled && cfg.SMTPHost != "" {
		email, err := notify.NewEmailChannel(cfg.SMTPHost, cfg.SMTPPort, cfg.EmailUser, cfg.EmailPass)
		if err != nil {
			log.Printf("Email init failed, email disabled: %v", err)
		} else {
			channels = append(channels, email)
		}
	}
	if len(channels) == 0 {
		log.Println("No delivery channels configured, using log channel (mock mode)")
		channels = append(channels, notify.NewLogChannel())
	}
	return channels
}

func buildMirror(cfg *config.Config) calendar.Mirror {
	if cfg.GoogleCredentialsJSON == "" || cfg.GoogleCalendarID == "" {
		log.Println("Google Calendar not configured, mirror disabled")
		return calendar.NoopMirror{}
	}
	mirror, err := calendar.NewGoogleMirror(context.Background(), cfg.GoogleCredentialsJSON, cfg.GoogleCalendarID, cfg.Timezone)
	if err != nil {
		log.Printf("Google Calendar init failed, mirror disabled: %v", err)
		return calendar.NoopMirror{}
	}
	return mirror
}
