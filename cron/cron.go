package cron

import (
	"context"
	"log"

	"github.com/robfig/cron/v3"

	"github.com/adirsaban8-oss/ADIRS/services"
)

// StartCronJobs initializes and starts the reminder scheduler. The
// reminder pass is idempotent, so an hourly cadence is all the
// day-before and morning-of windows need.
func StartCronJobs(reminders *services.ReminderService) *cron.Cron {
	c := cron.New()

	_, err := c.AddFunc("0 * * * *", func() {
		reminders.Run(context.Background())
	})
	if err != nil {
		log.Fatalf("Failed to add cron job: %v", err)
	}

	c.Start()
	log.Println("Cron job scheduler started for appointment reminders")
	return c
}
