package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/adirsaban8-oss/ADIRS/config"
	"github.com/adirsaban8-oss/ADIRS/notify"
	"github.com/adirsaban8-oss/ADIRS/services"
	"github.com/adirsaban8-oss/ADIRS/utils"
)

// Package-level services, wired once from main. Handlers stay plain
// functions so the routes read flat.
var (
	cfg       *config.Config
	otp       *services.OTPService
	customers *services.CustomerDirectory
	booking   *services.BookingService
	slots     *services.SlotEngine
	blocked   BlockedSlotAdmin

	contactSender notify.Sender
)

// BlockedSlotAdmin is the subset of the store the admin panel uses to
// manage manual blocks.
type BlockedSlotAdmin interface {
	BlockedTimes(date string) ([]string, error)
	BlockSlot(date, timeStr string) error
	UnblockSlot(date, timeStr string) error
	ClearBlockedSlots(date string) error
}

type Deps struct {
	Config    *config.Config
	OTP       *services.OTPService
	Customers *services.CustomerDirectory
	Booking   *services.BookingService
	Slots     *services.SlotEngine
	Blocked   BlockedSlotAdmin
	Sender    notify.Sender
}

func Init(d Deps) {
	cfg = d.Config
	otp = d.OTP
	customers = d.Customers
	booking = d.Booking
	slots = d.Slots
	blocked = d.Blocked
	contactSender = d.Sender
}

// domainStatus maps an expected service outcome to an HTTP status.
func domainStatus(code services.Code) int {
	switch code {
	case services.CodeInvalidPhone, services.CodeInvalidInput, services.CodeInvalidService,
		services.CodeInvalidDateTime, services.CodeOutOfHorizon,
		services.CodeNoActiveCode, services.CodeExpired, services.CodeWrongCode:
		return fiber.StatusBadRequest
	case services.CodeCooldownActive, services.CodeTooManyAttempts:
		return fiber.StatusTooManyRequests
	case services.CodeCustomerNotFound:
		return fiber.StatusNotFound
	case services.CodeActiveAppointmentExists, services.CodeSlotUnavailable,
		services.CodeInvalidTransition, services.CodeSameDayCancelBlocked:
		return fiber.StatusConflict
	case services.CodeStorageUnavailable:
		return fiber.StatusServiceUnavailable
	}
	return fiber.StatusInternalServerError
}

// fail renders an error, mapping domain errors to their status and
// code, and everything else to a 500.
func fail(c *fiber.Ctx, err error) error {
	if de, ok := err.(*services.DomainError); ok {
		body := fiber.Map{
			"message": de.Message,
			"code":    de.Code,
		}
		if de.Conflict != nil {
			body["conflict"] = de.Conflict
		}
		return c.Status(domainStatus(de.Code)).JSON(body)
	}
	return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
		Message: "Internal server error",
		Error:   err.Error(),
	})
}
