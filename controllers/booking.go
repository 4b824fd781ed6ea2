package controllers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/adirsaban8-oss/ADIRS/models"
	"github.com/adirsaban8-oss/ADIRS/notify"
	"github.com/adirsaban8-oss/ADIRS/services"
	"github.com/adirsaban8-oss/ADIRS/utils"
)

// GetServices returns the studio's service catalog.
func GetServices(c *fiber.Ctx) error {
	return c.JSON(models.Services)
}

// GetAvailableSlots lists free start times for ?date=YYYY-MM-DD and an
// optional ?service= name that sets the duration.
func GetAvailableSlots(c *fiber.Ctx) error {
	date := c.Query("date")
	if date == "" {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Missing date query parameter",
		})
	}

	duration := 30
	if name := c.Query("service"); name != "" {
		svc := models.FindService(name)
		if svc == nil {
			return fail(c, &services.DomainError{Code: services.CodeInvalidService, Message: "unknown service " + name})
		}
		duration = svc.DurationMin
	}

	res, err := slots.AvailableSlots(date, duration)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(res)
}

type registerRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// RegisterCustomer creates a customer, or returns the existing one for
// the phone. Disabled while the database is down.
func RegisterCustomer(c *fiber.Ctx) error {
	if cfg.DegradedMode {
		return fail(c, &services.DomainError{
			Code:    services.CodeStorageUnavailable,
			Message: "registration is temporarily unavailable",
		})
	}

	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}

	customer, created, err := customers.Register(req.Name, req.Phone, req.Email)
	if err != nil {
		return fail(c, err)
	}
	status := fiber.StatusOK
	if created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(fiber.Map{"customer": customer, "created": created})
}

// GetCustomerByPhone looks up a customer for the client's post-OTP flow.
func GetCustomerByPhone(c *fiber.Ctx) error {
	customer, err := customers.FindByPhone(c.Query("phone"))
	if err != nil {
		if services.ErrCode(err) == services.CodeInvalidPhone {
			return fail(c, err)
		}
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Customer not found",
		})
	}
	return c.JSON(customer)
}

// BookAppointment creates an appointment for an existing customer.
// Disabled while the database is down.
func BookAppointment(c *fiber.Ctx) error {
	if cfg.DegradedMode {
		return fail(c, &services.DomainError{
			Code:    services.CodeStorageUnavailable,
			Message: "booking is temporarily unavailable",
		})
	}

	var req services.BookingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}

	appt, err := booking.Create(c.Context(), req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(appt)
}

type cancelRequest struct {
	AppointmentID string `json:"appointment_id"`
}

// CancelAppointment cancels a customer's appointment. Same-day
// cancellations are refused here; the admin endpoint allows them.
func CancelAppointment(c *fiber.Ctx) error {
	var req cancelRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}
	id, err := uuid.Parse(req.AppointmentID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid appointment ID",
			Error:   err.Error(),
		})
	}

	appt, err := booking.Cancel(c.Context(), id, false)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(appt)
}

// GetMyAppointments returns the upcoming and past appointments for the
// phone in the query.
func GetMyAppointments(c *fiber.Ctx) error {
	res, err := booking.MyAppointments(c.Query("phone"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(res)
}

// GetGallery lists the public work gallery.
func GetGallery(c *fiber.Ctx) error {
	images, err := utils.ListGalleryImages(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to load gallery",
			Error:   err.Error(),
		})
	}
	return c.JSON(images)
}

type contactRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// ContactMessage forwards a free-form message from the contact form to
// the studio owner.
func ContactMessage(c *fiber.Ctx) error {
	var req contactRequest
	if err := c.BodyParser(&req); err != nil || req.Message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Missing contact message",
		})
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		contactSender.Send(ctx, notify.Target{Name: req.Name, Email: cfg.EmailUser},
			notify.KindContactMessage, map[string]string{
				"name":    req.Name,
				"phone":   req.Phone,
				"message": req.Message,
			})
	}()

	return c.JSON(fiber.Map{"sent": true})
}

// HealthCheck reports liveness and the capabilities decided at startup.
func HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":   "ok",
		"degraded": cfg.DegradedMode,
		"database": !cfg.DegradedMode,
		"sms":      cfg.SMSEnabled,
		"calendar": cfg.GoogleCredentialsJSON != "" && cfg.GoogleCalendarID != "",
		"time":     time.Now().In(cfg.Timezone).Format(time.RFC3339),
	})
}
