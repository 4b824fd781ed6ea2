package controllers

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/adirsaban8-oss/ADIRS/models"
	"github.com/adirsaban8-oss/ADIRS/utils"
)

// The admin panel has a single operator, so the credential is one
// password from the environment. It is hashed once at startup and
// compared with bcrypt on every login.
var (
	adminHashOnce sync.Once
	adminHash     []byte
)

func adminPasswordHash() []byte {
	adminHashOnce.Do(func() {
		h, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
		if err == nil {
			adminHash = h
		}
	})
	return adminHash
}

// AdminLogin exchanges the admin password for a JWT.
func AdminLogin(c *fiber.Ctx) error {
	type loginInput struct {
		Password string `json:"password"`
	}
	input := new(loginInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}

	if err := bcrypt.CompareHashAndPassword(adminPasswordHash(), []byte(input.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(utils.ErrorResponse{
			Message: "Invalid password",
		})
	}

	claims := jwt.MapClaims{
		"role": "admin",
		"exp":  time.Now().Add(12 * time.Hour).Unix(),
		"iat":  time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(cfg.JWTSecret))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to sign token",
			Error:   err.Error(),
		})
	}

	return c.JSON(fiber.Map{"token": tokenString})
}

// AdminLogout is a no-op acknowledgment; tokens simply expire.
func AdminLogout(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "Logged out"})
}

// AdminListCustomers searches or pages the customer directory.
func AdminListCustomers(c *fiber.Ctx) error {
	page, err := customers.Search(c.Query("search"), c.QueryInt("limit", 50), c.QueryInt("offset", 0))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(page)
}

// AdminUpdateCustomer edits a customer's name or email. Phone is the
// identity key and cannot change.
func AdminUpdateCustomer(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid customer ID",
			Error:   err.Error(),
		})
	}

	var req struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}

	customer, err := customers.Update(id, req.Name, req.Email)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(customer)
}

// AdminDeleteCustomer deletes a customer; ?force=true overrides the
// future-appointments guard.
func AdminDeleteCustomer(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid customer ID",
			Error:   err.Error(),
		})
	}

	future, err := customers.Delete(id, c.QueryBool("force", false))
	if err != nil {
		if len(future) > 0 {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message":      "Customer has future appointments",
				"appointments": future,
			})
		}
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AdminListAppointments pages appointments, optionally filtered by
// ?status=active|cancelled|completed.
func AdminListAppointments(c *fiber.Ctx) error {
	page, err := booking.List(models.AppointmentStatus(c.Query("status")),
		c.QueryInt("limit", 50), c.QueryInt("offset", 0))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(page)
}

// AdminCancelAppointment cancels any active appointment, including
// same-day ones.
func AdminCancelAppointment(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid appointment ID",
			Error:   err.Error(),
		})
	}

	appt, err := booking.Cancel(c.Context(), id, true)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(appt)
}

// AdminGetBlockedSlots lists the manual blocks for ?date=YYYY-MM-DD.
func AdminGetBlockedSlots(c *fiber.Ctx) error {
	date := c.Query("date")
	if date == "" {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Missing date query parameter",
		})
	}
	times, err := blocked.BlockedTimes(date)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"date": date, "times": times})
}

type blockSlotRequest struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

// AdminBlockSlot closes one grid slot on a date.
func AdminBlockSlot(c *fiber.Ctx) error {
	var req blockSlotRequest
	if err := c.BodyParser(&req); err != nil || req.Date == "" || req.Time == "" {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Missing date or time",
		})
	}
	if err := blocked.BlockSlot(req.Date, req.Time); err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(req)
}

// AdminUnblockSlot reopens one blocked slot.
func AdminUnblockSlot(c *fiber.Ctx) error {
	var req blockSlotRequest
	if err := c.BodyParser(&req); err != nil || req.Date == "" || req.Time == "" {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Missing date or time",
		})
	}
	if err := blocked.UnblockSlot(req.Date, req.Time); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AdminClearBlockedSlots removes every manual block on a date.
func AdminClearBlockedSlots(c *fiber.Ctx) error {
	var req blockSlotRequest
	if err := c.BodyParser(&req); err != nil || req.Date == "" {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Missing date",
		})
	}
	if err := blocked.ClearBlockedSlots(req.Date); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AdminUploadGalleryImage adds a work photo to the public gallery.
func AdminUploadGalleryImage(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Missing image file",
			Error:   err.Error(),
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to open upload",
			Error:   err.Error(),
		})
	}
	defer file.Close()

	image, err := utils.UploadGalleryImage(c.Context(), file)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Upload failed",
			Error:   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(image)
}

// AdminDeleteGalleryImage removes a gallery image by public ID.
func AdminDeleteGalleryImage(c *fiber.Ctx) error {
	var req struct {
		PublicID string `json:"public_id"`
	}
	if err := c.BodyParser(&req); err != nil || req.PublicID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Missing image ID",
		})
	}
	if err := utils.DeleteGalleryImage(c.Context(), req.PublicID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Delete failed",
			Error:   err.Error(),
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
