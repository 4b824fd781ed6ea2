package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/adirsaban8-oss/ADIRS/utils"
)

type otpRequest struct {
	Phone string `json:"phone"`
}

type otpVerify struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
}

// RequestOTP sends a fresh verification code to the phone.
func RequestOTP(c *fiber.Ctx) error {
	var req otpRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}

	res, err := otp.RequestCode(c.Context(), req.Phone)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(res)
}

// VerifyOTP checks a submitted code. On success the customer record for
// the phone, if any, rides along so the client can skip registration.
func VerifyOTP(c *fiber.Ctx) error {
	var req otpVerify
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}

	res, err := otp.VerifyCode(c.Context(), req.Phone, req.Code)
	if err != nil {
		return fail(c, err)
	}

	body := fiber.Map{"verified": res.Verified}
	if customer, err := customers.FindByPhone(req.Phone); err == nil {
		body["customer"] = customer
	}
	return c.JSON(body)
}
