package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/adirsaban8-oss/ADIRS/controllers"
)

// SetupAPIRoutes configures the public booking API.
func SetupAPIRoutes(app *fiber.App) {
	app.Get("/health", controllers.HealthCheck)

	api := app.Group("/api")

	api.Get("/services", controllers.GetServices)
	api.Get("/available-slots", controllers.GetAvailableSlots)
	api.Get("/gallery", controllers.GetGallery)
	api.Post("/contact", controllers.ContactMessage)

	otp := api.Group("/otp")
	otp.Post("/request", controllers.RequestOTP)
	otp.Post("/verify", controllers.VerifyOTP)

	api.Get("/user/lookup", controllers.GetCustomerByPhone)
	api.Post("/user/register", controllers.RegisterCustomer)

	api.Post("/book", controllers.BookAppointment)
	api.Post("/cancel-appointment", controllers.CancelAppointment)
	api.Get("/my-appointments", controllers.GetMyAppointments)
}
