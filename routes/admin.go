package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/adirsaban8-oss/ADIRS/controllers"
	"github.com/adirsaban8-oss/ADIRS/middleware"
)

// SetupAdminRoutes configures the owner's admin panel. Everything past
// login requires an admin JWT.
func SetupAdminRoutes(app *fiber.App) {
	admin := app.Group("/api/admin")

	admin.Post("/login", controllers.AdminLogin)

	protected := admin.Group("", middleware.Protected())
	protected.Post("/logout", controllers.AdminLogout)

	protected.Get("/customers", controllers.AdminListCustomers)
	protected.Patch("/customers/:id", controllers.AdminUpdateCustomer)
	protected.Delete("/customers/:id", controllers.AdminDeleteCustomer)

	protected.Get("/appointments", controllers.AdminListAppointments)
	protected.Delete("/appointments/:id", controllers.AdminCancelAppointment)

	protected.Get("/blocked-slots", controllers.AdminGetBlockedSlots)
	protected.Post("/blocked-slots", controllers.AdminBlockSlot)
	protected.Post("/blocked-slots/unblock", controllers.AdminUnblockSlot)
	protected.Post("/blocked-slots/clear", controllers.AdminClearBlockedSlots)

	protected.Get("/gallery", controllers.GetGallery)
	protected.Post("/gallery/upload", controllers.AdminUploadGalleryImage)
	protected.Post("/gallery/delete", controllers.AdminDeleteGalleryImage)
}
