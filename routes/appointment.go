package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/milixmatux/Proyecto-de-enfermeria/controllers"
	"github.com/milixmatux/Proyecto-de-enfermeria/middleware"
	"github.com/milixmatux/Proyecto-de-enfermeria/models"
)

// SetupAppointmentRoutes configures booking, emergency and visit routes
func SetupAppointmentRoutes(app *fiber.App) {
	appointments := app.Group("/appointments", middleware.Protected())

	appointments.Get("/available", controllers.GetAvailableSlots)
	appointments.Post("/book", controllers.BookSlot)
	appointments.Get("/mine", controllers.GetMyAppointments)
	appointments.Post("/:id/cancel", controllers.CancelAppointment)

	appointments.Post("/emergency",
		middleware.RequireCapability(models.Category.CanBookEmergencyForOthers),
		controllers.BookEmergency)

	visits := middleware.RequireCapability(models.Category.CanRecordVisits)
	appointments.Post("/:id/arrival", visits, controllers.RecordArrival)
	appointments.Post("/:id/departure", visits, controllers.RecordDeparture)

	appointments.Get("/students",
		middleware.RequireCategory(models.CategoryTeacher, models.CategoryClinicDesk, models.CategoryAdmin),
		controllers.GetStudentHistory)
}
