package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/milixmatux/Proyecto-de-enfermeria/controllers"
	"github.com/milixmatux/Proyecto-de-enfermeria/middleware"
	"github.com/milixmatux/Proyecto-de-enfermeria/models"
)

// SetupScheduleRoutes configures the day-planning routes
func SetupScheduleRoutes(app *fiber.App) {
	schedule := app.Group("/schedule", middleware.Protected(),
		middleware.RequireCapability(models.Category.CanManageCapacity))

	schedule.Get("/day", controllers.GetDayPlan)
	schedule.Post("/capacity", controllers.SaveCapacity)
}
