package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/milixmatux/Proyecto-de-enfermeria/controllers"
	"github.com/milixmatux/Proyecto-de-enfermeria/middleware"
	"github.com/milixmatux/Proyecto-de-enfermeria/models"
)

// SetupPersonRoutes configures the person directory routes
func SetupPersonRoutes(app *fiber.App) {
	persons := app.Group("/persons", middleware.Protected())

	browse := middleware.RequireCategory(models.CategoryClinicDesk, models.CategoryAdmin)
	manage := middleware.RequireCapability(models.Category.CanManagePersons)

	persons.Get("/", browse, controllers.GetPersons)
	persons.Get("/inactive", browse, controllers.GetInactivePersons)
	persons.Get("/cedula/:cedula", browse, controllers.FindPersonByCedula)
	persons.Get("/:id", browse, controllers.GetPerson)
	persons.Patch("/:id", manage, controllers.UpdatePerson)
	persons.Delete("/:id", manage, controllers.DeactivatePerson)
	persons.Post("/:id/reactivate", manage, controllers.ReactivatePerson)
}
