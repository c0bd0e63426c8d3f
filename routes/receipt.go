package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/milixmatux/Proyecto-de-enfermeria/controllers"
	"github.com/milixmatux/Proyecto-de-enfermeria/middleware"
)

// SetupReceiptRoutes configures the receipt projection routes
func SetupReceiptRoutes(app *fiber.App) {
	receipts := app.Group("/receipts", middleware.Protected())
	receipts.Get("/", controllers.GetReceipts)
	receipts.Get("/:id", controllers.GetReceipt)
}
