package main

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/milixmatux/Proyecto-de-enfermeria/controllers"
	"github.com/milixmatux/Proyecto-de-enfermeria/cron"
	"github.com/milixmatux/Proyecto-de-enfermeria/db"
	"github.com/milixmatux/Proyecto-de-enfermeria/redis"
	"github.com/milixmatux/Proyecto-de-enfermeria/routes"
	"github.com/milixmatux/Proyecto-de-enfermeria/scheduler"
)

func main() {
	app := fiber.New()
	db.Init()
	redis.InitRedis()

	controllers.Setup(scheduler.New(db.DB))
	cron.StartCronJobs()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Infirmary scheduling service")
	})
	routes.SetupAuthRoutes(app)
	routes.SetupPersonRoutes(app)
	routes.SetupScheduleRoutes(app)
	routes.SetupAppointmentRoutes(app)
	routes.SetupReceiptRoutes(app)

	app.Listen(":8000")
	fmt.Println("Server started on port 8000")
}
