package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/milixmatux/Proyecto-de-enfermeria/scheduler"
	"github.com/milixmatux/Proyecto-de-enfermeria/utils"
)

var sched *scheduler.Service

// Setup wires the allocation engine into the handlers. Call once at boot.
func Setup(svc *scheduler.Service) {
	sched = svc
}

func currentPersonID(c *fiber.Ctx) uint {
	id, _ := c.Locals("personID").(uint)
	return id
}

func currentUsername(c *fiber.Ctx) string {
	username, _ := c.Locals("username").(string)
	return username
}

// failureResponse maps a scheduler failure to an HTTP response. Business
// failures surface their reason; anything else is a storage fault and stays
// opaque to the caller.
func failureResponse(c *fiber.Ctx, err error) error {
	if !scheduler.Expected(err) {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Internal error",
		})
	}

	status := fiber.StatusBadRequest
	switch {
	case errors.Is(err, scheduler.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, scheduler.ErrForbidden):
		status = fiber.StatusForbidden
	case errors.Is(err, scheduler.ErrConflict):
		status = fiber.StatusConflict
	}
	return c.Status(status).JSON(utils.ErrorResponse{Message: err.Error()})
}
