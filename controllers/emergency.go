package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/milixmatux/Proyecto-de-enfermeria/utils"
)

// BookEmergency inserts a walk-in appointment for the person identified by
// cedula. The slot is found or synthesized by the allocation engine.
func BookEmergency(c *fiber.Ctx) error {
	type EmergencyInput struct {
		Cedula string `json:"cedula"`
	}

	input := new(EmergencyInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Cannot parse JSON",
		})
	}
	if input.Cedula == "" {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Cedula is required",
		})
	}

	appointment, err := sched.BookEmergency(currentPersonID(c), input.Cedula)
	if err != nil {
		return failureResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(appointment)
}
