package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/milixmatux/Proyecto-de-enfermeria/utils"
)

type visitInput struct {
	Note      string `json:"note"`
	WitnessID uint   `json:"witness_id"`
}

func parseVisit(c *fiber.Ctx) (uint, *visitInput, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, nil, c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid appointment id",
		})
	}

	input := new(visitInput)
	if err := c.BodyParser(input); err != nil {
		return 0, nil, c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Cannot parse JSON",
		})
	}
	return uint(id), input, nil
}

// RecordArrival registers the patient's arrival at the clinic desk.
func RecordArrival(c *fiber.Ctx) error {
	id, input, err := parseVisit(c)
	if input == nil {
		return err
	}

	result, err := sched.RecordArrival(id, input.Note, input.WitnessID, currentUsername(c))
	if err != nil {
		return failureResponse(c, err)
	}
	return c.JSON(result)
}

// RecordDeparture registers the patient's departure and completes the
// appointment.
func RecordDeparture(c *fiber.Ctx) error {
	id, input, err := parseVisit(c)
	if input == nil {
		return err
	}

	result, err := sched.RecordDeparture(id, input.Note, input.WitnessID, currentUsername(c))
	if err != nil {
		return failureResponse(c, err)
	}
	return c.JSON(result)
}

// CancelAppointment lets the owning person cancel a pending same-day
// appointment.
func CancelAppointment(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid appointment id",
		})
	}

	if err := sched.Cancel(uint(id), currentPersonID(c)); err != nil {
		return failureResponse(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
