package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/milixmatux/Proyecto-de-enfermeria/scheduler"
	"github.com/milixmatux/Proyecto-de-enfermeria/utils"
)

// GetDayPlan returns the capacity-management view for a date, generating
// the day's slots on first access.
func GetDayPlan(c *fiber.Ctx) error {
	day, err := utils.ParseDate(c.Query("date"), time.Now())
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: err.Error(),
		})
	}

	plan, err := sched.DaySummary(currentPersonID(c), day)
	if err != nil {
		return failureResponse(c, err)
	}
	return c.JSON(plan)
}

// SaveCapacity applies a batch of per-slot capacity changes and responds
// with the recomputed day total.
func SaveCapacity(c *fiber.Ctx) error {
	var changes []scheduler.CapacityChange
	if err := c.BodyParser(&changes); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Cannot parse JSON",
		})
	}

	total, err := sched.SetCapacity(currentPersonID(c), changes)
	if err != nil {
		return failureResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"success":   true,
		"day_total": total,
	})
}
