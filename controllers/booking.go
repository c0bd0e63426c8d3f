package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/milixmatux/Proyecto-de-enfermeria/db"
	"github.com/milixmatux/Proyecto-de-enfermeria/models"
	"github.com/milixmatux/Proyecto-de-enfermeria/utils"
)

// GetAvailableSlots lists the bookable slots of a date for the
// authenticated person.
func GetAvailableSlots(c *fiber.Ctx) error {
	day, err := utils.ParseDate(c.Query("date"), time.Now())
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: err.Error(),
		})
	}

	available, err := sched.AvailableSlots(currentPersonID(c), day)
	if err != nil {
		return failureResponse(c, err)
	}
	return c.JSON(available)
}

// BookSlot claims one free capacity unit of a slot for the authenticated
// person.
func BookSlot(c *fiber.Ctx) error {
	type BookInput struct {
		ScheduleID uint `json:"schedule_id"`
	}

	input := new(BookInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Cannot parse JSON",
		})
	}

	appointment, err := sched.Book(currentPersonID(c), input.ScheduleID)
	if err != nil {
		return failureResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(appointment)
}

// GetMyAppointments returns the authenticated person's appointment history,
// newest first.
func GetMyAppointments(c *fiber.Ctx) error {
	var appointments []models.Appointment
	err := db.DB.Preload("Schedule").
		Where("person_id = ?", currentPersonID(c)).
		Order("created_at DESC").
		Find(&appointments).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch appointments",
		})
	}
	return c.JSON(appointments)
}

// GetStudentHistory lets staff search student appointment history by a
// name/cedula fragment. An empty filter returns nothing, matching the
// original behaviour of the lookup screen.
func GetStudentHistory(c *fiber.Ctx) error {
	filter := c.Query("filter")
	if filter == "" {
		return c.JSON([]models.Appointment{})
	}

	pattern := "%" + filter + "%"
	var appointments []models.Appointment
	err := db.DB.Preload("Person").Preload("Schedule").
		Joins("JOIN people ON people.id = appointments.person_id").
		Where("people.category = ?", models.CategoryStudent).
		Where("people.name LIKE ? OR people.cedula LIKE ?", pattern, pattern).
		Order("appointments.created_at DESC").
		Find(&appointments).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch appointments",
		})
	}
	return c.JSON(appointments)
}
