package controllers

import (
	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/milixmatux/Proyecto-de-enfermeria/db"
	"github.com/milixmatux/Proyecto-de-enfermeria/models"
	"github.com/milixmatux/Proyecto-de-enfermeria/utils"
)

// GetPersons lists active directory records, optionally filtered by a
// name/cedula fragment.
func GetPersons(c *fiber.Ctx) error {
	search := c.Query("search")

	q := db.DB.Where("active = ?", true)
	if search != "" {
		q = q.Where("name LIKE ? OR cedula LIKE ?", "%"+search+"%", "%"+search+"%")
	}

	var persons []models.Person
	if err := q.Order("id DESC").Find(&persons).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch persons",
		})
	}
	for i := range persons {
		persons[i].Password = ""
	}
	return c.JSON(persons)
}

// GetInactivePersons lists deactivated records
func GetInactivePersons(c *fiber.Ctx) error {
	var persons []models.Person
	if err := db.DB.Where("active = ?", false).Order("name ASC").Find(&persons).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch persons",
		})
	}
	for i := range persons {
		persons[i].Password = ""
	}
	return c.JSON(persons)
}

// GetPerson returns one directory record by ID
func GetPerson(c *fiber.Ctx) error {
	id := c.Params("id")
	var person models.Person
	if err := db.DB.First(&person, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Person not found",
		})
	}
	person.Password = ""
	return c.JSON(person)
}

// FindPersonByCedula resolves a directory record by its cedula
func FindPersonByCedula(c *fiber.Ctx) error {
	cedula := c.Params("cedula")
	var person models.Person
	if err := db.DB.Where("cedula = ?", cedula).First(&person).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Person not found",
		})
	}
	person.Password = ""
	return c.JSON(person)
}

// UpdatePerson edits a directory record
func UpdatePerson(c *fiber.Ctx) error {
	id := c.Params("id")

	var person models.Person
	if err := db.DB.First(&person, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Person not found",
		})
	}

	input := new(models.Person)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Cannot parse JSON",
		})
	}
	if input.Category != "" && !input.Category.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Unknown category",
		})
	}

	updates := map[string]interface{}{}
	if input.Name != "" {
		updates["name"] = input.Name
	}
	if input.Phone != "" {
		updates["phone"] = input.Phone
	}
	if input.Email != "" {
		updates["email"] = input.Email
	}
	if input.Section != "" {
		updates["section"] = input.Section
	}
	if input.Category != "" {
		updates["category"] = input.Category
	}
	if input.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
				Message: "Failed to hash password",
			})
		}
		updates["password"] = string(hashed)
	}

	if err := db.DB.Model(&person).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to update person",
		})
	}

	person.Password = ""
	return c.JSON(person)
}

// DeactivatePerson soft-deletes a record. Historical appointments keep
// referencing it, so directory records are never hard-deleted.
func DeactivatePerson(c *fiber.Ctx) error {
	return setActive(c, false)
}

// ReactivatePerson restores a deactivated record
func ReactivatePerson(c *fiber.Ctx) error {
	return setActive(c, true)
}

func setActive(c *fiber.Ctx, active bool) error {
	id := c.Params("id")
	var person models.Person
	if err := db.DB.First(&person, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Person not found",
		})
	}

	if err := db.DB.Model(&person).Update("active", active).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to update person",
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
