package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/milixmatux/Proyecto-de-enfermeria/db"
	"github.com/milixmatux/Proyecto-de-enfermeria/models"
)

// RequireCapability gates a route behind one entry of the category
// capability table, e.g. RequireCapability(models.Category.CanManageCapacity).
// The person record is re-read so a deactivated account is rejected even
// with a still-valid token.
func RequireCapability(allowed func(models.Category) bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		personID, ok := c.Locals("personID").(uint)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing authentication",
			})
		}

		var person models.Person
		if err := db.DB.First(&person, personID).Error; err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Person not found",
			})
		}
		if !person.Active || !allowed(person.Category) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "You don't have permission to perform this action",
			})
		}

		return c.Next()
	}
}

// RequireCategory checks that the authenticated person belongs to one of
// the given categories.
func RequireCategory(categories ...models.Category) fiber.Handler {
	return RequireCapability(func(c models.Category) bool {
		for _, allowed := range categories {
			if c == allowed {
				return true
			}
		}
		return false
	})
}
