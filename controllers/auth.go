package controllers

import (
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/milixmatux/Proyecto-de-enfermeria/db"
	"github.com/milixmatux/Proyecto-de-enfermeria/models"
	"github.com/milixmatux/Proyecto-de-enfermeria/utils"
)

// Register handles person self-registration
func Register(c *fiber.Ctx) error {
	person := new(models.Person)

	if err := c.BodyParser(person); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Cannot parse JSON",
		})
	}

	if person.Cedula == "" || person.Username == "" || person.Password == "" || person.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Missing required fields",
		})
	}
	if !person.Category.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Unknown category",
		})
	}

	var existing models.Person
	if db.DB.Where("cedula = ?", person.Cedula).First(&existing).RowsAffected > 0 {
		return c.Status(fiber.StatusConflict).JSON(utils.ErrorResponse{
			Message: "Cedula already registered",
		})
	}
	if db.DB.Where("username = ?", person.Username).First(&existing).RowsAffected > 0 {
		return c.Status(fiber.StatusConflict).JSON(utils.ErrorResponse{
			Message: "Username already taken",
		})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(person.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to hash password",
		})
	}
	person.Password = string(hashed)
	person.Active = true

	if err := db.DB.Create(&person).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to create person",
		})
	}

	person.Password = ""
	return c.Status(fiber.StatusCreated).JSON(person)
}

// Login handles authentication and issues the session token
func Login(c *fiber.Ctx) error {
	type LoginInput struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	input := new(LoginInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Cannot parse JSON",
		})
	}

	var person models.Person
	if db.DB.Where("username = ?", input.Username).First(&person).RowsAffected == 0 {
		return c.Status(fiber.StatusUnauthorized).JSON(utils.ErrorResponse{
			Message: "Invalid credentials",
		})
	}
	if !person.Active {
		return c.Status(fiber.StatusForbidden).JSON(utils.ErrorResponse{
			Message: "Account is deactivated",
		})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(person.Password), []byte(input.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(utils.ErrorResponse{
			Message: "Invalid credentials",
		})
	}

	claims := jwt.MapClaims{
		"id":       person.ID,
		"username": person.Username,
		"category": string(person.Category),
		"jti":      uuid.NewString(),
		"exp":      time.Now().Add(30 * time.Minute).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "solid_secret_key"
	}

	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to sign token",
		})
	}

	person.Password = ""
	return c.JSON(fiber.Map{
		"token":  signed,
		"person": person,
	})
}
