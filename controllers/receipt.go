package controllers

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/milixmatux/Proyecto-de-enfermeria/models"
	"github.com/milixmatux/Proyecto-de-enfermeria/redis"
	"github.com/milixmatux/Proyecto-de-enfermeria/scheduler"
	"github.com/milixmatux/Proyecto-de-enfermeria/utils"
)

const receiptCacheTTL = 24 * time.Hour

// GetReceipt projects one appointment for the receipt renderer. Finalized
// appointments are immutable, so only those are cached; slot and capacity
// state never goes through the cache.
func GetReceipt(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid appointment id",
		})
	}

	// Serving from cache skips the ownership check, so only categories that
	// may read any receipt take that path; owners go through the scoped
	// lookup below.
	category, _ := c.Locals("category").(models.Category)
	cacheKey := fmt.Sprintf("receipt:%d", id)
	if category.CanRecordVisits() && redis.Client != nil {
		if cached, err := redis.Client.Get(redis.Ctx, cacheKey).Result(); err == nil {
			c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
			return c.SendString(cached)
		}
	}

	receipt, err := sched.Receipt(currentPersonID(c), uint(id))
	if err != nil {
		return failureResponse(c, err)
	}

	if receipt.Final && redis.Client != nil {
		if payload, err := json.Marshal(receipt); err == nil {
			redis.Client.Set(redis.Ctx, cacheKey, payload, receiptCacheTTL)
		}
	}
	return c.JSON(receipt)
}

// GetReceipts projects the claimed appointments of a date range, scoped by
// the requester's category.
func GetReceipts(c *fiber.Ctx) error {
	now := time.Now()
	from, err := utils.ParseDate(c.Query("from"), now)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{Message: err.Error()})
	}
	to, err := utils.ParseDate(c.Query("to"), now)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{Message: err.Error()})
	}

	receipts, err := sched.ReceiptsRange(currentPersonID(c), from, to, c.Query("filter"))
	if err != nil {
		return failureResponse(c, err)
	}
	if receipts == nil {
		receipts = []scheduler.Receipt{}
	}
	return c.JSON(receipts)
}
