package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/tranhuy105/ITSS-CongAn-sub000/domain"
)

func parsePagination(c *fiber.Ctx) domain.PaginationRequest {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = domain.DefaultPage
	}

	limit, err := strconv.Atoi(c.Query("limit", strconv.Itoa(domain.DefaultLimit)))
	if err != nil || limit < 1 {
		limit = domain.DefaultLimit
	}

	return domain.PaginationRequest{Page: page, Limit: limit}.Normalize()
}

func userID(c *fiber.Ctx) string {
	id, _ := c.Locals("user_id").(string)
	return id
}
