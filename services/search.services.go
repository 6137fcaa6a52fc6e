package services

import (
	"LINKUP_server/errors"
	"LINKUP_server/global"
	"LINKUP_server/helpers"
	"LINKUP_server/schemas"

	"github.com/gofiber/fiber/v2"
)

// SearchUsers finds accounts whose username contains the query string
func SearchUsers(c *fiber.Ctx) error {

	q := c.Query("q")
	if q == "" {
		return helpers.DataResponse(c, "Search results", []schemas.UserSummary{})
	}

	limit := c.QueryInt("limit", 20)
	if limit < 1 || limit > 50 {
		limit = 20
	}

	results, err := global.DB.SearchUsers(c.Context(), q, limit)
	if err != nil {
		return errors.HandleAppError(c, "search_users", err)
	}

	return helpers.DataResponse(c, "Search results", results)
}
