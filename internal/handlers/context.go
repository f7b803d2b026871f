package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// actorID extracts the authenticated user id placed in Locals by the auth
// middleware.
func actorID(c *fiber.Ctx) (int64, error) {
	raw, ok := c.Locals("user_id").(string)
	if !ok || raw == "" {
		return 0, errors.New("missing user id")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid user id")
	}
	return id, nil
}
