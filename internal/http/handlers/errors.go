package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"giftible/internal/log"
)

const friendly = "Something went wrong. Please try again."

// ErrorHandler logs the error and answers without internals: JSON under
// /api, the notfound page elsewhere.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	log.Error(c, "server.error", err, map[string]any{"code": code})
	if strings.HasPrefix(c.Path(), "/api/") {
		return c.Status(code).JSON(fiber.Map{"error": friendly})
	}
	if rerr := c.Status(code).Render("notfound", fiber.Map{"Message": friendly}); rerr != nil {
		return c.Status(code).SendString(friendly)
	}
	return nil
}
