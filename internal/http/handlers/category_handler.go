package handlers

import (
	"github.com/gofiber/fiber/v2"

	"giftible/internal/log"
	"giftible/internal/services"
	"giftible/internal/validate"
)

type CategoryHandler struct {
	base
	Categories *services.CategoryService
}

func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	if len(c.Body()) == 0 {
		return badRequest(c, "body", "Category details are required")
	}
	out, err := h.Categories.Create(c.UserContext(), h.creds(c), c.Body())
	if err != nil {
		return h.fail(c, "category.create", err)
	}
	log.Audit(c, "category.create", nil)
	return raw(c, fiber.StatusCreated, out)
}

func (h *CategoryHandler) All(c *fiber.Ctx) error {
	out, err := h.Categories.All(c.UserContext(), h.creds(c))
	if err != nil {
		return h.fail(c, "category.all", err)
	}
	return raw(c, fiber.StatusOK, out)
}

func (h *CategoryHandler) Approve(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id", "Invalid category id")
	}
	var in struct {
		IsApproved bool `json:"is_approved" form:"is_approved"`
	}
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "body", "Invalid request")
	}
	out, err := h.Categories.Approve(c.UserContext(), h.creds(c), id, in.IsApproved)
	if err != nil {
		return h.fail(c, "category.approve", err)
	}
	log.Audit(c, "category.approve", map[string]any{"category_id": id, "approved": in.IsApproved})
	return raw(c, fiber.StatusOK, out)
}
