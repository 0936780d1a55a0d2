package handlers

import (
	"github.com/gofiber/fiber/v2"

	"giftible/internal/log"
	"giftible/internal/services"
	"giftible/internal/validate"
)

type WishlistHandler struct {
	base
	Wish *services.WishlistService
}

func (h *WishlistHandler) List(c *fiber.Ctx) error {
	out, err := h.Wish.List(c.UserContext(), h.creds(c))
	if err != nil {
		return h.fail(c, "wishlist.list", err)
	}
	return raw(c, fiber.StatusOK, out)
}

func (h *WishlistHandler) Save(c *fiber.Ctx) error {
	pid, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id", "Invalid product id")
	}
	out, err := h.Wish.Save(c.UserContext(), h.creds(c), pid)
	if err != nil {
		return h.fail(c, "wishlist.add", err)
	}
	log.Audit(c, "wishlist.add", map[string]any{"product_id": pid})
	return raw(c, fiber.StatusOK, out)
}

func (h *WishlistHandler) Unsave(c *fiber.Ctx) error {
	pid, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id", "Invalid product id")
	}
	out, err := h.Wish.Unsave(c.UserContext(), h.creds(c), pid)
	if err != nil {
		return h.fail(c, "wishlist.remove", err)
	}
	log.Audit(c, "wishlist.remove", map[string]any{"product_id": pid})
	return raw(c, fiber.StatusOK, out)
}
