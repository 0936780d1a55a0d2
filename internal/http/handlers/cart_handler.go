package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"giftible/internal/log"
	"giftible/internal/services"
	"giftible/internal/validate"
)

type CartHandler struct {
	base
	Cart *services.CartService
}

func (h *CartHandler) Add(c *fiber.Ctx) error {
	var in struct {
		ProductID json.Number `json:"product_id" form:"product_id"`
		Quantity  json.Number `json:"quantity" form:"quantity"`
	}
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "body", "Invalid request")
	}
	productID, ok := validate.ID(in.ProductID.String())
	if !ok {
		return badRequest(c, "product_id", "Invalid product id")
	}
	qty := validate.Qty(in.Quantity.String())
	out, err := h.Cart.Add(c.UserContext(), h.creds(c), productID, qty)
	if err != nil {
		return h.fail(c, "cart.add", err)
	}
	log.Audit(c, "cart.add", map[string]any{"product_id": productID, "qty": qty})
	return raw(c, fiber.StatusOK, out)
}

func (h *CartHandler) View(c *fiber.Ctx) error {
	items, err := h.Cart.View(c.UserContext(), h.creds(c))
	if err != nil {
		return h.fail(c, "cart.view", err)
	}
	return raw(c, fiber.StatusOK, items)
}

func (h *CartHandler) Remove(c *fiber.Ctx) error {
	productID, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id", "Invalid product id")
	}
	out, err := h.Cart.Remove(c.UserContext(), h.creds(c), productID)
	if err != nil {
		return h.fail(c, "cart.remove", err)
	}
	log.Audit(c, "cart.remove", map[string]any{"product_id": productID})
	return raw(c, fiber.StatusOK, out)
}

func (h *CartHandler) Clear(c *fiber.Ctx) error {
	out, err := h.Cart.Clear(c.UserContext(), h.creds(c))
	if err != nil {
		return h.fail(c, "cart.clear", err)
	}
	log.Audit(c, "cart.clear", nil)
	return raw(c, fiber.StatusOK, out)
}
