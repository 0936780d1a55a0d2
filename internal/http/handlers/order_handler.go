package handlers

import (
	"github.com/gofiber/fiber/v2"

	"giftible/internal/domain"
	"giftible/internal/log"
	"giftible/internal/services"
	"giftible/internal/validate"
)

type OrderHandler struct {
	base
	Orders *services.OrderService
}

// Mine lists the orders of the signed-in buyer.
func (h *OrderHandler) Mine(c *fiber.Ctx) error {
	out, err := h.Orders.UserOrders(c.UserContext(), h.creds(c))
	if err != nil {
		return h.fail(c, "orders.user", err)
	}
	return raw(c, fiber.StatusOK, out)
}

// NGO lists the order items of the signed-in NGO with dashboard filters.
func (h *OrderHandler) NGO(c *fiber.Ctx) error {
	f := services.ParseListFilter(queryOf(c))
	out, err := h.Orders.NGOOrders(c.UserContext(), h.creds(c), f)
	if err != nil {
		return h.fail(c, "orders.ngo", err)
	}
	return raw(c, fiber.StatusOK, out)
}

func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id", "Invalid order id")
	}
	var in struct {
		Status domain.OrderStatus `json:"status" form:"status"`
	}
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "body", "Invalid request")
	}
	out, err := h.Orders.UpdateStatus(c.UserContext(), h.creds(c), id, in.Status)
	if err != nil {
		return h.fail(c, "orders.update_status", err)
	}
	log.Audit(c, "orders.update_status", map[string]any{"order_id": id, "status": in.Status})
	return raw(c, fiber.StatusOK, out)
}

func (h *OrderHandler) Details(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id", "Invalid order id")
	}
	out, err := h.Orders.Details(c.UserContext(), h.creds(c), id)
	if err != nil {
		return h.fail(c, "orders.details", err)
	}
	return raw(c, fiber.StatusOK, out)
}

// CancelItem cancels one order item for the buyer or the selling NGO.
func (h *OrderHandler) CancelItem(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id", "Invalid order item id")
	}
	var in struct {
		Reason string `json:"reason" form:"reason"`
	}
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "body", "Invalid request")
	}
	reason, ok := validate.Reason(in.Reason)
	if !ok {
		return badRequest(c, "reason", "A cancellation reason is required")
	}
	out, err := h.Orders.CancelItem(c.UserContext(), h.creds(c), id, reason)
	if err != nil {
		return h.fail(c, "orders.cancel_item", err)
	}
	log.Audit(c, "orders.cancel_item", map[string]any{"order_item_id": id})
	return raw(c, fiber.StatusOK, out)
}
