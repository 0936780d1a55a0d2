package handlers

import (
	"github.com/gofiber/fiber/v2"

	"giftible/internal/log"
	"giftible/internal/services"
	"giftible/internal/validate"
)

type ReviewHandler struct {
	base
	Reviews *services.ReviewService
}

func (h *ReviewHandler) Add(c *fiber.Ctx) error {
	var in struct {
		OrderItemID string `json:"order_item_id" form:"order_item_id"`
		Rating      int    `json:"rating" form:"rating"`
		Comment     string `json:"comment" form:"comment"`
	}
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "body", "Invalid request")
	}
	item, ok := validate.ID(in.OrderItemID)
	if !ok {
		return badRequest(c, "order_item_id", "Invalid order item id")
	}
	out, err := h.Reviews.Add(c.UserContext(), h.creds(c), item, in.Rating, in.Comment)
	if err != nil {
		return h.fail(c, "review.add", err)
	}
	log.Audit(c, "review.add", map[string]any{"order_item_id": item, "rating": in.Rating})
	return raw(c, fiber.StatusCreated, out)
}

// ForProduct is public.
func (h *ReviewHandler) ForProduct(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id", "Invalid product id")
	}
	out, err := h.Reviews.ForProduct(c.UserContext(), id)
	if err != nil {
		return h.fail(c, "review.list", err)
	}
	return raw(c, fiber.StatusOK, out)
}

func (h *ReviewHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id", "Invalid review id")
	}
	out, err := h.Reviews.Delete(c.UserContext(), h.creds(c), id)
	if err != nil {
		return h.fail(c, "review.delete", err)
	}
	log.Audit(c, "review.delete", map[string]any{"review_id": id})
	return raw(c, fiber.StatusOK, out)
}
