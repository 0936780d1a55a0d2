package handlers

import (
	"github.com/gofiber/fiber/v2"

	"giftible/internal/log"
	"giftible/internal/services"
	"giftible/internal/validate"
)

type CouponHandler struct {
	base
	Coupons *services.CouponService
}

func (h *CouponHandler) Create(c *fiber.Ctx) error {
	if len(c.Body()) == 0 {
		return badRequest(c, "body", "Coupon details are required")
	}
	out, err := h.Coupons.Create(c.UserContext(), h.creds(c), c.Body())
	if err != nil {
		return h.fail(c, "coupon.create", err)
	}
	log.Audit(c, "coupon.create", nil)
	return raw(c, fiber.StatusCreated, out)
}

func (h *CouponHandler) List(c *fiber.Ctx) error {
	out, err := h.Coupons.List(c.UserContext(), h.creds(c))
	if err != nil {
		return h.fail(c, "coupon.list", err)
	}
	return raw(c, fiber.StatusOK, out)
}

func (h *CouponHandler) Toggle(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id", "Invalid coupon id")
	}
	var in struct {
		IsActive bool `json:"is_active" form:"is_active"`
	}
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "body", "Invalid request")
	}
	out, err := h.Coupons.Toggle(c.UserContext(), h.creds(c), id, in.IsActive)
	if err != nil {
		return h.fail(c, "coupon.toggle", err)
	}
	log.Audit(c, "coupon.toggle", map[string]any{"coupon_id": id, "active": in.IsActive})
	return raw(c, fiber.StatusOK, out)
}
