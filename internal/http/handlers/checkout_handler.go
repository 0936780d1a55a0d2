package handlers

import (
	"github.com/gofiber/fiber/v2"

	"giftible/internal/domain"
	"giftible/internal/log"
	"giftible/internal/services"
	"giftible/internal/validate"
)

type CheckoutHandler struct {
	base
	Checkout *services.CheckoutService
}

func (h *CheckoutHandler) Addresses(c *fiber.Ctx) error {
	out, err := h.Checkout.Addresses(c.UserContext(), h.creds(c))
	if err != nil {
		return h.fail(c, "checkout.addresses", err)
	}
	return raw(c, fiber.StatusOK, out)
}

func (h *CheckoutHandler) AddAddress(c *fiber.Ctx) error {
	if len(c.Body()) == 0 {
		return badRequest(c, "body", "Address is required")
	}
	out, err := h.Checkout.AddAddress(c.UserContext(), h.creds(c), c.Body())
	if err != nil {
		return h.fail(c, "checkout.address.add", err)
	}
	log.Audit(c, "checkout.address.add", nil)
	return raw(c, fiber.StatusCreated, out)
}

func (h *CheckoutHandler) LiveCoupons(c *fiber.Ctx) error {
	out, err := h.Checkout.LiveCoupons(c.UserContext(), h.creds(c))
	if err != nil {
		return h.fail(c, "checkout.coupons", err)
	}
	return raw(c, fiber.StatusOK, out)
}

func (h *CheckoutHandler) ApplyCoupon(c *fiber.Ctx) error {
	var in struct {
		Code string `json:"code" form:"code"`
	}
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "body", "Invalid request")
	}
	code, ok := validate.Coupon(in.Code)
	if !ok {
		return badRequest(c, "code", "Invalid coupon code")
	}
	out, err := h.Checkout.ApplyCoupon(c.UserContext(), h.creds(c), code)
	if err != nil {
		return h.fail(c, "checkout.coupon.apply", err)
	}
	log.Audit(c, "checkout.coupon.apply", map[string]any{"code": code})
	return raw(c, fiber.StatusOK, out)
}

func (h *CheckoutHandler) RemoveCoupon(c *fiber.Ctx) error {
	out, err := h.Checkout.RemoveCoupon(c.UserContext(), h.creds(c))
	if err != nil {
		return h.fail(c, "checkout.coupon.remove", err)
	}
	return raw(c, fiber.StatusOK, out)
}

func (h *CheckoutHandler) Summary(c *fiber.Ctx) error {
	code := ""
	if v := c.Query("coupon_code"); v != "" {
		var ok bool
		if code, ok = validate.Coupon(v); !ok {
			return badRequest(c, "coupon_code", "Invalid coupon code")
		}
	}
	out, err := h.Checkout.CartSummary(c.UserContext(), h.creds(c), code)
	if err != nil {
		return h.fail(c, "checkout.summary", err)
	}
	return raw(c, fiber.StatusOK, out)
}

func (h *CheckoutHandler) PlaceOrder(c *fiber.Ctx) error {
	var o domain.PlaceOrder
	if err := c.BodyParser(&o); err != nil {
		return badRequest(c, "body", "Invalid order")
	}
	out, err := h.Checkout.PlaceOrder(c.UserContext(), h.creds(c), o)
	if err != nil {
		return h.fail(c, "order.place", err)
	}
	log.Audit(c, "order.place", map[string]any{"amount": o.Amount.StringFixed(2), "coupon": o.CouponCode})
	return raw(c, fiber.StatusCreated, out)
}
