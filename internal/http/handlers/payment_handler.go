package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"giftible/internal/log"
	"giftible/internal/services"
	"giftible/internal/validate"
)

type PaymentHandler struct {
	base
	Payments *services.PaymentService
}

func (h *PaymentHandler) RazorpayOrder(c *fiber.Ctx) error {
	var in struct {
		Amount decimal.Decimal `json:"amount"`
	}
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "amount", "Invalid amount")
	}
	out, err := h.Payments.RazorpayOrder(c.UserContext(), h.creds(c), in.Amount)
	if err != nil {
		return h.fail(c, "payment.razorpay.order", err)
	}
	log.Audit(c, "payment.razorpay.order", map[string]any{"amount": in.Amount.StringFixed(2)})
	return raw(c, fiber.StatusOK, out)
}

func (h *PaymentHandler) RazorpayVerify(c *fiber.Ctx) error {
	if len(c.Body()) == 0 {
		return badRequest(c, "body", "Payment details are required")
	}
	out, err := h.Payments.VerifyRazorpay(c.UserContext(), h.creds(c), c.Body())
	if err != nil {
		return h.fail(c, "payment.razorpay.verify", err)
	}
	log.Audit(c, "payment.razorpay.verify", nil)
	return raw(c, fiber.StatusOK, out)
}

func (h *PaymentHandler) CashfreeInitiate(c *fiber.Ctx) error {
	var in struct {
		OrderID json.Number     `json:"order_id"`
		Amount  decimal.Decimal `json:"amount"`
	}
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "body", "Invalid payment request")
	}
	orderID, ok := validate.ID(in.OrderID.String())
	if !ok {
		return badRequest(c, "order_id", "Invalid order id")
	}
	out, err := h.Payments.CashfreeInitiate(c.UserContext(), h.creds(c), orderID, in.Amount)
	if err != nil {
		return h.fail(c, "payment.cashfree.initiate", err)
	}
	log.Audit(c, "payment.cashfree.initiate", map[string]any{"order_id": orderID})
	return raw(c, fiber.StatusOK, out)
}

func (h *PaymentHandler) CashfreeStatus(c *fiber.Ctx) error {
	orderID, ok := validate.ID(c.Params("orderId"))
	if !ok {
		return badRequest(c, "orderId", "Invalid order id")
	}
	out, err := h.Payments.CashfreeStatus(c.UserContext(), h.creds(c), orderID)
	if err != nil {
		return h.fail(c, "payment.cashfree.status", err)
	}
	return raw(c, fiber.StatusOK, out)
}
