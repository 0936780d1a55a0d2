package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"giftible/internal/log"
	"giftible/internal/services"
	"giftible/internal/validate"
)

// PayoutHandler serves NGO payout requests and admin settlement.
type PayoutHandler struct {
	base
	Payouts *services.PayoutService
}

// Request asks for a payout to the signed-in NGO account.
func (h *PayoutHandler) Request(c *fiber.Ctx) error {
	var in struct {
		Amount decimal.Decimal `json:"amount"`
	}
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "amount", "Enter a valid amount")
	}
	out, err := h.Payouts.Request(c.UserContext(), h.creds(c), sessionOf(c).User.ID, in.Amount)
	if err != nil {
		return h.fail(c, "payout.request", err)
	}
	log.Audit(c, "payout.request", map[string]any{"amount": in.Amount.StringFixed(2)})
	return raw(c, fiber.StatusCreated, out)
}

func (h *PayoutHandler) History(c *fiber.Ctx) error {
	f := services.ParseListFilter(queryOf(c))
	out, err := h.Payouts.History(c.UserContext(), h.creds(c), f)
	if err != nil {
		return h.fail(c, "payout.history", err)
	}
	return raw(c, fiber.StatusOK, out)
}

func (h *PayoutHandler) Pending(c *fiber.Ctx) error {
	out, err := h.Payouts.Pending(c.UserContext(), h.creds(c))
	if err != nil {
		return h.fail(c, "payout.pending", err)
	}
	return raw(c, fiber.StatusOK, out)
}

// Process settles a payout; ?approved=true completes it, false rejects it.
func (h *PayoutHandler) Process(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id", "Invalid payout id")
	}
	approved, err := strconv.ParseBool(c.Query("approved"))
	if err != nil {
		return badRequest(c, "approved", "approved must be true or false")
	}
	out, err := h.Payouts.Process(c.UserContext(), h.creds(c), id, approved)
	if err != nil {
		return h.fail(c, "payout.process", err)
	}
	log.Audit(c, "payout.process", map[string]any{"payout_id": id, "approved": approved})
	return raw(c, fiber.StatusOK, out)
}
