package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"giftible/internal/services"
	"giftible/internal/validate"
)

// InsightsHandler serves the analytics and sales panels of the NGO and admin
// dashboards.
type InsightsHandler struct {
	base
	Insights *services.InsightsService
}

func (h *InsightsHandler) NGOAnalytics(c *fiber.Ctx) error {
	out, err := h.Insights.NGOAnalytics(c.UserContext(), h.creds(c))
	if err != nil {
		return h.fail(c, "analytics.ngo", err)
	}
	return raw(c, fiber.StatusOK, out)
}

func (h *InsightsHandler) AdminAnalytics(c *fiber.Ctx) error {
	out, err := h.Insights.AdminAnalytics(c.UserContext(), h.creds(c))
	if err != nil {
		return h.fail(c, "analytics.admin", err)
	}
	return raw(c, fiber.StatusOK, out)
}

func (h *InsightsHandler) Sales(c *fiber.Ctx) error {
	f := services.ParseListFilter(queryOf(c))
	out, err := h.Insights.SalesReport(c.UserContext(), h.creds(c), f)
	if err != nil {
		return h.fail(c, "sales.report", err)
	}
	return raw(c, fiber.StatusOK, out)
}

func (h *InsightsHandler) amount(c *fiber.Ctx, action string, get func(context.Context, services.Creds) (decimal.Decimal, error)) error {
	d, err := get(c.UserContext(), h.creds(c))
	if err != nil {
		return h.fail(c, action, err)
	}
	return c.JSON(fiber.Map{"amount": d.StringFixed(2)})
}

// TotalSales is the marketplace revenue.
func (h *InsightsHandler) TotalSales(c *fiber.Ctx) error {
	return h.amount(c, "sales.total", h.Insights.TotalSales)
}

// NGOSales is the signed-in NGO's revenue.
func (h *InsightsHandler) NGOSales(c *fiber.Ctx) error {
	uid := sessionOf(c).User.ID
	return h.amount(c, "sales.ngo", func(ctx context.Context, creds services.Creds) (decimal.Decimal, error) {
		return h.Insights.NGOSales(ctx, creds, uid)
	})
}

// Balance is what the signed-in NGO can still request as payout.
func (h *InsightsHandler) Balance(c *fiber.Ctx) error {
	uid := sessionOf(c).User.ID
	return h.amount(c, "sales.pending_payouts", func(ctx context.Context, creds services.Creds) (decimal.Decimal, error) {
		return h.Insights.PendingBalance(ctx, creds, uid)
	})
}

func (h *InsightsHandler) ProductSales(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id", "Invalid product id")
	}
	return h.amount(c, "sales.product", func(ctx context.Context, creds services.Creds) (decimal.Decimal, error) {
		return h.Insights.ProductSales(ctx, creds, id)
	})
}
