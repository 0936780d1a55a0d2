package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"giftible/internal/log"
	"giftible/internal/services"
	"giftible/internal/validate"
)

// ProductHandler covers NGO product management and admin moderation.
type ProductHandler struct {
	base
	Products *services.ProductService
}

func (h *ProductHandler) Add(c *fiber.Ctx) error {
	if len(c.Body()) == 0 {
		return badRequest(c, "body", "Product details are required")
	}
	out, err := h.Products.Add(c.UserContext(), h.creds(c), c.Body(), c.Get(fiber.HeaderContentType))
	if err != nil {
		return h.fail(c, "product.add", err)
	}
	log.Audit(c, "product.add", nil)
	return raw(c, fiber.StatusCreated, out)
}

// Mine lists the products of the signed-in NGO. The listing is keyed on the
// NGO record, which an account without one does not have.
func (h *ProductHandler) Mine(c *fiber.Ctx) error {
	ngoID := sessionOf(c).User.NGOID
	if ngoID == "" {
		log.Security(c, "product.list.ngo.no_ngo", nil)
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "No NGO is linked to this account"})
	}
	out, err := h.Products.ByNGO(c.UserContext(), h.creds(c), ngoID)
	if err != nil {
		return h.fail(c, "product.list.ngo", err)
	}
	return raw(c, fiber.StatusOK, out)
}

func (h *ProductHandler) Edit(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id", "Invalid product id")
	}
	var in struct {
		Name        string          `json:"name"`
		Description string          `json:"description"`
		Price       decimal.Decimal `json:"price"`
		Stock       int             `json:"stock"`
	}
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "body", "Invalid request")
	}
	out, err := h.Products.Edit(c.UserContext(), h.creds(c), id, services.ProductEdit{
		Name: in.Name, Description: in.Description, Price: in.Price, Stock: in.Stock,
	})
	if err != nil {
		return h.fail(c, "product.edit", err)
	}
	log.Audit(c, "product.edit", map[string]any{"product_id": id})
	return raw(c, fiber.StatusOK, out)
}

func (h *ProductHandler) setLive(c *fiber.Ctx, live bool) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id", "Invalid product id")
	}
	out, err := h.Products.SetLive(c.UserContext(), h.creds(c), id, live)
	if err != nil {
		return h.fail(c, "product.live", err)
	}
	log.Audit(c, "product.live", map[string]any{"product_id": id, "live": live})
	return raw(c, fiber.StatusOK, out)
}

func (h *ProductHandler) Live(c *fiber.Ctx) error   { return h.setLive(c, true) }
func (h *ProductHandler) Unlive(c *fiber.Ctx) error { return h.setLive(c, false) }

func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id", "Invalid product id")
	}
	out, err := h.Products.Delete(c.UserContext(), h.creds(c), id)
	if err != nil {
		return h.fail(c, "product.delete", err)
	}
	log.Audit(c, "product.delete", map[string]any{"product_id": id})
	return raw(c, fiber.StatusOK, out)
}

func (h *ProductHandler) Pending(c *fiber.Ctx) error {
	out, err := h.Products.Pending(c.UserContext(), h.creds(c))
	if err != nil {
		return h.fail(c, "product.pending", err)
	}
	return raw(c, fiber.StatusOK, out)
}

func (h *ProductHandler) Approve(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id", "Invalid product id")
	}
	out, err := h.Products.Approve(c.UserContext(), h.creds(c), id)
	if err != nil {
		return h.fail(c, "product.approve", err)
	}
	log.Audit(c, "product.approve", map[string]any{"product_id": id})
	return raw(c, fiber.StatusOK, out)
}

func (h *ProductHandler) Reject(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id", "Invalid product id")
	}
	var in struct {
		Reason string `json:"reason" form:"reason"`
	}
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "body", "Invalid request")
	}
	reason, ok := validate.Reason(in.Reason)
	if !ok {
		return badRequest(c, "reason", "A rejection reason is required")
	}
	out, err := h.Products.Reject(c.UserContext(), h.creds(c), id, reason)
	if err != nil {
		return h.fail(c, "product.reject", err)
	}
	log.Audit(c, "product.reject", map[string]any{"product_id": id})
	return raw(c, fiber.StatusOK, out)
}
