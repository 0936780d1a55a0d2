package handlers

import (
	"github.com/gofiber/fiber/v2"

	"giftible/internal/services"
	"giftible/internal/validate"
)

// CatalogHandler serves the public storefront reads.
type CatalogHandler struct {
	base
	Catalog *services.CatalogService
}

func (h *CatalogHandler) Home(c *fiber.Ctx) error {
	home, err := h.Catalog.Home(c.UserContext())
	if err != nil {
		return h.fail(c, "catalog.home", err)
	}
	return c.JSON(home)
}

func (h *CatalogHandler) Products(c *fiber.Ctx) error {
	out, err := h.Catalog.Products(c.UserContext())
	if err != nil {
		return h.fail(c, "catalog.products", err)
	}
	return raw(c, fiber.StatusOK, out)
}

func (h *CatalogHandler) Product(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id", "Invalid product id")
	}
	out, err := h.Catalog.Product(c.UserContext(), id)
	if err != nil {
		return h.fail(c, "catalog.product", err)
	}
	return raw(c, fiber.StatusOK, out)
}

func (h *CatalogHandler) Categories(c *fiber.Ctx) error {
	out, err := h.Catalog.Categories(c.UserContext())
	if err != nil {
		return h.fail(c, "catalog.categories", err)
	}
	return raw(c, fiber.StatusOK, out)
}

func (h *CatalogHandler) NGOs(c *fiber.Ctx) error {
	out, err := h.Catalog.NGOs(c.UserContext())
	if err != nil {
		return h.fail(c, "catalog.ngos", err)
	}
	return raw(c, fiber.StatusOK, out)
}

func (h *CatalogHandler) NGOProducts(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id", "Invalid NGO id")
	}
	out, err := h.Catalog.NGOProducts(c.UserContext(), id)
	if err != nil {
		return h.fail(c, "catalog.ngo_products", err)
	}
	return raw(c, fiber.StatusOK, out)
}

func (h *CatalogHandler) Search(c *fiber.Ctx) error {
	q, ok := validate.Q(c.Query("q"))
	if !ok {
		return badRequest(c, "q", "Invalid search query")
	}
	out, err := h.Catalog.Search(c.UserContext(), q)
	if err != nil {
		return h.fail(c, "catalog.search", err)
	}
	return raw(c, fiber.StatusOK, out)
}
