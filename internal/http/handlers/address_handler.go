package handlers

import (
	"github.com/gofiber/fiber/v2"

	"giftible/internal/log"
	"giftible/internal/services"
	"giftible/internal/validate"
)

// AddressHandler manages the buyer's address book.
type AddressHandler struct {
	base
	Addresses *services.AddressService
}

func (h *AddressHandler) List(c *fiber.Ctx) error {
	out, err := h.Addresses.List(c.UserContext(), h.creds(c))
	if err != nil {
		return h.fail(c, "address.list", err)
	}
	return raw(c, fiber.StatusOK, out)
}

func (h *AddressHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id", "Invalid address id")
	}
	out, err := h.Addresses.Get(c.UserContext(), h.creds(c), id)
	if err != nil {
		return h.fail(c, "address.get", err)
	}
	return raw(c, fiber.StatusOK, out)
}

func (h *AddressHandler) Add(c *fiber.Ctx) error {
	if len(c.Body()) == 0 {
		return badRequest(c, "body", "Address is required")
	}
	out, err := h.Addresses.Add(c.UserContext(), h.creds(c), c.Body())
	if err != nil {
		return h.fail(c, "address.add", err)
	}
	log.Audit(c, "address.add", nil)
	return raw(c, fiber.StatusCreated, out)
}

func (h *AddressHandler) Update(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id", "Invalid address id")
	}
	if len(c.Body()) == 0 {
		return badRequest(c, "body", "Address is required")
	}
	out, err := h.Addresses.Update(c.UserContext(), h.creds(c), id, c.Body())
	if err != nil {
		return h.fail(c, "address.update", err)
	}
	log.Audit(c, "address.update", map[string]any{"address_id": id})
	return raw(c, fiber.StatusOK, out)
}

func (h *AddressHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id", "Invalid address id")
	}
	out, err := h.Addresses.Delete(c.UserContext(), h.creds(c), id)
	if err != nil {
		return h.fail(c, "address.delete", err)
	}
	log.Audit(c, "address.delete", map[string]any{"address_id": id})
	return raw(c, fiber.StatusOK, out)
}

func (h *AddressHandler) SetDefault(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id", "Invalid address id")
	}
	out, err := h.Addresses.SetDefault(c.UserContext(), h.creds(c), id)
	if err != nil {
		return h.fail(c, "address.set_default", err)
	}
	log.Audit(c, "address.set_default", map[string]any{"address_id": id})
	return raw(c, fiber.StatusOK, out)
}
