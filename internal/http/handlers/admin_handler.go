package handlers

import (
	"github.com/gofiber/fiber/v2"

	"giftible/internal/log"
	"giftible/internal/services"
	"giftible/internal/validate"
)

type AdminHandler struct {
	base
	Admin *services.AdminService
}

// GET /api/admin/dashboard-stats
func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	return c.JSON(h.Admin.DashboardStats(c.UserContext(), h.creds(c)))
}

// GET /api/admin/ngos
func (h *AdminHandler) NGOs(c *fiber.Ctx) error {
	out, err := h.Admin.NGOs(c.UserContext(), h.creds(c), services.ParseListFilter(queryOf(c)))
	if err != nil {
		return h.fail(c, "admin.ngos.list", err)
	}
	return raw(c, fiber.StatusOK, out)
}

// GET /api/admin/ngos/search?query=
func (h *AdminHandler) SearchNGOs(c *fiber.Ctx) error {
	q, ok := validate.Q(c.Query("query"))
	if !ok {
		return badRequest(c, "query", "Invalid search query")
	}
	out, err := h.Admin.SearchNGOs(c.UserContext(), h.creds(c), q)
	if err != nil {
		return h.fail(c, "admin.ngos.search", err)
	}
	return raw(c, fiber.StatusOK, out)
}

func (h *AdminHandler) PendingNGOs(c *fiber.Ctx) error {
	out, err := h.Admin.PendingNGOs(c.UserContext(), h.creds(c))
	if err != nil {
		return h.fail(c, "admin.ngos.pending", err)
	}
	return raw(c, fiber.StatusOK, out)
}

func (h *AdminHandler) ApproveNGO(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id", "Invalid NGO id")
	}
	if err := h.Admin.ApproveNGO(c.UserContext(), h.creds(c), id); err != nil {
		return h.fail(c, "admin.ngos.approve", err)
	}
	log.Audit(c, "admin.ngos.approve", map[string]any{"ngo_id": id})
	return c.JSON(fiber.Map{"message": "NGO approved"})
}

func (h *AdminHandler) RejectNGO(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id", "Invalid NGO id")
	}
	var in struct {
		Reason string `json:"rejection_reason" form:"rejection_reason"`
	}
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "body", "Invalid request")
	}
	reason, ok := validate.Reason(in.Reason)
	if !ok {
		return badRequest(c, "rejection_reason", "A rejection reason is required")
	}
	if err := h.Admin.RejectNGO(c.UserContext(), h.creds(c), id, reason); err != nil {
		return h.fail(c, "admin.ngos.reject", err)
	}
	log.Audit(c, "admin.ngos.reject", map[string]any{"ngo_id": id})
	return c.JSON(fiber.Map{"message": "NGO rejected"})
}

func (h *AdminHandler) DeleteNGO(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id", "Invalid NGO id")
	}
	out, err := h.Admin.DeleteNGO(c.UserContext(), h.creds(c), id, c.Query("deletion_reason"))
	if err != nil {
		return h.fail(c, "admin.ngos.delete", err)
	}
	log.Audit(c, "admin.ngos.delete", map[string]any{"ngo_id": id})
	return raw(c, fiber.StatusOK, out)
}

func (h *AdminHandler) NGODetails(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id", "Invalid NGO id")
	}
	d, err := h.Admin.NGODetails(c.UserContext(), h.creds(c), id)
	if err != nil {
		return h.fail(c, "admin.ngos.details", err)
	}
	return c.JSON(d)
}

func (h *AdminHandler) UpdateNGO(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id", "Invalid NGO id")
	}
	out, err := h.Admin.UpdateNGO(c.UserContext(), h.creds(c), id, c.Body(), c.Get(fiber.HeaderContentType))
	if err != nil {
		return h.fail(c, "admin.ngos.update", err)
	}
	log.Audit(c, "admin.ngos.update", map[string]any{"ngo_id": id})
	return raw(c, fiber.StatusOK, out)
}

func (h *AdminHandler) Users(c *fiber.Ctx) error {
	out, err := h.Admin.Users(c.UserContext(), h.creds(c), services.ParseListFilter(queryOf(c)))
	if err != nil {
		return h.fail(c, "admin.users.list", err)
	}
	return raw(c, fiber.StatusOK, out)
}

func (h *AdminHandler) UserDetails(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id", "Invalid user id")
	}
	out, err := h.Admin.UserDetails(c.UserContext(), h.creds(c), id)
	if err != nil {
		return h.fail(c, "admin.users.details", err)
	}
	return raw(c, fiber.StatusOK, out)
}

// DeleteUser removes a user; the reason is mailed to them by the API.
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id", "Invalid user id")
	}
	out, err := h.Admin.DeleteUser(c.UserContext(), h.creds(c), id, c.Query("deletion_reason"))
	if err != nil {
		return h.fail(c, "admin.users.delete", err)
	}
	log.Audit(c, "admin.users.delete", map[string]any{"user_id": id})
	return raw(c, fiber.StatusOK, out)
}
