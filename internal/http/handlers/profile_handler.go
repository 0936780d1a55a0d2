package handlers

import (
	"github.com/gofiber/fiber/v2"

	"giftible/internal/log"
	"giftible/internal/services"
)

type ProfileHandler struct {
	base
	Profiles *services.ProfileService
}

func (h *ProfileHandler) Get(c *fiber.Ctx) error {
	out, err := h.Profiles.Get(c.UserContext(), h.creds(c))
	if err != nil {
		return h.fail(c, "profile.get", err)
	}
	return raw(c, fiber.StatusOK, out)
}

func (h *ProfileHandler) Update(c *fiber.Ctx) error {
	if len(c.Body()) == 0 {
		return badRequest(c, "body", "Profile details are required")
	}
	out, err := h.Profiles.Update(c.UserContext(), h.creds(c), c.Body())
	if err != nil {
		return h.fail(c, "profile.update", err)
	}
	log.Audit(c, "profile.update", nil)
	return raw(c, fiber.StatusOK, out)
}

// Delete removes the account and ends the session with it.
func (h *ProfileHandler) Delete(c *fiber.Ctx) error {
	s := sessionOf(c)
	out, err := h.Profiles.Delete(c.UserContext(), h.creds(c))
	if err != nil {
		return h.fail(c, "profile.delete", err)
	}
	if err := h.Sessions.Destroy(c.UserContext(), s.ID); err != nil {
		log.Error(c, "profile.delete.session", err, nil)
	}
	h.clearSID(c)
	log.Audit(c, "profile.delete", nil)
	return raw(c, fiber.StatusOK, out)
}
