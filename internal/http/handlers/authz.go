package handlers

import (
	"github.com/gofiber/fiber/v2"

	"giftible/internal/authz"
	"giftible/internal/domain"
	"giftible/internal/log"
	"giftible/internal/session"
)

// LoadSession attaches the session named by the sid cookie, if any.
func LoadSession(sm *session.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if sid := c.Cookies(sidCookie); sid != "" {
			if s, err := sm.Get(c.UserContext(), sid); err == nil && s != nil {
				c.Locals("session", s)
				c.Locals("user", &s.User)
				sm.Touch(c.UserContext(), sid)
			}
		}
		return c.Next()
	}
}

func decide(c *fiber.Ctx, roles []domain.Role) authz.Decision {
	s := sessionOf(c)
	var role domain.Role
	if s != nil {
		role = s.User.Role
	}
	return authz.Decide(s.Authenticated(), role, roles)
}

// Require guards API routes: 401 without a usable session, 403 for a role
// outside the allow-list.
func Require(roles ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		switch d := decide(c, roles); d {
		case authz.Permit:
			return c.Next()
		case authz.RedirectLogin:
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Please log in.", "redirect": d.Location()})
		default:
			log.Security(c, "access.denied", map[string]any{"allowed": roles})
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Access denied", "redirect": d.Location()})
		}
	}
}

// PageGate evaluates the page route table for browser navigations.
func PageGate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		route, ok := authz.Lookup(c.Path())
		if !ok {
			return c.Next()
		}
		d := decide(c, route.Roles)
		if d == authz.Permit {
			return c.Next()
		}
		if d == authz.RedirectHome {
			log.Security(c, "access.denied.page", map[string]any{"route": route.Path})
		}
		return c.Redirect(d.Location())
	}
}
