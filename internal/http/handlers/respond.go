package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"giftible/internal/apiclient"
	"giftible/internal/domain"
	"giftible/internal/log"
	"giftible/internal/services"
	"giftible/internal/session"
)

const sidCookie = "sid"

// base is embedded by every handler that calls the API on behalf of the
// browser session.
type base struct {
	Sessions     *session.Manager
	CookieSecure bool
}

func (b base) creds(c *fiber.Ctx) apiclient.Credentials {
	if s := sessionOf(c); s != nil {
		return b.Sessions.Handle(s.ID)
	}
	return nil
}

func (b base) setSID(c *fiber.Ctx, sid string) {
	c.Cookie(&fiber.Cookie{
		Name:     sidCookie,
		Value:    sid,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   b.CookieSecure,
	})
}

func (b base) clearSID(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     sidCookie,
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   b.CookieSecure,
		Expires:  time.Now().Add(-1 * time.Hour),
	})
}

// fail logs err under action and answers the browser. An expired session
// clears the cookie and points the browser at the login page.
func (b base) fail(c *fiber.Ctx, action string, err error) error {
	var ae *apiclient.APIError
	switch {
	case errors.Is(err, apiclient.ErrSessionExpired):
		b.clearSID(c)
		log.Security(c, action+".session_expired", nil)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":    "Your session has expired. Please log in again.",
			"redirect": "/login",
		})
	case errors.Is(err, services.ErrInvalidInput):
		log.Security(c, "validation.fail", map[string]any{"action": action, "reason": err.Error()})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.As(err, &ae):
		log.Error(c, action+".fail", err, map[string]any{"api_status": ae.Status})
		return c.Status(ae.Status).JSON(fiber.Map{"error": ae.Detail})
	default:
		log.Error(c, action+".fail", err, nil)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "The service is unavailable. Please try again."})
	}
}

func badRequest(c *fiber.Ctx, field, msg string) error {
	log.Security(c, "validation.fail", map[string]any{"field": field})
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

// raw writes an API record through unchanged.
func raw(c *fiber.Ctx, status int, body services.Raw) error {
	if len(body) == 0 {
		body = services.Raw("null")
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Status(status).Send(body)
}

func sessionOf(c *fiber.Ctx) *domain.Session {
	s, _ := c.Locals("session").(*domain.Session)
	return s
}

func queryOf(c *fiber.Ctx) func(string) string {
	return func(k string) string { return c.Query(k) }
}
