package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"

	"giftible/internal/log"
)

const (
	csrfCookie = "csrf_"
	csrfField  = "csrf"
)

// CSRF guards unsafe methods with a double-submit token. The browser app
// sends it in the X-Csrf-Token header, server-rendered forms post it as the
// csrf field.
func CSRF(secure bool) fiber.Handler {
	return csrf.New(csrf.Config{
		Extractor:      csrfToken,
		CookieName:     csrfCookie,
		CookieSameSite: "Lax",
		CookieSecure:   secure,
		ContextKey:     csrfField,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Security(c, "csrf.fail", map[string]any{"reason": err.Error()})
			if isFormPost(c) {
				return c.Status(fiber.StatusForbidden).Render("notfound", fiber.Map{"Message": "Security check failed. Please refresh and try again."})
			}
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Security check failed. Please refresh and try again."})
		},
	})
}

func csrfToken(c *fiber.Ctx) (string, error) {
	if tok, err := csrf.CsrfFromHeader(csrf.HeaderName)(c); err == nil {
		return tok, nil
	}
	return csrf.CsrfFromForm(csrfField)(c)
}

// isFormPost reports a classic HTML form submission, answered with pages
// rather than JSON.
func isFormPost(c *fiber.Ctx) bool {
	return strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEApplicationForm)
}
