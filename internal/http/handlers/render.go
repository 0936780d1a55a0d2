package handlers

import "github.com/gofiber/fiber/v2"

func render(c *fiber.Ctx, tmpl string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	// Inject user if present
	if u := c.Locals("user"); u != nil {
		data["User"] = u
	}
	// Forms post the token back; fall back to the cookie when the middleware
	// did not run for this route.
	tok, _ := c.Locals(csrfField).(string)
	if tok == "" {
		tok = c.Cookies(csrfCookie)
	}
	data["CSRFToken"] = tok
	return c.Render(tmpl, data)
}
