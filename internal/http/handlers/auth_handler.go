package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"giftible/internal/domain"
	"giftible/internal/log"
	"giftible/internal/services"
	"giftible/internal/validate"
)

type AuthHandler struct {
	base
	Auth *services.AuthService
}

type loginInput struct {
	ContactNumber string `json:"contact_number" form:"contact_number"`
	Password      string `json:"password" form:"password"`
}

// landing is where a freshly signed-in user is sent.
func landing(r domain.Role) string {
	switch r {
	case domain.RoleAdmin:
		return "/dashboard/admin"
	case domain.RoleNGO:
		return "/dashboard/ngo"
	case domain.RoleUser:
		return "/dashboard/user"
	}
	return "/"
}

func (h *AuthHandler) LoginForm(c *fiber.Ctx) error {
	if s := sessionOf(c); s.Authenticated() {
		return c.Redirect(landing(s.User.Role))
	}
	return render(c, "login", fiber.Map{"Err": ""})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in loginInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "body", "Invalid request")
	}
	contact, ok := validate.Contact(in.ContactNumber)
	if !ok || !validate.Password(in.Password) {
		log.Security(c, "auth.login.fail", map[string]any{"reason": "bad_format"})
		return h.loginFailed(c)
	}

	// A stale session from an earlier login is replaced.
	if old := c.Cookies(sidCookie); old != "" {
		_ = h.Auth.Logout(c.UserContext(), old)
	}

	s, err := h.Auth.Login(c.UserContext(), contact, in.Password)
	if errors.Is(err, services.ErrBadCreds) {
		log.Security(c, "auth.login.fail", map[string]any{"contact": contact})
		return h.loginFailed(c)
	}
	if err != nil {
		return h.fail(c, "auth.login", err)
	}
	h.setSID(c, s.ID)
	c.Locals("user", &s.User)
	log.Audit(c, "auth.login.success", map[string]any{"role": s.User.Role})
	if isFormPost(c) {
		return c.Redirect(landing(s.User.Role))
	}
	return c.JSON(fiber.Map{"user": s.User, "redirect": landing(s.User.Role)})
}

// loginFailed answers the form with the login page and the browser app with
// JSON. Both read the same for a bad password and an unknown contact.
func (h *AuthHandler) loginFailed(c *fiber.Ctx) error {
	const msg = "Invalid contact number or password"
	if isFormPost(c) {
		c.Status(fiber.StatusUnauthorized)
		return render(c, "login", fiber.Map{"Err": msg})
	}
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": msg})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if sid := c.Cookies(sidCookie); sid != "" {
		if err := h.Auth.Logout(c.UserContext(), sid); err != nil {
			log.Error(c, "auth.logout.fail", err, nil)
		}
	}
	h.clearSID(c)
	log.Audit(c, "auth.logout", nil)
	if c.Method() == fiber.MethodGet {
		return c.Redirect("/login")
	}
	return c.JSON(fiber.Map{"redirect": "/login"})
}

// Me reports the signed-in user, or 401.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	s := sessionOf(c)
	if !s.Authenticated() {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Not logged in"})
	}
	return c.JSON(s.User)
}

func (h *AuthHandler) RegisterUser(c *fiber.Ctx) error {
	out, err := h.Auth.RegisterUser(c.UserContext(), c.Body())
	if err != nil {
		return h.fail(c, "auth.register.user", err)
	}
	log.Audit(c, "auth.register.user", nil)
	return raw(c, fiber.StatusCreated, out)
}

func (h *AuthHandler) RegisterAdmin(c *fiber.Ctx) error {
	out, err := h.Auth.RegisterAdmin(c.UserContext(), c.Body())
	if err != nil {
		return h.fail(c, "auth.register.admin", err)
	}
	log.Audit(c, "auth.register.admin", nil)
	return raw(c, fiber.StatusCreated, out)
}

// RegisterNGO forwards the multipart registration (license upload included).
func (h *AuthHandler) RegisterNGO(c *fiber.Ctx) error {
	out, err := h.Auth.RegisterNGO(c.UserContext(), c.Body(), c.Get(fiber.HeaderContentType))
	if err != nil {
		return h.fail(c, "auth.register.ngo", err)
	}
	log.Audit(c, "auth.register.ngo", nil)
	return raw(c, fiber.StatusCreated, out)
}

func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var in struct {
		ContactNumber string `json:"contact_number" form:"contact_number"`
	}
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "body", "Invalid request")
	}
	contact, ok := validate.Contact(in.ContactNumber)
	if !ok {
		return badRequest(c, "contact_number", "Enter a valid phone number or email")
	}
	out, err := h.Auth.ForgotPassword(c.UserContext(), contact)
	if err != nil {
		return h.fail(c, "auth.forgot_password", err)
	}
	log.Audit(c, "auth.forgot_password", nil)
	return raw(c, fiber.StatusOK, out)
}

func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var in struct {
		Token       string `json:"token" form:"token"`
		NewPassword string `json:"new_password" form:"new_password"`
	}
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "body", "Invalid request")
	}
	if in.Token == "" {
		return badRequest(c, "token", "Reset link is invalid")
	}
	if !validate.Password(in.NewPassword) {
		return badRequest(c, "new_password", "Password must be 6 to 128 characters")
	}
	out, err := h.Auth.ResetPassword(c.UserContext(), in.Token, in.NewPassword)
	if err != nil {
		return h.fail(c, "auth.reset_password", err)
	}
	log.Audit(c, "auth.reset_password", nil)
	return raw(c, fiber.StatusOK, out)
}
