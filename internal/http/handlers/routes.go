package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"giftible/internal/authz"
	"giftible/internal/domain"
	"giftible/internal/log"
)

// Mount registers the page routes and the JSON API on app.
func Mount(app *fiber.App, d *Deps) {
	app.Use(LoadSession(d.Sessions))

	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })

	mountAPI(app.Group("/api"), d)

	// Pages: the route table decides, the browser app renders.
	app.Get("/login", d.AuthHandler.LoginForm)
	app.Get("/logout", d.AuthHandler.Logout)
	for _, r := range authz.Pages {
		if r.Path == "/login" {
			continue
		}
		app.Get(r.Path, PageGate(), shell)
	}

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Page not found"})
	})
}

func shell(c *fiber.Ctx) error {
	return render(c, "app", nil)
}

func mountAPI(api fiber.Router, d *Deps) {
	loginLimiter := limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			log.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "Too many attempts. Please try again later."})
		},
	})

	auth := api.Group("/auth")
	auth.Post("/login", loginLimiter, d.AuthHandler.Login)
	auth.Post("/logout", d.AuthHandler.Logout)
	auth.Get("/me", d.AuthHandler.Me)
	auth.Post("/register/user", d.AuthHandler.RegisterUser)
	auth.Post("/register/ngo", d.AuthHandler.RegisterNGO)
	auth.Post("/register/admin", d.AuthHandler.RegisterAdmin)
	auth.Post("/forgot-password", loginLimiter, d.AuthHandler.ForgotPassword)
	auth.Post("/reset-password", d.AuthHandler.ResetPassword)

	// Public catalog
	api.Get("/home", d.CatalogHandler.Home)
	api.Get("/products", d.CatalogHandler.Products)
	api.Get("/products/:id", d.CatalogHandler.Product)
	api.Get("/products/:id/reviews", d.ReviewHandler.ForProduct)
	api.Get("/categories", d.CatalogHandler.Categories)
	api.Get("/ngos", d.CatalogHandler.NGOs)
	api.Get("/ngos/:id/products", d.CatalogHandler.NGOProducts)
	api.Get("/search", limiter.New(limiter.Config{Max: 20, Expiration: time.Minute}), d.CatalogHandler.Search)

	buyer := Require(domain.RoleUser)
	signedIn := Require(domain.RoleUser, domain.RoleNGO, domain.RoleAdmin)

	profile := api.Group("/profile", signedIn)
	profile.Get("/", d.ProfileHandler.Get)
	profile.Put("/", d.ProfileHandler.Update)
	profile.Delete("/", d.ProfileHandler.Delete)

	cart := api.Group("/cart", buyer)
	cart.Get("/", d.CartHandler.View)
	cart.Post("/", d.CartHandler.Add)
	cart.Delete("/", d.CartHandler.Clear)
	cart.Delete("/:id", d.CartHandler.Remove)

	wish := api.Group("/wishlist", buyer)
	wish.Get("/", d.WishlistHandler.List)
	wish.Post("/:id", d.WishlistHandler.Save)
	wish.Delete("/:id", d.WishlistHandler.Unsave)

	co := api.Group("/checkout", buyer)
	co.Get("/addresses", d.CheckoutHandler.Addresses)
	co.Post("/addresses", d.CheckoutHandler.AddAddress)
	co.Get("/coupons", d.CheckoutHandler.LiveCoupons)
	co.Post("/coupon", d.CheckoutHandler.ApplyCoupon)
	co.Delete("/coupon", d.CheckoutHandler.RemoveCoupon)
	co.Get("/summary", d.CheckoutHandler.Summary)
	co.Post("/place-order", d.CheckoutHandler.PlaceOrder)

	addr := api.Group("/addresses", buyer)
	addr.Get("/", d.AddressHandler.List)
	addr.Post("/", d.AddressHandler.Add)
	addr.Get("/:id", d.AddressHandler.Get)
	addr.Put("/:id", d.AddressHandler.Update)
	addr.Delete("/:id", d.AddressHandler.Delete)
	addr.Put("/:id/default", d.AddressHandler.SetDefault)

	api.Post("/reviews", buyer, d.ReviewHandler.Add)

	pay := api.Group("/payments", buyer)
	pay.Post("/razorpay/order", d.PaymentHandler.RazorpayOrder)
	pay.Post("/razorpay/verify", d.PaymentHandler.RazorpayVerify)
	pay.Post("/cashfree", d.PaymentHandler.CashfreeInitiate)
	pay.Get("/cashfree/:orderId", d.PaymentHandler.CashfreeStatus)

	api.Get("/orders", buyer, d.OrderHandler.Mine)
	api.Put("/orders/items/:id/cancel", Require(domain.RoleUser, domain.RoleNGO), d.OrderHandler.CancelItem)
	api.Get("/orders/:id", signedIn, d.OrderHandler.Details)

	ngo := api.Group("/ngo", Require(domain.RoleNGO))
	ngo.Get("/products", d.ProductHandler.Mine)
	ngo.Post("/products", d.ProductHandler.Add)
	ngo.Put("/products/:id", d.ProductHandler.Edit)
	ngo.Post("/products/:id/live", d.ProductHandler.Live)
	ngo.Post("/products/:id/unlive", d.ProductHandler.Unlive)
	ngo.Delete("/products/:id", d.ProductHandler.Delete)
	ngo.Get("/orders", d.OrderHandler.NGO)
	ngo.Put("/orders/:id/status", d.OrderHandler.UpdateStatus)
	ngo.Post("/categories", d.CategoryHandler.Create)
	ngo.Get("/payouts", d.PayoutHandler.History)
	ngo.Post("/payouts", d.PayoutHandler.Request)
	ngo.Get("/payouts/balance", d.InsightsHandler.Balance)
	ngo.Get("/sales", d.InsightsHandler.Sales)
	ngo.Get("/sales/total", d.InsightsHandler.NGOSales)
	ngo.Get("/analytics", d.InsightsHandler.NGOAnalytics)

	admin := api.Group("/admin", Require(domain.RoleAdmin))
	admin.Get("/dashboard-stats", d.AdminHandler.Stats)
	admin.Get("/ngos", d.AdminHandler.NGOs)
	admin.Get("/ngos/search", d.AdminHandler.SearchNGOs)
	admin.Get("/ngos/pending", d.AdminHandler.PendingNGOs)
	admin.Get("/ngos/:id", d.AdminHandler.NGODetails)
	admin.Put("/ngos/:id", d.AdminHandler.UpdateNGO)
	admin.Delete("/ngos/:id", d.AdminHandler.DeleteNGO)
	admin.Post("/ngos/:id/approve", d.AdminHandler.ApproveNGO)
	admin.Post("/ngos/:id/reject", d.AdminHandler.RejectNGO)
	admin.Get("/users", d.AdminHandler.Users)
	admin.Get("/users/:id", d.AdminHandler.UserDetails)
	admin.Delete("/users/:id", d.AdminHandler.DeleteUser)
	admin.Get("/products/pending", d.ProductHandler.Pending)
	admin.Post("/products/:id/approve", d.ProductHandler.Approve)
	admin.Post("/products/:id/reject", d.ProductHandler.Reject)
	admin.Get("/categories", d.CategoryHandler.All)
	admin.Post("/categories", d.CategoryHandler.Create)
	admin.Patch("/categories/:id/approve", d.CategoryHandler.Approve)
	admin.Get("/coupons", d.CouponHandler.List)
	admin.Post("/coupons", d.CouponHandler.Create)
	admin.Patch("/coupons/:id/status", d.CouponHandler.Toggle)
	admin.Get("/payouts", d.PayoutHandler.History)
	admin.Get("/payouts/pending", d.PayoutHandler.Pending)
	admin.Put("/payouts/:id", d.PayoutHandler.Process)
	admin.Get("/analytics", d.InsightsHandler.AdminAnalytics)
	admin.Get("/sales", d.InsightsHandler.Sales)
	admin.Get("/sales/total", d.InsightsHandler.TotalSales)
	admin.Get("/sales/products/:id", d.InsightsHandler.ProductSales)
	admin.Delete("/reviews/:id", d.ReviewHandler.Delete)
}
