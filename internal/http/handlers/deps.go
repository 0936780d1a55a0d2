package handlers

import (
	"giftible/internal/apiclient"
	"giftible/internal/config"
	"giftible/internal/services"
	"giftible/internal/session"
	"giftible/internal/telemetry"
)

type Deps struct {
	Sessions *session.Manager

	AuthHandler     *AuthHandler
	CatalogHandler  *CatalogHandler
	CartHandler     *CartHandler
	WishlistHandler *WishlistHandler
	CheckoutHandler *CheckoutHandler
	PaymentHandler  *PaymentHandler
	OrderHandler    *OrderHandler
	ProductHandler  *ProductHandler
	CategoryHandler *CategoryHandler
	CouponHandler   *CouponHandler
	AdminHandler    *AdminHandler
	PayoutHandler   *PayoutHandler
	InsightsHandler *InsightsHandler
	ReviewHandler   *ReviewHandler
	AddressHandler  *AddressHandler
	ProfileHandler  *ProfileHandler
}

func NewDeps(api *apiclient.Client, sm *session.Manager, cfg config.Config, metrics *telemetry.Metrics) *Deps {
	b := base{Sessions: sm, CookieSecure: cfg.CookieSecure}
	auth := &services.AuthService{API: api, Sessions: sm, Metrics: metrics}

	return &Deps{
		Sessions:        sm,
		AuthHandler:     &AuthHandler{base: b, Auth: auth},
		CatalogHandler:  &CatalogHandler{base: b, Catalog: services.NewCatalogService(api)},
		CartHandler:     &CartHandler{base: b, Cart: services.NewCartService(api)},
		WishlistHandler: &WishlistHandler{base: b, Wish: services.NewWishlistService(api)},
		CheckoutHandler: &CheckoutHandler{base: b, Checkout: services.NewCheckoutService(api)},
		PaymentHandler:  &PaymentHandler{base: b, Payments: services.NewPaymentService(api)},
		OrderHandler:    &OrderHandler{base: b, Orders: services.NewOrderService(api)},
		ProductHandler:  &ProductHandler{base: b, Products: services.NewProductService(api)},
		CategoryHandler: &CategoryHandler{base: b, Categories: services.NewCategoryService(api)},
		CouponHandler:   &CouponHandler{base: b, Coupons: services.NewCouponService(api)},
		AdminHandler:    &AdminHandler{base: b, Admin: services.NewAdminService(api)},
		PayoutHandler:   &PayoutHandler{base: b, Payouts: services.NewPayoutService(api)},
		InsightsHandler: &InsightsHandler{base: b, Insights: services.NewInsightsService(api)},
		ReviewHandler:   &ReviewHandler{base: b, Reviews: services.NewReviewService(api)},
		AddressHandler:  &AddressHandler{base: b, Addresses: services.NewAddressService(api)},
		ProfileHandler:  &ProfileHandler{base: b, Profiles: services.NewProfileService(api)},
	}
}
