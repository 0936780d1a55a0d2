package services

import (
	"context"
	"fmt"
	"net/url"

	"giftible/internal/apiclient"
	"giftible/internal/domain"
)

type CheckoutService struct {
	API *apiclient.Client
}

func NewCheckoutService(api *apiclient.Client) *CheckoutService {
	return &CheckoutService{API: api}
}

func (s *CheckoutService) Addresses(ctx context.Context, creds Creds) (Raw, error) {
	var out Raw
	err := s.API.Get(ctx, creds, "/checkout/addresses", nil, &out)
	return out, err
}

func (s *CheckoutService) AddAddress(ctx context.Context, creds Creds, address Raw) (Raw, error) {
	var out Raw
	err := s.API.Post(ctx, creds, "/checkout/address", address, &out)
	return out, err
}

func (s *CheckoutService) LiveCoupons(ctx context.Context, creds Creds) (Raw, error) {
	var out Raw
	err := s.API.Get(ctx, creds, "/checkout/coupons/live", nil, &out)
	return out, err
}

func (s *CheckoutService) ApplyCoupon(ctx context.Context, creds Creds, code string) (Raw, error) {
	var out Raw
	err := s.API.Post(ctx, creds, "/checkout/apply-coupon", map[string]string{"code": code}, &out)
	return out, err
}

func (s *CheckoutService) RemoveCoupon(ctx context.Context, creds Creds) (Raw, error) {
	var out Raw
	err := s.API.Post(ctx, creds, "/checkout/remove-coupon", map[string]any{}, &out)
	return out, err
}

// CartSummary prices the cart, optionally with a coupon applied.
func (s *CheckoutService) CartSummary(ctx context.Context, creds Creds, couponCode string) (Raw, error) {
	q := url.Values{}
	q.Set("coupon_code", couponCode)
	var out Raw
	err := s.API.Get(ctx, creds, "/checkout/cart-summary", q, &out)
	return out, err
}

func (s *CheckoutService) PlaceOrder(ctx context.Context, creds Creds, o domain.PlaceOrder) (Raw, error) {
	if o.AddressID == "" || !o.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: address and a positive amount are required", ErrInvalidInput)
	}
	var out Raw
	err := s.API.Post(ctx, creds, "/orders/place-order", o, &out)
	return out, err
}
