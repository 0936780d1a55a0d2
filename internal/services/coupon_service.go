package services

import (
	"context"

	"giftible/internal/apiclient"
)

type CouponService struct {
	API *apiclient.Client
}

func NewCouponService(api *apiclient.Client) *CouponService {
	return &CouponService{API: api}
}

func (s *CouponService) Create(ctx context.Context, creds Creds, coupon Raw) (Raw, error) {
	var out Raw
	err := s.API.Post(ctx, creds, "/checkout/create-coupon", coupon, &out)
	return out, err
}

func (s *CouponService) List(ctx context.Context, creds Creds) (Raw, error) {
	var out Raw
	err := s.API.Get(ctx, creds, "/checkout/coupons", nil, &out)
	return out, err
}

func (s *CouponService) Toggle(ctx context.Context, creds Creds, couponID string, active bool) (Raw, error) {
	var out Raw
	err := s.API.Patch(ctx, creds, "/checkout/toggle-coupon-status/"+seg(couponID), map[string]bool{"is_active": active}, &out)
	return out, err
}
