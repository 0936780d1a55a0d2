package services

import (
	"context"

	"giftible/internal/apiclient"
)

type WishlistService struct {
	API *apiclient.Client
}

func NewWishlistService(api *apiclient.Client) *WishlistService { return &WishlistService{API: api} }

func (s *WishlistService) Save(ctx context.Context, creds Creds, productID string) (Raw, error) {
	var out Raw
	err := s.API.Post(ctx, creds, "/wishlist/add/"+seg(productID), nil, &out)
	return out, err
}

func (s *WishlistService) Unsave(ctx context.Context, creds Creds, productID string) (Raw, error) {
	var out Raw
	err := s.API.Delete(ctx, creds, "/wishlist/remove/"+seg(productID), nil, &out)
	return out, err
}

func (s *WishlistService) List(ctx context.Context, creds Creds) (Raw, error) {
	var out Raw
	err := s.API.Get(ctx, creds, "/wishlist", nil, &out)
	return out, err
}
