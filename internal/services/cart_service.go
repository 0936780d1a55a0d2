package services

import (
	"context"

	"giftible/internal/apiclient"
)

type CartService struct {
	API *apiclient.Client
}

func NewCartService(api *apiclient.Client) *CartService {
	return &CartService{API: api}
}

func (s *CartService) Add(ctx context.Context, creds Creds, productID string, qty int) (Raw, error) {
	if qty < 1 {
		qty = 1
	}
	var out Raw
	err := s.API.Post(ctx, creds, "/cart/add", map[string]any{
		"product_id": idValue(productID),
		"quantity":   qty,
	}, &out)
	return out, err
}

// View returns the cart items.
func (s *CartService) View(ctx context.Context, creds Creds) (Raw, error) {
	var body struct {
		CartItems Raw `json:"cart_items"`
	}
	if err := s.API.Get(ctx, creds, "/cart/", nil, &body); err != nil {
		return nil, err
	}
	if len(body.CartItems) == 0 {
		return Raw("[]"), nil
	}
	return body.CartItems, nil
}

func (s *CartService) Remove(ctx context.Context, creds Creds, productID string) (Raw, error) {
	var out Raw
	err := s.API.Delete(ctx, creds, "/cart/remove/"+seg(productID), nil, &out)
	return out, err
}

func (s *CartService) Clear(ctx context.Context, creds Creds) (Raw, error) {
	var out Raw
	err := s.API.Delete(ctx, creds, "/cart/clear", nil, &out)
	return out, err
}
