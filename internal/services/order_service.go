package services

import (
	"context"
	"fmt"
	"strings"

	"giftible/internal/apiclient"
	"giftible/internal/domain"
)

type OrderService struct {
	API *apiclient.Client
}

func NewOrderService(api *apiclient.Client) *OrderService {
	return &OrderService{API: api}
}

func (s *OrderService) UserOrders(ctx context.Context, creds Creds) (Raw, error) {
	var out Raw
	err := s.API.Get(ctx, creds, "/orders/user", nil, &out)
	return out, err
}

// NGOOrders lists the order items of the calling NGO with server-side
// filtering and pagination.
func (s *OrderService) NGOOrders(ctx context.Context, creds Creds, f ListFilter) (Raw, error) {
	var out Raw
	err := s.API.Get(ctx, creds, "/orders/ngo", f.OrderQuery(), &out)
	return out, err
}

func (s *OrderService) UpdateStatus(ctx context.Context, creds Creds, orderID string, status domain.OrderStatus) (Raw, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: status %q", ErrInvalidInput, status)
	}
	var out Raw
	err := s.API.Put(ctx, creds, "/orders/ngo/"+seg(orderID)+"/update-status", map[string]string{"status": string(status)}, &out)
	return out, err
}

func (s *OrderService) Details(ctx context.Context, creds Creds, orderID string) (Raw, error) {
	var out Raw
	err := s.API.Get(ctx, creds, "/orders/"+seg(orderID), nil, &out)
	return out, err
}

// CancelItem cancels one item of an order. Buyers and the selling NGO may
// both cancel; the API restocks the product.
func (s *OrderService) CancelItem(ctx context.Context, creds Creds, itemID, reason string) (Raw, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, fmt.Errorf("%w: reason is required", ErrInvalidInput)
	}
	var out Raw
	err := s.API.Put(ctx, creds, "/orders/cancel/"+seg(itemID), map[string]string{"reason": reason}, &out)
	return out, err
}
