package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"giftible/internal/apiclient"
)

type PaymentService struct {
	API *apiclient.Client
}

func NewPaymentService(api *apiclient.Client) *PaymentService {
	return &PaymentService{API: api}
}

// RazorpayOrder opens a gateway order for amount (in rupees, two decimals).
func (s *PaymentService) RazorpayOrder(ctx context.Context, creds Creds, amount decimal.Decimal) (Raw, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	var out Raw
	err := s.API.Post(ctx, creds, "/payments/razorpay/order", map[string]any{"amount": amount.Round(2)}, &out)
	return out, err
}

func (s *PaymentService) VerifyRazorpay(ctx context.Context, creds Creds, payment Raw) (Raw, error) {
	var out Raw
	err := s.API.Post(ctx, creds, "/payments/razorpay/verify", payment, &out)
	return out, err
}

func (s *PaymentService) CashfreeInitiate(ctx context.Context, creds Creds, orderID string, amount decimal.Decimal) (Raw, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	var out Raw
	err := s.API.Post(ctx, creds, "/payments/initiate", map[string]any{
		"order_id": idValue(orderID),
		"amount":   amount.Round(2),
	}, &out)
	return out, err
}

func (s *PaymentService) CashfreeStatus(ctx context.Context, creds Creds, orderID string) (Raw, error) {
	var out Raw
	err := s.API.Get(ctx, creds, "/payments/status/"+seg(orderID), nil, &out)
	return out, err
}
