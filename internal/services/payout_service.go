package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"

	"giftible/internal/apiclient"
)

// PayoutService covers NGO payout requests and their settlement by admins.
type PayoutService struct {
	API *apiclient.Client
}

func NewPayoutService(api *apiclient.Client) *PayoutService {
	return &PayoutService{API: api}
}

// Request asks for amount to be paid out to the NGO account userID. The API
// refuses amounts above the NGO's pending balance.
func (s *PayoutService) Request(ctx context.Context, creds Creds, userID string, amount decimal.Decimal) (Raw, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	var out Raw
	err := s.API.Post(ctx, creds, "/payouts/request", map[string]any{
		"universal_user_id": idValue(userID),
		"amount":            amount.Round(2),
	}, &out)
	return out, err
}

func (s *PayoutService) History(ctx context.Context, creds Creds, f ListFilter) (Raw, error) {
	var out Raw
	err := s.API.Get(ctx, creds, "/payouts/history", f.PayoutQuery(), &out)
	return out, err
}

func (s *PayoutService) Pending(ctx context.Context, creds Creds) (Raw, error) {
	var out Raw
	err := s.API.Get(ctx, creds, "/payouts/pending", nil, &out)
	return out, err
}

// Process completes (approved) or rejects a pending payout.
func (s *PayoutService) Process(ctx context.Context, creds Creds, payoutID string, approved bool) (Raw, error) {
	q := url.Values{}
	q.Set("approved", strconv.FormatBool(approved))
	var out Raw
	err := s.API.Do(ctx, creds, apiclient.Request{
		Method: http.MethodPut, Path: "/payouts/process/" + seg(payoutID), Query: q,
	}, &out)
	return out, err
}
