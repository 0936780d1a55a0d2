package services

import (
	"context"

	"github.com/shopspring/decimal"

	"giftible/internal/apiclient"
)

// InsightsService reads the analytics and sales reports behind the NGO and
// admin dashboards.
type InsightsService struct {
	API *apiclient.Client
}

func NewInsightsService(api *apiclient.Client) *InsightsService {
	return &InsightsService{API: api}
}

func (s *InsightsService) NGOAnalytics(ctx context.Context, creds Creds) (Raw, error) {
	var out Raw
	err := s.API.Get(ctx, creds, "/analytics/ngo", nil, &out)
	return out, err
}

func (s *InsightsService) AdminAnalytics(ctx context.Context, creds Creds) (Raw, error) {
	var out Raw
	err := s.API.Get(ctx, creds, "/analytics/admin", nil, &out)
	return out, err
}

// SalesReport lists per-product sales for the filter window.
func (s *InsightsService) SalesReport(ctx context.Context, creds Creds, f ListFilter) (Raw, error) {
	var out Raw
	err := s.API.Get(ctx, creds, "/sales/date-range", f.SalesQuery(), &out)
	return out, err
}

// TotalSales is the marketplace-wide revenue.
func (s *InsightsService) TotalSales(ctx context.Context, creds Creds) (decimal.Decimal, error) {
	return s.amount(ctx, creds, "/sales/total")
}

// NGOSales is the revenue of the NGO account userID.
func (s *InsightsService) NGOSales(ctx context.Context, creds Creds, userID string) (decimal.Decimal, error) {
	return s.amount(ctx, creds, "/sales/ngo/"+seg(userID))
}

func (s *InsightsService) ProductSales(ctx context.Context, creds Creds, productID string) (decimal.Decimal, error) {
	return s.amount(ctx, creds, "/sales/product/"+seg(productID))
}

// PendingBalance is what the NGO account userID can still request as payout.
func (s *InsightsService) PendingBalance(ctx context.Context, creds Creds, userID string) (decimal.Decimal, error) {
	return s.amount(ctx, creds, "/sales/pending-payouts/"+seg(userID))
}

// amount reads an endpoint that answers with a bare JSON number.
func (s *InsightsService) amount(ctx context.Context, creds Creds, path string) (decimal.Decimal, error) {
	var d decimal.NullDecimal
	if err := s.API.Get(ctx, creds, path, nil, &d); err != nil {
		return decimal.Zero, err
	}
	if !d.Valid {
		return decimal.Zero, nil
	}
	return d.Decimal.Round(2), nil
}
