package domain

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

func init() {
	// The API reads amounts as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// DashboardStats are the admin counters. The zero value is what the
// dashboard shows when the API cannot be reached.
type DashboardStats struct {
	PendingNGOs        int `json:"pendingNGOs"`
	TotalNGOs          int `json:"totalNGOs"`
	UnverifiedUsers    int `json:"unverifiedUsers"`
	TotalUsers         int `json:"totalUsers"`
	ApprovedProducts   int `json:"approvedProducts"`
	LiveProducts       int `json:"liveProducts"`
	UnliveProducts     int `json:"unliveProducts"`
	TotalProducts      int `json:"totalProducts"`
	ApprovedCategories int `json:"approvedCategories"`
	TotalCategories    int `json:"totalCategories"`
	UndeliveredOrders  int `json:"undeliveredOrders"`
}

type OrderStatus string

const (
	OrderPending    OrderStatus = "Pending"
	OrderProcessing OrderStatus = "Processing"
	OrderShipped    OrderStatus = "Shipped"
	OrderDelivered  OrderStatus = "Delivered"
	OrderCancelled  OrderStatus = "Cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// PlaceOrder is the checkout payload forwarded to the orders endpoint.
type PlaceOrder struct {
	AddressID  json.Number     `json:"address_id"`
	CouponCode string          `json:"coupon_code,omitempty"`
	PaymentID  string          `json:"payment_id,omitempty"`
	OrderID    string          `json:"order_id,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
	Signature  string          `json:"signature,omitempty"`
}

// Home bundles the three public lists shown on the landing page.
type Home struct {
	Categories json.RawMessage `json:"categories"`
	Products   json.RawMessage `json:"featured_products"`
	NGOs       json.RawMessage `json:"top_ngos"`
}

// NGODetails is the admin view of an NGO with asset links made absolute.
type NGODetails struct {
	Raw          map[string]any `json:"-"`
	Logo         string         `json:"logo"`
	License      *string        `json:"license"`
	IsLicensePDF bool           `json:"isLicensePDF"`
}

func (d NGODetails) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(d.Raw)+3)
	for k, v := range d.Raw {
		out[k] = v
	}
	out["logo"] = d.Logo
	out["license"] = d.License
	out["isLicensePDF"] = d.IsLicensePDF
	return json.Marshal(out)
}
