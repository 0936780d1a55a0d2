package services

import (
	"net/url"
	"strconv"

	"giftible/internal/validate"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// ListFilter carries the filter and pagination state shared by the admin and
// NGO dashboards (NGOs, users, orders, products, payouts).
type ListFilter struct {
	Verified   string // all | verified | unverified
	Role       string
	StartDate  string
	EndDate    string
	Search     string
	Status     string
	NGOID      string
	CategoryID string
	Limit      int
	Offset     int
	Page       int
	PageSize   int
}

// ParseListFilter reads a filter from query parameters, dropping values that
// fail validation and clamping the page window.
func ParseListFilter(get func(key string) string) ListFilter {
	f := ListFilter{
		Verified: get("verified"),
		Role:     get("role"),
		Status:   get("status"),
		Limit:    validate.Int(get("limit"), DefaultLimit, 1, MaxLimit),
		Offset:   validate.Int(get("offset"), 0, 0, 1<<30),
		Page:     validate.Int(get("page"), 1, 1, 1<<20),
		PageSize: validate.Int(get("page_size"), DefaultLimit, 1, MaxLimit),
	}
	switch f.Verified {
	case "verified", "unverified":
	case "true":
		f.Verified = "verified"
	case "false":
		f.Verified = "unverified"
	default:
		f.Verified = "all"
	}
	if d, ok := validate.Date(get("start_date")); ok {
		f.StartDate = d
	}
	if d, ok := validate.Date(get("end_date")); ok {
		f.EndDate = d
	}
	search := get("search")
	if search == "" {
		search = get("search_query")
	}
	if q, ok := validate.Q(search); ok {
		f.Search = q
	}
	if id, ok := validate.ID(get("ngo_id")); ok {
		f.NGOID = id
	}
	if id, ok := validate.ID(get("category_id")); ok {
		f.CategoryID = id
	}
	if f.Status == "All" {
		f.Status = ""
	}
	return f
}

func (f ListFilter) dates(q url.Values) {
	if f.StartDate != "" {
		q.Set("start_date", f.StartDate)
	}
	if f.EndDate != "" {
		q.Set("end_date", f.EndDate)
	}
}

func (f ListFilter) window(q url.Values) {
	limit := f.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(max(f.Offset, 0)))
}

// NGOQuery encodes the admin NGO listing query.
func (f ListFilter) NGOQuery() url.Values {
	q := url.Values{}
	switch f.Verified {
	case "verified":
		q.Set("verified", "true")
	case "unverified":
		q.Set("verified", "false")
	}
	f.dates(q)
	f.window(q)
	return q
}

// UserQuery encodes the admin user listing query. Role defaults to "user".
func (f ListFilter) UserQuery() url.Values {
	q := url.Values{}
	f.dates(q)
	f.window(q)
	role := f.Role
	if role == "" {
		role = "user"
	}
	q.Set("role", role)
	return q
}

// OrderQuery encodes the page-based order listing query.
func (f ListFilter) OrderQuery() url.Values {
	q := url.Values{}
	page, size := f.Page, f.PageSize
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = DefaultLimit
	}
	q.Set("page", strconv.Itoa(page))
	q.Set("page_size", strconv.Itoa(size))
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.Status != "" {
		q.Set("status", f.Status)
	}
	f.dates(q)
	return q
}

// PayoutQuery encodes the payout history query. Only admins may narrow it
// to one NGO; the API scopes NGO callers to their own payouts.
func (f ListFilter) PayoutQuery() url.Values {
	q := url.Values{}
	f.dates(q)
	f.window(q)
	if f.Search != "" {
		q.Set("search_query", f.Search)
	}
	if f.NGOID != "" {
		q.Set("ngo_id", f.NGOID)
	}
	return q
}

// SalesQuery encodes the per-product sales report query.
func (f ListFilter) SalesQuery() url.Values {
	q := f.PayoutQuery()
	if f.CategoryID != "" {
		q.Set("category_id", f.CategoryID)
	}
	return q
}
