package services

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"giftible/internal/apiclient"
	"giftible/internal/domain"
	applog "giftible/internal/log"
)

const (
	defaultDeletionReason = "No specific reason provided"
	defaultLogo           = "/default-logo.png"
)

type AdminService struct {
	API *apiclient.Client
	// AssetBase prefixes the relative logo and license paths the API returns.
	AssetBase string
}

func NewAdminService(api *apiclient.Client) *AdminService {
	return &AdminService{API: api, AssetBase: api.BaseURL()}
}

// DashboardStats never fails: the dashboard shows zeros when the API cannot
// answer.
func (s *AdminService) DashboardStats(ctx context.Context, creds Creds) domain.DashboardStats {
	var st domain.DashboardStats
	if err := s.API.Get(ctx, creds, "/admin/dashboard-stats", nil, &st); err != nil {
		applog.L().Warn("admin.stats.fail", zap.Error(err))
		return domain.DashboardStats{}
	}
	return st
}

func (s *AdminService) NGOs(ctx context.Context, creds Creds, f ListFilter) (Raw, error) {
	var out Raw
	err := s.API.Get(ctx, creds, "/admin/ngos", f.NGOQuery(), &out)
	return out, err
}

// SearchNGOs matches by name, city, email or contact.
func (s *AdminService) SearchNGOs(ctx context.Context, creds Creds, query string) (Raw, error) {
	q := url.Values{}
	q.Set("query", query)
	var out Raw
	err := s.API.Get(ctx, creds, "/admin/ngos/search", q, &out)
	return out, err
}

func (s *AdminService) PendingNGOs(ctx context.Context, creds Creds) (Raw, error) {
	var out Raw
	err := s.API.Get(ctx, creds, "/admin/ngos/pending", nil, &out)
	return out, err
}

func (s *AdminService) ApproveNGO(ctx context.Context, creds Creds, ngoID string) error {
	return s.API.Post(ctx, creds, "/admin/approve-ngo/"+seg(ngoID), nil, nil)
}

func (s *AdminService) RejectNGO(ctx context.Context, creds Creds, ngoID, reason string) error {
	return s.API.Post(ctx, creds, "/admin/reject-ngo/"+seg(ngoID), map[string]string{"rejection_reason": reason}, nil)
}

// DeleteNGO fails while the NGO still has linked products.
func (s *AdminService) DeleteNGO(ctx context.Context, creds Creds, ngoID, reason string) (Raw, error) {
	var out Raw
	err := s.API.Delete(ctx, creds, "/admin/ngos/"+seg(ngoID), deletionQuery(reason), &out)
	return out, err
}

// NGODetails returns the NGO with absolute asset links.
func (s *AdminService) NGODetails(ctx context.Context, creds Creds, ngoID string) (domain.NGODetails, error) {
	var raw map[string]any
	if err := s.API.Get(ctx, creds, "/admin/ngos/"+seg(ngoID), nil, &raw); err != nil {
		return domain.NGODetails{}, err
	}
	d := domain.NGODetails{Raw: raw, Logo: defaultLogo}
	if logo, _ := raw["logo"].(string); logo != "" {
		d.Logo = s.AssetBase + logo
	}
	if lic, _ := raw["license"].(string); lic != "" {
		abs := s.AssetBase + lic
		d.License = &abs
		d.IsLicensePDF = strings.HasSuffix(strings.ToLower(lic), ".pdf")
	}
	return d, nil
}

// UpdateNGO forwards the multipart edit form as received.
func (s *AdminService) UpdateNGO(ctx context.Context, creds Creds, ngoID string, form []byte, contentType string) (Raw, error) {
	var out Raw
	err := s.API.Do(ctx, creds, apiclient.Request{
		Method: http.MethodPut, Path: "/admin/ngos/" + seg(ngoID), RawBody: form, ContentType: contentType,
	}, &out)
	return out, err
}

func (s *AdminService) Users(ctx context.Context, creds Creds, f ListFilter) (Raw, error) {
	var out Raw
	err := s.API.Get(ctx, creds, "/admin/users", f.UserQuery(), &out)
	return out, err
}

func (s *AdminService) UserDetails(ctx context.Context, creds Creds, userID string) (Raw, error) {
	var out Raw
	err := s.API.Get(ctx, creds, "/admin/users/"+seg(userID), nil, &out)
	return out, err
}

func (s *AdminService) DeleteUser(ctx context.Context, creds Creds, userID, reason string) (Raw, error) {
	var out Raw
	err := s.API.Delete(ctx, creds, "/admin/users/"+seg(userID), deletionQuery(reason), &out)
	return out, err
}

func deletionQuery(reason string) url.Values {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = defaultDeletionReason
	}
	q := url.Values{}
	q.Set("deletion_reason", reason)
	return q
}
