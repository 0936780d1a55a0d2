package services

import (
	"context"
	"net/url"

	"golang.org/x/sync/errgroup"

	"giftible/internal/apiclient"
	"giftible/internal/domain"
)

// CatalogService serves the public catalogue. Calls carry the caller's
// credentials when present but never need them.
type CatalogService struct {
	API *apiclient.Client
}

func NewCatalogService(api *apiclient.Client) *CatalogService {
	return &CatalogService{API: api}
}

func (s *CatalogService) Products(ctx context.Context) (Raw, error) {
	var out Raw
	err := s.API.Get(ctx, nil, "/products/", nil, &out)
	return out, err
}

func (s *CatalogService) Product(ctx context.Context, id string) (Raw, error) {
	var out Raw
	err := s.API.Get(ctx, nil, "/products/"+seg(id), nil, &out)
	return out, err
}

func (s *CatalogService) Categories(ctx context.Context) (Raw, error) {
	var out Raw
	err := s.API.Get(ctx, nil, "/categories/", nil, &out)
	return out, err
}

func (s *CatalogService) NGOs(ctx context.Context) (Raw, error) {
	var out Raw
	err := s.API.Get(ctx, nil, "/ngo/approved", nil, &out)
	return out, err
}

func (s *CatalogService) NGOProducts(ctx context.Context, ngoID string) (Raw, error) {
	var out Raw
	err := s.API.Get(ctx, nil, "/products/ngo/"+seg(ngoID)+"/products", nil, &out)
	return out, err
}

func (s *CatalogService) Search(ctx context.Context, query string) (Raw, error) {
	q := url.Values{}
	q.Set("q", query)
	var out Raw
	err := s.API.Get(ctx, nil, "/search", q, &out)
	return out, err
}

// Home loads the landing page lists concurrently.
func (s *CatalogService) Home(ctx context.Context) (domain.Home, error) {
	var h domain.Home
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		h.Categories, err = s.Categories(gctx)
		return err
	})
	g.Go(func() (err error) {
		h.Products, err = s.Products(gctx)
		return err
	})
	g.Go(func() (err error) {
		h.NGOs, err = s.NGOs(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.Home{}, err
	}
	return h, nil
}
