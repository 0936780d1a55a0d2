package services

import (
	"context"

	"giftible/internal/apiclient"
)

type CategoryService struct {
	API *apiclient.Client
}

func NewCategoryService(api *apiclient.Client) *CategoryService {
	return &CategoryService{API: api}
}

// Create proposes a category; an admin approves it later.
func (s *CategoryService) Create(ctx context.Context, creds Creds, category Raw) (Raw, error) {
	var out Raw
	err := s.API.Post(ctx, creds, "/categories/", category, &out)
	return out, err
}

func (s *CategoryService) All(ctx context.Context, creds Creds) (Raw, error) {
	var out Raw
	err := s.API.Get(ctx, creds, "/categories/all", nil, &out)
	return out, err
}

func (s *CategoryService) Approve(ctx context.Context, creds Creds, categoryID string, approved bool) (Raw, error) {
	var out Raw
	err := s.API.Patch(ctx, creds, "/categories/"+seg(categoryID)+"/approve", map[string]bool{"is_approved": approved}, &out)
	return out, err
}
