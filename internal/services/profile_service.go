package services

import (
	"context"

	"giftible/internal/apiclient"
)

type ProfileService struct {
	API *apiclient.Client
}

func NewProfileService(api *apiclient.Client) *ProfileService {
	return &ProfileService{API: api}
}

func (s *ProfileService) Get(ctx context.Context, creds Creds) (Raw, error) {
	var out Raw
	err := s.API.Get(ctx, creds, "/user/profile", nil, &out)
	return out, err
}

// Update changes names, email or contact number. The API rejects an email or
// contact number that belongs to another account.
func (s *ProfileService) Update(ctx context.Context, creds Creds, profile Raw) (Raw, error) {
	var out Raw
	err := s.API.Put(ctx, creds, "/user/profile/edit", profile, &out)
	return out, err
}

func (s *ProfileService) Delete(ctx context.Context, creds Creds) (Raw, error) {
	var out Raw
	err := s.API.Delete(ctx, creds, "/user/profile/delete", nil, &out)
	return out, err
}
