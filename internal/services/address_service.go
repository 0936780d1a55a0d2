package services

import (
	"context"

	"giftible/internal/apiclient"
)

// AddressService manages the buyer's saved delivery addresses.
type AddressService struct {
	API *apiclient.Client
}

func NewAddressService(api *apiclient.Client) *AddressService {
	return &AddressService{API: api}
}

func (s *AddressService) List(ctx context.Context, creds Creds) (Raw, error) {
	var out Raw
	err := s.API.Get(ctx, creds, "/addresses/", nil, &out)
	return out, err
}

func (s *AddressService) Get(ctx context.Context, creds Creds, id string) (Raw, error) {
	var out Raw
	err := s.API.Get(ctx, creds, "/addresses/"+seg(id), nil, &out)
	return out, err
}

func (s *AddressService) Add(ctx context.Context, creds Creds, address Raw) (Raw, error) {
	var out Raw
	err := s.API.Post(ctx, creds, "/addresses/", address, &out)
	return out, err
}

func (s *AddressService) Update(ctx context.Context, creds Creds, id string, address Raw) (Raw, error) {
	var out Raw
	err := s.API.Put(ctx, creds, "/addresses/"+seg(id), address, &out)
	return out, err
}

func (s *AddressService) Delete(ctx context.Context, creds Creds, id string) (Raw, error) {
	var out Raw
	err := s.API.Delete(ctx, creds, "/addresses/"+seg(id), nil, &out)
	return out, err
}

func (s *AddressService) SetDefault(ctx context.Context, creds Creds, id string) (Raw, error) {
	var out Raw
	err := s.API.Put(ctx, creds, "/addresses/"+seg(id)+"/set-default", nil, &out)
	return out, err
}
