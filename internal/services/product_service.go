package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"giftible/internal/apiclient"
)

// ProductService covers product management by NGOs and moderation by admins.
type ProductService struct {
	API *apiclient.Client
}

func NewProductService(api *apiclient.Client) *ProductService {
	return &ProductService{API: api}
}

// Add forwards the multipart product form as received.
func (s *ProductService) Add(ctx context.Context, creds Creds, form []byte, contentType string) (Raw, error) {
	var out Raw
	err := s.API.Do(ctx, creds, apiclient.Request{
		Method: http.MethodPost, Path: "/products/add", RawBody: form, ContentType: contentType,
	}, &out)
	return out, err
}

// ByNGO lists the products of an NGO. ngoID is the NGO record id, not the
// id of the account that owns it.
func (s *ProductService) ByNGO(ctx context.Context, creds Creds, ngoID string) (Raw, error) {
	var out Raw
	err := s.API.Get(ctx, creds, "/products/ngo/"+seg(ngoID)+"/products", nil, &out)
	return out, err
}

// ProductEdit is the editable subset of a product. The API replaces all four
// fields on every edit.
type ProductEdit struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
}

func (e ProductEdit) validate() error {
	switch {
	case strings.TrimSpace(e.Name) == "":
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	case strings.TrimSpace(e.Description) == "":
		return fmt.Errorf("%w: description is required", ErrInvalidInput)
	case !e.Price.IsPositive():
		return fmt.Errorf("%w: price must be positive", ErrInvalidInput)
	case e.Stock < 0:
		return fmt.Errorf("%w: stock cannot be negative", ErrInvalidInput)
	}
	return nil
}

// Edit sends the product fields form encoded.
func (s *ProductService) Edit(ctx context.Context, creds Creds, productID string, e ProductEdit) (Raw, error) {
	if err := e.validate(); err != nil {
		return nil, err
	}
	form := url.Values{}
	form.Set("name", strings.TrimSpace(e.Name))
	form.Set("description", strings.TrimSpace(e.Description))
	form.Set("price", e.Price.Round(2).StringFixed(2))
	form.Set("stock", strconv.Itoa(e.Stock))
	var out Raw
	err := s.API.Do(ctx, creds, apiclient.Request{
		Method:      http.MethodPut,
		Path:        "/products/edit/" + seg(productID),
		RawBody:     []byte(form.Encode()),
		ContentType: "application/x-www-form-urlencoded",
	}, &out)
	return out, err
}

func (s *ProductService) SetLive(ctx context.Context, creds Creds, productID string, live bool) (Raw, error) {
	action := "/unlive"
	if live {
		action = "/live"
	}
	var out Raw
	err := s.API.Post(ctx, creds, "/products/"+seg(productID)+action, nil, &out)
	return out, err
}

func (s *ProductService) Delete(ctx context.Context, creds Creds, productID string) (Raw, error) {
	var out Raw
	err := s.API.Delete(ctx, creds, "/products/delete/"+seg(productID), nil, &out)
	return out, err
}

func (s *ProductService) Pending(ctx context.Context, creds Creds) (Raw, error) {
	var out Raw
	err := s.API.Get(ctx, creds, "/products/pending", nil, &out)
	return out, err
}

func (s *ProductService) Approve(ctx context.Context, creds Creds, productID string) (Raw, error) {
	var out Raw
	err := s.API.Post(ctx, creds, "/products/approve/"+seg(productID), nil, &out)
	return out, err
}

// Reject sends the reason as a form field, as the API expects.
func (s *ProductService) Reject(ctx context.Context, creds Creds, productID, reason string) (Raw, error) {
	form := url.Values{}
	form.Set("reason", reason)
	var out Raw
	err := s.API.Do(ctx, creds, apiclient.Request{
		Method:      http.MethodPost,
		Path:        "/products/reject/" + seg(productID),
		RawBody:     []byte(form.Encode()),
		ContentType: "application/x-www-form-urlencoded",
	}, &out)
	return out, err
}
