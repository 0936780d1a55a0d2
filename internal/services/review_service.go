package services

import (
	"context"
	"fmt"
	"strings"

	"giftible/internal/apiclient"
)

const maxReviewComment = 1000

type ReviewService struct {
	API *apiclient.Client
}

func NewReviewService(api *apiclient.Client) *ReviewService {
	return &ReviewService{API: api}
}

// Add reviews a delivered order item. Rating is 1 to 5; the comment may be
// empty.
func (s *ReviewService) Add(ctx context.Context, creds Creds, orderItemID string, rating int, comment string) (Raw, error) {
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalidInput)
	}
	comment = strings.TrimSpace(comment)
	if len(comment) > maxReviewComment {
		return nil, fmt.Errorf("%w: comment is too long", ErrInvalidInput)
	}
	var out Raw
	err := s.API.Post(ctx, creds, "/reviews/", map[string]any{
		"order_item_id": idValue(orderItemID),
		"rating":        rating,
		"comment":       comment,
	}, &out)
	return out, err
}

// ForProduct returns the reviews and average rating of a product.
func (s *ReviewService) ForProduct(ctx context.Context, productID string) (Raw, error) {
	var out Raw
	err := s.API.Get(ctx, nil, "/reviews/"+seg(productID), nil, &out)
	return out, err
}

func (s *ReviewService) Delete(ctx context.Context, creds Creds, reviewID string) (Raw, error) {
	var out Raw
	err := s.API.Delete(ctx, creds, "/reviews/"+seg(reviewID), nil, &out)
	return out, err
}
