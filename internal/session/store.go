package session

import (
	"context"
	"errors"

	"giftible/internal/domain"
)

var ErrNotFound = errors.New("session not found")

// Store persists sessions. Implementations seal tokens at rest.
type Store interface {
	Get(ctx context.Context, sid string) (*domain.Session, error)
	Save(ctx context.Context, s *domain.Session) error
	Delete(ctx context.Context, sid string) error
	Touch(ctx context.Context, sid string) error
}
