package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"giftible/internal/domain"
	"giftible/internal/session"
)

// RedisSessionStore keeps sessions in redis with a sliding TTL.
type RedisSessionStore struct {
	client *redis.Client
	sealer *session.Sealer
	ttl    time.Duration
}

func NewRedisSessionStore(client *redis.Client, sealer *session.Sealer, ttl time.Duration) *RedisSessionStore {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &RedisSessionStore{client: client, sealer: sealer, ttl: ttl}
}

var _ session.Store = (*RedisSessionStore)(nil)

type record struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	User         domain.User `json:"user"`
	CreatedAt    time.Time   `json:"created_at"`
	LastSeen     time.Time   `json:"last_seen"`
}

func (r *RedisSessionStore) Get(ctx context.Context, sid string) (*domain.Session, error) {
	data, err := r.client.Get(ctx, cacheKey(sid)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, session.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal session failed: %w", err)
	}
	s := &domain.Session{ID: sid, User: rec.User, CreatedAt: rec.CreatedAt, LastSeen: rec.LastSeen}
	if s.AccessToken, err = r.sealer.Open(rec.AccessToken); err != nil {
		return nil, err
	}
	if s.RefreshToken, err = r.sealer.Open(rec.RefreshToken); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *RedisSessionStore) Save(ctx context.Context, s *domain.Session) error {
	access, err := r.sealer.Seal(s.AccessToken)
	if err != nil {
		return err
	}
	refresh, err := r.sealer.Seal(s.RefreshToken)
	if err != nil {
		return err
	}
	if s.LastSeen.IsZero() {
		s.LastSeen = time.Now().UTC()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = s.LastSeen
	}
	data, err := json.Marshal(record{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         s.User,
		CreatedAt:    s.CreatedAt,
		LastSeen:     s.LastSeen,
	})
	if err != nil {
		return fmt.Errorf("marshal session failed: %w", err)
	}
	if err := r.client.Set(ctx, cacheKey(s.ID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisSessionStore) Delete(ctx context.Context, sid string) error {
	if err := r.client.Del(ctx, cacheKey(sid)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func (r *RedisSessionStore) Touch(ctx context.Context, sid string) error {
	ok, err := r.client.Expire(ctx, cacheKey(sid), r.ttl).Result()
	if err != nil {
		return fmt.Errorf("redis expire failed: %w", err)
	}
	if !ok {
		return session.ErrNotFound
	}
	return nil
}

func cacheKey(sid string) string {
	return fmt.Sprintf("session:%s", sid)
}
