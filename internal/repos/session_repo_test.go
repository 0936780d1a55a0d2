package repos

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"giftible/internal/domain"
	"giftible/internal/session"
)

func newRepo(t *testing.T, ttl time.Duration) *SessionRepo {
	t.Helper()
	db, err := OpenDB("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	sealer, err := session.NewSealer("test-secret")
	require.NoError(t, err)
	return NewSessionRepo(db, sealer, ttl)
}

func TestSessionRepoSaveGet(t *testing.T) {
	r := newRepo(t, time.Hour)
	ctx := context.Background()
	s := &domain.Session{
		ID:           "sid-1",
		AccessToken:  "access",
		RefreshToken: "refresh",
		User:         domain.User{ID: "5", Name: "Meera", Role: domain.RoleUser},
	}
	require.NoError(t, r.Save(ctx, s))

	got, err := r.Get(ctx, "sid-1")
	require.NoError(t, err)
	assert.Equal(t, "access", got.AccessToken)
	assert.Equal(t, "refresh", got.RefreshToken)
	assert.Equal(t, s.User, got.User)

	// tokens are sealed at rest
	var stored string
	require.NoError(t, r.DB.Get(&stored, `SELECT access_token FROM sessions WHERE id=?`, "sid-1"))
	assert.NotEqual(t, "access", stored)

	s.AccessToken = "access-2"
	require.NoError(t, r.Save(ctx, s))
	got, err = r.Get(ctx, "sid-1")
	require.NoError(t, err)
	assert.Equal(t, "access-2", got.AccessToken)
}

func TestSessionRepoDeleteAndTouch(t *testing.T) {
	r := newRepo(t, time.Hour)
	ctx := context.Background()
	require.NoError(t, r.Save(ctx, &domain.Session{ID: "sid-2", AccessToken: "a"}))

	require.NoError(t, r.Touch(ctx, "sid-2"))
	require.NoError(t, r.Delete(ctx, "sid-2"))

	_, err := r.Get(ctx, "sid-2")
	assert.ErrorIs(t, err, session.ErrNotFound)
	assert.ErrorIs(t, r.Touch(ctx, "sid-2"), session.ErrNotFound)
}

func TestSessionRepoExpiry(t *testing.T) {
	r := newRepo(t, time.Hour)
	ctx := context.Background()
	old := time.Now().Add(-2 * time.Hour)
	require.NoError(t, r.Save(ctx, &domain.Session{ID: "stale", AccessToken: "a", LastSeen: old, CreatedAt: old}))
	require.NoError(t, r.Save(ctx, &domain.Session{ID: "fresh", AccessToken: "a"}))

	_, err := r.Get(ctx, "stale")
	assert.ErrorIs(t, err, session.ErrNotFound)

	require.NoError(t, r.Save(ctx, &domain.Session{ID: "stale2", AccessToken: "a", LastSeen: old, CreatedAt: old}))
	n, err := r.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	_, err = r.Get(ctx, "fresh")
	assert.NoError(t, err)
}
