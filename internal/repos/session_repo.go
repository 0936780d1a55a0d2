package repos

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"giftible/internal/domain"
	"giftible/internal/session"
)

type sessionRow struct {
	ID           string `db:"id"`
	AccessToken  string `db:"access_token"`
	RefreshToken string `db:"refresh_token"`
	UserJSON     string `db:"user_json"`
	CreatedAt    int64  `db:"created_at"`
	LastSeen     int64  `db:"last_seen"`
}

// SessionRepo is the SQL session store.
type SessionRepo struct {
	DB     *sqlx.DB
	Sealer *session.Sealer
	TTL    time.Duration
}

func NewSessionRepo(db *sqlx.DB, sealer *session.Sealer, ttl time.Duration) *SessionRepo {
	return &SessionRepo{DB: db, Sealer: sealer, TTL: ttl}
}

var _ session.Store = (*SessionRepo)(nil)

func (r *SessionRepo) Get(ctx context.Context, sid string) (*domain.Session, error) {
	var row sessionRow
	err := r.DB.GetContext(ctx, &row, r.DB.Rebind(`
      SELECT id,access_token,refresh_token,user_json,created_at,last_seen
      FROM sessions WHERE id=?`), sid)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, session.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if r.TTL > 0 && time.Since(time.Unix(row.LastSeen, 0)) > r.TTL {
		_ = r.Delete(ctx, sid)
		return nil, session.ErrNotFound
	}

	s := &domain.Session{
		ID:        row.ID,
		CreatedAt: time.Unix(row.CreatedAt, 0).UTC(),
		LastSeen:  time.Unix(row.LastSeen, 0).UTC(),
	}
	if s.AccessToken, err = r.Sealer.Open(row.AccessToken); err != nil {
		return nil, err
	}
	if s.RefreshToken, err = r.Sealer.Open(row.RefreshToken); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(row.UserJSON), &s.User); err != nil {
		return nil, fmt.Errorf("decode session user: %w", err)
	}
	return s, nil
}

func (r *SessionRepo) Save(ctx context.Context, s *domain.Session) error {
	access, err := r.Sealer.Seal(s.AccessToken)
	if err != nil {
		return err
	}
	refresh, err := r.Sealer.Seal(s.RefreshToken)
	if err != nil {
		return err
	}
	user, err := json.Marshal(s.User)
	if err != nil {
		return err
	}
	if s.LastSeen.IsZero() {
		s.LastSeen = time.Now().UTC()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = s.LastSeen
	}
	_, err = r.DB.ExecContext(ctx, r.DB.Rebind(`
      INSERT INTO sessions(id,access_token,refresh_token,user_json,created_at,last_seen)
      VALUES(?,?,?,?,?,?)
      ON CONFLICT(id) DO UPDATE SET access_token=excluded.access_token,
        refresh_token=excluded.refresh_token,user_json=excluded.user_json,last_seen=excluded.last_seen`),
		s.ID, access, refresh, string(user), s.CreatedAt.Unix(), s.LastSeen.Unix())
	return err
}

func (r *SessionRepo) Delete(ctx context.Context, sid string) error {
	_, err := r.DB.ExecContext(ctx, r.DB.Rebind(`DELETE FROM sessions WHERE id=?`), sid)
	return err
}

func (r *SessionRepo) Touch(ctx context.Context, sid string) error {
	res, err := r.DB.ExecContext(ctx, r.DB.Rebind(`UPDATE sessions SET last_seen=? WHERE id=?`), time.Now().UTC().Unix(), sid)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return session.ErrNotFound
	}
	return nil
}

// PurgeExpired removes sessions idle for longer than the TTL.
func (r *SessionRepo) PurgeExpired(ctx context.Context) (int64, error) {
	if r.TTL <= 0 {
		return 0, nil
	}
	cutoff := time.Now().UTC().Add(-r.TTL).Unix()
	res, err := r.DB.ExecContext(ctx, r.DB.Rebind(`DELETE FROM sessions WHERE last_seen < ?`), cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
