package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"giftible/internal/apiclient"
	"giftible/internal/domain"
	applog "giftible/internal/log"
	"giftible/internal/session"
	"giftible/internal/telemetry"
)

var ErrBadCreds = errors.New("invalid contact number or password")

type AuthService struct {
	API      *apiclient.Client
	Sessions *session.Manager
	Metrics  *telemetry.Metrics
}

// Login authenticates against the API and opens a session holding the
// returned credentials.
func (s *AuthService) Login(ctx context.Context, contact, password string) (*domain.Session, error) {
	pair, err := s.API.Login(ctx, contact, password)
	s.Metrics.Login(ctx, err == nil)
	if err != nil {
		// 404 is an unknown contact; it must not read differently from a bad password.
		if st := apiclient.StatusOf(err); st == 400 || st == 401 || st == 403 || st == 404 {
			return nil, ErrBadCreds
		}
		return nil, err
	}
	return s.Sessions.Create(ctx, pair, userOf(pair, contact))
}

// userOf builds the session user from the login answer. The contact number
// stands in for the id only when the API returned none.
func userOf(pair domain.TokenPair, contact string) domain.User {
	u := pair.Account()
	if u.ID == "" {
		u.ID = contact
	}
	if u.ContactNumber == "" {
		u.ContactNumber = contact
	}
	return u
}

func (s *AuthService) RegisterUser(ctx context.Context, body Raw) (Raw, error) {
	var out Raw
	err := s.API.Post(ctx, nil, "/register/user", body, &out)
	return out, err
}

func (s *AuthService) RegisterNGO(ctx context.Context, body []byte, contentType string) (Raw, error) {
	var out Raw
	err := s.API.Do(ctx, nil, apiclient.Request{
		Method: "POST", Path: "/register/ngo", RawBody: body, ContentType: contentType,
	}, &out)
	return out, err
}

func (s *AuthService) ForgotPassword(ctx context.Context, contact string) (Raw, error) {
	var out Raw
	err := s.API.Post(ctx, nil, "/forgot-password", map[string]string{"contact_number": contact}, &out)
	return out, err
}

func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) (Raw, error) {
	var out Raw
	err := s.API.Post(ctx, nil, "/reset-password", map[string]string{"token": token, "new_password": newPassword}, &out)
	return out, err
}

// Logout revokes the refresh token at the API, then drops the local session.
// Revocation is best effort: the session goes either way.
func (s *AuthService) Logout(ctx context.Context, sid string) error {
	sess, err := s.Sessions.Get(ctx, sid)
	if errors.Is(err, session.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if sess.RefreshToken != "" {
		err := s.API.Post(ctx, nil, "/logout", map[string]string{"refresh_token": sess.RefreshToken}, nil)
		if err != nil {
			applog.L().Warn("auth.logout.revoke.fail", zap.String("user_id", sess.User.ID), zap.Error(err))
		}
	}
	return s.Sessions.Destroy(ctx, sid)
}

func (s *AuthService) RegisterAdmin(ctx context.Context, body Raw) (Raw, error) {
	var out Raw
	err := s.API.Post(ctx, nil, "/register/admin", body, &out)
	return out, err
}

func (s *AuthService) CurrentUser(ctx context.Context, sid string) (*domain.User, error) {
	sess, err := s.Sessions.Get(ctx, sid)
	if err != nil {
		return nil, err
	}
	return &sess.User, nil
}
