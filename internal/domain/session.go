package domain

import "time"

// Session holds the credentials of one browser, keyed by the sid cookie.
type Session struct {
	ID           string
	AccessToken  string
	RefreshToken string
	User         User
	CreatedAt    time.Time
	LastSeen     time.Time
}

func (s *Session) Authenticated() bool {
	return s != nil && s.User.ID != ""
}
