// Package events publishes session audit events. Publishing never blocks the
// request path on the broker.
package events

import (
	"context"
	"time"
)

const (
	SessionLogin     = "session.login"
	SessionLogout    = "session.logout"
	SessionRefreshed = "session.refreshed"
	SessionExpired   = "session.expired"
)

type Event struct {
	Type   string    `json:"type"`
	UserID string    `json:"user_id,omitempty"`
	Role   string    `json:"role,omitempty"`
	Reason string    `json:"reason,omitempty"`
	At     time.Time `json:"at"`
}

type Publisher interface {
	Publish(ctx context.Context, key string, ev Event) error
	Close() error
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, string, Event) error { return nil }
func (Nop) Close() error                                 { return nil }
