// Package authz decides whether a navigation or API call may proceed for a
// given role. It has no side effects; the HTTP layer acts on the decision.
package authz

import (
	"slices"

	"giftible/internal/domain"
)

type Decision int

const (
	Permit Decision = iota
	RedirectLogin
	RedirectHome
)

func (d Decision) String() string {
	switch d {
	case Permit:
		return "permit"
	case RedirectLogin:
		return "redirect_login"
	case RedirectHome:
		return "redirect_home"
	}
	return "unknown"
}

// Location is where a denied page navigation is sent.
func (d Decision) Location() string {
	switch d {
	case RedirectLogin:
		return "/login"
	case RedirectHome:
		return "/"
	}
	return ""
}

// Decide applies the allow-list. An empty list marks a public route. A
// signed-in session whose role is unknown is denied rather than let through.
func Decide(authenticated bool, role domain.Role, allowed []domain.Role) Decision {
	if len(allowed) == 0 {
		return Permit
	}
	if !authenticated || role == "" {
		return RedirectLogin
	}
	if !slices.Contains(allowed, role) {
		return RedirectHome
	}
	return Permit
}
