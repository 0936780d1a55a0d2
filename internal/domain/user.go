package domain

import (
	"encoding/json"
	"strings"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleNGO   Role = "ngo"
	RoleUser  Role = "user"
)

// ParseRole normalises a role string from the API. Unknown values map to "".
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleAdmin, RoleNGO, RoleUser:
		return Role(s)
	}
	switch s {
	case "ADMIN", "Admin":
		return RoleAdmin
	case "NGO", "Ngo":
		return RoleNGO
	case "USER", "User":
		return RoleUser
	}
	return ""
}

// ID is an API identifier. The API sends numbers for most entities; they
// are kept in their decimal text form.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	*id = ID(rawID(b))
	return nil
}

type User struct {
	ID            string `json:"id"`
	Name          string `json:"name,omitempty"`
	Email         string `json:"email,omitempty"`
	ContactNumber string `json:"contact_number,omitempty"`
	Role          Role   `json:"role,omitempty"`
	// NGOID is the NGO profile of an ngo account; it differs from ID.
	NGOID string `json:"ngo_id,omitempty"`
}

// UnmarshalJSON accepts numeric ids, which the API uses for most entities.
func (u *User) UnmarshalJSON(b []byte) error {
	var raw struct {
		ID            ID     `json:"id"`
		Name          string `json:"name"`
		FirstName     string `json:"first_name"`
		LastName      string `json:"last_name"`
		Email         string `json:"email"`
		ContactNumber string `json:"contact_number"`
		Role          string `json:"role"`
		NGOID         ID     `json:"ngo_id"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	name := raw.Name
	if name == "" {
		name = fullName(raw.FirstName, raw.LastName)
	}
	*u = User{
		ID:            string(raw.ID),
		Name:          name,
		Email:         raw.Email,
		ContactNumber: raw.ContactNumber,
		Role:          ParseRole(raw.Role),
		NGOID:         string(raw.NGOID),
	}
	return nil
}

func fullName(first, last string) string {
	return strings.TrimSpace(first + " " + last)
}

func rawID(b []byte) string {
	if len(b) == 0 || string(b) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		return s
	}
	return string(b)
}

// TokenPair is the body of the login and refresh endpoints. The login answer
// also carries the account: id, names, role and, for NGOs, ngo_id at the top
// level. Some deployments nest a user record instead.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type,omitempty"`
	Role         string `json:"role,omitempty"`
	ID           ID     `json:"id,omitempty"`
	FirstName    string `json:"first_name,omitempty"`
	LastName     string `json:"last_name,omitempty"`
	NGOID        ID     `json:"ngo_id,omitempty"`
	User         *User  `json:"user,omitempty"`
}

// Account merges the identity fields of a login answer. Values from a nested
// user record win over the top-level ones.
func (p TokenPair) Account() User {
	var u User
	if p.User != nil {
		u = *p.User
	}
	if u.ID == "" {
		u.ID = string(p.ID)
	}
	if u.Name == "" {
		u.Name = fullName(p.FirstName, p.LastName)
	}
	if u.Role == "" {
		u.Role = ParseRole(p.Role)
	}
	if u.NGOID == "" {
		u.NGOID = string(p.NGOID)
	}
	return u
}
