package services

import (
	"encoding/json"
	"errors"
	"net/url"
	"regexp"

	"giftible/internal/apiclient"
)

var ErrInvalidInput = errors.New("invalid input")

// Raw is an API record passed through untouched.
type Raw = json.RawMessage

// Creds are the caller's session credentials; nil for anonymous calls.
type Creds = apiclient.Credentials

var reNumeric = regexp.MustCompile(`^[0-9]{1,18}$`)

// idValue sends numeric ids as JSON numbers, which the API expects.
func idValue(id string) any {
	if reNumeric.MatchString(id) {
		return json.Number(id)
	}
	return id
}

func seg(id string) string { return url.PathEscape(id) }
