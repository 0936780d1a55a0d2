package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrSessionExpired is returned when the credentials could not be refreshed.
// The session has been cleared by the time a caller sees it.
var ErrSessionExpired = errors.New("session expired")

// APIError is a non-2xx answer from the REST API.
type APIError struct {
	Status int
	Detail string
	Body   []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.Status, e.Detail)
}

// StatusOf returns the API status carried by err, or 0.
func StatusOf(err error) int {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.Status
	}
	return 0
}

func newAPIError(status int, body []byte) *APIError {
	return &APIError{Status: status, Detail: detailOf(status, body), Body: body}
}

// detailOf pulls a human message out of the API's {"detail": ...} or
// {"error": ...} bodies.
func detailOf(status int, body []byte) string {
	var env struct {
		Detail json.RawMessage `json:"detail"`
		Error  string          `json:"error"`
	}
	if len(body) > 0 && json.Unmarshal(body, &env) == nil {
		if len(env.Detail) > 0 {
			var s string
			if json.Unmarshal(env.Detail, &s) == nil {
				return s
			}
			return string(env.Detail)
		}
		if env.Error != "" {
			return env.Error
		}
	}
	if t := strings.TrimSpace(string(body)); t != "" && len(t) < 200 && !strings.HasPrefix(t, "<") {
		return t
	}
	return http.StatusText(status)
}
