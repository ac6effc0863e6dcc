package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/cleared-dev/autoshop/internal/auth"
)

// maxErrorBody bounds how much of an error response is kept.
const maxErrorBody = 512

// Error is a non-2xx response from the backend.
type Error struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
}

// Unwrap maps 401 responses onto auth.ErrUnauthenticated.
func (e *Error) Unwrap() error {
	if e.StatusCode == http.StatusUnauthorized {
		return auth.ErrUnauthenticated
	}
	return nil
}

// conflictMarkers are fragments backends put in duplicate-key errors.
var conflictMarkers = []string{"duplicate", "already exists", "unique", "e11000"}

// IsConflict reports whether err is the backend rejecting a create because
// the record already exists.
func IsConflict(err error) bool {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return false
	}
	if apiErr.StatusCode == http.StatusConflict {
		return true
	}
	msg := strings.ToLower(apiErr.Message)
	for _, m := range conflictMarkers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}

func newError(method, path string, status int, body []byte) *Error {
	return &Error{Method: method, Path: path, StatusCode: status, Message: errorMessage(status, body)}
}

// errorMessage pulls "error" or "message" out of a JSON body, else returns
// the trimmed body.
func errorMessage(status int, body []byte) string {
	var envelope struct {
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
	}
	if json.Unmarshal(body, &envelope) == nil {
		var s string
		if len(envelope.Error) > 0 && json.Unmarshal(envelope.Error, &s) == nil && s != "" {
			return s
		}
		if envelope.Message != "" {
			return envelope.Message
		}
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > maxErrorBody {
		msg = msg[:maxErrorBody]
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	return msg
}
