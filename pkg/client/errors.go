package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind classifies a failed call.
type Kind int

const (
	// KindNetwork means no response was received.
	KindNetwork Kind = iota + 1
	// KindAuthRejected is a 401 from login or account creation.
	KindAuthRejected
	// KindSessionExpired is a 401 from any other endpoint.
	KindSessionExpired
	// KindValidation covers other 4xx responses and drafts rejected locally.
	KindValidation
	// KindServer covers 5xx responses.
	KindServer
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindAuthRejected:
		return "auth_rejected"
	case KindSessionExpired:
		return "session_expired"
	case KindValidation:
		return "validation"
	case KindServer:
		return "server"
	default:
		return "unknown"
	}
}

// Error is the error returned for every failed backend call.
type Error struct {
	Kind       Kind
	StatusCode int // 0 when no response was received
	Message    string
	Err        error
}

func (e *Error) Error() string {
	switch {
	case e.StatusCode > 0:
		return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	default:
		return e.Message
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewValidationError builds a KindValidation error for a draft rejected
// before it reached the backend.
func NewValidationError(err error) *Error {
	return &Error{Kind: KindValidation, Message: err.Error(), Err: err}
}

// IsStatus returns true if err (or any wrapped error) is an Error with the given status code.
func IsStatus(err error, code int) bool {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == code
	}
	return false
}

// IsKind returns true if err (or any wrapped error) is an Error of kind k.
func IsKind(err error, k Kind) bool {
	return KindOf(err) == k
}

// KindOf returns the kind of err, or 0 when err is not an Error.
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return 0
}

// Message returns a human-readable description of err for display.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		if apiErr.Kind == KindNetwork {
			return "unable to reach the server, check your connection"
		}
		return apiErr.Message
	}
	return err.Error()
}

// classify maps a non-2xx status to its kind. exempt marks login and
// account creation, where 401 means the credentials were refused.
func classify(status int, exempt bool) Kind {
	switch {
	case status == http.StatusUnauthorized && exempt:
		return KindAuthRejected
	case status == http.StatusUnauthorized:
		return KindSessionExpired
	case status >= 500:
		return KindServer
	default:
		return KindValidation
	}
}

// errorMessage pulls the human-readable reason out of an error body. Backends
// answer with {"error":"..."}, {"message":"..."} or {"error":{"message":"..."}}.
func errorMessage(body []byte, status int) string {
	var payload struct {
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
	}
	if json.Unmarshal(body, &payload) == nil {
		if len(payload.Error) > 0 {
			var s string
			if json.Unmarshal(payload.Error, &s) == nil && s != "" {
				return s
			}
			var nested struct {
				Code    string `json:"code"`
				Message string `json:"message"`
			}
			if json.Unmarshal(payload.Error, &nested) == nil {
				if nested.Message != "" {
					return nested.Message
				}
				if nested.Code != "" {
					return nested.Code
				}
			}
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	if text := strings.TrimSpace(string(body)); text != "" && !strings.HasPrefix(text, "{") {
		return text
	}
	return fmt.Sprintf("request failed with status %d", status)
}
