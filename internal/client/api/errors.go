package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrBadRequest   = errors.New("bad request")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrServer       = errors.New("server error")
)

// APIError is a non-2xx response.
type APIError struct {
	Status    int
	Message   string
	RequestID string
	kind      error
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

func (e *APIError) Unwrap() error { return e.kind }

// MessageOf returns the server-provided message of err when it is an
// *APIError with one, and fallback otherwise.
func MessageOf(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

func newAPIError(status int, body []byte, requestID string) *APIError {
	return &APIError{
		Status:    status,
		Message:   errorMessage(body),
		RequestID: requestID,
		kind:      kindOf(status),
	}
}

func kindOf(status int) error {
	switch {
	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity:
		return ErrBadRequest
	case status == http.StatusUnauthorized:
		return ErrUnauthorized
	case status == http.StatusForbidden:
		return ErrForbidden
	case status == http.StatusNotFound:
		return ErrNotFound
	case status == http.StatusConflict:
		return ErrConflict
	case status >= 500:
		return ErrServer
	default:
		return ErrBadRequest
	}
}

// errorMessage digs a human message out of an error body. The API answers
// either {"message": "..."} or, for validation failures,
// {"details": {"<field>": {"message": "..."}}}.
func errorMessage(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}
	if m := gjson.GetBytes(body, "message"); m.Type == gjson.String && m.Str != "" {
		return m.Str
	}
	var msg string
	gjson.GetBytes(body, "details").ForEach(func(_, v gjson.Result) bool {
		if m := v.Get("message"); m.Exists() && m.String() != "" {
			msg = m.String()
			return false
		}
		return true
	})
	return msg
}
