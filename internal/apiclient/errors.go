package apiclient

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

var (
	ErrUnauthenticated = errors.New("not authenticated")
	ErrNetwork         = errors.New("network failure")
	ErrServer          = errors.New("server failure")
	ErrMalformedBody   = fmt.Errorf("%w: malformed response body", ErrServer)
	ErrMissingBaseURL  = errors.New("backend base url is required")
)

// ValidationError is a 4xx (other than 401) with whatever field errors the backend sent.
type ValidationError struct {
	Status int
	Detail string
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	if len(e.Fields) == 0 {
		return fmt.Sprintf("request rejected with status %d", e.Status)
	}

	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], " "))
	}
	return strings.Join(parts, "; ")
}

func (e *ValidationError) NotFound() bool {
	return e.Status == http.StatusNotFound
}

// ServerError is a 5xx response.
type ServerError struct {
	Status int
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server responded with status %d", e.Status)
}

func (e *ServerError) Unwrap() error {
	return ErrServer
}

func IsNotFound(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr) && verr.NotFound()
}

// parseValidation turns a DRF style error body into a ValidationError.
// Bodies look like {"detail": "..."}, {"error": "..."} or {"field": ["msg", ...]}.
func parseValidation(status int, body map[string]any) *ValidationError {
	verr := &ValidationError{Status: status}
	for key, value := range body {
		switch key {
		case "detail", "error", "message", "non_field_errors":
			if msg := joinMessages(value); msg != "" {
				if verr.Detail == "" {
					verr.Detail = msg
				} else {
					verr.Detail += " " + msg
				}
			}
		default:
			msgs := messages(value)
			if len(msgs) == 0 {
				continue
			}
			if verr.Fields == nil {
				verr.Fields = make(map[string][]string)
			}
			verr.Fields[key] = msgs
		}
	}
	return verr
}

func messages(value any) []string {
	switch v := value.(type) {
	case string:
		return []string{v}
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func joinMessages(value any) string {
	return strings.Join(messages(value), " ")
}
