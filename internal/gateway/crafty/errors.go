package crafty

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrEmptyTarget is returned before any request is made for a blank server id.
var ErrEmptyTarget = errors.New("crafty: server id is required")

// TransportError means the request never produced an HTTP response
// (DNS, TCP, TLS, cancelled context).
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("crafty %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// RemoteError is a well-formed rejection: HTTP non-2xx or status != "ok".
type RemoteError struct {
	Op         string
	StatusCode int
	Code       string
	Message    string
}

func (e *RemoteError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "crafty %s: remote error", e.Op)
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (http %d)", e.StatusCode)
	}
	detail := strings.TrimSpace(e.Message)
	if code := strings.TrimSpace(e.Code); code != "" && code != detail {
		if detail != "" {
			detail = code + ": " + detail
		} else {
			detail = code
		}
	}
	if detail != "" {
		b.WriteString(": ")
		b.WriteString(detail)
	}
	return b.String()
}

// MalformedResponseError means a 2xx body was not the documented JSON shape.
type MalformedResponseError struct {
	Op  string
	Err error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("crafty %s: malformed response: %v", e.Op, e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// IsNotFound reports whether err is the panel saying the server does not exist.
func IsNotFound(err error) bool {
	var remote *RemoteError
	if !errors.As(err, &remote) {
		return false
	}
	if remote.StatusCode == http.StatusNotFound {
		return true
	}
	return strings.Contains(strings.ToUpper(remote.Code), "NOT_FOUND")
}
