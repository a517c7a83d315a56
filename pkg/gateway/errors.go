package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"
)

// Error is returned for every failed gateway call: transport errors, non-2xx
// responses and unreadable bodies alike.
type Error struct {
	Op         string // "upload" or "ask"
	StatusCode int    // zero when no response was received
	Message    string // human readable message sent by the backend, if any
	Err        error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("gateway: %s: %s", e.Op, e.Message)
	}
	return fmt.Sprintf("gateway: %s: %s", e.Op, e.Description())
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Description is the generic transport description of the failure,
// ignoring any message the backend sent.
func (e *Error) Description() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("request failed with status code %d", e.StatusCode)
	}
	return "request failed"
}

// Timeout reports whether the call ran out of time.
func (e *Error) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(e.Err, &netErr) && netErr.Timeout()
}

// extractMessage pulls a human readable message out of an error body.
// Accepts {"message": ...}, FastAPI's {"detail": ...} and {"error": ...}.
func extractMessage(body []byte) string {
	var payload struct {
		Message json.RawMessage `json:"message"`
		Detail  json.RawMessage `json:"detail"`
		Error   json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}

	for _, raw := range []json.RawMessage{payload.Message, payload.Detail, payload.Error} {
		var s string
		if len(raw) == 0 || json.Unmarshal(raw, &s) != nil {
			continue
		}
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}
