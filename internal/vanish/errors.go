package vanish

import (
	"encoding/json"
	"fmt"
	"strings"
)

// APIError is returned for any non-2xx response from the Vanish API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("vanish: unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("vanish: status %d: %s", e.StatusCode, e.Message)
}

// newAPIError extracts a message from an error body. The API uses either
// {"error": "..."} or {"message": "..."}; anything else is used verbatim.
func newAPIError(status int, body []byte) *APIError {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	msg := strings.TrimSpace(string(body))
	if err := json.Unmarshal(body, &payload); err == nil {
		switch {
		case payload.Error != "":
			msg = payload.Error
		case payload.Message != "":
			msg = payload.Message
		}
	}
	return &APIError{StatusCode: status, Message: msg}
}
