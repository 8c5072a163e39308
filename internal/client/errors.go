package client

import (
	"encoding/json"
	"fmt"
	"strings"
)

// GenericMessage is reported when the server gives no usable error message.
const GenericMessage = "Server error!"

// APIError is a failed request: either a non-2xx response or a transport
// failure (Status 0).
type APIError struct {
	Method string
	Path   string
	Status int
	// Message is human readable: the server's {"message": ...} when present,
	// GenericMessage otherwise.
	Message string
	// Raw is the response body as text, if any.
	Raw string
	Err error
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s %s: %s: %v", e.Method, e.Path, e.Message, e.Err)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Status, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Structured reports whether Message came from the server.
func (e *APIError) Structured() bool {
	return e.Message != GenericMessage
}

// messageFromBody extracts {"message": "..."} from an error body.
func messageFromBody(body []byte) string {
	var shape struct {
		Message any `json:"message"`
	}
	if err := json.Unmarshal(body, &shape); err != nil {
		return GenericMessage
	}
	msg, ok := shape.Message.(string)
	if !ok || strings.TrimSpace(msg) == "" {
		return GenericMessage
	}
	return msg
}
