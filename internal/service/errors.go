package service

import (
	"errors"
	"strings"

	"github.com/Kerhoff/WishDesk/internal/client"
)

// ValidationError aborts an action before any request is sent.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NotFoundError is a lookup that matched nothing on the server.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

type messagePolicy int

const (
	// policyStructured reports the server's message, or the generic one.
	policyStructured messagePolicy = iota
	// policyGeneric always reports the generic message for server failures.
	policyGeneric
	// policyRaw falls back to the raw response text before the generic one.
	policyRaw
)

// FlashMessage renders err as the operator-facing message.
func FlashMessage(err error) string {
	return flashMessage(err, policyStructured)
}

func flashMessage(err error, policy messagePolicy) string {
	var validation *ValidationError
	if errors.As(err, &validation) {
		return validation.Message
	}
	var notFound *NotFoundError
	if errors.As(err, &notFound) {
		return notFound.Message
	}
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		switch policy {
		case policyGeneric:
			return client.GenericMessage
		case policyRaw:
			if apiErr.Structured() {
				return apiErr.Message
			}
			if raw := strings.TrimSpace(apiErr.Raw); raw != "" {
				return raw
			}
		}
		return apiErr.Message
	}
	return client.GenericMessage
}

func required(field, message string, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{Field: field, Message: message}
	}
	return nil
}
