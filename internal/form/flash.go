package form

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var flashPolicy = bluemonday.StrictPolicy()

// Flash is the one status line shown to the operator. Every Report replaces
// the previous message.
type Flash struct {
	mu      sync.Mutex
	message string
	reports int
}

// Report replaces the current message.
func (f *Flash) Report(message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.message = message
	f.reports++
}

// Message returns the current message.
func (f *Flash) Message() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.message
}

// Reports returns how many times Report has been called.
func (f *Flash) Reports() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reports
}

// Sanitized returns the message with all markup stripped. Server-supplied
// error text ends up here, so nothing it carries is allowed through.
func (f *Flash) Sanitized() string {
	return Sanitize(f.Message())
}

// Sanitize strips markup from a message.
func Sanitize(message string) string {
	return flashPolicy.Sanitize(message)
}
