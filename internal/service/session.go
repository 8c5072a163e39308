package service

import (
	"context"
	"sync"

	"github.com/Kerhoff/WishDesk/internal/form"
	"github.com/Kerhoff/WishDesk/internal/render"
)

// Reporter surfaces the flash message of an outcome.
type Reporter interface {
	Report(message string)
}

// Session is what one operator sees: the form, the last results table and
// the flash line. Outcomes are applied in arrival order with no sequencing,
// so when two actions overlap the one that finishes last wins.
type Session struct {
	ID string

	mu    sync.Mutex
	form  form.State
	table *render.Table
	flash Reporter
}

// NewSession creates an empty session reporting flashes to flash. A nil flash
// uses a fresh form.Flash.
func NewSession(id string, flash Reporter) *Session {
	if flash == nil {
		flash = &form.Flash{}
	}
	return &Session{ID: id, form: form.New(), flash: flash}
}

// Form returns a copy of the current form.
func (s *Session) Form() form.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form.Clone()
}

// Table returns the last results table, or nil.
func (s *Session) Table() *render.Table {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table
}

// Flash returns the session's reporter.
func (s *Session) Flash() Reporter {
	return s.flash
}

// Apply replaces the form wholesale with the outcome's, swaps in its table
// when it has one, and reports its flash message exactly once.
func (s *Session) Apply(o Outcome) {
	s.mu.Lock()
	s.form = o.Form.Clone()
	if o.Table != nil {
		s.table = o.Table
	}
	s.mu.Unlock()

	s.flash.Report(o.Flash)
}

// Do runs action against in and applies the outcome.
func (s *Session) Do(ctx context.Context, svc *Service, action Action, in form.State) Outcome {
	o := svc.Run(WithSession(ctx, s.ID), action, in)
	s.Apply(o)
	return o
}

// Submit runs action in the background against a snapshot of the current
// form. The outcome is applied when it arrives and then delivered on the
// returned channel.
func (s *Session) Submit(ctx context.Context, svc *Service, action Action) <-chan Outcome {
	in := s.Form()
	done := make(chan Outcome, 1)
	go func() {
		done <- s.Do(ctx, svc, action, in)
		close(done)
	}()
	return done
}

// Edit writes operator-typed values over the current form. No flash is
// reported.
func (s *Session) Edit(values form.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for name, v := range values {
		s.form.Write(name, v)
	}
}

// Sessions hands out one Session per operator id. Sessions live for the
// process lifetime.
type Sessions struct {
	mu   sync.Mutex
	byID map[string]*Session
}

// NewSessions returns an empty store.
func NewSessions() *Sessions {
	return &Sessions{byID: make(map[string]*Session)}
}

// Get returns the session for id, creating it on first use.
func (s *Sessions) Get(id string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.byID[id]; ok {
		return sess
	}
	sess := NewSession(id, nil)
	s.byID[id] = sess
	return sess
}

// Len reports how many sessions exist.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}
