// Package service runs operator actions: validate the form, dispatch the
// request, and reconcile the response back into form state.
package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/WishDesk/internal/client"
	"github.com/Kerhoff/WishDesk/internal/form"
	"github.com/Kerhoff/WishDesk/internal/mapper"
	"github.com/Kerhoff/WishDesk/internal/render"
	"github.com/Kerhoff/WishDesk/pkg/logger"
)

// Dispatcher sends one request to the REST API.
type Dispatcher interface {
	Send(ctx context.Context, method, path string, body any) (*client.Response, error)
}

// Outcome is the terminal result of one action.
type Outcome struct {
	Action Action
	// Form is the complete form to display after the action.
	Form form.State
	// Table is set when the action produced a result list.
	Table *render.Table
	// Flash is the single message to report.
	Flash string
	Err   error
}

// Failed reports whether the action ended in an error.
func (o Outcome) Failed() bool {
	return o.Err != nil
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the clock used to fill a blank updated_time.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.clock = now }
}

// Service is the central action layer shared by every console.
type Service struct {
	api     Dispatcher
	logger  *logrus.Logger
	clock   mapper.Clock
	actions map[Action]handler
}

// New creates a Service dispatching through api.
func New(api Dispatcher, logger *logrus.Logger, opts ...Option) *Service {
	s := &Service{
		api:    api,
		logger: logger,
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.actions = s.handlers()
	return s
}

// Actions lists the supported actions in a stable order.
func (s *Service) Actions() []Action {
	out := make([]Action, 0, len(s.actions))
	for a := range s.actions {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Supports reports whether action is known.
func (s *Service) Supports(action Action) bool {
	_, ok := s.actions[action]
	return ok
}

// Run performs action against the given form. The input is not modified.
// Every call yields exactly one flash message, on success and on failure.
func (s *Service) Run(ctx context.Context, action Action, in form.State) Outcome {
	log := logger.ForAction(s.logger, string(action), SessionFromContext(ctx))
	state := in.Clone()

	h, ok := s.actions[action]
	if !ok {
		err := &ValidationError{Message: fmt.Sprintf("Unknown action: %s", action)}
		log.Warn("unknown action")
		return Outcome{Action: action, Form: state, Flash: err.Message, Err: err}
	}

	res, err := h.run(ctx, state)
	if err != nil {
		state.Clear(mapper.Fields(h.kind)...)
		msg := flashMessage(err, h.policy)
		log.WithError(err).WithField("flash", msg).Info("action failed")
		return Outcome{Action: action, Form: state, Flash: msg, Err: err}
	}

	state.Clear(res.clear...)
	for k, v := range res.fields {
		state[k] = v
	}
	log.WithField("flash", res.flash).Debug("action completed")
	return Outcome{Action: action, Form: state, Table: res.table, Flash: res.flash}
}

type sessionKey struct{}

// WithSession tags ctx with a session id used in log lines.
func WithSession(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionKey{}, id)
}

// SessionFromContext returns the session id set by WithSession.
func SessionFromContext(ctx context.Context) string {
	id, _ := ctx.Value(sessionKey{}).(string)
	return id
}
