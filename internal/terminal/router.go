package terminal

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

// ErrQuit ends the console loop.
var ErrQuit = errors.New("terminal: quit")

// ErrUnknownCommand is returned for a line naming no registered command.
var ErrUnknownCommand = errors.New("unknown command")

// Router handles line routing and command parsing
type Router struct {
	logger   *logrus.Logger
	handlers map[string]CommandHandler
}

// Command is one parsed input line.
type Command struct {
	Name string
	// Args are the whitespace-separated words after the name.
	Args []string
	// Rest is the line after the name and one separator, untouched.
	Rest string
}

// CommandHandler handles one console command.
type CommandHandler interface {
	Handle(ctx context.Context, cmd Command) error
}

// HandlerFunc adapts a function to CommandHandler.
type HandlerFunc func(ctx context.Context, cmd Command) error

// Handle calls f.
func (f HandlerFunc) Handle(ctx context.Context, cmd Command) error {
	return f(ctx, cmd)
}

// NewRouter creates a new command router
func NewRouter(logger *logrus.Logger) *Router {
	return &Router{
		logger:   logger,
		handlers: make(map[string]CommandHandler),
	}
}

// RegisterCommand registers a command handler
func (r *Router) RegisterCommand(command string, handler CommandHandler) {
	r.handlers[command] = handler
	r.logger.Debugf("Registered command: %s", command)
}

// Commands lists the registered command names, sorted.
func (r *Router) Commands() []string {
	out := make([]string, 0, len(r.handlers))
	for c := range r.handlers {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// HandleLine routes one input line. A leading slash is optional and blank
// lines are ignored.
func (r *Router) HandleLine(ctx context.Context, line string) error {
	name, rest := CutWord(strings.TrimPrefix(strings.TrimLeft(line, " \t"), "/"))
	if name == "" {
		return nil
	}

	handler, exists := r.handlers[name]
	if !exists {
		r.logger.WithField("command", name).Warn("Unknown command")
		return ErrUnknownCommand
	}

	if err := handler.Handle(ctx, Command{Name: name, Args: strings.Fields(rest), Rest: rest}); err != nil {
		if !errors.Is(err, ErrQuit) {
			r.logger.WithFields(logrus.Fields{
				"command": name,
				"error":   err,
			}).Error("Command handler failed")
		}
		return err
	}
	return nil
}

// CutWord splits s into its first word and whatever follows the single
// whitespace character after it. Leading whitespace before the word is
// skipped; everything after the separator is kept verbatim.
func CutWord(s string) (word, rest string) {
	s = strings.TrimLeft(s, " \t")
	i := strings.IndexAny(s, " \t")
	if i < 0 {
		return s, ""
	}
	return s[:i], s[i+1:]
}
