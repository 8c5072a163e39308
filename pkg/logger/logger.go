package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// New creates a console logger writing to stdout at the given level.
func New(level string) *logrus.Logger {
	return NewWithOutput(level, os.Stdout)
}

// NewWithOutput creates a logger with the specified level and output. An
// unknown level falls back to info.
func NewWithOutput(level string, out io.Writer) *logrus.Logger {
	l := logrus.New()

	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	l.SetLevel(logLevel)

	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
		ForceColors:   out == os.Stdout,
	})
	l.SetOutput(out)

	return l
}

// Discard returns a logger that drops everything. Used by tests and by the
// terminal console, where log lines would interleave with prompts.
func Discard() *logrus.Logger {
	return NewWithOutput("panic", io.Discard)
}

// ForAction returns an entry pre-populated with the action and session fields.
func ForAction(l *logrus.Logger, action, session string) *logrus.Entry {
	return l.WithFields(logrus.Fields{
		"action":  action,
		"session": session,
	})
}
