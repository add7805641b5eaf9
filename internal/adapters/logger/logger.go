package logger

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/ctxpack/ctxpack/internal/core/ports"
)

// messager describes an error that can report its own message without the
// chain. This matches the Message() method provided by zerr.Error.
type messager interface {
	Message() string
}

// Logger is the ports.Logger adapter backed by slog and PrettyHandler.
type Logger struct {
	logger *slog.Logger
	mu     sync.RWMutex
}

// New creates a new Logger writing pretty output to stderr.
func New() ports.Logger {
	return &Logger{logger: slog.New(newDefaultHandler(os.Stderr))}
}

func newDefaultHandler(w io.Writer) *PrettyHandler {
	return NewPrettyHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
}

// SetOutput updates the logger's output destination. The interactive UI uses
// this to divert logs away from the terminal while it owns the screen.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if w == nil {
		w = os.Stderr
	}
	l.logger = slog.New(newDefaultHandler(w))
}

// Info emits an informational line.
func (l *Logger) Info(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Info(msg)
}

// Warn emits a warning line.
func (l *Logger) Warn(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Warn(msg)
}

// Error logs an error with its cause chain rendered hierarchically.
func (l *Logger) Error(err error) {
	if err == nil {
		return
	}

	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Error(renderChain(err))
}

// chainMessages walks the error chain outermost-first, stopping at the first
// error that cannot report its own message (its Error() covers the rest).
func chainMessages(err error) []string {
	var messages []string
	for err != nil {
		m, ok := err.(messager)
		if !ok {
			messages = append(messages, err.Error())
			break
		}
		messages = append(messages, m.Message())
		err = errors.Unwrap(err)
	}
	return messages
}

// renderChain formats an error chain as an Error: line followed by an
// indented Caused by: list, one arrow per underlying cause.
func renderChain(err error) string {
	messages := chainMessages(err)

	var lines []string
	for i, msg := range messages {
		first, rest, _ := strings.Cut(msg, "\n")

		switch i {
		case 0:
			lines = append(lines, "Error: "+first)
		case 1:
			lines = append(lines, "", "  Caused by:", "    → "+first)
		default:
			lines = append(lines, "    → "+first)
		}
		if rest != "" {
			indent := "       "
			if i > 0 {
				indent = "      "
			}
			for _, line := range strings.Split(rest, "\n") {
				lines = append(lines, indent+line)
			}
		}
	}
	return strings.Join(lines, "\n")
}
