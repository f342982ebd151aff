package logger

import (
	"fmt"
	"log"
	"log/slog"
	"os"
)

// New returns a stdlib-backed logger with component prefix.
func New(component string) *log.Logger {
	prefix := fmt.Sprintf("[%s] ", component)
	return log.New(os.Stdout, prefix, log.LstdFlags|log.Lshortfile)
}

// FromSlog adapts a structured logger for libraries that only accept *log.Logger.
// Lines are emitted at level with a component attribute.
func FromSlog(base *slog.Logger, component string, level slog.Level) *log.Logger {
	if base == nil {
		return New(component)
	}
	return slog.NewLogLogger(base.With("component", component).Handler(), level)
}
