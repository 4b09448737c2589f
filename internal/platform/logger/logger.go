package logger

import (
	"log/slog"
	"os"
)

// New returns a text slog logger on stdout; handlers and stores take it as a
// dependency rather than reaching for the default logger.
func New() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
