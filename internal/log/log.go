// Package log carries a logrus logger through a context.
package log

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"
)

type loggerKey struct{}

// NewLogger returns a text logger writing to stderr.
func NewLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return l
}

// SetLogger returns a copy of ctx carrying l.
func SetLogger(ctx context.Context, l logrus.FieldLogger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// GetLogger returns the logger stored in ctx, or the logrus standard logger.
func GetLogger(ctx context.Context) logrus.FieldLogger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey{}).(logrus.FieldLogger); ok {
			return l
		}
	}
	return logrus.StandardLogger()
}
