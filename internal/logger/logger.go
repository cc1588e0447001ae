// Package logger provides a configured zerolog logger.
package logger

import (
	"os"

	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog"
	zpkgerrors "github.com/rs/zerolog/pkgerrors"
)

type stackTracer interface {
	StackTrace() pkgerrors.StackTrace
}

// withStack attaches a pkg/errors stack unless the error already carries one.
func withStack(err error) error {
	if _, ok := err.(stackTracer); ok {
		return err
	}
	return pkgerrors.WithStack(err)
}

// New returns a new zerolog.Logger configured for the application.
// Call sites should use .Stack() on error events to include stacks.
func New(serviceName string) zerolog.Logger {
	zerolog.ErrorStackMarshaler = func(err error) interface{} {
		return zpkgerrors.MarshalStack(withStack(err))
	}
	zerolog.ErrorMarshalFunc = func(err error) interface{} {
		return withStack(err)
	}

	return zerolog.New(os.Stdout).With().
		Str("service", serviceName).
		Timestamp().
		Logger()
}
