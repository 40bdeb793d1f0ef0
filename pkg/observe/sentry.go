// Package observe wires error reporting.
package observe

import (
	"time"

	"github.com/getsentry/sentry-go"
)

const flushTimeout = 2 * time.Second

type SentryOptions struct {
	DSN         string
	Release     string
	Environment string
	ServerName  string
}

// InitSentry configures the global Sentry hub. An empty DSN leaves reporting
// disabled and returns a no-op flush.
func InitSentry(opts SentryOptions) (flush func(), err error) {
	if opts.DSN == "" {
		return func() {}, nil
	}

	err = sentry.Init(sentry.ClientOptions{
		Dsn:              opts.DSN,
		AttachStacktrace: true,
		Release:          opts.Release,
		Environment:      opts.Environment,
		ServerName:       opts.ServerName,
	})
	if err != nil {
		return func() {}, err
	}
	return func() { sentry.Flush(flushTimeout) }, nil
}
