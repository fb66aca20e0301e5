package sentryconnect

import (
	"github.com/getsentry/sentry-go"
)

// ModuleName tags every event sent from this service
const ModuleName = "omiri-backend"

// Init initializes Sentry and returns a hub scoped to this module.
// An empty DSN disables reporting and returns a nil hub.
func Init(dsn, release, environment string, debug bool) (*sentry.Hub, error) {
	if dsn == "" {
		return nil, nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		TracesSampleRate: 1.0,
		AttachStacktrace: true,
		Release:          release,
		Environment:      environment,
		Debug:            debug,
	})
	if err != nil {
		return nil, err
	}

	hub := sentry.CurrentHub().Clone()
	hub.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetTag("module", ModuleName)
	})

	return hub, nil
}
