package server

import (
	"fmt"
	"net/http"

	"github.com/getsentry/sentry-go"
	sentryhttp "github.com/getsentry/sentry-go/http"

	"github.com/jonwraymond/primeload/observe"
)

// recoverer turns a panic escaping next into a 500 response.
func recoverer(logger observe.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			p := recover()
			if p == nil {
				return
			}
			if p == http.ErrAbortHandler {
				panic(p)
			}
			logger.Error(r.Context(), "handler panicked",
				observe.Field{Key: "path", Value: r.URL.Path},
				observe.Field{Key: "panic", Value: fmt.Sprint(p)},
			)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}()
		next.ServeHTTP(w, r)
	})
}

// withSentry gives every request its own hub and reports panics before
// re-raising them.
func withSentry(next http.Handler) http.Handler {
	return sentryhttp.New(sentryhttp.Options{Repanic: true}).Handle(next)
}

// sentryOptions builds the client options for the configured DSN.
func sentryOptions(dsn, environment, release string, debug bool) sentry.ClientOptions {
	return sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      environment,
		Release:          release,
		Debug:            debug,
		AttachStacktrace: true,
	}
}
