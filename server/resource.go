package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/getsentry/sentry-go"

	"github.com/jonwraymond/primeload/dispatch"
	"github.com/jonwraymond/primeload/observe"
	"github.com/jonwraymond/primeload/prime"
)

// BasePath is the root of the application routes.
const BasePath = "/v1/prime"

// Route binds a path to a dispatch strategy.
type Route struct {
	Path     string
	Strategy dispatch.Strategy
}

// Routes lists the application routes.
var Routes = []Route{
	{Path: BasePath, Strategy: dispatch.Synchronous},
	{Path: BasePath + "/executor", Strategy: dispatch.Executor},
	{Path: BasePath + "/async", Strategy: dispatch.Async},
	{Path: BasePath + "/managedAsync", Strategy: dispatch.ManagedAsync},
	{Path: BasePath + "/asyncFuture", Strategy: dispatch.AsyncFuture},
}

// Meta describes the route for telemetry.
func (r Route) Meta() observe.EndpointMeta {
	return observe.EndpointMeta{
		Name:   "prime." + r.Strategy.String(),
		Method: http.MethodGet,
		Route:  r.Path,
	}
}

// Reply is the outcome of one prime request.
type Reply struct {
	Status   int
	Response *prime.Response
	Err      error
}

// PrimeResource serves the prime routes.
type PrimeResource struct {
	dispatcher *dispatch.Dispatcher
	logger     observe.Logger
}

// NewPrimeResource creates a resource over d. A nil logger discards output.
func NewPrimeResource(d *dispatch.Dispatcher, logger observe.Logger) *PrimeResource {
	if logger == nil {
		logger = observe.NopLogger()
	}
	return &PrimeResource{dispatcher: d, logger: logger}
}

// Register mounts every route on mux, each timed by mw.
func (p *PrimeResource) Register(mux *http.ServeMux, mw *observe.Middleware) {
	for _, route := range Routes {
		mux.Handle("GET "+route.Path, mw.Handler(route.Meta(), p.Handler(route.Strategy)))
	}
}

// Handler serves one strategy.
func (p *PrimeResource) Handler(s dispatch.Strategy) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		reply := p.Get(ctx, s, ParseUpto(r.URL.Query().Get("upto")))

		if reply.Err != nil {
			if ctx.Err() != nil {
				// Client went away while parked; nobody is left to answer.
				p.logger.Debug(ctx, "request abandoned",
					observe.Field{Key: "strategy", Value: s.String()},
					observe.Field{Key: "error", Value: reply.Err.Error()},
				)
				return
			}
			p.logger.Error(ctx, "prime computation failed",
				observe.Field{Key: "strategy", Value: s.String()},
				observe.Field{Key: "error", Value: reply.Err.Error()},
			)
			if hub := sentry.GetHubFromContext(ctx); hub != nil {
				hub.CaptureException(reply.Err)
			}
			http.Error(w, reply.Err.Error(), reply.Status)
			return
		}

		writeJSON(w, reply.Status, reply.Response)
	})
}

// Get computes the reply for upto with strategy s.
func (p *PrimeResource) Get(ctx context.Context, s dispatch.Strategy, upto prime.Upto) Reply {
	resp, err := p.dispatcher.Dispatch(ctx, s, upto)
	if err != nil {
		return Reply{Status: http.StatusInternalServerError, Err: err}
	}
	return Reply{Status: http.StatusOK, Response: resp}
}

// GetPrime computes synchronously, the way GET /v1/prime does.
func (p *PrimeResource) GetPrime(ctx context.Context, upto prime.Upto) Reply {
	return p.Get(ctx, dispatch.Synchronous, upto)
}

// Probe returns a health probe that requests primes up to 10.
func (p *PrimeResource) Probe() func(ctx context.Context) (int, error) {
	return func(ctx context.Context) (int, error) {
		reply := p.GetPrime(ctx, prime.UptoOf(10))
		return reply.Status, reply.Err
	}
}

// ParseUpto reads the upto query value. A missing or malformed value means
// no bound was given.
func ParseUpto(raw string) prime.Upto {
	if raw == "" {
		return prime.NoUpto
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return prime.NoUpto
	}
	return prime.UptoOf(n)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}
