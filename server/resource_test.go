package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/jonwraymond/primeload/dispatch"
	"github.com/jonwraymond/primeload/observe"
	"github.com/jonwraymond/primeload/prime"
	"github.com/jonwraymond/primeload/workpool"
)

// recordingSource always draws 0 and remembers the last range it was asked for.
type recordingSource struct {
	mu   sync.Mutex
	last int
}

func (s *recordingSource) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = n
	return 0
}

func (s *recordingSource) Last() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

func newTestResource(t *testing.T, src prime.Source) (*PrimeResource, *workpool.Pool) {
	t.Helper()
	pool := workpool.New(workpool.Config{MaxWorkers: 2})
	t.Cleanup(func() { _ = pool.Shutdown(context.Background()) })

	pipeline := prime.NewPipeline(src, prime.NewLoadGenerator(prime.LoadConfig{Count: 10}))
	return NewPrimeResource(dispatch.NewDispatcher(pipeline, pool, nil), nil), pool
}

func newTestMux(res *PrimeResource) *http.ServeMux {
	mux := http.NewServeMux()
	mw := observe.NewMiddleware(observe.NewTracer(tracenoop.NewTracerProvider().Tracer("test")), observe.NopMetrics(), observe.NopLogger())
	res.Register(mux, mw)
	return mux
}

// TestPrimeResource_AllRoutesAgree verifies every strategy returns the same primes.
func TestPrimeResource_AllRoutesAgree(t *testing.T) {
	res, _ := newTestResource(t, &recordingSource{})
	mux := newTestMux(res)

	var first []int
	for _, route := range Routes {
		t.Run(route.Strategy.String(), func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, route.Path+"?upto=10", nil))

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, body = %q", rec.Code, rec.Body.String())
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q", ct)
			}

			var body prime.Response
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}
			if len(body.Primes) != 1229 || body.Primes[len(body.Primes)-1] != 9973 {
				t.Fatalf("got %d primes, want the 1229 primes up to 10000", len(body.Primes))
			}
			if body.Timestamp == 0 {
				t.Error("missing timestamp")
			}

			if first == nil {
				first = body.Primes
			} else if diff := cmp.Diff(first, body.Primes); diff != "" {
				t.Errorf("primes differ from first route (-first +got):\n%s", diff)
			}
		})
	}
}

// TestPrimeResource_MissingUpto verifies the bound falls back to MaxNumber.
func TestPrimeResource_MissingUpto(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"missing", "", prime.MaxNumber - prime.MinNumber + 1},
		{"malformed", "?upto=lots", prime.MaxNumber - prime.MinNumber + 1},
		{"below range", "?upto=3", 1},
		{"in range", "?upto=20000", 20000 - prime.MinNumber + 1},
		{"above range", "?upto=5000000", prime.MaxNumber - prime.MinNumber + 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			src := &recordingSource{}
			res, _ := newTestResource(t, src)
			mux := newTestMux(res)

			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, BasePath+tc.query, nil))

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d", rec.Code)
			}
			if got := src.Last(); got != tc.want {
				t.Errorf("drew from range %d, want %d", got, tc.want)
			}
		})
	}
}

// TestPrimeResource_PoolClosed verifies dispatch failures become 500 text/plain.
func TestPrimeResource_PoolClosed(t *testing.T) {
	res, pool := newTestResource(t, &recordingSource{})
	mux := newTestMux(res)
	_ = pool.Shutdown(t.Context())

	for _, path := range []string{"/executor", "/async", "/asyncFuture"} {
		t.Run(path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, BasePath+path+"?upto=10", nil))

			if rec.Code != http.StatusInternalServerError {
				t.Fatalf("status = %d, want 500", rec.Code)
			}
			if !strings.HasPrefix(rec.Header().Get("Content-Type"), "text/plain") {
				t.Errorf("Content-Type = %q", rec.Header().Get("Content-Type"))
			}
			if !strings.Contains(rec.Body.String(), workpool.ErrPoolClosed.Error()) {
				t.Errorf("body = %q, want pool closed message", rec.Body.String())
			}
		})
	}
}

func TestPrimeResource_MethodNotAllowed(t *testing.T) {
	res, _ := newTestResource(t, &recordingSource{})
	mux := newTestMux(res)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, BasePath, nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestPrimeResource_Probe(t *testing.T) {
	res, _ := newTestResource(t, &recordingSource{})

	status, err := res.Probe()(t.Context())
	if err != nil || status != http.StatusOK {
		t.Errorf("Probe() = %d, %v; want 200, nil", status, err)
	}
}

func TestParseUpto(t *testing.T) {
	tests := []struct {
		raw  string
		want prime.Upto
	}{
		{"", prime.NoUpto},
		{"abc", prime.NoUpto},
		{"1.5", prime.NoUpto},
		{"42", prime.UptoOf(42)},
		{"-7", prime.UptoOf(-7)},
	}
	for _, tc := range tests {
		if got := ParseUpto(tc.raw); got != tc.want {
			t.Errorf("ParseUpto(%q) = %+v, want %+v", tc.raw, got, tc.want)
		}
	}
}

func TestRoute_Meta(t *testing.T) {
	meta := Routes[1].Meta()
	want := observe.EndpointMeta{Name: "prime.executor", Method: http.MethodGet, Route: "/v1/prime/executor"}
	if meta != want {
		t.Errorf("Meta() = %+v, want %+v", meta, want)
	}
}
