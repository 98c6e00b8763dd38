package resilience

import (
	"net/http"
)

// Throttle admits a request to next only while b has a free slot. A request
// that cannot get one within the bulkhead's MaxWait is answered with 503.
// Requests whose client goes away while queued get no response.
func Throttle(b *Bulkhead, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := b.Acquire(r.Context()); err != nil {
			if r.Context().Err() != nil {
				return
			}
			http.Error(w, "Service Unavailable: too many concurrent requests", http.StatusServiceUnavailable)
			return
		}
		defer b.Release()

		next.ServeHTTP(w, r)
	})
}
