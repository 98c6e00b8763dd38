package health

import (
	"encoding/json"
	"net/http"
	"time"
)

// CheckResponse is the JSON body for one check on the healthcheck endpoint.
type CheckResponse struct {
	Healthy   bool   `json:"healthy"`
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
	Duration  int64  `json:"duration"`
	Timestamp string `json:"timestamp"`
}

// PingHandler answers "pong" to show the process is alive.
func PingHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		noCache(w)
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("pong\n"))
	}
}

// HealthcheckHandler runs every registered check and reports each one by
// name. It answers 200 when all are healthy, 500 otherwise, and 501 when
// nothing is registered.
func HealthcheckHandler(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		noCache(w)

		results := reg.RunAll(r.Context())
		if len(results) == 0 {
			http.Error(w, "No health checks registered.", http.StatusNotImplemented)
			return
		}

		body := make(map[string]CheckResponse, len(results))
		for name, result := range results {
			check := CheckResponse{
				Healthy:   result.Healthy(),
				Message:   result.Message,
				Duration:  result.Duration.Milliseconds(),
				Timestamp: result.Timestamp.UTC().Format(time.RFC3339Nano),
			}
			if result.Error != nil {
				check.Error = result.Error.Error()
			}
			body[name] = check
		}

		w.Header().Set("Content-Type", "application/json")
		if AllHealthy(results) {
			w.WriteHeader(http.StatusOK)
		} else {
			w.WriteHeader(http.StatusInternalServerError)
		}
		_ = json.NewEncoder(w).Encode(body)
	}
}

func noCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "must-revalidate,no-cache,no-store")
}
