package prime

import "time"

// Response is the payload returned by every prime endpoint.
type Response struct {
	Primes    []int `json:"primes,omitempty"`
	Timestamp int64 `json:"timestamp"`
}

// NewResponse wraps primes with the current time in milliseconds.
func NewResponse(primes []int) *Response {
	return NewResponseAt(primes, time.Now())
}

// NewResponseAt wraps primes with the given time.
func NewResponseAt(primes []int, at time.Time) *Response {
	return &Response{
		Primes:    primes,
		Timestamp: at.UnixMilli(),
	}
}
