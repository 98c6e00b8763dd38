package prime

import (
	"encoding/json"
	"testing"
	"time"
)

func TestPipeline_Compute(t *testing.T) {
	at := time.UnixMilli(1700000000123)
	p := NewPipeline(fixedSource{v: 0}, NewLoadGenerator(LoadConfig{Count: 10}), WithClock(func() time.Time { return at }))

	resp := p.Compute(UptoOf(10))

	// upto=10 clamps to MinNumber, and a zero draw keeps the ceiling there.
	if len(resp.Primes) != 1229 {
		t.Errorf("len(Primes) = %d, want 1229", len(resp.Primes))
	}
	if last := resp.Primes[len(resp.Primes)-1]; last != 9973 {
		t.Errorf("last prime = %d, want 9973", last)
	}
	if resp.Timestamp != 1700000000123 {
		t.Errorf("Timestamp = %d, want 1700000000123", resp.Timestamp)
	}
}

func TestPipeline_MissingUptoUsesMaxNumber(t *testing.T) {
	var seen int
	src := recordingSource{fn: func(n int) { seen = n }}
	p := NewPipeline(src, NewLoadGenerator(LoadConfig{Count: 1, Source: fixedSource{}}))

	p.Compute(NoUpto)

	if want := MaxNumber - MinNumber + 1; seen != want {
		t.Errorf("IntN called with %d, want %d", seen, want)
	}
}

func TestPipeline_Defaults(t *testing.T) {
	p := NewPipeline(nil, nil)
	if p.source == nil || p.load == nil || p.now == nil {
		t.Fatal("NewPipeline(nil, nil) should apply defaults")
	}
}

func TestResponse_JSON(t *testing.T) {
	data, err := json.Marshal(NewResponseAt([]int{2, 3, 5}, time.UnixMilli(42)))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if got, want := string(data), `{"primes":[2,3,5],"timestamp":42}`; got != want {
		t.Errorf("json = %s, want %s", got, want)
	}

	data, err = json.Marshal(&Response{Timestamp: 42})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if got, want := string(data), `{"timestamp":42}`; got != want {
		t.Errorf("json = %s, want %s", got, want)
	}
}

func TestNewResponse_Timestamp(t *testing.T) {
	before := time.Now().UnixMilli()
	resp := NewResponse([]int{2})
	after := time.Now().UnixMilli()

	if resp.Timestamp < before || resp.Timestamp > after {
		t.Errorf("Timestamp = %d, want within [%d, %d]", resp.Timestamp, before, after)
	}
}

// recordingSource reports the bound passed to IntN and returns 0.
type recordingSource struct{ fn func(n int) }

func (s recordingSource) IntN(n int) int {
	s.fn(n)
	return 0
}
