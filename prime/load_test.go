package prime

import (
	"slices"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestNewLoadGenerator_Defaults(t *testing.T) {
	g := NewLoadGenerator(LoadConfig{})

	if g.config.Count != 1000 {
		t.Errorf("Count = %d, want 1000", g.config.Count)
	}
	if g.config.Length != 25 {
		t.Errorf("Length = %d, want 25", g.config.Length)
	}
	if g.config.Source == nil {
		t.Error("Source should default to NewSource()")
	}
}

func TestLoadGenerator_Generate(t *testing.T) {
	g := NewLoadGenerator(LoadConfig{Source: NewSeededSource(7)})

	strs := g.Generate()

	if len(strs) != 1000 {
		t.Fatalf("len = %d, want 1000", len(strs))
	}
	if !slices.IsSorted(strs) {
		t.Error("result should be sorted ascending")
	}
	for _, s := range strs {
		if len(s) != 25 {
			t.Fatalf("len(%q) = %d, want 25", s, len(s))
		}
		for _, r := range s {
			if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z') {
				t.Fatalf("%q contains non-alphabetic rune %q", s, r)
			}
		}
	}
}

func TestLoadGenerator_DoesNotAffectPrimes(t *testing.T) {
	at := time.UnixMilli(1700000000000)
	base := NewPipeline(fixedSource{v: 123}, NewLoadGenerator(LoadConfig{Count: 1}), WithClock(func() time.Time { return at }))
	want := base.Compute(UptoOf(20000))

	for seed := uint64(0); seed < 3; seed++ {
		load := NewLoadGenerator(LoadConfig{Source: NewSeededSource(seed)})
		p := NewPipeline(fixedSource{v: 123}, load, WithClock(func() time.Time { return at }))
		for i := 0; i < 2; i++ {
			if diff := cmp.Diff(want, p.Compute(UptoOf(20000))); diff != "" {
				t.Fatalf("seed %d run %d mismatch (-want +got):\n%s", seed, i, diff)
			}
		}
	}
}
