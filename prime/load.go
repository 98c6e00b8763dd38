package prime

import "slices"

const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// LoadConfig configures the load generator.
type LoadConfig struct {
	// Count is the number of strings generated per call.
	// Default: 1000
	Count int

	// Length is the length of each string.
	// Default: 25
	Length int

	// Source supplies randomness for letters and shuffling.
	// Default: NewSource()
	Source Source
}

// LoadGenerator adds allocation and comparison-sort pressure to a request.
// Its output never influences the computed primes.
type LoadGenerator struct {
	config LoadConfig
}

// NewLoadGenerator creates a load generator.
func NewLoadGenerator(config LoadConfig) *LoadGenerator {
	if config.Count <= 0 {
		config.Count = 1000
	}
	if config.Length <= 0 {
		config.Length = 25
	}
	if config.Source == nil {
		config.Source = NewSource()
	}
	return &LoadGenerator{config: config}
}

// Generate builds Count random alphabetic strings, sorts them, shuffles them
// and sorts them again. The final, sorted slice is returned for tests; the
// pipeline discards it.
func (g *LoadGenerator) Generate() []string {
	src := g.config.Source

	strs := make([]string, g.config.Count)
	buf := make([]byte, g.config.Length)
	for i := range strs {
		for j := range buf {
			buf[j] = letters[src.IntN(len(letters))]
		}
		strs[i] = string(buf)
	}

	slices.Sort(strs)
	shuffle(src, strs)
	slices.Sort(strs)
	return strs
}

// shuffle is a Fisher-Yates shuffle driven by src.
func shuffle(src Source, s []string) {
	for i := len(s) - 1; i > 0; i-- {
		j := src.IntN(i + 1)
		s[i], s[j] = s[j], s[i]
	}
}
