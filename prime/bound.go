package prime

const (
	// MinNumber is the smallest sieve ceiling a request can produce.
	MinNumber = 10000

	// MaxNumber is the largest sieve ceiling and the default bound when upto
	// is absent.
	MaxNumber = 1000000
)

// Upto is the optional upper bound requested by a caller.
type Upto struct {
	Value int
	Set   bool
}

// NoUpto is an absent bound.
var NoUpto = Upto{}

// UptoOf returns a present bound of n.
func UptoOf(n int) Upto {
	return Upto{Value: n, Set: true}
}

// OrElse returns the bound if present, otherwise def.
func (u Upto) OrElse(def int) int {
	if u.Set {
		return u.Value
	}
	return def
}

// MaxNumberFor clamps the requested bound to [MinNumber, MaxNumber].
// An absent bound is treated as MaxNumber.
func MaxNumberFor(u Upto) int {
	return clamp(u.OrElse(MaxNumber), MinNumber, MaxNumber)
}

// Ceiling draws the sieve ceiling uniformly from [MinNumber, maxNumber].
// maxNumber must already be clamped.
func Ceiling(src Source, maxNumber int) int {
	return src.IntN(maxNumber-MinNumber+1) + MinNumber
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
