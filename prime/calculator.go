package prime

// IsPrime reports whether k has no divisor in [2, floor(sqrt(k))].
// Values below 2 are not prime.
func IsPrime(k int) bool {
	if k < 2 {
		return false
	}
	for i := 2; i*i <= k; i++ {
		if k%i == 0 {
			return false
		}
	}
	return true
}

// PrimesUpTo returns every prime in [2, n] in ascending order.
//
// The cost is O(n*sqrt(n)). It is not a sieve: the harness wants work that
// scales with n, not a fast answer.
func PrimesUpTo(n int) []int {
	primes := make([]int, 0)
	for k := 2; k <= n; k++ {
		if IsPrime(k) {
			primes = append(primes, k)
		}
	}
	return primes
}
