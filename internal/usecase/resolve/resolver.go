// Package resolve implements fuzzy matching of user-entered property names
// against the authoritative asset names observed in recent transactions.
package resolve

import (
	"estate-watch/internal/observability/metrics"
)

// Result is the outcome of one resolution attempt.
type Result struct {
	// Name is the resolved name: a pool name on success, the candidate
	// unchanged otherwise.
	Name string
	// Score is the similarity of the returned name to the candidate.
	Score float64
	// Resolved is true when a pool name was substituted for the candidate.
	// Callers surface the substitution to the user; it is informational,
	// never blocking.
	Resolved bool
}

// Resolver matches free-text property names against a candidate pool.
type Resolver struct {
	threshold float64
}

// New creates a resolver with the given acceptance threshold.
// Deployments have historically run thresholds of 0.2 and 0.3.
func New(threshold float64) *Resolver {
	return &Resolver{threshold: threshold}
}

// Resolve returns the top-ranked pool name whose similarity to candidate
// exceeds the acceptance threshold, else the candidate unchanged. Ties are
// broken by first occurrence in the pool. This operation never fails; no
// acceptable match is the identity fallback, not an error.
func (r *Resolver) Resolve(candidate string, pool []string) Result {
	bestScore := -1.0
	bestName := ""
	for _, name := range pool {
		// Strict greater-than keeps the first occurrence on ties.
		if s := Similarity(candidate, name); s > bestScore {
			bestScore = s
			bestName = name
		}
	}

	if bestName != "" && bestScore > r.threshold {
		resolved := bestName != candidate
		metrics.RecordFuzzyResolution(resolved)
		return Result{Name: bestName, Score: bestScore, Resolved: resolved}
	}

	metrics.RecordFuzzyResolution(false)
	return Result{Name: candidate, Score: 0}
}

// Similarity returns the normalized longest-common-subsequence ratio between
// a and b: 2*LCS(a,b) / (len(a)+len(b)), computed over runes so multi-byte
// names score the same as ASCII ones. Two empty strings score 0.
func Similarity(a, b string) float64 {
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}
	lcs := lcsLength(ra, rb)
	return 2 * float64(lcs) / float64(len(ra)+len(rb))
}

// lcsLength computes the longest common subsequence length with a two-row
// dynamic program.
func lcsLength(a, b []rune) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
