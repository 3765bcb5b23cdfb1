package allocator

import (
	"gonum.org/v1/gonum/floats"
)

// dblEpsilon mirrors C's DBL_EPSILON (the smallest representable gap at 1.0),
// used by the "very large frequency" predicate below.
const dblEpsilon = 2.220446049250313e-16

// IsVeryLargeFrequency reports the "very large frequency" predicate:
// N*DBL_EPSILON > 0.5, beyond which unit-level corrections are numerically
// meaningless and the allocator falls back to rounded real arithmetic.
func IsVeryLargeFrequency(n float64) bool {
	return n*dblEpsilon > 0.5
}

// CheckProbVector reports whether p is a complete probability vector:
// every entry in [0,1] and the sum within 1e-5 of exactly 1.
func CheckProbVector(p []float64) bool {
	return internalCheckProbVector(p, true)
}

// CheckPartialProbVector reports whether p is a valid partial probability
// vector: every entry in [0,1] and the sum at most 1+1e-5.
func CheckPartialProbVector(p []float64) bool {
	return internalCheckProbVector(p, false)
}

func internalCheckProbVector(p []float64, complete bool) bool {
	if len(p) == 0 {
		return false
	}
	ok := true
	for _, v := range p {
		if v < 0 || v > 1 {
			ok = false
		}
	}
	total := floats.Sum(p)
	if total > 1+1e-5 {
		ok = false
	}
	if complete && !floats.EqualWithinAbs(total, 1, 1e-5) {
		ok = false
	}
	return ok
}

// CheckFrequencyVector validates a frequency vector against a total N.
//
// This preserves a known ambiguity: the result flag is written twice —
// once while
// scanning for a negative entry, and again, unconditionally, from the
// total-mismatch comparison. The scan stops at the first negative entry,
// so the total compared with N is the sum of the entries before it. The
// second write always wins, so a vector that contains a negative entry is
// reported valid whenever the entries before its first negative one
// already sum to N within tolerance. That is almost certainly not the
// intended semantics, but it is the observable behavior callers have
// always seen, so it is preserved here rather than "fixed" out from under
// them; do not rely on a negative entry being rejected when the total
// still balances.
func CheckFrequencyVector(n float64, f []float64) bool {
	ok := true
	total := 0.0
	for _, v := range f {
		if v < 0 {
			ok = false
			break
		}
		total += v
	}
	// Unconditional re-assignment — see doc comment above.
	if IsVeryLargeFrequency(n) {
		ok = floats.EqualWithinAbs(total, n, n*1e-5)
	} else {
		ok = floats.EqualWithinAbs(total, n, 1e-5)
	}
	return ok
}

// CheckFrequencies validates f against both the shape of p (equal length)
// and the frequency-vector invariants above.
func CheckFrequencies(n float64, p []float64, f []float64) bool {
	if len(p) != len(f) {
		return false
	}
	return CheckFrequencyVector(n, f)
}
