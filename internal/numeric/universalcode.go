package numeric

import (
	"math"
	"sync"
)

// log*2(n) (Rissanen's "log star") is Sum_{j>=1} max(log2^(j)(n), 0): the
// sum of the positive values of the iterated log2 compositions of n.
// The c0Rissanen constant below is the exact value at e(3)=65536 rather
// than Rissanen's originally published 2.865064 figure.
const c0Rissanen = 2.86511

// universalTableMaxN bounds the tabulated log*2/C0(nMax) range; beyond it,
// BoundedNaturalNumbersUniversalCodeLength falls back to the closed-form
// tail approximation split at e(3)=65536.
const universalTableMaxN = 2000

const e3 = 65536

var (
	universalTablesOnce sync.Once
	log2StarTable       []float64 // log2StarTable[i] = log*2(i+1)
	c0MaxTable          []float64 // c0MaxTable[i] = C0(i+1)
)

func buildUniversalTables() {
	log2StarTable = make([]float64, universalTableMaxN)
	c0MaxTable = make([]float64, universalTableMaxN)
	c0MaxTable[0] = 1.0
	for i := 1; i < universalTableMaxN; i++ {
		log2StarTable[i] = log2StarOf(float64(i + 1))
		c0MaxTable[i] = c0MaxTable[i-1] + math.Pow(2.0, -log2StarTable[i])
	}
}

// log2StarOf computes log*2(n) directly by repeated log2 composition,
// stopping once the composed value drops to zero or below.
func log2StarOf(n float64) float64 {
	cost := 0.0
	logI := math.Log2(n)
	for logI > 0 {
		cost += logI
		logI = math.Log2(logI)
	}
	return cost
}

// Log2Star returns Rissanen's log*2(n) = Sum_{j>=1} max(log2^(j)(n), 0),
// zero for n=1, tabulated for n <= universalTableMaxN.
func Log2Star(n int) float64 {
	if n <= 0 {
		panic("numeric: Log2Star requires n > 0")
	}
	universalTablesOnce.Do(buildUniversalTables)
	if n <= len(log2StarTable) {
		return log2StarTable[n-1]
	}
	return log2StarOf(float64(n))
}

// NaturalNumbersUniversalCodeLength returns Rissanen's universal code length
// for the natural number n, in nats: ln(2) * (log2(C0) + log*2(n)).
func NaturalNumbersUniversalCodeLength(n int) float64 {
	if n < 1 {
		panic("numeric: NaturalNumbersUniversalCodeLength requires n >= 1")
	}
	ln2 := math.Log(2.0)
	cost := math.Log(c0Rissanen) / ln2
	cost += Log2Star(n)
	return cost * ln2
}

// C0Bounded returns C0(nMax) = Sum_{k=1}^{nMax} 2^(-log*2(k)), tabulated for
// nMax <= universalTableMaxN and otherwise completed by integrating the tail,
// split at e(3)=65536: below e(3) the tail is a single-composition
// correction, at or above it a second composition is folded in.
func C0Bounded(nMax int) float64 {
	if nMax < 1 {
		panic("numeric: C0Bounded requires nMax >= 1")
	}
	universalTablesOnce.Do(buildUniversalTables)
	if nMax <= len(c0MaxTable) {
		return c0MaxTable[nMax-1]
	}

	ln2 := math.Log(2.0)
	tableMax := len(c0MaxTable)
	c0 := c0MaxTable[tableMax-1]

	quad := func(x float64) float64 {
		return math.Log(math.Log(math.Log(math.Log(x)/ln2)/ln2)/ln2) / ln2
	}
	quint := func(x float64) float64 {
		return math.Log(math.Log(math.Log(math.Log(math.Log(x)/ln2)/ln2)/ln2)/ln2) / ln2
	}

	if tableMax < e3 {
		if nMax < e3 {
			c0 += math.Pow(ln2, 4) * (quad(float64(nMax)) - quad(float64(tableMax)))
		} else {
			c0 += math.Pow(ln2, 4)*(1-quad(float64(tableMax))) +
				math.Pow(ln2, 5)*quint(float64(nMax))
		}
	} else {
		c0 += math.Pow(ln2, 5) * (quint(float64(nMax)) - quint(float64(tableMax)))
	}
	return c0
}

// BoundedNaturalNumbersUniversalCodeLength is NaturalNumbersUniversalCodeLength
// with C0 replaced by C0(nMax), for a universal prior truncated to [1, nMax].
func BoundedNaturalNumbersUniversalCodeLength(n, nMax int) float64 {
	if n < 1 {
		panic("numeric: BoundedNaturalNumbersUniversalCodeLength requires n >= 1")
	}
	ln2 := math.Log(2.0)
	cost := math.Log(C0Bounded(nMax)) / ln2
	cost += Log2Star(n)
	return cost * ln2
}

// BaselProbAt returns the natural-number Basel-law baseline
// ComputeBaselProbAt(k) = 6/(pi^2*(k+1)^2), the reference distribution
// used to validate allocator behavior against a known closed-form prior.
func BaselProbAt(k int) float64 {
	if k < 0 {
		panic("numeric: BaselProbAt requires k >= 0")
	}
	return 6.0 / (math.Pi * math.Pi * float64(k+1) * float64(k+1))
}
