package mathutil

import "math"

// LogZero is log(0) in the forward recursion.
var LogZero = math.Inf(-1)

// Sentinel is the value SafeLog assigns to log(0). Viterbi scores use it to
// mark unreachable cells.
const Sentinel = 0.0

// SafeLog returns log(x), except that log(0) is reported as Sentinel instead
// of -Inf. Every log(0)=0 decision in the module goes through here.
func SafeLog(x float64) float64 {
	if x == 0 {
		return Sentinel
	}
	return math.Log(x)
}

// IsSentinel reports whether v carries the SafeLog marker for log(0).
func IsSentinel(v float64) bool {
	return v == Sentinel
}

// LogAdd returns log(exp(a) + exp(b)) as b + log(1 + exp(a-b)), with the
// arguments ordered so that a <= b and the exponent never overflows.
// LogZero is the identity element.
func LogAdd(a, b float64) float64 {
	if a > b {
		a, b = b, a
	}
	if math.IsInf(a, -1) {
		return b
	}
	return b + math.Log1p(math.Exp(a-b))
}

// LogSum folds LogAdd over v from left to right. It returns LogZero for an
// empty slice.
func LogSum(v []float64) float64 {
	if len(v) == 0 {
		return LogZero
	}
	r := v[0]
	for _, x := range v[1:] {
		r = LogAdd(r, x)
	}
	return r
}
