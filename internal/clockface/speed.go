package clockface

import "math"

// DefaultMultipliers is the enumerated second-hand speed set. The set is
// configuration: hosts may override it, but every multiplier passed to the
// engine must be a member of the active set.
var DefaultMultipliers = []float64{0.5, 0.6667, 1, 1.5, 2, 3, 4}

// multiplierEpsilon absorbs float comparison noise between values that were
// parsed from config and values selected at runtime.
const multiplierEpsilon = 1e-6

// ValidMultiplier reports whether m is a member of the given set.
func ValidMultiplier(set []float64, m float64) bool {
	for _, v := range set {
		if math.Abs(v-m) < multiplierEpsilon {
			return true
		}
	}
	return false
}

// NextMultiplier returns the member following current in the set, wrapping
// around. If current is not a member, the first member is returned.
func NextMultiplier(set []float64, current float64) float64 {
	if len(set) == 0 {
		return current
	}
	for i, v := range set {
		if math.Abs(v-current) < multiplierEpsilon {
			return set[(i+1)%len(set)]
		}
	}
	return set[0]
}
