package utils

import (
	"math"
	"sort"

	"golang.org/x/exp/constraints"
)

// An imprecise float approximate comparison. "optional" variance with ... args strategy
func FloatEquals(a float64, b float64, inputVariance ...float64) bool {
	variance := 0.001
	if len(inputVariance) >= 1 {
		variance = inputVariance[0]
	}
	if math.IsInf(a, 0) || math.IsInf(b, 0) {
		return a == b
	}
	return math.Abs(a-b) < variance
}

func Max[T constraints.Ordered](x, y T) T {
	if x < y {
		return y
	}
	return x
}

func Min[T constraints.Ordered](x, y T) T {
	if y < x {
		return y
	}
	return x
}

// Compares two arrays: showcases average and L1 differences.
// Infinite entries on both sides at the same position count as equal; an infinite entry on one side only counts as MaxFloat64.
// Returns: Average L1 diff, 50th percentile L1 diff, 95th percentile L1 diff
func ResultCompare[T constraints.Float | constraints.Integer](a []T, b []T) (avgL1Diff float64, medianL1Diff float64, percentile95L1 float64) {
	if len(a) == 0 {
		return
	}
	listL1Diff := make([]float64, len(a))

	for i := range a {
		l1delta := 0.0
		fa, fb := float64(a[i]), float64(b[i])
		if fa != fb {
			l1delta = math.Abs(fb - fa)
			if math.IsInf(l1delta, 0) || math.IsNaN(l1delta) {
				l1delta = math.MaxFloat64
			}
		}
		listL1Diff[i] = l1delta
		avgL1Diff += l1delta / float64(len(a))
	}

	sort.Float64s(listL1Diff)

	medianIdx := len(listL1Diff) / 2
	medianL1Diff = listL1Diff[medianIdx]
	if len(listL1Diff)%2 == 0 {
		medianL1Diff = (listL1Diff[medianIdx-1] + listL1Diff[medianIdx]) / 2
	}
	percentile95L1 = listL1Diff[int(float64(len(listL1Diff)-1)*0.95)]

	return avgL1Diff, medianL1Diff, percentile95L1
}
