package validation

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/ScottSallinen/lollipop-powergraph/output"
	"github.com/ScottSallinen/lollipop-powergraph/utils"
)

// Default tolerance for floating point results.
const EPSILON = 1e-4

var ErrVertexSetMismatch = errors.New("vertex sets differ")

// MismatchError reports how many vertices disagree with the reference, and the first of them.
type MismatchError struct {
	Mismatches int
	Vertex     int64 // Smallest mismatching vertex id
	Expected   string
	Actual     string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("%d vertices mismatch; first is %d: expected %s, got %s", e.Mismatches, e.Vertex, e.Expected, e.Actual)
}

func sameVertices[T output.Value](expected, actual output.VertexValues[T]) error {
	for id := range expected {
		if _, ok := actual[id]; !ok {
			return fmt.Errorf("%w: vertex %d missing from result", ErrVertexSetMismatch, id)
		}
	}
	for id := range actual {
		if _, ok := expected[id]; !ok {
			return fmt.Errorf("%w: unexpected vertex %d in result", ErrVertexSetMismatch, id)
		}
	}
	return nil
}

func compareWith[T output.Value](expected, actual output.VertexValues[T], equal func(id int64, e, a T) bool) error {
	if err := sameVertices(expected, actual); err != nil {
		return err
	}
	var mismatch *MismatchError
	for _, id := range expected.SortedIds() {
		if equal(id, expected[id], actual[id]) {
			continue
		}
		if mismatch == nil {
			mismatch = &MismatchError{Vertex: id, Expected: output.FormatValue(expected[id]), Actual: output.FormatValue(actual[id])}
		}
		mismatch.Mismatches++
	}
	if mismatch != nil {
		return mismatch
	}
	return nil
}

// Exact comparison (BFS depths).
func CompareExact(expected, actual output.VertexValues[int64]) error {
	return compareWith(expected, actual, func(_ int64, e, a int64) bool { return e == a })
}

// Component or community labels only need to describe the same partition; the label values may differ.
func ComparePartitions(expected, actual output.VertexValues[int64]) error {
	forward := make(map[int64]int64)
	backward := make(map[int64]int64)
	return compareWith(expected, actual, func(_ int64, e, a int64) bool {
		if fa, ok := forward[e]; ok && fa != a {
			return false
		}
		if be, ok := backward[a]; ok && be != e {
			return false
		}
		forward[e] = a
		backward[a] = e
		return true
	})
}

// Approximate comparison within epsilon; infinities must match exactly. Logs the L1 difference summary.
func CompareApprox(expected, actual output.VertexValues[float64], epsilon float64) error {
	if err := sameVertices(expected, actual); err != nil {
		return err
	}
	avg, median, p95 := utils.ResultCompare(expected.Ordered(), actual.Ordered())
	log.Debug().Msg("L1 diff avg " + utils.F("%.3e", avg) + " median " + utils.F("%.3e", median) + " p95 " + utils.F("%.3e", p95))
	return compareWith(expected, actual, func(_ int64, e, a float64) bool { return utils.FloatEquals(e, a, epsilon) })
}
