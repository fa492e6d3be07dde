// Package output reads the result files written by the engine.
//
// Two layouts are supported. ReadValues is positional: one value per line, where
// the line order is the engine's vertex order. ReadVertexValues is the layout the
// PowerGraph driver actually emits: "<vertex-id> <value>" per line, which makes the
// vertex association explicit instead of relying on the engine's ordering.
package output

import (
	"bufio"
	"errors"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/ScottSallinen/lollipop-powergraph/utils"
)

// Value types an output file can carry: integer results (component ids, BFS depth,
// CDLP labels) or floating point results (distances, clustering coefficients, ranks).
type Value interface {
	int64 | float64
}

var ErrDuplicateVertex = errors.New("duplicate vertex")

// ParseError reports the first line of an output file that could not be read. The read
// that produced it returns no partial result.
type ParseError struct {
	Path string
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: cannot parse %q: %v", e.Path, e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func parseValue[T Value](s string) (T, error) {
	var zero T
	switch any(zero).(type) {
	case int64:
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return zero, err
		}
		return T(v), nil
	default:
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return zero, err
		}
		if math.IsNaN(v) {
			return zero, errors.New("not a number")
		}
		return T(v), nil
	}
}

// ReadValues returns the values of the file in order, one per line. Line N holds the value of
// the N-th vertex, so a blank or unparsable line fails the read; only a trailing blank line is allowed.
func ReadValues[T Value](path string) ([]T, error) {
	file, err := utils.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var values []T
	err = utils.ForEachStrictLine(file, func(lineNo int, line string) error {
		fields := strings.Fields(line)
		if len(fields) != 1 {
			return &ParseError{Path: path, Line: lineNo, Text: line, Err: fmt.Errorf("expected 1 field, got %d", len(fields))}
		}
		v, err := parseValue[T](fields[0])
		if err != nil {
			return &ParseError{Path: path, Line: lineNo, Text: line, Err: err}
		}
		values = append(values, v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return values, nil
}

// Per-vertex result, keyed by the vertex id.
type VertexValues[T Value] map[int64]T

// ReadVertexValues reads "<vertex-id> <value>" lines, with the same strictness as ReadValues.
func ReadVertexValues[T Value](path string) (VertexValues[T], error) {
	file, err := utils.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	values := make(VertexValues[T])
	err = utils.ForEachStrictLine(file, func(lineNo int, line string) error {
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return &ParseError{Path: path, Line: lineNo, Text: line, Err: fmt.Errorf("expected 2 fields, got %d", len(fields))}
		}
		id, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			return &ParseError{Path: path, Line: lineNo, Text: line, Err: err}
		}
		if _, ok := values[id]; ok {
			return &ParseError{Path: path, Line: lineNo, Text: line, Err: ErrDuplicateVertex}
		}
		v, err := parseValue[T](fields[1])
		if err != nil {
			return &ParseError{Path: path, Line: lineNo, Text: line, Err: err}
		}
		values[id] = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return values, nil
}

func (vv VertexValues[T]) SortedIds() []int64 {
	ids := make([]int64, 0, len(vv))
	for id := range vv {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Values in ascending vertex id order.
func (vv VertexValues[T]) Ordered() []T {
	ids := vv.SortedIds()
	ordered := make([]T, len(ids))
	for i, id := range ids {
		ordered[i] = vv[id]
	}
	return ordered
}

// Formats a value the way the engine writes it: integers base-10, floats in shortest form
// with "infinity" for +Inf.
func FormatValue[T Value](v T) string {
	switch x := any(v).(type) {
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		if math.IsInf(x, 1) {
			return "infinity"
		}
		return strconv.FormatFloat(x, 'g', -1, 64)
	}
	return ""
}

// WriteVertexValues writes values in ascending vertex id order.
func WriteVertexValues[T Value](path string, values VertexValues[T]) error {
	return utils.WriteFileLines(path, func(w *bufio.Writer) error {
		for _, id := range values.SortedIds() {
			if _, err := w.WriteString(strconv.FormatInt(id, 10) + " " + FormatValue(values[id]) + "\n"); err != nil {
				return err
			}
		}
		return nil
	})
}

// Ensures the output file exists; the engine only creates it when it has results to write.
func Exists(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("engine output missing: %w", err)
	}
	return nil
}
