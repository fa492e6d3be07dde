package graph

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/ScottSallinen/lollipop-powergraph/utils"
)

var ErrMalformedLine = errors.New("malformed line")

func parseRaw(field string) (RawType, error) {
	v, err := strconv.ParseInt(field, 10, 64)
	if err != nil {
		return 0, err
	}
	return RawType(v), nil
}

// Parses an edge line: "src dst" or "src dst weight".
func ParseEdgeLine(line string) (edge RawEdge, weighted bool, err error) {
	fields := strings.Fields(line)
	if len(fields) != 2 && len(fields) != 3 {
		return edge, false, fmt.Errorf("%w: expected 2 or 3 fields, got %d", ErrMalformedLine, len(fields))
	}
	if edge.SrcRaw, err = parseRaw(fields[0]); err != nil {
		return edge, false, fmt.Errorf("%w: source: %v", ErrMalformedLine, err)
	}
	if edge.DstRaw, err = parseRaw(fields[1]); err != nil {
		return edge, false, fmt.Errorf("%w: destination: %v", ErrMalformedLine, err)
	}
	edge.Weight = DEFAULT_WEIGHT
	if len(fields) == 3 {
		if edge.Weight, err = strconv.ParseFloat(fields[2], 64); err != nil {
			return edge, false, fmt.Errorf("%w: weight: %v", ErrMalformedLine, err)
		}
		weighted = true
	}
	return edge, weighted, nil
}

// Loads a graph from a Graphalytics vertex file and edge file. The vertex file may be empty
// (""), in which case vertices are taken from the edges only.
func LoadGraph(verticesPath string, edgesPath string, directed bool) (*Graph, error) {
	g := NewGraph(directed, false)
	watch := utils.Watch{}
	watch.Start()

	if verticesPath != "" {
		err := utils.ForEachFileLine(verticesPath, func(lineNo int, line string) error {
			fields := strings.Fields(line)
			raw, err := parseRaw(fields[0])
			if err != nil {
				return fmt.Errorf("line %d: %w: vertex: %v", lineNo, ErrMalformedLine, err)
			}
			g.AddVertex(raw)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	err := utils.ForEachFileLine(edgesPath, func(lineNo int, line string) error {
		edge, weighted, err := ParseEdgeLine(line)
		if err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
		g.Weighted = g.Weighted || weighted
		g.AddEdge(edge.SrcRaw, edge.DstRaw, edge.Weight)
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Debug().Msg("Read " + utils.V(g.NumVertices()) + " vertices and " + utils.V(g.NumEdges()) + " edges in (ms) " + utils.V(watch.Elapsed().Milliseconds()))
	return g, nil
}

// Writes the vertex file (one id per line, ascending) and the edge file (edge list order).
func WriteGraph(g *Graph, verticesPath string, edgesPath string) error {
	err := utils.WriteFileLines(verticesPath, func(w *bufio.Writer) error {
		for _, raw := range g.SortedRawIds() {
			if _, err := w.WriteString(raw.String() + "\n"); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	return utils.WriteFileLines(edgesPath, func(w *bufio.Writer) error {
		for _, e := range g.Edges {
			line := e.SrcRaw.String() + " " + e.DstRaw.String()
			if g.Weighted {
				line += " " + strconv.FormatFloat(e.Weight, 'g', -1, 64)
			}
			if _, err := w.WriteString(line + "\n"); err != nil {
				return err
			}
		}
		return nil
	})
}

// The vertex and edge files of a graph written to a private temporary directory.
type Files struct {
	Dir      string
	Vertices string
	Edges    string
}

// Writes the graph into a fresh temporary directory under dir ("" for the system default).
// The caller owns the directory and must call Remove.
func WriteTemp(dir string, pattern string, g *Graph) (*Files, error) {
	tmp, err := os.MkdirTemp(dir, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	files := &Files{
		Dir:      tmp,
		Vertices: filepath.Join(tmp, "graph.v"),
		Edges:    filepath.Join(tmp, "graph.e"),
	}
	if err := WriteGraph(g, files.Vertices, files.Edges); err != nil {
		files.Remove()
		return nil, err
	}
	return files, nil
}

// Path for an additional file (e.g. engine output) inside the same directory.
func (f *Files) Path(name string) string {
	return filepath.Join(f.Dir, name)
}

func (f *Files) Remove() error {
	if f == nil || f.Dir == "" {
		return nil
	}
	if err := os.RemoveAll(f.Dir); err != nil {
		return fmt.Errorf("failed to remove temp dir %s: %w", f.Dir, err)
	}
	return nil
}
