// Package algorithm holds the closed set of benchmark algorithms and their parameters,
// and translates a parameter set into the tokens the PowerGraph driver expects.
package algorithm

import (
	"fmt"
	"strconv"
	"strings"
)

// Name of an algorithm as understood by the engine driver.
type Name string

const (
	BFS  Name = "bfs"
	CDLP Name = "cdlp"
	LCC  Name = "lcc"
	PR   Name = "pr"
	SSSP Name = "sssp"
	WCC  Name = "wcc"
)

var Names = []Name{BFS, CDLP, LCC, PR, SSSP, WCC}

// Accepts the driver token, and a few of the long names used by Graphalytics property files.
func ParseName(s string) (Name, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bfs", "breadth-first-search":
		return BFS, nil
	case "cdlp", "cd", "community-detection":
		return CDLP, nil
	case "lcc", "local-clustering-coefficient", "stats":
		return LCC, nil
	case "pr", "pagerank":
		return PR, nil
	case "sssp", "single-source-shortest-paths":
		return SSSP, nil
	case "wcc", "conn", "connected-components":
		return WCC, nil
	}
	return "", fmt.Errorf("unknown algorithm %q", s)
}

// Params is implemented only by the parameter types of this package.
type Params interface {
	Algorithm() Name
	isParams()
}

type SingleSourceShortestPaths struct {
	SourceVertex int64
}

type BreadthFirstSearch struct {
	SourceVertex int64
}

type ConnectedComponents struct{}

type LocalClusteringCoefficient struct{}

type PageRank struct {
	DampingFactor float64
	Iterations    int
}

type CommunityDetection struct {
	MaxIterations int
}

func (SingleSourceShortestPaths) Algorithm() Name  { return SSSP }
func (BreadthFirstSearch) Algorithm() Name         { return BFS }
func (ConnectedComponents) Algorithm() Name        { return WCC }
func (LocalClusteringCoefficient) Algorithm() Name { return LCC }
func (PageRank) Algorithm() Name                   { return PR }
func (CommunityDetection) Algorithm() Name         { return CDLP }

func (SingleSourceShortestPaths) isParams()  {}
func (BreadthFirstSearch) isParams()         {}
func (ConnectedComponents) isParams()        {}
func (LocalClusteringCoefficient) isParams() {}
func (PageRank) isParams()                   {}
func (CommunityDetection) isParams()         {}

const (
	DEFAULT_DAMPING_FACTOR = 0.85
	DEFAULT_ITERATIONS     = 10
)

// Arguments returns the algorithm-specific tokens: the algorithm name first, then flag/value pairs.
// Values are not validated; the engine decides what a valid source vertex is.
func Arguments(p Params) []string {
	return AppendArguments(nil, p)
}

// AppendArguments appends the tokens of Arguments to args.
func AppendArguments(args []string, p Params) []string {
	switch p := p.(type) {
	case SingleSourceShortestPaths:
		return append(args, string(SSSP), "--source-vertex", strconv.FormatInt(p.SourceVertex, 10))
	case BreadthFirstSearch:
		return append(args, string(BFS), "--source-vertex", strconv.FormatInt(p.SourceVertex, 10))
	case ConnectedComponents:
		return append(args, string(WCC))
	case LocalClusteringCoefficient:
		return append(args, string(LCC))
	case PageRank:
		return append(args, string(PR),
			"--damping-factor", strconv.FormatFloat(p.DampingFactor, 'g', -1, 64),
			"--max-iterations", strconv.Itoa(p.Iterations))
	case CommunityDetection:
		return append(args, string(CDLP), "--max-iterations", strconv.Itoa(p.MaxIterations))
	}
	panic(fmt.Sprintf("algorithm: unhandled parameter type %T", p))
}

// Settings are the optional algorithm knobs of a configured job. Unset fields fall back to defaults.
type Settings struct {
	SourceVertex  *int64
	DampingFactor *float64
	Iterations    *int
}

// FromSettings builds the parameter variant for the named algorithm.
func FromSettings(name Name, s Settings) (Params, error) {
	switch name {
	case SSSP, BFS:
		if s.SourceVertex == nil {
			return nil, fmt.Errorf("%s requires a source vertex", name)
		}
		if name == SSSP {
			return SingleSourceShortestPaths{SourceVertex: *s.SourceVertex}, nil
		}
		return BreadthFirstSearch{SourceVertex: *s.SourceVertex}, nil
	case WCC:
		return ConnectedComponents{}, nil
	case LCC:
		return LocalClusteringCoefficient{}, nil
	case PR:
		p := PageRank{DampingFactor: DEFAULT_DAMPING_FACTOR, Iterations: DEFAULT_ITERATIONS}
		if s.DampingFactor != nil {
			p.DampingFactor = *s.DampingFactor
		}
		if s.Iterations != nil {
			p.Iterations = *s.Iterations
		}
		return p, nil
	case CDLP:
		p := CommunityDetection{MaxIterations: DEFAULT_ITERATIONS}
		if s.Iterations != nil {
			p.MaxIterations = *s.Iterations
		}
		return p, nil
	}
	return nil, fmt.Errorf("unknown algorithm %q", name)
}
