// Package validation runs small known graphs through the engine and checks the results
// against reference implementations.
package validation

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/ScottSallinen/lollipop-powergraph/algorithm"
	"github.com/ScottSallinen/lollipop-powergraph/graph"
	"github.com/ScottSallinen/lollipop-powergraph/output"
	"github.com/ScottSallinen/lollipop-powergraph/powergraph"
)

// State of a validation case. A case moves through the states in order, and stops in
// Done or Failed.
type State int

const (
	WriteInput State = iota
	RunJob
	ReadOutput
	Done
	Failed
)

func (s State) String() string {
	switch s {
	case WriteInput:
		return "WRITE_INPUT"
	case RunJob:
		return "RUN_JOB"
	case ReadOutput:
		return "READ_OUTPUT"
	case Done:
		return "DONE"
	case Failed:
		return "FAILED"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// CaseError aborts a case. State is the state the case was in when it failed.
type CaseError struct {
	State     State
	Algorithm algorithm.Name
	Err       error
}

func (e *CaseError) Error() string {
	return fmt.Sprintf("%s case failed in %s: %v", e.Algorithm, e.State, e.Err)
}

func (e *CaseError) Unwrap() error {
	return e.Err
}

// Harness runs one case at a time. Every case gets its own temporary directory, removed on
// return unless KeepFiles (or Config.KeepFiles) is set.
type Harness struct {
	Config    powergraph.Config
	Dir       string // Parent of the temporary directories; "" for the system default.
	KeepFiles bool
}

func NewHarness(config powergraph.Config) *Harness {
	return &Harness{Config: config, KeepFiles: config.KeepFiles}
}

const outputFileName = "output.txt"

func runCase[T output.Value](ctx context.Context, h *Harness, g *graph.Graph, params algorithm.Params) (output.VertexValues[T], error) {
	state := WriteInput
	logger := log.With().Str("algorithm", string(params.Algorithm())).Bool("directed", g.Directed).Logger()
	fail := func(err error) error {
		logger.Debug().Err(err).Msg("Case failed in " + state.String())
		return &CaseError{State: state, Algorithm: params.Algorithm(), Err: err}
	}

	files, err := graph.WriteTemp(h.Dir, "lp-powergraph-"+string(params.Algorithm())+"-", g)
	if err != nil {
		return nil, fail(err)
	}
	defer func() {
		if h.KeepFiles || h.Config.KeepFiles {
			logger.Info().Msg("Keeping case files in " + files.Dir)
			return
		}
		if err := files.Remove(); err != nil {
			logger.Warn().Err(err).Msg("Failed to clean up case files")
		}
	}()

	state = RunJob
	job := powergraph.NewJob(h.Config, powergraph.NewDescriptor(files.Vertices, files.Edges, g.Directed, params, ""))
	job.SetOutputFile(files.Path(outputFileName))
	if err := job.Run(ctx); err != nil {
		return nil, fail(err)
	}

	state = ReadOutput
	if err := output.Exists(job.OutputFile()); err != nil {
		return nil, fail(err)
	}
	values, err := output.ReadVertexValues[T](job.OutputFile())
	if err != nil {
		return nil, fail(err)
	}

	state = Done
	logger.Debug().Str("job", job.Descriptor().JobID()).Int("vertices", len(values)).Msg("Case " + state.String())
	return values, nil
}

// Runs connected components over g. For this and the other typed cases, the graph is passed
// to the engine as directed if g.Directed is set.
func (h *Harness) ConnectedComponents(ctx context.Context, g *graph.Graph) (output.VertexValues[int64], error) {
	return runCase[int64](ctx, h, g, algorithm.ConnectedComponents{})
}

func (h *Harness) SingleSourceShortestPaths(ctx context.Context, g *graph.Graph, source int64) (output.VertexValues[float64], error) {
	return runCase[float64](ctx, h, g, algorithm.SingleSourceShortestPaths{SourceVertex: source})
}

func (h *Harness) LocalClusteringCoefficient(ctx context.Context, g *graph.Graph) (output.VertexValues[float64], error) {
	return runCase[float64](ctx, h, g, algorithm.LocalClusteringCoefficient{})
}

func (h *Harness) BreadthFirstSearch(ctx context.Context, g *graph.Graph, source int64) (output.VertexValues[int64], error) {
	return runCase[int64](ctx, h, g, algorithm.BreadthFirstSearch{SourceVertex: source})
}

func (h *Harness) PageRank(ctx context.Context, g *graph.Graph, dampingFactor float64, iterations int) (output.VertexValues[float64], error) {
	return runCase[float64](ctx, h, g, algorithm.PageRank{DampingFactor: dampingFactor, Iterations: iterations})
}

func (h *Harness) CommunityDetection(ctx context.Context, g *graph.Graph, maxIterations int) (output.VertexValues[int64], error) {
	return runCase[int64](ctx, h, g, algorithm.CommunityDetection{MaxIterations: maxIterations})
}

// Run executes the case for any parameter set. Exactly one of the two results is non-nil on success.
func (h *Harness) Run(ctx context.Context, g *graph.Graph, params algorithm.Params) (ints output.VertexValues[int64], floats output.VertexValues[float64], err error) {
	switch params.(type) {
	case algorithm.SingleSourceShortestPaths, algorithm.LocalClusteringCoefficient, algorithm.PageRank:
		floats, err = runCase[float64](ctx, h, g, params)
	default:
		ints, err = runCase[int64](ctx, h, g, params)
	}
	return ints, floats, err
}
