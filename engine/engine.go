// Package engine is a sequential stand-in for the PowerGraph driver. It accepts the same
// command line as the driver, computes the algorithm over the vertex and edge files, and
// writes "<vertex-id> <value>" lines to the output file.
package engine

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/ScottSallinen/lollipop-powergraph/algorithm"
	"github.com/ScottSallinen/lollipop-powergraph/graph"
	"github.com/ScottSallinen/lollipop-powergraph/output"
	"github.com/ScottSallinen/lollipop-powergraph/utils"
)

const (
	EXIT_OK    = 0
	EXIT_ERROR = 1
	EXIT_USAGE = 2
)

var ErrUsage = errors.New("usage")

// Options is a parsed driver command line.
type Options struct {
	Params       algorithm.Params
	VerticesPath string
	EdgesPath    string
	Directed     bool
	JobID        string
	OutputFile   string // Empty computes without writing results.
}

// ParseArgs parses "<algorithm> [flags]". Algorithm parameters the algorithm does not use are ignored.
func ParseArgs(args []string, errOut io.Writer) (Options, error) {
	opts := Options{}
	if len(args) == 0 {
		return opts, fmt.Errorf("%w: no algorithm given", ErrUsage)
	}
	name, err := algorithm.ParseName(args[0])
	if err != nil {
		return opts, fmt.Errorf("%w: %v", ErrUsage, err)
	}

	fs := flag.NewFlagSet(string(name), flag.ContinueOnError)
	fs.SetOutput(errOut)
	sourcePtr := fs.Int64("source-vertex", 0, "Source vertex (sssp, bfs).")
	dampingPtr := fs.Float64("damping-factor", algorithm.DEFAULT_DAMPING_FACTOR, "Damping factor (pr).")
	iterPtr := fs.Int("max-iterations", algorithm.DEFAULT_ITERATIONS, "Iterations (pr, cdlp).")
	fs.StringVar(&opts.VerticesPath, "graph-vertices", "", "Vertex file.")
	fs.StringVar(&opts.EdgesPath, "graph-edges", "", "Edge file.")
	fs.BoolVar(&opts.Directed, "directed", false, "Whether the graph is directed.")
	fs.StringVar(&opts.JobID, "job-id", "", "Job identifier, used in log output.")
	fs.StringVar(&opts.OutputFile, "output-file", "", "Write results to the given file.")
	if err := fs.Parse(args[1:]); err != nil {
		return opts, fmt.Errorf("%w: %w", ErrUsage, err)
	}
	if fs.NArg() > 0 {
		return opts, fmt.Errorf("%w: unexpected arguments %v", ErrUsage, fs.Args())
	}
	if opts.EdgesPath == "" {
		return opts, fmt.Errorf("%w: graph not specified", ErrUsage)
	}

	settings := algorithm.Settings{DampingFactor: dampingPtr, Iterations: iterPtr}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "source-vertex" {
			settings.SourceVertex = sourcePtr
		}
	})
	if opts.Params, err = algorithm.FromSettings(name, settings); err != nil {
		return opts, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	return opts, nil
}

// Compute runs the algorithm of p over g. Integer results are returned in ints, floating point in floats.
func Compute(g *graph.Graph, p algorithm.Params) (ints output.VertexValues[int64], floats output.VertexValues[float64]) {
	switch p := p.(type) {
	case algorithm.SingleSourceShortestPaths:
		return nil, ShortestPaths(g, p.SourceVertex)
	case algorithm.BreadthFirstSearch:
		return BreadthFirstSearch(g, p.SourceVertex), nil
	case algorithm.ConnectedComponents:
		return ConnectedComponents(g), nil
	case algorithm.LocalClusteringCoefficient:
		return nil, LocalClusteringCoefficient(g)
	case algorithm.PageRank:
		return nil, PageRank(g, p.DampingFactor, p.Iterations)
	case algorithm.CommunityDetection:
		return CommunityDetection(g, p.MaxIterations), nil
	}
	panic(fmt.Sprintf("engine: unhandled parameter type %T", p))
}

// Run loads the graph, computes, and writes the output file if one was requested.
func Run(opts Options) error {
	watch := utils.Watch{}
	watch.Start()
	g, err := graph.LoadGraph(opts.VerticesPath, opts.EdgesPath, opts.Directed)
	if err != nil {
		return err
	}
	log.Info().Str("job", opts.JobID).Msg("Loaded graph in (ms) " + utils.V(watch.Lap().Milliseconds()))
	g.ComputeGraphStats()
	if log.Trace().Enabled() {
		g.PrintStructure()
	}

	ints, floats := Compute(g, opts.Params)
	log.Info().Str("job", opts.JobID).Msg(string(opts.Params.Algorithm()) + " finished in (ms) " + utils.V(watch.Lap().Milliseconds()))

	if opts.OutputFile == "" {
		return nil
	}
	if ints != nil {
		return output.WriteVertexValues(opts.OutputFile, ints)
	}
	return output.WriteVertexValues(opts.OutputFile, floats)
}

// Main is the driver entry point; args excludes the program name. It returns the process exit code.
func Main(args []string) int {
	utils.SetLoggerOutput(os.Stderr, true)
	opts, err := ParseArgs(args, os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return EXIT_OK
		}
		log.Error().Err(err).Msg("Error in parsing command line arguments.")
		return EXIT_USAGE
	}
	log.Info().Str("job", opts.JobID).Msg("Running " + string(opts.Params.Algorithm()) + " on " + opts.EdgesPath + " directed " + utils.V(opts.Directed))
	if err := Run(opts); err != nil {
		log.Error().Err(err).Str("job", opts.JobID).Msg("Job failed.")
		return EXIT_ERROR
	}
	return EXIT_OK
}
