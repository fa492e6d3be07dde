package validation

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/ScottSallinen/lollipop-powergraph/algorithm"
	"github.com/ScottSallinen/lollipop-powergraph/graph"
	"github.com/ScottSallinen/lollipop-powergraph/output"
	"github.com/ScottSallinen/lollipop-powergraph/utils"
)

// Case is one graph and algorithm to validate.
type Case struct {
	Name       string
	Graph      *graph.Graph
	Params     algorithm.Params
	Epsilon    float64 // For floating point results; zero uses EPSILON.
	Stationary bool    // PageRank only: compare against the converged ranks instead of the same iteration count.
}

// Builds a graph from edges, plus vertices without edges. Edge weights are taken as given,
// so unweighted edges carry DEFAULT_WEIGHT (see edge); the graph is weighted as soon as one
// weight differs from it.
func BuildGraph(directed bool, edges []graph.RawEdge, isolated ...graph.RawType) *graph.Graph {
	g := graph.NewGraph(directed, false)
	for _, e := range edges {
		g.Weighted = g.Weighted || e.Weight != graph.DEFAULT_WEIGHT
		g.AddEdge(e.SrcRaw, e.DstRaw, e.Weight)
	}
	for _, raw := range isolated {
		g.AddVertex(raw)
	}
	return g
}

func edge(src, dst graph.RawType) graph.RawEdge {
	return graph.RawEdge{SrcRaw: src, DstRaw: dst, Weight: graph.DEFAULT_WEIGHT}
}

func wedge(src, dst graph.RawType, weight float64) graph.RawEdge {
	return graph.RawEdge{SrcRaw: src, DstRaw: dst, Weight: weight}
}

// Suite is the built-in set of cases.
func Suite() []Case {
	twoEdges := BuildGraph(false, []graph.RawEdge{edge(1, 2), edge(3, 4)})
	chain := BuildGraph(true, []graph.RawEdge{edge(1, 2), edge(2, 3)})
	weak := BuildGraph(true, []graph.RawEdge{edge(2, 1), edge(5, 4), edge(4, 3), edge(6, 3)}, 9)
	triangleTail := BuildGraph(false, []graph.RawEdge{edge(1, 2), edge(2, 3), edge(3, 1), edge(3, 4), edge(4, 5)}, 6)
	directedMesh := BuildGraph(true, []graph.RawEdge{edge(1, 2), edge(2, 3), edge(3, 1), edge(1, 3), edge(3, 4), edge(4, 2), edge(5, 1)})
	weighted := BuildGraph(true, []graph.RawEdge{wedge(1, 2, 4), wedge(1, 3, 1), wedge(3, 2, 1.5), wedge(2, 4, 0.25), wedge(4, 5, 2), wedge(6, 1, 1)})
	weightedUndirected := BuildGraph(false, []graph.RawEdge{wedge(1, 2, 0.5), wedge(2, 3, 3), wedge(1, 3, 5), wedge(4, 5, 1)})
	bridged := BuildGraph(false, []graph.RawEdge{edge(1, 2), edge(2, 3), edge(3, 1), edge(3, 4), edge(4, 5), edge(5, 6), edge(6, 4)})

	return []Case{
		{Name: "wcc-two-edges", Graph: twoEdges, Params: algorithm.ConnectedComponents{}},
		{Name: "wcc-directed-weak", Graph: weak, Params: algorithm.ConnectedComponents{}},
		{Name: "sssp-directed-chain", Graph: chain, Params: algorithm.SingleSourceShortestPaths{SourceVertex: 1}},
		{Name: "sssp-weighted", Graph: weighted, Params: algorithm.SingleSourceShortestPaths{SourceVertex: 1}},
		{Name: "sssp-weighted-undirected", Graph: weightedUndirected, Params: algorithm.SingleSourceShortestPaths{SourceVertex: 3}},
		{Name: "bfs-directed", Graph: directedMesh, Params: algorithm.BreadthFirstSearch{SourceVertex: 1}},
		{Name: "bfs-undirected", Graph: triangleTail, Params: algorithm.BreadthFirstSearch{SourceVertex: 5}},
		{Name: "lcc-undirected", Graph: triangleTail, Params: algorithm.LocalClusteringCoefficient{}},
		{Name: "lcc-directed", Graph: directedMesh, Params: algorithm.LocalClusteringCoefficient{}},
		{Name: "pr-directed", Graph: directedMesh, Params: algorithm.PageRank{DampingFactor: 0.85, Iterations: 10}},
		{Name: "pr-undirected", Graph: triangleTail, Params: algorithm.PageRank{DampingFactor: 0.85, Iterations: 10}},
		{Name: "pr-converged", Graph: directedMesh, Params: algorithm.PageRank{DampingFactor: 0.85, Iterations: 200}, Stationary: true},
		{Name: "cdlp-bridged", Graph: bridged, Params: algorithm.CommunityDetection{MaxIterations: 5}},
		{Name: "cdlp-directed", Graph: directedMesh, Params: algorithm.CommunityDetection{MaxIterations: 5}},
	}
}

func referenceFor(c Case) (ints output.VertexValues[int64], floats output.VertexValues[float64]) {
	switch p := c.Params.(type) {
	case algorithm.ConnectedComponents:
		return ReferenceConnectedComponents(c.Graph), nil
	case algorithm.BreadthFirstSearch:
		return ReferenceBreadthFirstSearch(c.Graph, p.SourceVertex), nil
	case algorithm.CommunityDetection:
		return ReferenceCommunityDetection(c.Graph, p.MaxIterations), nil
	case algorithm.SingleSourceShortestPaths:
		return nil, ReferenceShortestPaths(c.Graph, p.SourceVertex)
	case algorithm.LocalClusteringCoefficient:
		return nil, ReferenceLocalClusteringCoefficient(c.Graph)
	case algorithm.PageRank:
		if c.Stationary {
			return nil, ReferenceStationaryPageRank(c.Graph, p.DampingFactor)
		}
		return nil, ReferencePageRank(c.Graph, p.DampingFactor, p.Iterations)
	}
	panic(fmt.Sprintf("validation: unhandled parameter type %T", c.Params))
}

// Validate runs the case through the engine and compares the result with the reference.
// Component labels are compared as partitions, other integer results exactly.
func (h *Harness) Validate(ctx context.Context, c Case) error {
	epsilon := c.Epsilon
	if epsilon == 0 {
		epsilon = EPSILON
	}
	ints, floats, err := h.Run(ctx, c.Graph, c.Params)
	if err != nil {
		return err
	}
	wantInts, wantFloats := referenceFor(c)
	switch {
	case c.Params.Algorithm() == algorithm.WCC:
		return ComparePartitions(wantInts, ints)
	case wantInts != nil:
		return CompareExact(wantInts, ints)
	default:
		return CompareApprox(wantFloats, floats, epsilon)
	}
}

// RunSuite validates every case in order, logging each outcome. The returned error joins all failures.
func (h *Harness) RunSuite(ctx context.Context, cases []Case) error {
	var errs []error
	watch := utils.Watch{}
	watch.Start()
	for _, c := range cases {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := h.Validate(ctx, c); err != nil {
			log.Error().Err(err).Msg("FAIL " + c.Name)
			errs = append(errs, fmt.Errorf("%s: %w", c.Name, err))
			continue
		}
		log.Info().Msg("PASS " + c.Name)
	}
	log.Info().Msg("Validated " + utils.V(len(cases)-len(errs)) + "/" + utils.V(len(cases)) + " cases in (ms) " + utils.V(watch.Elapsed().Milliseconds()))
	return errors.Join(errs...)
}
