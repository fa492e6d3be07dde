package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ScottSallinen/lollipop-powergraph/graph"
	"github.com/ScottSallinen/lollipop-powergraph/output"
	"github.com/ScottSallinen/lollipop-powergraph/utils"
)

type testEdge struct {
	src, dst int
	weight   float64
}

func buildGraph(directed bool, edges []testEdge, isolated ...int) *graph.Graph {
	g := graph.NewGraph(directed, false)
	for _, e := range edges {
		w := e.weight
		if w == 0 {
			w = graph.DEFAULT_WEIGHT
		} else {
			g.Weighted = true
		}
		g.AddEdge(graph.AsRawType(e.src), graph.AsRawType(e.dst), w)
	}
	for _, v := range isolated {
		g.AddVertex(graph.AsRawType(v))
	}
	return g
}

func expectFloats(t *testing.T, want output.VertexValues[float64], got output.VertexValues[float64]) {
	t.Helper()
	require.Equal(t, want.SortedIds(), got.SortedIds())
	for id, w := range want {
		if !utils.FloatEquals(w, got[id], 1e-9) {
			t.Error("vertex ", id, " expected: ", w, " got: ", got[id])
		}
	}
}

func TestConnectedComponentsUndirected(t *testing.T) {
	g := buildGraph(false, []testEdge{{src: 1, dst: 2}, {src: 3, dst: 4}})
	require.Equal(t, output.VertexValues[int64]{1: 1, 2: 1, 3: 3, 4: 3}, ConnectedComponents(g))
}

func TestConnectedComponentsDirectedIsWeak(t *testing.T) {
	g := buildGraph(true, []testEdge{{src: 2, dst: 1}, {src: 5, dst: 4}, {src: 4, dst: 3}}, 9)
	require.Equal(t, output.VertexValues[int64]{1: 1, 2: 1, 3: 3, 4: 3, 5: 3, 9: 9}, ConnectedComponents(g))
}

func TestBreadthFirstSearch(t *testing.T) {
	g := buildGraph(true, []testEdge{{src: 1, dst: 2}, {src: 2, dst: 3}, {src: 1, dst: 3}, {src: 4, dst: 1}})
	require.Equal(t, output.VertexValues[int64]{1: 0, 2: 1, 3: 1, 4: UNREACHABLE_DEPTH}, BreadthFirstSearch(g, 1))

	missing := BreadthFirstSearch(g, 42)
	for _, d := range missing {
		require.Equal(t, int64(UNREACHABLE_DEPTH), d)
	}
}

func TestShortestPathsChain(t *testing.T) {
	g := buildGraph(true, []testEdge{{src: 1, dst: 2}, {src: 2, dst: 3}})
	require.Equal(t, []float64{0, 1, 2}, ShortestPaths(g, 1).Ordered())
}

func TestShortestPathsWeighted(t *testing.T) {
	g := buildGraph(true, []testEdge{
		{src: 1, dst: 2, weight: 4},
		{src: 1, dst: 3, weight: 1},
		{src: 3, dst: 2, weight: 1.5},
		{src: 2, dst: 4, weight: 0.25},
		{src: 5, dst: 1, weight: 1},
	})
	expectFloats(t, output.VertexValues[float64]{1: 0, 2: 2.5, 3: 1, 4: 2.75, 5: math.Inf(1)}, ShortestPaths(g, 1))

	undirected := buildGraph(false, []testEdge{{src: 1, dst: 2, weight: 2}, {src: 2, dst: 3, weight: 3}})
	expectFloats(t, output.VertexValues[float64]{1: 5, 2: 3, 3: 0}, ShortestPaths(undirected, 3))
}

func TestLocalClusteringCoefficient(t *testing.T) {
	g := buildGraph(false, []testEdge{{src: 1, dst: 2}, {src: 2, dst: 3}, {src: 3, dst: 1}, {src: 3, dst: 4}}, 5)
	expectFloats(t, output.VertexValues[float64]{1: 1, 2: 1, 3: 1.0 / 3.0, 4: 0, 5: 0}, LocalClusteringCoefficient(g))

	cycle := buildGraph(true, []testEdge{{src: 1, dst: 2}, {src: 2, dst: 3}, {src: 3, dst: 1}})
	expectFloats(t, output.VertexValues[float64]{1: 0.5, 2: 0.5, 3: 0.5}, LocalClusteringCoefficient(cycle))
}

func TestPageRank(t *testing.T) {
	g := buildGraph(true, []testEdge{{src: 1, dst: 2}})
	expectFloats(t, output.VertexValues[float64]{1: 0.2875, 2: 0.7125}, PageRank(g, 0.85, 1))

	undirected := buildGraph(false, []testEdge{{src: 1, dst: 2}})
	expectFloats(t, output.VertexValues[float64]{1: 0.5, 2: 0.5}, PageRank(undirected, 0.85, 10))

	// Ranks sum to one when dangling mass is redistributed.
	star := buildGraph(true, []testEdge{{src: 1, dst: 2}, {src: 1, dst: 3}, {src: 4, dst: 1}, {src: 2, dst: 3}})
	sum := 0.0
	for _, r := range PageRank(star, 0.85, 20) {
		sum += r
	}
	require.InDelta(t, 1.0, sum, 1e-9)

	require.Empty(t, PageRank(graph.NewGraph(true, false), 0.85, 5))
}

func TestCommunityDetection(t *testing.T) {
	edges := []testEdge{{src: 1, dst: 2}, {src: 2, dst: 3}, {src: 3, dst: 1}, {src: 4, dst: 5}}
	require.Equal(t, output.VertexValues[int64]{1: 2, 2: 1, 3: 1, 4: 5, 5: 4}, CommunityDetection(buildGraph(false, edges), 1))
	require.Equal(t, output.VertexValues[int64]{1: 1, 2: 1, 3: 1, 4: 4, 5: 5}, CommunityDetection(buildGraph(false, edges), 2))

	// An isolated vertex keeps its own label.
	require.Equal(t, output.VertexValues[int64]{7: 7}, CommunityDetection(buildGraph(true, nil, 7), 3))
}
