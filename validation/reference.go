package validation

import (
	"math"

	gg "gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/network"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
	"gonum.org/v1/gonum/graph/traverse"

	"github.com/ScottSallinen/lollipop-powergraph/graph"
	"github.com/ScottSallinen/lollipop-powergraph/output"
)

// Reference results are computed on gonum's simple graphs, with node ids equal to the raw vertex ids.
// Simple graphs hold no self loops or parallel edges, so those are dropped from the reference view.

// Directed view; an undirected edge becomes a pair of opposite edges.
func directedView(g *graph.Graph) *simple.WeightedDirectedGraph {
	dg := simple.NewWeightedDirectedGraph(0, math.Inf(1))
	for _, raw := range g.SortedRawIds() {
		dg.AddNode(simple.Node(raw.Integer()))
	}
	for _, e := range g.Edges {
		if e.SrcRaw == e.DstRaw {
			continue
		}
		src, dst := simple.Node(e.SrcRaw.Integer()), simple.Node(e.DstRaw.Integer())
		dg.SetWeightedEdge(dg.NewWeightedEdge(src, dst, e.Weight))
		if !g.Directed {
			dg.SetWeightedEdge(dg.NewWeightedEdge(dst, src, e.Weight))
		}
	}
	return dg
}

// Undirected view, ignoring edge direction.
func undirectedView(g *graph.Graph) *simple.UndirectedGraph {
	ug := simple.NewUndirectedGraph()
	for _, raw := range g.SortedRawIds() {
		ug.AddNode(simple.Node(raw.Integer()))
	}
	for _, e := range g.Edges {
		if e.SrcRaw == e.DstRaw {
			continue
		}
		ug.SetEdge(ug.NewEdge(simple.Node(e.SrcRaw.Integer()), simple.Node(e.DstRaw.Integer())))
	}
	return ug
}

func nodeIds(nodes gg.Nodes) []int64 {
	var ids []int64
	for nodes.Next() {
		ids = append(ids, nodes.Node().ID())
	}
	return ids
}

// Union of in and out neighbours.
func neighbourhood(dg *simple.WeightedDirectedGraph, id int64) map[int64]struct{} {
	set := make(map[int64]struct{})
	for _, n := range nodeIds(dg.From(id)) {
		set[n] = struct{}{}
	}
	for _, n := range nodeIds(dg.To(id)) {
		set[n] = struct{}{}
	}
	return set
}

// Weakly connected components, labelled by the smallest vertex id of the component.
func ReferenceConnectedComponents(g *graph.Graph) output.VertexValues[int64] {
	result := make(output.VertexValues[int64], g.NumVertices())
	for _, component := range topo.ConnectedComponents(undirectedView(g)) {
		label := int64(math.MaxInt64)
		for _, n := range component {
			label = min(label, n.ID())
		}
		for _, n := range component {
			result[n.ID()] = label
		}
	}
	return result
}

func ReferenceShortestPaths(g *graph.Graph, source int64) output.VertexValues[float64] {
	dg := directedView(g)
	result := make(output.VertexValues[float64], g.NumVertices())
	if dg.Node(source) == nil {
		for _, raw := range g.SortedRawIds() {
			result[raw.Integer()] = math.Inf(1)
		}
		return result
	}
	shortest := path.DijkstraFrom(simple.Node(source), dg)
	for _, id := range nodeIds(dg.Nodes()) {
		result[id] = shortest.WeightTo(id)
	}
	return result
}

func ReferenceBreadthFirstSearch(g *graph.Graph, source int64) output.VertexValues[int64] {
	dg := directedView(g)
	result := make(output.VertexValues[int64], g.NumVertices())
	for _, id := range nodeIds(dg.Nodes()) {
		result[id] = math.MaxInt64
	}
	if dg.Node(source) == nil {
		return result
	}
	bf := traverse.BreadthFirst{}
	bf.Walk(dg, simple.Node(source), func(n gg.Node, depth int) bool {
		result[n.ID()] = int64(depth)
		return false
	})
	return result
}

// Edges between neighbours over d(d-1); an undirected edge is counted in both directions.
func ReferenceLocalClusteringCoefficient(g *graph.Graph) output.VertexValues[float64] {
	dg := directedView(g)
	result := make(output.VertexValues[float64], g.NumVertices())
	for _, v := range nodeIds(dg.Nodes()) {
		nbrs := neighbourhood(dg, v)
		d := len(nbrs)
		if d < 2 {
			result[v] = 0
			continue
		}
		links := 0
		for u := range nbrs {
			for w := range nbrs {
				if u != w && dg.HasEdgeFromTo(u, w) {
					links++
				}
			}
		}
		result[v] = float64(links) / float64(d*(d-1))
	}
	return result
}

// PageRank after a fixed number of iterations, with dangling rank spread over all vertices.
func ReferencePageRank(g *graph.Graph, dampingFactor float64, iterations int) output.VertexValues[float64] {
	dg := directedView(g)
	ids := nodeIds(dg.Nodes())
	n := float64(len(ids))
	rank := make(map[int64]float64, len(ids))
	for _, id := range ids {
		rank[id] = 1 / n
	}
	for it := 0; it < iterations; it++ {
		dangling := 0.0
		for _, id := range ids {
			if dg.From(id).Len() == 0 {
				dangling += rank[id]
			}
		}
		next := make(map[int64]float64, len(ids))
		for _, id := range ids {
			total := 0.0
			for _, u := range nodeIds(dg.To(id)) {
				total += rank[u] / float64(dg.From(u).Len())
			}
			next[id] = (1-dampingFactor)/n + dampingFactor*(total+dangling/n)
		}
		rank = next
	}
	return output.VertexValues[float64](rank)
}

// The PageRank fixed point, from gonum's power iteration. Engine runs with enough iterations
// converge to it.
func ReferenceStationaryPageRank(g *graph.Graph, dampingFactor float64) output.VertexValues[float64] {
	if g.NumVertices() == 0 {
		return output.VertexValues[float64]{}
	}
	return output.VertexValues[float64](network.PageRank(directedView(g), dampingFactor, 1e-12))
}

// Most frequent neighbour label each round, smallest label on ties. In directed graphs in and
// out neighbours count separately.
func ReferenceCommunityDetection(g *graph.Graph, maxIterations int) output.VertexValues[int64] {
	dg := directedView(g)
	ids := nodeIds(dg.Nodes())
	labels := make(map[int64]int64, len(ids))
	for _, id := range ids {
		labels[id] = id
	}
	for it := 0; it < maxIterations; it++ {
		next := make(map[int64]int64, len(ids))
		for _, id := range ids {
			counts := make(map[int64]int)
			for _, u := range nodeIds(dg.From(id)) {
				counts[labels[u]]++
			}
			if g.Directed {
				for _, u := range nodeIds(dg.To(id)) {
					counts[labels[u]]++
				}
			}
			best, label := 0, labels[id]
			for l, c := range counts {
				if c > best || (c == best && l < label) {
					best, label = c, l
				}
			}
			next[id] = label
		}
		labels = next
	}
	return output.VertexValues[int64](labels)
}
