package engine

import (
	"math"

	"github.com/rs/zerolog/log"

	"github.com/ScottSallinen/lollipop-powergraph/graph"
	"github.com/ScottSallinen/lollipop-powergraph/output"
	"github.com/ScottSallinen/lollipop-powergraph/utils"
)

// BFS depth of a vertex the source cannot reach.
const UNREACHABLE_DEPTH = math.MaxInt64

func rawValues[T output.Value](g *graph.Graph, values []T) output.VertexValues[T] {
	out := make(output.VertexValues[T], len(values))
	for vidx := range g.Vertices {
		out[g.Vertices[vidx].RawId.Integer()] = values[vidx]
	}
	return out
}

// Both directions of every edge, without duplicates or self loops.
func undirectedNeighbours(g *graph.Graph) []map[uint32]struct{} {
	if g.Directed {
		g.ComputeInEdges()
	}
	nbrs := make([]map[uint32]struct{}, len(g.Vertices))
	for vidx := range g.Vertices {
		set := make(map[uint32]struct{}, len(g.Vertices[vidx].OutEdges))
		for _, e := range g.Vertices[vidx].OutEdges {
			set[e.Didx] = struct{}{}
		}
		if g.Directed {
			for _, e := range g.Vertices[vidx].InEdges {
				set[e.Didx] = struct{}{}
			}
		}
		delete(set, uint32(vidx))
		nbrs[vidx] = set
	}
	return nbrs
}

// Weakly connected components: every vertex is labelled with the smallest vertex id of its component.
func ConnectedComponents(g *graph.Graph) output.VertexValues[int64] {
	nbrs := undirectedNeighbours(g)
	labels := make([]int64, len(g.Vertices))
	for vidx := range g.Vertices {
		labels[vidx] = g.Vertices[vidx].RawId.Integer()
	}

	// Min-label propagation, one frontier at a time.
	frontier := make([]uint32, len(g.Vertices))
	for vidx := range frontier {
		frontier[vidx] = uint32(vidx)
	}
	iterations := 0
	for len(frontier) > 0 {
		iterations++
		var next []uint32
		queued := make(map[uint32]bool)
		for _, vidx := range frontier {
			for n := range nbrs[vidx] {
				if labels[vidx] < labels[n] {
					labels[n] = labels[vidx]
					if !queued[n] {
						queued[n] = true
						next = append(next, n)
					}
				}
			}
		}
		frontier = next
	}
	log.Debug().Msg("wcc converged after " + utils.V(iterations) + " iterations")
	return rawValues(g, labels)
}

// Hop count from the source along out-edges. Vertices not reached get UNREACHABLE_DEPTH.
func BreadthFirstSearch(g *graph.Graph, source int64) output.VertexValues[int64] {
	depth := make([]int64, len(g.Vertices))
	for i := range depth {
		depth[i] = UNREACHABLE_DEPTH
	}
	sidx, ok := g.VertexFromRaw(graph.RawType(source))
	if !ok {
		log.Warn().Msg("Source vertex " + utils.V(source) + " is not in the graph")
		return rawValues(g, depth)
	}

	depth[sidx] = 0
	queue := []uint32{sidx}
	for len(queue) > 0 {
		vidx := queue[0]
		queue = queue[1:]
		for _, e := range g.Vertices[vidx].OutEdges {
			if depth[e.Didx] == UNREACHABLE_DEPTH {
				depth[e.Didx] = depth[vidx] + 1
				queue = append(queue, e.Didx)
			}
		}
	}
	return rawValues(g, depth)
}

type distItem struct {
	vidx uint32
	dist float64
}

func (d distItem) Less(o distItem) bool {
	return d.dist < o.dist
}

// Weighted shortest path distance from the source along out-edges. Unreached vertices get +Inf.
func ShortestPaths(g *graph.Graph, source int64) output.VertexValues[float64] {
	dist := make([]float64, len(g.Vertices))
	for i := range dist {
		dist[i] = math.Inf(1)
	}
	sidx, ok := g.VertexFromRaw(graph.RawType(source))
	if !ok {
		log.Warn().Msg("Source vertex " + utils.V(source) + " is not in the graph")
		return rawValues(g, dist)
	}

	dist[sidx] = 0
	pq := utils.PQ[distItem]{}
	pq.Push(distItem{vidx: sidx, dist: 0})
	for pq.Len() > 0 {
		item := pq.Pop()
		if item.dist > dist[item.vidx] {
			continue // Stale
		}
		for _, e := range g.Vertices[item.vidx].OutEdges {
			if nd := item.dist + e.Weight; nd < dist[e.Didx] {
				dist[e.Didx] = nd
				pq.Push(distItem{vidx: e.Didx, dist: nd})
			}
		}
	}
	return rawValues(g, dist)
}

// Local clustering coefficient. The neighbourhood of v is the union of its in and out neighbours;
// the coefficient is the number of edges between neighbours over d(d-1). An undirected edge
// between two neighbours counts once in each direction.
func LocalClusteringCoefficient(g *graph.Graph) output.VertexValues[float64] {
	nbrs := undirectedNeighbours(g)
	out := make([]map[uint32]struct{}, len(g.Vertices))
	for vidx := range g.Vertices {
		set := make(map[uint32]struct{}, len(g.Vertices[vidx].OutEdges))
		for _, e := range g.Vertices[vidx].OutEdges {
			set[e.Didx] = struct{}{}
		}
		out[vidx] = set
	}

	coef := make([]float64, len(g.Vertices))
	for vidx := range g.Vertices {
		d := len(nbrs[vidx])
		if d < 2 {
			continue
		}
		links := 0
		for u := range nbrs[vidx] {
			for w := range nbrs[vidx] {
				if u == w {
					continue
				}
				if _, ok := out[u][w]; ok {
					links++
				}
			}
		}
		coef[vidx] = float64(links) / float64(d*(d-1))
	}
	return rawValues(g, coef)
}

// PageRank for a fixed number of iterations. The rank of dangling vertices (no out-edges) is
// spread evenly over all vertices.
func PageRank(g *graph.Graph, dampingFactor float64, iterations int) output.VertexValues[float64] {
	n := len(g.Vertices)
	if n == 0 {
		return output.VertexValues[float64]{}
	}
	g.ComputeInEdges()

	rank := make([]float64, n)
	next := make([]float64, n)
	for vidx := range rank {
		rank[vidx] = 1.0 / float64(n)
	}
	for it := 0; it < iterations; it++ {
		dangling := 0.0
		for vidx := range g.Vertices {
			if len(g.Vertices[vidx].OutEdges) == 0 {
				dangling += rank[vidx]
			}
		}
		for vidx := range g.Vertices {
			total := 0.0
			for _, e := range g.Vertices[vidx].InEdges {
				total += rank[e.Didx] / float64(len(g.Vertices[e.Didx].OutEdges))
			}
			next[vidx] = (1.0-dampingFactor)/float64(n) + dampingFactor*(total+dangling/float64(n))
		}
		rank, next = next, rank
	}
	return rawValues(g, rank)
}

// Community detection by synchronous label propagation. Each round a vertex adopts the most
// frequent label among its neighbours, the smallest label on ties. In a directed graph in and
// out neighbours are counted separately, so a reciprocated edge counts twice.
func CommunityDetection(g *graph.Graph, maxIterations int) output.VertexValues[int64] {
	if g.Directed {
		g.ComputeInEdges()
	}
	labels := make([]int64, len(g.Vertices))
	next := make([]int64, len(g.Vertices))
	for vidx := range g.Vertices {
		labels[vidx] = g.Vertices[vidx].RawId.Integer()
	}

	counts := make(map[int64]int)
	for it := 0; it < maxIterations; it++ {
		changed := false
		for vidx := range g.Vertices {
			clear(counts)
			for _, e := range g.Vertices[vidx].OutEdges {
				counts[labels[e.Didx]]++
			}
			if g.Directed {
				for _, e := range g.Vertices[vidx].InEdges {
					counts[labels[e.Didx]]++
				}
			}
			next[vidx] = labels[vidx]
			best := 0
			for label, c := range counts {
				if c > best || (c == best && label < next[vidx]) {
					best = c
					next[vidx] = label
				}
			}
			changed = changed || next[vidx] != labels[vidx]
		}
		labels, next = next, labels
		if !changed {
			log.Debug().Msg("cdlp stable after " + utils.V(it+1) + " iterations")
			break
		}
	}
	return rawValues(g, labels)
}
