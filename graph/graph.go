package graph

import (
	"sort"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/ScottSallinen/lollipop-powergraph/utils"
)

const DEFAULT_WEIGHT = 1.0

// External (file) identifier of a vertex.
type RawType int64

func (r RawType) String() string {
	return strconv.FormatInt(int64(r), 10)
}

func (r RawType) Integer() int64 {
	return int64(r)
}

// Mostly for testing, this converts a given integer into a RawType.
func AsRawType(val int) RawType {
	return RawType(val)
}

// An edge as it appears in the edge file.
type RawEdge struct {
	SrcRaw RawType
	DstRaw RawType
	Weight float64
}

// Edge within the internal representation. Didx is the internal index of the other endpoint.
type Edge struct {
	Didx   uint32
	Weight float64
}

type Vertex struct {
	RawId    RawType
	OutEdges []Edge
	InEdges  []Edge // Didx here is the source of the edge. Only populated by ComputeInEdges.
}

// Graph in the shape the Graphalytics validation suites describe: a set of vertices and an edge list.
// For undirected graphs every edge is stored once in Edges, but appears in both endpoints' OutEdges.
type Graph struct {
	Directed  bool
	Weighted  bool               // If true, edge files carry a third weight column.
	VertexMap map[RawType]uint32 // Raw to internal
	Vertices  []Vertex
	Edges     []RawEdge
}

func NewGraph(directed bool, weighted bool) *Graph {
	return &Graph{
		Directed:  directed,
		Weighted:  weighted,
		VertexMap: make(map[RawType]uint32),
	}
}

// Adds the vertex if it is not yet present (idempotent). Returns the internal index.
func (g *Graph) AddVertex(raw RawType) uint32 {
	if idx, ok := g.VertexMap[raw]; ok {
		return idx
	}
	idx := uint32(len(g.Vertices))
	g.VertexMap[raw] = idx
	g.Vertices = append(g.Vertices, Vertex{RawId: raw})
	return idx
}

// Adds an edge; endpoints are created when missing.
func (g *Graph) AddEdge(src, dst RawType, weight float64) {
	sidx := g.AddVertex(src)
	didx := g.AddVertex(dst)
	g.Edges = append(g.Edges, RawEdge{SrcRaw: src, DstRaw: dst, Weight: weight})
	g.Vertices[sidx].OutEdges = append(g.Vertices[sidx].OutEdges, Edge{Didx: didx, Weight: weight})
	if !g.Directed && sidx != didx {
		g.Vertices[didx].OutEdges = append(g.Vertices[didx].OutEdges, Edge{Didx: sidx, Weight: weight})
	}
}

func (g *Graph) NumVertices() int {
	return len(g.Vertices)
}

func (g *Graph) NumEdges() int {
	return len(g.Edges)
}

// Internal index of a raw id.
func (g *Graph) VertexFromRaw(raw RawType) (uint32, bool) {
	idx, ok := g.VertexMap[raw]
	return idx, ok
}

// Raw ids of all vertices, ascending.
func (g *Graph) SortedRawIds() []RawType {
	ids := make([]RawType, len(g.Vertices))
	for i := range g.Vertices {
		ids[i] = g.Vertices[i].RawId
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Builds the in-edge lists from the out-edge lists. For undirected graphs the in-edges mirror the out-edges.
func (g *Graph) ComputeInEdges() {
	for vidx := range g.Vertices {
		g.Vertices[vidx].InEdges = g.Vertices[vidx].InEdges[:0]
	}
	for vidx := range g.Vertices {
		for _, e := range g.Vertices[vidx].OutEdges {
			g.Vertices[e.Didx].InEdges = append(g.Vertices[e.Didx].InEdges, Edge{Didx: uint32(vidx), Weight: e.Weight})
		}
	}
	log.Trace().Msg("Computed inbound edges.")
}

func (g *Graph) ComputeGraphStats() {
	maxOutDegree := 0
	minOutDegree := 0
	numSinks := 0
	for vidx := range g.Vertices {
		if len(g.Vertices[vidx].OutEdges) == 0 {
			numSinks++
		}
		maxOutDegree = utils.Max(len(g.Vertices[vidx].OutEdges), maxOutDegree)
		if vidx == 0 {
			minOutDegree = len(g.Vertices[vidx].OutEdges)
		}
		minOutDegree = utils.Min(len(g.Vertices[vidx].OutEdges), minOutDegree)
	}
	sinkPct := 0.0
	if len(g.Vertices) > 0 {
		sinkPct = float64(numSinks) * 100.0 / float64(len(g.Vertices))
	}
	log.Info().Msg("----GraphStats----")
	log.Info().Msg("Vertices " + utils.V(len(g.Vertices)) + " Edges " + utils.V(len(g.Edges)) + " Directed " + utils.V(g.Directed))
	log.Info().Msg("Sinks " + utils.V(numSinks) + " pct: " + utils.F("%.3f", sinkPct) + " MinOutDeg " + utils.V(minOutDegree) + " MaxOutDeg " + utils.V(maxOutDegree))
	log.Info().Msg("----EndStats----")
}

func (g *Graph) PrintStructure() {
	for vidx := range g.Vertices {
		el := ""
		for _, e := range g.Vertices[vidx].OutEdges {
			el += g.Vertices[e.Didx].RawId.String() + ", "
		}
		log.Trace().Msg(g.Vertices[vidx].RawId.String() + ": " + el)
	}
}
