package engine

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ScottSallinen/lollipop-powergraph/algorithm"
	"github.com/ScottSallinen/lollipop-powergraph/graph"
	"github.com/ScottSallinen/lollipop-powergraph/output"
	"github.com/ScottSallinen/lollipop-powergraph/utils"
)

func TestParseArgs(t *testing.T) {
	opts, err := ParseArgs([]string{
		"sssp", "--source-vertex", "7",
		"--graph-vertices", "g.v", "--graph-edges", "g.e",
		"--directed=true", "--job-id", "abc", "--output-file", "out.txt",
	}, io.Discard)
	require.NoError(t, err)
	require.Equal(t, Options{
		Params:       algorithm.SingleSourceShortestPaths{SourceVertex: 7},
		VerticesPath: "g.v",
		EdgesPath:    "g.e",
		Directed:     true,
		JobID:        "abc",
		OutputFile:   "out.txt",
	}, opts)

	opts, err = ParseArgs([]string{"pr", "--damping-factor", "0.5", "--graph-edges", "g.e"}, io.Discard)
	require.NoError(t, err)
	require.Equal(t, algorithm.PageRank{DampingFactor: 0.5, Iterations: algorithm.DEFAULT_ITERATIONS}, opts.Params)
	require.False(t, opts.Directed)
}

func TestParseArgsMatchesArguments(t *testing.T) {
	params := []algorithm.Params{
		algorithm.SingleSourceShortestPaths{SourceVertex: -2},
		algorithm.BreadthFirstSearch{SourceVertex: 1 << 40},
		algorithm.ConnectedComponents{},
		algorithm.LocalClusteringCoefficient{},
		algorithm.PageRank{DampingFactor: 0.9, Iterations: 3},
		algorithm.CommunityDetection{MaxIterations: 4},
	}
	for _, p := range params {
		args := append(algorithm.Arguments(p), "--graph-edges", "g.e")
		opts, err := ParseArgs(args, io.Discard)
		require.NoError(t, err)
		require.Equal(t, p, opts.Params)
	}
}

func TestParseArgsErrors(t *testing.T) {
	cases := [][]string{
		{},
		{"tc", "--graph-edges", "g.e"},
		{"wcc"},
		{"sssp", "--graph-edges", "g.e"},
		{"wcc", "--graph-edges", "g.e", "--bogus"},
		{"wcc", "--graph-edges", "g.e", "extra"},
		{"bfs", "--source-vertex", "one", "--graph-edges", "g.e"},
	}
	for _, args := range cases {
		_, err := ParseArgs(args, io.Discard)
		require.Error(t, err, "args %v", args)
		require.True(t, errors.Is(err, ErrUsage))
	}
}

func TestMainWritesOutput(t *testing.T) {
	g := graph.NewGraph(false, false)
	g.AddEdge(1, 2, graph.DEFAULT_WEIGHT)
	g.AddEdge(3, 4, graph.DEFAULT_WEIGHT)
	g.AddVertex(5)
	files, err := graph.WriteTemp(t.TempDir(), "engine-", g)
	require.NoError(t, err)
	defer files.Remove()

	out := files.Path("out.txt")
	code := Main([]string{"wcc", "--graph-vertices", files.Vertices, "--graph-edges", files.Edges, "--directed=false", "--job-id", "t", "--output-file", out})
	require.Equal(t, EXIT_OK, code)

	content, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Equal(t, "1 1\n2 1\n3 3\n4 3\n5 5\n", string(content))

	values, err := output.ReadVertexValues[int64](out)
	require.NoError(t, err)
	require.Equal(t, []int64{1, 1, 3, 3, 5}, values.Ordered())
}

func TestRunAtTraceLevel(t *testing.T) {
	utils.SetLevel(2)
	defer utils.SetLevel(0)

	dir := t.TempDir()
	edges := filepath.Join(dir, "g.e")
	require.NoError(t, os.WriteFile(edges, []byte("1 2\n2 3\n"), 0o644))
	out := filepath.Join(dir, "out.txt")
	require.NoError(t, Run(Options{Params: algorithm.BreadthFirstSearch{SourceVertex: 1}, EdgesPath: edges, Directed: true, JobID: "trace", OutputFile: out}))

	values, err := output.ReadVertexValues[int64](out)
	require.NoError(t, err)
	require.Equal(t, []int64{0, 1, 2}, values.Ordered())
}

func TestMainWithoutOutputFile(t *testing.T) {
	dir := t.TempDir()
	edges := filepath.Join(dir, "g.e")
	require.NoError(t, os.WriteFile(edges, []byte("1 2\n"), 0o644))
	require.Equal(t, EXIT_OK, Main([]string{"lcc", "--graph-edges", edges}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestMainExitCodes(t *testing.T) {
	require.Equal(t, EXIT_USAGE, Main([]string{"unknown"}))
	require.Equal(t, EXIT_OK, Main([]string{"wcc", "-h"}))

	dir := t.TempDir()
	require.Equal(t, EXIT_ERROR, Main([]string{"wcc", "--graph-edges", filepath.Join(dir, "absent.e")}))

	bad := filepath.Join(dir, "bad.e")
	require.NoError(t, os.WriteFile(bad, []byte("1 2\n1 x\n"), 0o644))
	require.Equal(t, EXIT_ERROR, Main([]string{"wcc", "--graph-edges", bad}))
}
