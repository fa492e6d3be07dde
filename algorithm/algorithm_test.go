package algorithm

import (
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestSSSPArguments(t *testing.T) {
	for _, src := range []int64{0, 1, 42, 1 << 40, -3} {
		got := Arguments(SingleSourceShortestPaths{SourceVertex: src})
		want := []string{"sssp", "--source-vertex", strconv.FormatInt(src, 10)}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("source %d: arguments mismatch (-want +got):\n%s", src, diff)
		}
	}
}

func TestNameOnlyArguments(t *testing.T) {
	require.Equal(t, []string{"wcc"}, Arguments(ConnectedComponents{}))
	require.Equal(t, []string{"lcc"}, Arguments(LocalClusteringCoefficient{}))
}

func TestParameterisedArguments(t *testing.T) {
	require.Equal(t, []string{"bfs", "--source-vertex", "7"}, Arguments(BreadthFirstSearch{SourceVertex: 7}))
	require.Equal(t, []string{"pr", "--damping-factor", "0.85", "--max-iterations", "20"},
		Arguments(PageRank{DampingFactor: 0.85, Iterations: 20}))
	require.Equal(t, []string{"cdlp", "--max-iterations", "5"}, Arguments(CommunityDetection{MaxIterations: 5}))
}

func TestAppendArgumentsKeepsPrefix(t *testing.T) {
	args := AppendArguments([]string{"mpirun", "main"}, ConnectedComponents{})
	require.Equal(t, []string{"mpirun", "main", "wcc"}, args)
}

func TestAlgorithmNameMatchesFirstToken(t *testing.T) {
	all := []Params{
		SingleSourceShortestPaths{}, BreadthFirstSearch{}, ConnectedComponents{},
		LocalClusteringCoefficient{}, PageRank{}, CommunityDetection{},
	}
	for _, p := range all {
		require.Equal(t, string(p.Algorithm()), Arguments(p)[0])
	}
}

func TestParseName(t *testing.T) {
	for _, n := range Names {
		got, err := ParseName(string(n))
		require.NoError(t, err)
		require.Equal(t, n, got)
	}
	got, err := ParseName("Connected-Components")
	require.NoError(t, err)
	require.Equal(t, WCC, got)

	_, err = ParseName("triangles")
	require.Error(t, err)
}

func TestFromSettings(t *testing.T) {
	src := int64(3)
	p, err := FromSettings(SSSP, Settings{SourceVertex: &src})
	require.NoError(t, err)
	require.Equal(t, SingleSourceShortestPaths{SourceVertex: 3}, p)

	_, err = FromSettings(BFS, Settings{})
	require.Error(t, err)

	p, err = FromSettings(PR, Settings{})
	require.NoError(t, err)
	require.Equal(t, PageRank{DampingFactor: DEFAULT_DAMPING_FACTOR, Iterations: DEFAULT_ITERATIONS}, p)

	iters := 3
	p, err = FromSettings(CDLP, Settings{Iterations: &iters})
	require.NoError(t, err)
	require.Equal(t, CommunityDetection{MaxIterations: 3}, p)

	p, err = FromSettings(WCC, Settings{SourceVertex: &src})
	require.NoError(t, err)
	require.Equal(t, ConnectedComponents{}, p)
}
