package powergraph

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ScottSallinen/lollipop-powergraph/algorithm"
)

const sampleConfig = `
engine {
  home       = env.LP_TEST_POWERGRAPH_HOME
  launcher   = ["mpirun", "-np", "2"]
  timeout    = "90s"
  output_dir = "out"
  env = {
    OMP_NUM_THREADS = "4"
  }
}

job "road-sssp" {
  algorithm     = "sssp"
  vertices      = "data/road.v"
  edges         = "data/road.e"
  directed      = true
  source_vertex = 6
  job_id        = "road-1"
}

job "social-cc" {
  algorithm = "conn"
  vertices  = "data/social.v"
  edges     = "data/social.e"
  output    = "/tmp/social-cc.txt"
}

job "rank" {
  algorithm      = "pagerank"
  vertices       = "data/social.v"
  edges          = "data/social.e"
  damping_factor = 0.9
  max_iterations = 5
}
`

func TestParseConfig(t *testing.T) {
	t.Setenv("LP_TEST_POWERGRAPH_HOME", "/opt/pg")
	file, err := ParseConfig([]byte(sampleConfig), "sample.hcl")
	require.NoError(t, err)

	require.Equal(t, "/opt/pg", file.Engine.Home)
	require.Equal(t, DEFAULT_BINARY, file.Engine.Binary)
	require.Equal(t, "/opt/pg/bin/main", file.Engine.BinaryPath())
	require.Equal(t, []string{"mpirun", "-np", "2"}, file.Engine.Launcher)
	require.Equal(t, 90*time.Second, file.Engine.Timeout)
	require.Equal(t, map[string]string{"OMP_NUM_THREADS": "4"}, file.Engine.Env)
	require.Len(t, file.Jobs, 3)

	sssp, ok := file.Job("road-sssp")
	require.True(t, ok)
	require.Equal(t, algorithm.SingleSourceShortestPaths{SourceVertex: 6}, sssp.Descriptor.Params())
	require.True(t, sssp.Descriptor.Directed())
	require.Equal(t, "road-1", sssp.Descriptor.JobID())
	require.Equal(t, filepath.Join("out", "road-sssp-sssp.txt"), sssp.OutputFile)

	cc, ok := file.Job("social-cc")
	require.True(t, ok)
	require.Equal(t, algorithm.ConnectedComponents{}, cc.Descriptor.Params())
	require.False(t, cc.Descriptor.Directed())
	require.NotEmpty(t, cc.Descriptor.JobID())
	require.Equal(t, "/tmp/social-cc.txt", cc.OutputFile)

	rank, ok := file.Job("rank")
	require.True(t, ok)
	require.Equal(t, algorithm.PageRank{DampingFactor: 0.9, Iterations: 5}, rank.Descriptor.Params())

	_, ok = file.Job("absent")
	require.False(t, ok)
}

func TestParseConfigDefaults(t *testing.T) {
	file, err := ParseConfig([]byte(`job "x" {
  algorithm = "lcc"
  vertices  = "g.v"
  edges     = "g.e"
}
`), "defaults.hcl")
	require.NoError(t, err)
	require.Equal(t, DefaultConfig().Binary, file.Engine.Binary)
	require.Zero(t, file.Engine.Timeout)
	require.Equal(t, filepath.Join("results", "x-lcc.txt"), file.Jobs[0].OutputFile)
}

func TestParseConfigErrors(t *testing.T) {
	cases := map[string]string{
		"duplicate": `
job "a" {
  algorithm = "wcc"
  vertices  = "v"
  edges     = "e"
}
job "a" {
  algorithm = "lcc"
  vertices  = "v"
  edges     = "e"
}
`,
		"unknown algorithm": `
job "a" {
  algorithm = "triangles"
  vertices  = "v"
  edges     = "e"
}
`,
		"missing source": `
job "a" {
  algorithm = "sssp"
  vertices  = "v"
  edges     = "e"
}
`,
		"bad timeout": `
engine {
  timeout = "soon"
}
`,
		"syntax": `job "a" {`,
		"missing edges": `
job "a" {
  algorithm = "wcc"
  vertices  = "v"
}
`,
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseConfig([]byte(src), name+".hcl")
			require.Error(t, err)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`
engine {
  binary = "/usr/local/bin/pg-driver"
}
job "bfs" {
  algorithm     = "bfs"
  vertices      = "v"
  edges         = "e"
  source_vertex = 1
}
`), 0o644))

	file, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "/usr/local/bin/pg-driver", file.Engine.BinaryPath())
	require.Equal(t, algorithm.BFS, file.Jobs[0].Descriptor.Algorithm())

	_, err = LoadConfig(filepath.Join(t.TempDir(), "absent.hcl"))
	require.Error(t, err)
}
