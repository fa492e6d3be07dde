package powergraph

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/rs/zerolog/log"
	"github.com/zclconf/go-cty/cty"

	"github.com/ScottSallinen/lollipop-powergraph/algorithm"
)

const DEFAULT_BINARY = "bin/main"

// Config holds the invocation settings shared by every job.
type Config struct {
	Home      string            // PowerGraph install directory. Relative binary paths resolve against it.
	Binary    string            // Driver executable.
	Launcher  []string          // Command prefix, e.g. ["mpirun", "-np", "4"]. Empty runs the binary directly.
	Timeout   time.Duration     // Zero means no timeout.
	WorkDir   string            // Working directory of the engine process. Empty inherits ours.
	OutputDir string            // Where configured jobs write their results.
	KeepFiles bool              // If true, validation runs keep their temp directories.
	Env       map[string]string // Extra environment for the engine process.
}

func DefaultConfig() Config {
	return Config{Binary: DEFAULT_BINARY, OutputDir: "results"}
}

func (c Config) BinaryPath() string {
	if c.Home == "" || filepath.IsAbs(c.Binary) {
		return c.Binary
	}
	return filepath.Join(c.Home, c.Binary)
}

// A job declared in the configuration file.
type JobSpec struct {
	Name       string
	Descriptor Descriptor
	OutputFile string
}

// Everything a configuration file declares.
type File struct {
	Engine Config
	Jobs   []JobSpec
}

func (f *File) Job(name string) (JobSpec, bool) {
	for _, j := range f.Jobs {
		if j.Name == name {
			return j, true
		}
	}
	return JobSpec{}, false
}

type hclFile struct {
	Engine *hclEngine `hcl:"engine,block"`
	Jobs   []*hclJob  `hcl:"job,block"`
}

type hclEngine struct {
	Home      string            `hcl:"home,optional"`
	Binary    string            `hcl:"binary,optional"`
	Launcher  []string          `hcl:"launcher,optional"`
	Timeout   string            `hcl:"timeout,optional"`
	WorkDir   string            `hcl:"work_dir,optional"`
	OutputDir string            `hcl:"output_dir,optional"`
	KeepFiles bool              `hcl:"keep_files,optional"`
	Env       map[string]string `hcl:"env,optional"`
}

type hclJob struct {
	Name          string   `hcl:"name,label"`
	Algorithm     string   `hcl:"algorithm"`
	Vertices      string   `hcl:"vertices"`
	Edges         string   `hcl:"edges"`
	Directed      bool     `hcl:"directed,optional"`
	SourceVertex  *int64   `hcl:"source_vertex,optional"`
	DampingFactor *float64 `hcl:"damping_factor,optional"`
	MaxIterations *int     `hcl:"max_iterations,optional"`
	JobID         string   `hcl:"job_id,optional"`
	Output        string   `hcl:"output,optional"`
}

// Expressions may refer to the process environment as env.NAME.
func evalContext() *hcl.EvalContext {
	vars := make(map[string]cty.Value)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok && hclsyntax.ValidIdentifier(k) {
			vars[k] = cty.StringVal(v)
		}
	}
	env := cty.EmptyObjectVal
	if len(vars) > 0 {
		env = cty.ObjectVal(vars)
	}
	return &hcl.EvalContext{Variables: map[string]cty.Value{"env": env}}
}

// LoadConfig parses and decodes an HCL configuration file.
func LoadConfig(path string) (*File, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, diags)
	}
	return decodeConfig(path, file.Body)
}

// ParseConfig is LoadConfig for in-memory content; filename is used in diagnostics only.
func ParseConfig(src []byte, filename string) (*File, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse config file %s: %w", filename, diags)
	}
	return decodeConfig(filename, file.Body)
}

func decodeConfig(path string, body hcl.Body) (*File, error) {
	var parsed hclFile
	if diags := gohcl.DecodeBody(body, evalContext(), &parsed); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, diags)
	}

	out := &File{Engine: DefaultConfig()}
	if e := parsed.Engine; e != nil {
		out.Engine.Home = e.Home
		if e.Binary != "" {
			out.Engine.Binary = e.Binary
		}
		out.Engine.Launcher = e.Launcher
		out.Engine.WorkDir = e.WorkDir
		if e.OutputDir != "" {
			out.Engine.OutputDir = e.OutputDir
		}
		out.Engine.KeepFiles = e.KeepFiles
		out.Engine.Env = e.Env
		if e.Timeout != "" {
			timeout, err := time.ParseDuration(e.Timeout)
			if err != nil {
				return nil, fmt.Errorf("config file %s: engine timeout: %w", path, err)
			}
			out.Engine.Timeout = timeout
		}
	}

	seen := make(map[string]bool)
	for _, j := range parsed.Jobs {
		if seen[j.Name] {
			return nil, fmt.Errorf("config file %s: duplicate job %q", path, j.Name)
		}
		seen[j.Name] = true

		name, err := algorithm.ParseName(j.Algorithm)
		if err != nil {
			return nil, fmt.Errorf("config file %s: job %q: %w", path, j.Name, err)
		}
		params, err := algorithm.FromSettings(name, algorithm.Settings{
			SourceVertex:  j.SourceVertex,
			DampingFactor: j.DampingFactor,
			Iterations:    j.MaxIterations,
		})
		if err != nil {
			return nil, fmt.Errorf("config file %s: job %q: %w", path, j.Name, err)
		}
		outputFile := j.Output
		if outputFile == "" {
			outputFile = filepath.Join(out.Engine.OutputDir, j.Name+"-"+string(name)+".txt")
		}
		out.Jobs = append(out.Jobs, JobSpec{
			Name:       j.Name,
			Descriptor: NewDescriptor(j.Vertices, j.Edges, j.Directed, params, j.JobID),
			OutputFile: outputFile,
		})
	}
	log.Debug().Str("path", path).Int("jobs", len(out.Jobs)).Msg("Loaded config")
	return out, nil
}
