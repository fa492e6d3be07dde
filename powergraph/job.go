// Package powergraph runs Graphalytics jobs on the PowerGraph driver executable.
package powergraph

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ScottSallinen/lollipop-powergraph/algorithm"
	"github.com/ScottSallinen/lollipop-powergraph/utils"
)

// Descriptor identifies one job: the graph, its directedness, the algorithm parameters, and a job id.
// It is immutable once constructed.
type Descriptor struct {
	verticesPath string
	edgesPath    string
	directed     bool
	params       algorithm.Params
	jobID        string
}

// An empty jobID is replaced by a fresh random id.
func NewDescriptor(verticesPath string, edgesPath string, directed bool, params algorithm.Params, jobID string) Descriptor {
	if jobID == "" {
		jobID = uuid.New().String()
	}
	return Descriptor{
		verticesPath: verticesPath,
		edgesPath:    edgesPath,
		directed:     directed,
		params:       params,
		jobID:        jobID,
	}
}

func (d Descriptor) VerticesPath() string      { return d.verticesPath }
func (d Descriptor) EdgesPath() string         { return d.edgesPath }
func (d Descriptor) Directed() bool            { return d.directed }
func (d Descriptor) Params() algorithm.Params  { return d.params }
func (d Descriptor) JobID() string             { return d.jobID }
func (d Descriptor) Algorithm() algorithm.Name { return d.params.Algorithm() }

// Job couples a descriptor with the invocation settings, and runs it.
type Job struct {
	config     Config
	desc       Descriptor
	outputFile string
}

func NewJob(config Config, desc Descriptor) *Job {
	return &Job{config: config, desc: desc}
}

func (j *Job) Descriptor() Descriptor { return j.desc }
func (j *Job) Config() Config         { return j.config }
func (j *Job) OutputFile() string     { return j.outputFile }

// Without an output file the engine computes but writes no results.
func (j *Job) SetOutputFile(path string) {
	j.outputFile = path
}

// Arguments returns the driver arguments: the algorithm tokens first, then the base parameters.
func (j *Job) Arguments() []string {
	args := algorithm.Arguments(j.desc.params)
	args = append(args,
		"--graph-vertices", j.desc.verticesPath,
		"--graph-edges", j.desc.edgesPath,
		"--directed="+strconv.FormatBool(j.desc.directed),
		"--job-id", j.desc.jobID,
	)
	if j.outputFile != "" {
		args = append(args, "--output-file", j.outputFile)
	}
	return args
}

// Command returns the executable and its full argument list, launcher included.
func (j *Job) Command() (name string, args []string) {
	full := append([]string{}, j.config.Launcher...)
	full = append(full, j.config.BinaryPath())
	full = append(full, j.Arguments()...)
	return full[0], full[1:]
}

func (j *Job) environ() []string {
	env := os.Environ()
	keys := make([]string, 0, len(j.config.Env))
	for k := range j.config.Env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		env = append(env, k+"="+j.config.Env[k])
	}
	return env
}

// Run executes the job and blocks until the engine exits. A failed engine process is returned
// as is (wrapping *exec.ExitError); there is no retry.
func (j *Job) Run(ctx context.Context) error {
	if j.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.config.Timeout)
		defer cancel()
	}

	logger := log.With().Str("job", j.desc.jobID).Str("algorithm", string(j.desc.Algorithm())).Logger()
	name, args := j.Command()
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = j.environ()
	cmd.Dir = j.config.WorkDir
	stdout := &utils.LineLogger{Logger: logger, Stream: "stdout", Level: zerolog.DebugLevel}
	stderr := &utils.LineLogger{Logger: logger, Stream: "stderr", Level: zerolog.InfoLevel}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	logger.Info().Msg("Launching: " + name + " " + strings.Join(args, " "))
	watch := utils.Watch{}
	watch.Start()
	err := cmd.Run()
	stdout.Flush()
	stderr.Flush()

	if err != nil {
		logger.Error().Err(err).Msg("Job failed after (ms) " + utils.V(watch.Elapsed().Milliseconds()))
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("powergraph job %s interrupted: %w: %w", j.desc.jobID, ctxErr, err)
		}
		return fmt.Errorf("powergraph job %s failed: %w", j.desc.jobID, err)
	}
	logger.Info().Msg("Job finished in (ms) " + utils.V(watch.Elapsed().Milliseconds()))
	return nil
}
