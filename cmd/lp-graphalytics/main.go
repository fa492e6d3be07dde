// Command lp-graphalytics runs the jobs of a configuration file on PowerGraph, or validates the
// configured engine against the built-in cases.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/ScottSallinen/lollipop-powergraph/algorithm"
	"github.com/ScottSallinen/lollipop-powergraph/output"
	"github.com/ScottSallinen/lollipop-powergraph/powergraph"
	"github.com/ScottSallinen/lollipop-powergraph/utils"
	"github.com/ScottSallinen/lollipop-powergraph/validation"
)

type Options struct {
	ConfigPath string
	JobName    string
	Validate   bool
	Binary     string
	KeepFiles  bool
}

func FlagsToOptions() (options Options) {
	configPtr := flag.String("c", "", "HCL configuration file with an engine block and job blocks.")
	jobPtr := flag.String("job", "", "Only run the job with this name. Empty runs all jobs.")
	validatePtr := flag.Bool("validate", false, "Validate the engine against the built-in cases instead of running jobs.")
	binaryPtr := flag.String("engine", "", "Override the engine binary from the configuration. E.g. the path to lp-powergraph-sim.")
	keepPtr := flag.Bool("keep", false, "Keep the temporary files of validation cases.")
	debugPtr := flag.Int("debug", 0, "Adds extra debug output. Level 0 for info, 1 for debug, 2 for trace.")
	colourPtr := flag.Bool("nc", false, "Removes the colouring from the log output.")
	flag.Parse()

	if *colourPtr {
		utils.SetLoggerConsole(true)
	}
	utils.SetLevel(*debugPtr)

	if *configPtr == "" && !*validatePtr {
		log.Info().Msg("Either a configuration file (-c) or -validate is required.")
		flag.Usage()
		os.Exit(1)
	}
	return Options{
		ConfigPath: *configPtr,
		JobName:    *jobPtr,
		Validate:   *validatePtr,
		Binary:     *binaryPtr,
		KeepFiles:  *keepPtr,
	}
}

// Reads the job output back and logs a short summary of it.
func summarize(spec powergraph.JobSpec) error {
	switch spec.Descriptor.Params().(type) {
	case algorithm.SingleSourceShortestPaths, algorithm.LocalClusteringCoefficient, algorithm.PageRank:
		values, err := output.ReadVertexValues[float64](spec.OutputFile)
		if err != nil {
			return err
		}
		ordered := values.Ordered()
		maxValue := 0.0
		for _, v := range ordered {
			maxValue = utils.Max(maxValue, v)
		}
		log.Info().Msg(spec.Name + ": " + utils.V(len(ordered)) + " vertices, max value " + output.FormatValue(maxValue))
	default:
		values, err := output.ReadVertexValues[int64](spec.OutputFile)
		if err != nil {
			return err
		}
		unique := make(map[int64]bool)
		for _, v := range values {
			unique[v] = true
		}
		log.Info().Msg(spec.Name + ": " + utils.V(len(values)) + " vertices, " + utils.V(len(unique)) + " unique values")
	}
	return nil
}

// Creates the directory the output file goes in. A bare file name resolves to ".".
func makeOutputDir(outputFile string) error {
	return os.MkdirAll(filepath.Dir(outputFile), 0o755)
}

func runJobs(ctx context.Context, file *powergraph.File, only string) int {
	failed := 0
	ran := 0
	for _, spec := range file.Jobs {
		if only != "" && spec.Name != only {
			continue
		}
		ran++
		if err := makeOutputDir(spec.OutputFile); err != nil {
			log.Error().Err(err).Msg("Cannot create output directory for " + spec.Name)
			failed++
			continue
		}
		job := powergraph.NewJob(file.Engine, spec.Descriptor)
		job.SetOutputFile(spec.OutputFile)
		if err := job.Run(ctx); err != nil {
			log.Error().Err(err).Msg("Job " + spec.Name + " failed.")
			failed++
			continue
		}
		if err := summarize(spec); err != nil {
			log.Error().Err(err).Msg("Reading output of " + spec.Name + " failed.")
			failed++
		}
	}
	if only != "" && ran == 0 {
		log.Error().Msg("No job named " + only)
		return 1
	}
	log.Info().Msg("Ran " + utils.V(ran) + " jobs, " + utils.V(failed) + " failed.")
	if failed > 0 {
		return 1
	}
	return 0
}

// Launch point. Parses command line arguments, then runs jobs or the validation suite.
func main() {
	options := FlagsToOptions()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	file := &powergraph.File{Engine: powergraph.DefaultConfig()}
	if options.ConfigPath != "" {
		var err error
		if file, err = powergraph.LoadConfig(options.ConfigPath); err != nil {
			log.Fatal().Err(err).Msg("Cannot load configuration.")
		}
	}
	if options.Binary != "" {
		file.Engine.Binary = options.Binary
	}
	file.Engine.KeepFiles = file.Engine.KeepFiles || options.KeepFiles

	code := 0
	if options.Validate {
		if err := validation.NewHarness(file.Engine).RunSuite(ctx, validation.Suite()); err != nil {
			code = 1
		}
	} else {
		code = runJobs(ctx, file, options.JobName)
	}
	stop()
	os.Exit(code)
}
