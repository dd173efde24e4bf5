package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/greensort/greensort/bench"
	"github.com/greensort/greensort/bench/energy"
	"github.com/greensort/greensort/bench/host"
	"github.com/greensort/greensort/bench/input"
	"github.com/greensort/greensort/bench/report"
	"github.com/greensort/greensort/bench/sorts"
)

var (
	// Run selection
	algorithms string // Comma-separated algorithm IDs, or "all"
	modeName   string // in-place, out-of-place or both
	keyName    string // Ordering applied by every strategy

	// Input
	numElements  int    // Sequence length
	distribution string // Generator distribution
	seed         int64  // Generator seed
	inputFile    string // Number-list file replacing the generator

	// Output
	outputFormat string // Record format
	outputPath   string // Output file; empty = stdout

	// Measurement
	energySource    string // auto, rapl or none
	raplRoot        string // sysfs mount point
	pinCPU          int    // CPU to pin the measuring thread to; -1 = no affinity
	noGC            bool   // Disable the garbage collector during each run
	maxScratchBytes int64  // Out-of-place scratch limit; 0 = unlimited
	workers         int    // ips4o worker bound; 0 = GOMAXPROCS
	configPath      string // YAML config file
)

// runCmd measures the selected algorithms using parameters from config and CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Sort a generated sequence and report one record per algorithm and mode",
	Run: func(cmd *cobra.Command, args []string) {
		opts, err := resolveRunOptions(cmd.Flags())
		if err != nil {
			logrus.Fatalf("%v", err)
		}

		out := cmd.OutOrStdout()
		if opts.cfg.Output.Path != "" {
			f, err := os.Create(opts.cfg.Output.Path)
			if err != nil {
				logrus.Fatalf("Failed to create output file: %v", err)
			}
			defer f.Close()
			out = f
		}

		if err := runBenchmarks(opts, out, logrus.StandardLogger()); err != nil {
			logrus.Fatalf("%v", err)
		}
	},
}

func registerRunFlags(fs *pflag.FlagSet) {
	def := DefaultConfig()

	fs.StringVar(&algorithms, "algo", "all", "Comma-separated algorithm IDs, or \"all\" (see `greensort list`)")
	fs.StringVar(&modeName, "mode", "in-place", "Execution mode: in-place, out-of-place or both")
	fs.StringVar(&keyName, "key", "identity", "Ordering: identity, floor or descending")

	fs.IntVar(&numElements, "n", def.Input.N, "Number of elements to sort")
	fs.StringVar(&distribution, "dist", def.Input.Distribution, "Input distribution: "+strings.Join(input.DistributionNames(), ", "))
	fs.Int64Var(&seed, "seed", def.Input.Seed, "Seed for input generation")
	fs.StringVar(&inputFile, "input-file", "", "Read the sequence from a number-list file instead of generating it")

	fs.StringVar(&outputFormat, "format", def.Output.Format, "Record format: "+strings.Join(report.FormatNames(), ", "))
	fs.StringVar(&outputPath, "output", "", "Write records to this file instead of stdout")

	fs.StringVar(&energySource, "energy", def.Energy.Source, "Energy source: auto, rapl or none")
	fs.StringVar(&raplRoot, "rapl-root", def.Energy.Root, "sysfs mount point holding class/powercap")
	fs.IntVar(&pinCPU, "pin-cpu", -1, "Pin the measuring thread to this CPU (-1 = no affinity); parallel strategies are never pinned")
	fs.BoolVar(&noGC, "no-gc", false, "Disable the garbage collector during each measured run")
	fs.Int64Var(&maxScratchBytes, "max-scratch-bytes", 0, "Fail out-of-place runs needing more scratch memory (0 = unlimited)")
	fs.IntVar(&workers, "workers", def.Tuning.Workers, "Worker bound for parallel strategies (0 = GOMAXPROCS)")
	fs.StringVar(&configPath, "config", "", "YAML config file with tuning, energy, input and output sections")
}

// runOptions is the fully resolved run configuration.
type runOptions struct {
	cfg             Config
	algorithms      []string // empty = every registered algorithm
	modes           []bench.Mode
	keyName         string
	pinCPU          int
	noGC            bool
	maxScratchBytes int64
}

// resolveRunOptions loads the config file and applies the flags the user set.
// Flag defaults never override config values: only Changed() flags are applied.
func resolveRunOptions(fs *pflag.FlagSet) (runOptions, error) {
	cfg := DefaultConfig()
	if configPath != "" {
		var err error
		if cfg, err = LoadConfig(configPath); err != nil {
			return runOptions{}, err
		}
	}

	if fs.Changed("n") {
		cfg.Input.N = numElements
	}
	if fs.Changed("dist") {
		cfg.Input.Distribution = distribution
		cfg.Input.Params = nil
	}
	if fs.Changed("seed") {
		cfg.Input.Seed = seed
	}
	if fs.Changed("input-file") {
		cfg.Input.File = inputFile
	}
	if fs.Changed("format") {
		cfg.Output.Format = outputFormat
	}
	if fs.Changed("output") {
		cfg.Output.Path = outputPath
	}
	if fs.Changed("energy") {
		cfg.Energy.Source = energySource
	}
	if fs.Changed("rapl-root") {
		cfg.Energy.Root = raplRoot
	}
	if fs.Changed("workers") {
		cfg.Tuning.Workers = workers
	}
	if err := cfg.Validate(); err != nil {
		return runOptions{}, err
	}

	opts := runOptions{
		cfg:             cfg,
		keyName:         keyName,
		pinCPU:          pinCPU,
		noGC:            noGC,
		maxScratchBytes: maxScratchBytes,
	}
	if !sorts.IsValidKey(keyName) {
		return runOptions{}, fmt.Errorf("unknown key %q; valid: identity, floor, descending", keyName)
	}
	if maxScratchBytes < 0 {
		return runOptions{}, fmt.Errorf("max-scratch-bytes must be >= 0, got %d", maxScratchBytes)
	}

	if strings.TrimSpace(modeName) == "both" {
		opts.modes = bench.Modes
	} else {
		m, err := bench.ParseMode(modeName)
		if err != nil {
			return runOptions{}, err
		}
		opts.modes = []bench.Mode{m}
	}

	if strings.TrimSpace(algorithms) != "all" {
		for _, id := range strings.Split(algorithms, ",") {
			if id = strings.TrimSpace(id); id != "" {
				opts.algorithms = append(opts.algorithms, id)
			}
		}
		if len(opts.algorithms) == 0 {
			return runOptions{}, fmt.Errorf("no algorithm selected")
		}
	}
	return opts, nil
}

// pinThread is host.Pin, replaceable in tests.
var pinThread = host.Pin

// runBenchmarks generates the input once and runs every selected algorithm and
// mode on a fresh copy of it, writing one record per run.
func runBenchmarks(opts runOptions, out io.Writer, log logrus.FieldLogger) error {
	table, err := bench.DefaultTable(opts.cfg.Tuning)
	if err != nil {
		return err
	}
	ids := opts.algorithms
	if len(ids) == 0 {
		ids = table.IDs()
	}
	for _, id := range ids {
		if _, err := table.Lookup(id); err != nil {
			return err
		}
	}

	probe, err := energy.New(opts.cfg.Energy, log)
	if err != nil {
		return err
	}
	data, err := opts.cfg.Input.Generate()
	if err != nil {
		return fmt.Errorf("generating input: %w", err)
	}
	summary := input.Summarize(data)
	log.Debugf("input: n=%d min=%g max=%g mean=%g stddev=%g", summary.N, summary.Min, summary.Max, summary.Mean, summary.StdDev)

	w, err := report.New(opts.cfg.Output.Format, out)
	if err != nil {
		return err
	}
	header := report.Header{
		RunID:        report.NewRunID(),
		Started:      time.Now(),
		Host:         host.Describe(),
		EnergySource: energy.SourceName(probe),
		Input:        summary,
		Seed:         opts.cfg.Input.Seed,
	}
	if opts.cfg.Input.File == "" {
		header.Distribution = opts.cfg.Input.Distribution
	}
	if err := w.WriteHeader(header); err != nil {
		return err
	}

	h := bench.NewHarness(table,
		bench.WithEnergyProbe(probe),
		bench.WithAllocator(bench.HeapAllocator{MaxBytes: opts.maxScratchBytes}),
		bench.WithLogger(log),
	)
	key := sorts.Keys[opts.keyName]
	buf := make([]float64, len(data))
	failed := 0
	for _, id := range ids {
		entry, _ := table.Lookup(id)
		if len(data) == 0 && !entry.Descriptor.AcceptsEmpty {
			log.Warnf("skipping %s: empty input not supported", id)
			continue
		}
		cpu := opts.pinCPU
		if cpu >= 0 && entry.Descriptor.Parallel {
			// Threads spawned from a pinned thread inherit its single-CPU mask.
			log.Warnf("not pinning %s to cpu %d: strategy runs on several threads", id, cpu)
			cpu = -1
		}
		n, err := measureModes(h, w, id, opts, key, data, buf, cpu, log)
		if err != nil {
			return err
		}
		failed += n
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d run(s) failed", failed)
	}
	return nil
}

// measureModes runs one algorithm in every selected mode on fresh copies of data,
// with the calling thread pinned to cpu for the duration. It returns the number of
// failed runs; only pinning and write errors abort.
func measureModes(h *bench.Harness, w report.Writer, id string, opts runOptions, key bench.KeyFunc,
	data, buf []float64, cpu int, log logrus.FieldLogger) (int, error) {
	release, err := pinThread(cpu)
	if err != nil {
		return 0, err
	}
	defer release()

	failed := 0
	for _, mode := range opts.modes {
		copy(buf, data)
		restore := host.Quiesce(opts.noGC)
		rec, err := h.Run(id, mode, buf, bench.WithKey(key))
		restore()
		if err != nil {
			log.Errorf("%s (%s): %v", id, mode, err)
			failed++
			continue
		}
		if err := w.WriteRecord(rec); err != nil {
			return failed, err
		}
	}
	return failed, nil
}
