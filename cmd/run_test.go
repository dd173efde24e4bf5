package cmd

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greensort/greensort/bench"
	"github.com/greensort/greensort/bench/host"
	"github.com/greensort/greensort/bench/report"
)

// newRunFlags binds the run flags to a fresh FlagSet, resetting every flag
// variable to its default, then parses args.
func newRunFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("run", pflag.ContinueOnError)
	registerRunFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func quietLogger() *logrus.Logger {
	log, _ := test.NewNullLogger()
	return log
}

func TestResolveRunOptions_Defaults(t *testing.T) {
	opts, err := resolveRunOptions(newRunFlags(t))
	require.NoError(t, err)

	assert.Equal(t, DefaultConfig(), opts.cfg)
	assert.Empty(t, opts.algorithms, "all algorithms")
	assert.Equal(t, []bench.Mode{bench.InPlace}, opts.modes)
	assert.Equal(t, "identity", opts.keyName)
	assert.Equal(t, -1, opts.pinCPU)
}

func TestResolveRunOptions_FlagsOverrideConfigOnlyWhenSet(t *testing.T) {
	// GIVEN a config file setting n, seed and the output format
	path := writeConfig(t, "input:\n  n: 500\n  seed: 9\noutput:\n  format: json\n")

	// WHEN only --seed is passed on the command line
	opts, err := resolveRunOptions(newRunFlags(t, "--config", path, "--seed", "7"))

	// THEN the flag wins for seed and the file wins everywhere else
	require.NoError(t, err)
	assert.Equal(t, 500, opts.cfg.Input.N)
	assert.Equal(t, int64(7), opts.cfg.Input.Seed)
	assert.Equal(t, report.FormatJSON, opts.cfg.Output.Format)
}

func TestResolveRunOptions_DistFlagDropsConfigParams(t *testing.T) {
	path := writeConfig(t, "input:\n  distribution: few-unique\n  params:\n    distinct: 3\n")

	opts, err := resolveRunOptions(newRunFlags(t, "--config", path, "--dist", "normal"))

	require.NoError(t, err)
	assert.Equal(t, "normal", opts.cfg.Input.Distribution)
	assert.Nil(t, opts.cfg.Input.Params)
}

func TestResolveRunOptions_AlgorithmsAndModes(t *testing.T) {
	opts, err := resolveRunOptions(newRunFlags(t, "--algo", " pdqsort, timsort,,", "--mode", "both", "--key", "floor"))

	require.NoError(t, err)
	assert.Equal(t, []string{"pdqsort", "timsort"}, opts.algorithms)
	assert.Equal(t, bench.Modes, opts.modes)
	assert.Equal(t, "floor", opts.keyName)
}

func TestResolveRunOptions_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown mode", []string{"--mode", "sideways"}},
		{"unknown key", []string{"--key", "reverse"}},
		{"empty algo list", []string{"--algo", " , "}},
		{"negative n", []string{"--n", "-1"}},
		{"unknown format", []string{"--format", "xml"}},
		{"unknown energy", []string{"--energy", "ipmi"}},
		{"negative scratch", []string{"--max-scratch-bytes", "-5"}},
		{"negative workers", []string{"--workers", "-2"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := resolveRunOptions(newRunFlags(t, tc.args...))
			assert.Error(t, err)
		})
	}
}

func smallRun(t *testing.T, args ...string) runOptions {
	t.Helper()
	base := []string{"--n", "64", "--energy", "none", "--seed", "3"}
	opts, err := resolveRunOptions(newRunFlags(t, append(base, args...)...))
	require.NoError(t, err)
	return opts
}

func TestRunBenchmarks_JSONDocument(t *testing.T) {
	// GIVEN two algorithms in both modes with energy measurement disabled
	opts := smallRun(t, "--algo", "pdqsort,skasort", "--mode", "both", "--format", "json")
	var out bytes.Buffer

	// WHEN the runs execute
	require.NoError(t, runBenchmarks(opts, &out, quietLogger()))

	// THEN one record per algorithm and mode follows the header, in selection order
	var doc report.Document
	require.NoError(t, json.Unmarshal(out.Bytes(), &doc))
	assert.Equal(t, "none", doc.Header.EnergySource)
	assert.Equal(t, "uniform", doc.Header.Distribution)
	assert.Equal(t, 64, doc.Header.Input.N)
	assert.NotEmpty(t, doc.Header.RunID)

	require.Len(t, doc.Records, 4)
	wantAlgo := []string{"pdqsort", "pdqsort", "skasort", "skasort"}
	wantFlag := []int{1, 2, 1, 2}
	for i, r := range doc.Records {
		assert.Equal(t, wantAlgo[i], r.Algorithm)
		assert.Equal(t, wantFlag[i], r.ModeFlag)
		assert.Equal(t, 64, r.N)
		assert.Equal(t, 8, r.ElementWidthBytes)
		assert.Equal(t, 1, r.StrideElements)
		assert.GreaterOrEqual(t, r.ElapsedSeconds, 0.0)
		assert.Zero(t, r.EnergyBase+r.EnergyCore+r.EnergyUnco+r.EnergyDram)
	}
	assert.Equal(t, 1.0, doc.Records[0].CostMultiplier)
	assert.Equal(t, 2.0, doc.Records[2].CostMultiplier)
}

func TestRunBenchmarks_VectorEveryAlgorithm(t *testing.T) {
	// GIVEN every registered algorithm with the floor key
	opts := smallRun(t, "--format", "vector", "--key", "floor")
	var out bytes.Buffer

	// WHEN the runs execute
	require.NoError(t, runBenchmarks(opts, &out, quietLogger()))

	// THEN the CSV holds a column header plus one row per algorithm
	rows, err := csv.NewReader(&out).ReadAll()
	require.NoError(t, err)
	table, err := bench.DefaultTable(bench.DefaultTuning())
	require.NoError(t, err)
	require.Len(t, rows, table.Len()+1)
	assert.Equal(t, "algorithm", rows[0][0])
	for i, id := range table.IDs() {
		assert.Equal(t, id, rows[i+1][0])
		assert.Equal(t, "in-place", rows[i+1][1])
		assert.Equal(t, "64", rows[i+1][2])
	}
}

func TestRunBenchmarks_UnknownAlgorithmStopsBeforeOutput(t *testing.T) {
	opts := smallRun(t, "--algo", "pdqsort,bogosort")
	var out bytes.Buffer

	err := runBenchmarks(opts, &out, quietLogger())

	assert.ErrorIs(t, err, bench.ErrUnknownAlgorithm)
	assert.Zero(t, out.Len())
}

func TestRunBenchmarks_EmptyInputSkipsLearnsort(t *testing.T) {
	// GIVEN an empty input and a strategy that rejects it
	opts := smallRun(t, "--n", "0", "--algo", "learnsort,timsort", "--format", "json")
	log, hook := test.NewNullLogger()
	var out bytes.Buffer

	// WHEN the runs execute
	require.NoError(t, runBenchmarks(opts, &out, log))

	// THEN learnsort is skipped with a warning and timsort still reports
	var doc report.Document
	require.NoError(t, json.Unmarshal(out.Bytes(), &doc))
	require.Len(t, doc.Records, 1)
	assert.Equal(t, "timsort", doc.Records[0].Algorithm)
	assert.Equal(t, 0, doc.Records[0].N)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Contains(t, hook.LastEntry().Message, "learnsort")
}

func TestRunBenchmarks_ScratchLimitFailsOutOfPlace(t *testing.T) {
	// GIVEN a scratch limit smaller than the input
	opts := smallRun(t, "--algo", "pdqsort", "--mode", "both", "--max-scratch-bytes", "8", "--format", "vector")
	var out bytes.Buffer

	// WHEN the runs execute
	err := runBenchmarks(opts, &out, quietLogger())

	// THEN the in-place record is written and the out-of-place failure is reported
	require.Error(t, err)
	rows, csvErr := csv.NewReader(&out).ReadAll()
	require.NoError(t, csvErr)
	require.Len(t, rows, 2)
	assert.Equal(t, "in-place", rows[1][1])
}

func TestListCommand_JSON(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"list", "--format", "json", "--n", "100"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())

	var entries []map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &entries))
	require.Len(t, entries, 13)
	byID := make(map[string]map[string]any, len(entries))
	for _, e := range entries {
		byID[e["id"].(string)] = e
	}
	require.Contains(t, byID, "ips4o")
	assert.InDelta(t, 1.1, byID["ips4o"]["cost_multiplier"], 1e-12)
	assert.Equal(t, 1.5, byID["timsort"]["cost_multiplier"])
}

func TestListCommand_Text(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"list", "--format", "text"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())

	text := out.String()
	for _, id := range []string{"pdqsort", "pdqsort-branchless", "learnsort"} {
		assert.True(t, strings.Contains(text, id), "missing %s", id)
	}
}

func TestRunBenchmarks_DescendingKeyEveryAlgorithm(t *testing.T) {
	// GIVEN every registered algorithm under the descending ordering
	opts := smallRun(t, "--key", "descending", "--mode", "both", "--format", "vector")
	var out bytes.Buffer

	// WHEN the runs execute
	err := runBenchmarks(opts, &out, quietLogger())

	// THEN no strategy fails and every algorithm reports both modes
	require.NoError(t, err)
	rows, err := csv.NewReader(&out).ReadAll()
	require.NoError(t, err)
	table, err := bench.DefaultTable(bench.DefaultTuning())
	require.NoError(t, err)
	assert.Len(t, rows, 2*table.Len()+1)
}

func TestRunBenchmarks_ParallelStrategiesAreNotPinned(t *testing.T) {
	// GIVEN a pinned run mixing a parallel and a sequential strategy
	var pinned []int
	pinThread = func(cpu int) (func(), error) {
		pinned = append(pinned, cpu)
		return func() {}, nil
	}
	t.Cleanup(func() { pinThread = host.Pin })
	opts := smallRun(t, "--algo", "ips4o,pdqsort", "--pin-cpu", "0", "--format", "vector")
	log, hook := test.NewNullLogger()
	var out bytes.Buffer

	// WHEN the runs execute
	require.NoError(t, runBenchmarks(opts, &out, log))

	// THEN only the sequential strategy is pinned and the skip is logged
	assert.Equal(t, []int{-1, 0}, pinned)
	require.NotEmpty(t, hook.AllEntries())
	assert.Equal(t, logrus.WarnLevel, hook.AllEntries()[0].Level)
	assert.Contains(t, hook.AllEntries()[0].Message, "ips4o")
}
