// Package benchmarks provides timing benchmark infrastructure for the LS-8
// timing core.
package benchmarks

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sarchlab/ls8/asm"
	"github.com/sarchlab/ls8/emu"
	"github.com/sarchlab/ls8/timing/core"
	"github.com/sarchlab/ls8/timing/latency"
)

// BenchmarkResult holds the timing results for a single benchmark run.
type BenchmarkResult struct {
	// Name identifies the benchmark
	Name string `json:"name"`

	// Description explains what the benchmark measures
	Description string `json:"description"`

	// SimulatedCycles is the total cycle count from the timing core
	SimulatedCycles uint64 `json:"simulated_cycles"`

	// InstructionsRetired is the number of completed instructions
	InstructionsRetired uint64 `json:"instructions_retired"`

	// CPI is cycles per instruction
	CPI float64 `json:"cpi"`

	// FetchCycles is the part of SimulatedCycles spent in the I-cache
	FetchCycles uint64 `json:"fetch_cycles"`

	// StackCycles is the part of SimulatedCycles spent in the D-cache
	StackCycles uint64 `json:"stack_cycles"`

	// Branches is the number of CALL and RET instructions retired
	Branches uint64 `json:"branches"`

	ICacheHits   uint64 `json:"icache_hits"`
	ICacheMisses uint64 `json:"icache_misses"`
	DCacheHits   uint64 `json:"dcache_hits"`
	DCacheMisses uint64 `json:"dcache_misses"`

	// Output is what the program printed
	Output string `json:"output"`

	// Passed is true if Output matched the expected output
	Passed bool `json:"passed"`

	// ExitCode is the program's exit code
	ExitCode int64 `json:"exit_code"`

	// Err holds an assembly or emulation error, if any
	Err string `json:"error,omitempty"`

	// WallTime is the actual time taken to run the simulation
	WallTime time.Duration `json:"wall_time_ns"`
}

// Benchmark defines a single benchmark program.
type Benchmark struct {
	// Name identifies the benchmark
	Name string

	// Description explains what the benchmark measures
	Description string

	// Source is the LS-8 assembly source of the program
	Source string

	// ExpectedOutput is what the program must print (for validation)
	ExpectedOutput string
}

// HarnessConfig configures the benchmark harness.
type HarnessConfig struct {
	// Timing holds the latencies used by the core (default if nil)
	Timing *latency.TimingConfig

	// MaxInstructions bounds each run (0 means no limit)
	MaxInstructions uint64

	// Output is where to write results (default: os.Stdout)
	Output io.Writer

	// Verbose enables detailed output
	Verbose bool
}

// DefaultConfig returns a default harness configuration.
func DefaultConfig() HarnessConfig {
	return HarnessConfig{
		Timing:          latency.DefaultTimingConfig(),
		MaxInstructions: 10000,
		Output:          os.Stdout,
		Verbose:         false,
	}
}

// Harness runs timing benchmarks and reports results.
type Harness struct {
	config     HarnessConfig
	benchmarks []Benchmark
}

// NewHarness creates a new benchmark harness.
func NewHarness(config HarnessConfig) *Harness {
	if config.Output == nil {
		config.Output = os.Stdout
	}
	if config.Timing == nil {
		config.Timing = latency.DefaultTimingConfig()
	} else {
		config.Timing = config.Timing.Clone()
	}
	return &Harness{
		config:     config,
		benchmarks: []Benchmark{},
	}
}

// AddBenchmark adds a benchmark to the harness.
func (h *Harness) AddBenchmark(b Benchmark) {
	h.benchmarks = append(h.benchmarks, b)
}

// AddBenchmarks adds multiple benchmarks to the harness.
func (h *Harness) AddBenchmarks(benchmarks []Benchmark) {
	h.benchmarks = append(h.benchmarks, benchmarks...)
}

// RunAll runs all benchmarks and returns results.
func (h *Harness) RunAll() []BenchmarkResult {
	results := make([]BenchmarkResult, 0, len(h.benchmarks))

	for _, bench := range h.benchmarks {
		result := h.runBenchmark(bench)
		if h.config.Verbose {
			_, _ = fmt.Fprintf(h.config.Output, "%s: %d cycles, CPI %.3f\n",
				result.Name, result.SimulatedCycles, result.CPI)
		}
		results = append(results, result)
	}

	return results
}

// runBenchmark assembles and runs a single benchmark on the timing core.
func (h *Harness) runBenchmark(bench Benchmark) BenchmarkResult {
	result := BenchmarkResult{
		Name:        bench.Name,
		Description: bench.Description,
		ExitCode:    -1,
	}

	assembler := &asm.Assembler{}
	prog, err := assembler.Parse(strings.NewReader(bench.Source))
	if err != nil {
		result.Err = err.Error()
		return result
	}

	stdout := &bytes.Buffer{}
	emulator := emu.NewEmulator(
		emu.WithStdout(stdout),
		emu.WithStderr(io.Discard),
		emu.WithMaxInstructions(h.config.MaxInstructions),
	)
	if err := emulator.LoadProgram(prog.Bytes()); err != nil {
		result.Err = err.Error()
		return result
	}

	c := core.NewCore(emulator,
		core.WithLatencyTable(latency.NewTableWithConfig(h.config.Timing)))

	start := time.Now()
	exitCode, err := c.Run()
	wallTime := time.Since(start)

	stats := c.Stats()
	result.SimulatedCycles = stats.Cycles
	result.InstructionsRetired = stats.Instructions
	result.CPI = stats.CPI()
	result.FetchCycles = stats.FetchCycles
	result.StackCycles = stats.DataCycles
	result.Branches = stats.Branches
	result.ICacheHits = stats.ICache.Hits
	result.ICacheMisses = stats.ICache.Misses
	result.DCacheHits = stats.DCache.Hits
	result.DCacheMisses = stats.DCache.Misses
	result.Output = stdout.String()
	result.Passed = err == nil && result.Output == bench.ExpectedOutput
	result.ExitCode = exitCode
	result.WallTime = wallTime
	if err != nil {
		result.Err = err.Error()
	}

	return result
}

// PrintResults prints benchmark results in human-readable format.
func (h *Harness) PrintResults(results []BenchmarkResult) {
	_, _ = fmt.Fprintln(h.config.Output, "=== LS8 Timing Benchmark Results ===")
	_, _ = fmt.Fprintln(h.config.Output, "")

	for _, r := range results {
		_, _ = fmt.Fprintf(h.config.Output, "Benchmark: %s\n", r.Name)
		_, _ = fmt.Fprintf(h.config.Output, "  Description: %s\n", r.Description)
		_, _ = fmt.Fprintf(h.config.Output, "  Exit Code: %d\n", r.ExitCode)
		_, _ = fmt.Fprintf(h.config.Output, "  Passed: %v\n", r.Passed)
		if r.Err != "" {
			_, _ = fmt.Fprintf(h.config.Output, "  Error: %s\n", r.Err)
		}
		_, _ = fmt.Fprintln(h.config.Output, "  --- Timing ---")
		_, _ = fmt.Fprintf(h.config.Output, "  Simulated Cycles:     %d\n", r.SimulatedCycles)
		_, _ = fmt.Fprintf(h.config.Output, "  Instructions Retired: %d\n", r.InstructionsRetired)
		_, _ = fmt.Fprintf(h.config.Output, "  CPI:                  %.3f\n", r.CPI)
		_, _ = fmt.Fprintf(h.config.Output, "  Fetch Cycles:         %d\n", r.FetchCycles)
		_, _ = fmt.Fprintf(h.config.Output, "  Stack Cycles:         %d\n", r.StackCycles)
		_, _ = fmt.Fprintf(h.config.Output, "  Branches:             %d\n", r.Branches)

		_, _ = fmt.Fprintln(h.config.Output, "  --- I-Cache ---")
		_, _ = fmt.Fprintf(h.config.Output, "  Hits:   %d\n", r.ICacheHits)
		_, _ = fmt.Fprintf(h.config.Output, "  Misses: %d\n", r.ICacheMisses)

		if r.DCacheHits > 0 || r.DCacheMisses > 0 {
			_, _ = fmt.Fprintln(h.config.Output, "  --- D-Cache ---")
			_, _ = fmt.Fprintf(h.config.Output, "  Hits:   %d\n", r.DCacheHits)
			_, _ = fmt.Fprintf(h.config.Output, "  Misses: %d\n", r.DCacheMisses)
		}

		_, _ = fmt.Fprintf(h.config.Output, "  Wall Time: %v\n", r.WallTime)
		_, _ = fmt.Fprintln(h.config.Output, "")
	}
}

// PrintCSV prints benchmark results in CSV format.
func (h *Harness) PrintCSV(results []BenchmarkResult) {
	_, _ = fmt.Fprintln(h.config.Output,
		"name,cycles,instructions,cpi,fetch_cycles,stack_cycles,icache_hits,icache_misses,dcache_hits,dcache_misses,passed,exit_code")

	for _, r := range results {
		_, _ = fmt.Fprintf(h.config.Output, "%s,%d,%d,%.3f,%d,%d,%d,%d,%d,%d,%v,%d\n",
			r.Name,
			r.SimulatedCycles,
			r.InstructionsRetired,
			r.CPI,
			r.FetchCycles,
			r.StackCycles,
			r.ICacheHits,
			r.ICacheMisses,
			r.DCacheHits,
			r.DCacheMisses,
			r.Passed,
			r.ExitCode,
		)
	}
}

// PrintJSON prints benchmark results as a JSON array.
func (h *Harness) PrintJSON(results []BenchmarkResult) error {
	encoder := json.NewEncoder(h.config.Output)
	encoder.SetIndent("", "  ")
	return encoder.Encode(results)
}
