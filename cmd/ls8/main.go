// Package main provides the ls8 command, which loads an LS-8 program image
// and runs it on the functional emulator or the timing core.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sarchlab/ls8/emu"
	"github.com/sarchlab/ls8/loader"
	"github.com/sarchlab/ls8/timing/core"
	"github.com/sarchlab/ls8/timing/latency"
)

// options holds the parsed command line.
type options struct {
	timing     bool
	configPath string
	saveConfig string
	maxInsts   uint64
	trace      bool
	verbose    bool
	program    string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command with the given arguments and returns the
// process exit status.
func run(args []string, stdout, stderr io.Writer) int {
	opts, ok := parseArgs(args, stderr)
	if !ok {
		return 1
	}

	prog, err := loader.Load(opts.program)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading program: %v\n", err)
		return 1
	}

	if opts.verbose {
		fmt.Fprintf(stdout, "Loaded: %s\n", prog.Path)
		fmt.Fprintf(stdout, "Bytes: %d\n", len(prog.Bytes))
		fmt.Fprintf(stdout, "Digest: %016x\n", prog.Digest)
	}

	emuOpts := []emu.EmulatorOption{
		emu.WithStdout(stdout),
		emu.WithStderr(stderr),
		emu.WithMaxInstructions(opts.maxInsts),
	}
	if opts.trace {
		emuOpts = append(emuOpts, emu.WithTrace(stderr))
	}
	emulator := emu.NewEmulator(emuOpts...)

	if err := prog.Copy(emulator.Memory()); err != nil {
		fmt.Fprintf(stderr, "Error loading program: %v\n", err)
		return 1
	}

	var exitCode int64
	if opts.timing {
		exitCode, ok = runTiming(emulator, opts, stdout, stderr)
		if !ok {
			return 1
		}
	} else {
		exitCode = runEmulation(emulator, opts, stdout)
	}

	if exitCode != 0 {
		return 1
	}
	return 0
}

// parseArgs parses the command line into options.
func parseArgs(args []string, stderr io.Writer) (options, bool) {
	var opts options

	flags := flag.NewFlagSet("ls8", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.BoolVar(&opts.timing, "timing", false, "Enable timing simulation mode")
	flags.StringVar(&opts.configPath, "config", "", "Path to timing configuration JSON file")
	flags.StringVar(&opts.saveConfig, "save-config", "", "Write the timing configuration in effect to this JSON file")
	flags.Uint64Var(&opts.maxInsts, "max", 0, "Stop after this many instructions (0 means no limit)")
	flags.BoolVar(&opts.trace, "trace", false, "Trace each instruction to stderr")
	flags.BoolVar(&opts.verbose, "v", false, "Verbose output")
	flags.Usage = func() {
		fmt.Fprintf(stderr, "Usage: ls8 [options] <program.ls8>\n")
		fmt.Fprintf(stderr, "\nOptions:\n")
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		return opts, false
	}

	if flags.NArg() != 1 {
		flags.Usage()
		return opts, false
	}

	opts.program = flags.Arg(0)
	return opts, true
}

// runEmulation runs the program in functional emulation mode.
func runEmulation(emulator *emu.Emulator, opts options, stdout io.Writer) int64 {
	exitCode := emulator.Run()

	if opts.verbose {
		fmt.Fprintf(stdout, "\nProgram: %s\n", opts.program)
		fmt.Fprintf(stdout, "Exit code: %d\n", exitCode)
		fmt.Fprintf(stdout, "Instructions executed: %d\n", emulator.InstructionCount())
	}

	return exitCode
}

// runTiming runs the program on the timing core and prints a report.
func runTiming(emulator *emu.Emulator, opts options, stdout, stderr io.Writer) (int64, bool) {
	timingConfig := latency.DefaultTimingConfig()
	if opts.configPath != "" {
		var err error
		timingConfig, err = latency.LoadConfig(opts.configPath)
		if err != nil {
			fmt.Fprintf(stderr, "Error loading timing config: %v\n", err)
			return -1, false
		}
		if err := timingConfig.Validate(); err != nil {
			fmt.Fprintf(stderr, "Error loading timing config: %v\n", err)
			return -1, false
		}
	}

	if opts.saveConfig != "" {
		if err := timingConfig.SaveConfig(opts.saveConfig); err != nil {
			fmt.Fprintf(stderr, "Error saving timing config: %v\n", err)
			return -1, false
		}
	}

	c := core.NewCore(emulator,
		core.WithLatencyTable(latency.NewTableWithConfig(timingConfig)))

	exitCode, err := c.Run()
	if err != nil {
		fmt.Fprintf(stderr, "Emulation error: %v\n", err)
	}

	stats := c.Stats()
	totalCycles := stats.Cycles
	if totalCycles == 0 {
		totalCycles = 1
	}
	execCycles := stats.Cycles - stats.FetchCycles - stats.DataCycles

	fmt.Fprintf(stdout, "\n")
	fmt.Fprintf(stdout, "Program: %s\n", opts.program)
	fmt.Fprintf(stdout, "Exit code: %d\n", exitCode)
	fmt.Fprintf(stdout, "Total Instructions: %d\n", stats.Instructions)
	fmt.Fprintf(stdout, "Total Cycles: %d\n", stats.Cycles)
	fmt.Fprintf(stdout, "CPI: %.2f\n", stats.CPI())
	fmt.Fprintf(stdout, "Branches: %d\n", stats.Branches)
	fmt.Fprintf(stdout, "\n")
	fmt.Fprintf(stdout, "Breakdown:\n")
	fmt.Fprintf(stdout, "  Execute: %4d cycles (%5.1f%%)\n",
		execCycles, 100.0*float64(execCycles)/float64(totalCycles))
	fmt.Fprintf(stdout, "  Fetch:   %4d cycles (%5.1f%%)\n",
		stats.FetchCycles, 100.0*float64(stats.FetchCycles)/float64(totalCycles))
	fmt.Fprintf(stdout, "  Stack:   %4d cycles (%5.1f%%)\n",
		stats.DataCycles, 100.0*float64(stats.DataCycles)/float64(totalCycles))
	fmt.Fprintf(stdout, "\n")
	fmt.Fprintf(stdout, "Caches:\n")
	fmt.Fprintf(stdout, "  I-cache: %d hits, %d misses (%.1f%% hit rate)\n",
		stats.ICache.Hits, stats.ICache.Misses, 100.0*stats.ICache.HitRate())
	fmt.Fprintf(stdout, "  D-cache: %d hits, %d misses (%.1f%% hit rate)\n",
		stats.DCache.Hits, stats.DCache.Misses, 100.0*stats.DCache.HitRate())

	return exitCode, true
}
