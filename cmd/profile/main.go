// Package main provides a profiling wrapper for LS8 to identify performance bottlenecks.
// LS-8 programs are short, so the image is run repeatedly to collect samples.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"runtime/pprof"
	"time"

	"github.com/sarchlab/ls8/emu"
	"github.com/sarchlab/ls8/loader"
	"github.com/sarchlab/ls8/timing/core"
)

var (
	timing      = flag.Bool("timing", false, "Enable timing simulation mode")
	cpuProfile  = flag.String("cpuprofile", "", "write cpu profile to file")
	memProfile  = flag.String("memprofile", "", "write memory profile to file")
	repeat      = flag.Int("repeat", 10000, "number of times to run the program")
	instruction = flag.Uint64("max-instr", 100000, "max instructions per run (0 = unlimited)")
	showOutput  = flag.Bool("output", false, "show program output (suppressed by default)")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: profile [options] <program.ls8>\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	programPath := flag.Arg(0)

	prog, err := loader.Load(programPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading program: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Loaded: %s (%d bytes, digest %016x)\n", programPath, len(prog.Bytes), prog.Digest)

	// Start CPU profiling if requested
	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = f.Close() }()

		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Error starting CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer pprof.StopCPUProfile()
	}

	var stdout io.Writer = io.Discard
	if *showOutput {
		stdout = os.Stdout
	}

	opts := []emu.EmulatorOption{
		emu.WithStdout(stdout),
		emu.WithMaxInstructions(*instruction),
	}
	emulator := emu.NewEmulator(opts...)

	start := time.Now()

	var exitCode int64
	var instrCount, cycles uint64

	for i := 0; i < *repeat; i++ {
		emulator.Reset()
		if err := prog.Copy(emulator.Memory()); err != nil {
			fmt.Fprintf(os.Stderr, "Error loading program: %v\n", err)
			os.Exit(1)
		}

		if *timing {
			exitCode, cycles = runTimingProfile(emulator, cycles)
		} else {
			exitCode = emulator.Run()
		}
		instrCount += emulator.InstructionCount()

		if exitCode != 0 {
			break
		}
	}

	elapsed := time.Since(start)

	// Write memory profile if requested
	if *memProfile != "" {
		f, err := os.Create(*memProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating memory profile: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = f.Close() }()

		if err := pprof.WriteHeapProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing memory profile: %v\n", err)
		}
	}

	fmt.Printf("\nProfiling Results:\n")
	fmt.Printf("Exit code: %d\n", exitCode)
	fmt.Printf("Runs: %d\n", *repeat)
	fmt.Printf("Instructions executed: %d\n", instrCount)
	if *timing {
		fmt.Printf("Simulated cycles: %d\n", cycles)
	}
	fmt.Printf("Elapsed time: %v\n", elapsed)
	if instrCount > 0 {
		fmt.Printf("Instructions/second: %.0f\n", float64(instrCount)/elapsed.Seconds())
	}
}

// runTimingProfile runs the loaded program on a fresh timing core and adds
// its cycles to the running total.
func runTimingProfile(emulator *emu.Emulator, cycles uint64) (int64, uint64) {
	c := core.NewCore(emulator)

	exitCode, err := c.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Emulation error: %v\n", err)
	}

	return exitCode, cycles + c.Stats().Cycles
}
