// Command benchmark runs the LS8 timing benchmark harness.
//
// Usage:
//
//	go run ./cmd/benchmark [flags]
//
// Flags:
//
//	-csv     Output results in CSV format (default: human-readable)
//	-json    Output results as JSON
//	-config  Path to timing configuration JSON file
//	-core    Run only the core benchmarks
//
// Example:
//
//	# Compare two timing configurations
//	go run ./cmd/benchmark -csv > default.csv
//	go run ./cmd/benchmark -csv -config slow-memory.json > slow.csv
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sarchlab/ls8/benchmarks"
	"github.com/sarchlab/ls8/timing/latency"
)

func main() {
	csvOutput := flag.Bool("csv", false, "Output results in CSV format")
	jsonOutput := flag.Bool("json", false, "Output results as JSON")
	configPath := flag.String("config", "", "Path to timing configuration JSON file")
	coreOnly := flag.Bool("core", false, "Run only the core benchmarks")
	flag.Parse()

	config := benchmarks.DefaultConfig()
	config.Output = os.Stdout
	if *configPath != "" {
		timingConfig, err := latency.LoadConfig(*configPath)
		if err == nil {
			err = timingConfig.Validate()
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading timing config: %v\n", err)
			os.Exit(1)
		}
		config.Timing = timingConfig
	}

	harness := benchmarks.NewHarness(config)
	if *coreOnly {
		harness.AddBenchmarks(benchmarks.GetCoreBenchmarks())
	} else {
		harness.AddBenchmarks(benchmarks.GetMicrobenchmarks())
	}

	if !*csvOutput && !*jsonOutput {
		fmt.Println("LS8 Timing Benchmark Harness")
		fmt.Println("============================")
		fmt.Printf("Cache hit latency: %d\n", config.Timing.CacheHitLatency)
		fmt.Printf("Memory latency:    %d\n", config.Timing.MemoryLatency)
		fmt.Println("")
	}

	results := harness.RunAll()

	switch {
	case *jsonOutput:
		if err := harness.PrintJSON(results); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing results: %v\n", err)
			os.Exit(1)
		}
	case *csvOutput:
		harness.PrintCSV(results)
	default:
		harness.PrintResults(results)
	}

	for _, r := range results {
		if !r.Passed {
			os.Exit(1)
		}
	}
}
