// Package main provides the entry point for LS8.
// LS8 is an emulator for the LS-8, an 8-bit CPU with 256 bytes of memory.
//
// For the full CLI, use: go run ./cmd/ls8
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("LS8 - 8-bit CPU emulator")
	fmt.Println("Timing model built on Akita")
	fmt.Println("")
	fmt.Println("Usage: ls8 [options] <program.ls8>")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -timing    Enable timing simulation mode")
	fmt.Println("  -config    Path to timing configuration JSON file")
	fmt.Println("  -max       Stop after this many instructions")
	fmt.Println("  -trace     Trace each instruction to stderr")
	fmt.Println("  -v         Verbose output")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/ls8' for the full CLI.")
	fmt.Println("Run 'go run ./cmd/ls8asm' to assemble source into an image.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/ls8' instead.")
	}
}
