// Package main provides the ls8asm command, which assembles LS-8 source
// into an .ls8 program image.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/sarchlab/ls8/asm"
)

func main() {
	var output string
	var verbose bool

	flag.StringVar(&output, "o", "-", "Output .ls8 file")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatalf("usage: %v [-o out.ls8] [-v] <source.asm>", os.Args[0])
	}

	source := flag.Arg(0)

	inf, err := os.Open(source)
	if err != nil {
		log.Fatalf("%v: %v", source, err)
	}
	defer inf.Close()

	assembler := &asm.Assembler{Verbose: verbose}
	prog, err := assembler.Parse(inf)
	if err != nil {
		log.Fatalf("%v: %v", source, err)
	}

	ouf := os.Stdout
	if output != "-" {
		ouf, err = os.Create(output)
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}
		defer ouf.Close()
	}

	err = prog.WriteLS8(ouf)
	if err != nil {
		log.Fatalf("%v: %v", output, err)
	}
}
