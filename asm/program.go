package asm

import (
	"fmt"
	"io"
	"strings"
)

// Statement is one assembled source line.
type Statement struct {
	LineNo int      // Source line number, starting at 1.
	Source string   // Source text without comments.
	Labels []string // Labels defined on this line.
	Addr   int      // Address of the first byte.
	Codes  []byte   // Encoded bytes; empty for label-only lines.
}

// Program is the output of the assembler.
type Program struct {
	Statements []Statement
}

// Bytes returns the image to load at address 0.
func (prog *Program) Bytes() (image []byte) {
	for _, st := range prog.Statements {
		image = append(image, st.Codes...)
	}
	return
}

// WriteLS8 writes the program as an .ls8 text image, one byte per line with
// the source of each statement as a trailing comment.
func (prog *Program) WriteLS8(w io.Writer) (err error) {
	for _, st := range prog.Statements {
		for _, label := range st.Labels {
			if _, err = fmt.Fprintf(w, "# %s:\n", label); err != nil {
				return
			}
		}
		for n, code := range st.Codes {
			line := fmt.Sprintf("%08b", code)
			if n == 0 && len(st.Source) != 0 {
				line += " # " + st.Source
			}
			if _, err = fmt.Fprintln(w, strings.TrimRight(line, " ")); err != nil {
				return
			}
		}
	}
	return
}
