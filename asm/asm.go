// Package asm assembles LS-8 source into program images.
//
// Source is line oriented. Each line may hold label definitions, one
// instruction or directive, and a comment starting with ';' or '#':
//
//	.equ COUNT 3
//	        LDI R0, $(COUNT * 2)
//	        LDI R1, Print
//	        CALL R1
//	        HLT
//	Print:  PRN R0
//	        RET
//
// Operands are registers R0-R7, numbers (decimal, 0x, 0b, 0o), labels,
// equates, or $(...) expressions evaluated as Starlark against the equates
// and labels. DB emits a raw data byte.
package asm

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/sarchlab/ls8/emu"
	"github.com/sarchlab/ls8/insts"
)

// Assembler is a two pass assembler for the LS-8.
type Assembler struct {
	Verbose bool              // If set, verbosely logs the assembler actions.
	Label   map[string]int    // Map of labels to addresses.
	Equate  map[string]string // Map of equates.

	values map[string]uint8 // Resolved equates, reset by Parse.
}

// line is a statement after the first pass.
type line struct {
	stmt  Statement
	op    insts.Op
	data  bool
	words []string
}

// registerOf maps a register name (any case) to its index.
func registerOf(word string) (uint8, bool) {
	if len(word) != 2 || (word[0] != 'R' && word[0] != 'r') {
		return 0, false
	}
	n := word[1] - '0'
	if n >= emu.NumRegisters {
		return 0, false
	}
	return n, true
}

// valueOf returns the byte value of a number, label, equate or expression.
func (asm *Assembler) valueOf(word string) (value uint8, err error) {
	var v64 int64

	switch {
	case strings.HasPrefix(word, "$(") && strings.HasSuffix(word, ")"):
		v64, err = asm.parenEval(word[2 : len(word)-1])
	default:
		if addr, ok := asm.Label[word]; ok {
			v64 = int64(addr)
		} else if equ, ok := asm.Equate[word]; ok {
			if v, done := asm.values[word]; done {
				value = v
				return
			}
			// Equates may refer to other equates, but not to themselves.
			delete(asm.Equate, word)
			value, err = asm.valueOf(equ)
			asm.Equate[word] = equ
			if err == nil {
				asm.values[word] = value
			}
			return
		} else if isIdentifier(word) {
			err = ErrLabelMissing(word)
			return
		} else {
			v64, err = strconv.ParseInt(word, 0, 16)
			if err != nil {
				err = ErrParseNumber(word)
				return
			}
		}
	}

	if err != nil {
		return
	}

	if v64 < -128 || v64 > 0xff {
		err = fmt.Errorf("%w: %d", ErrValueRange, v64)
		return
	}

	value = uint8(v64)
	return
}

// parenEval does $(...) evaluations. Only the labels and equates named in
// expr are bound.
func (asm *Assembler) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{Name: "asm"}
	opts := syntax.FileOptions{}
	prog := "rc=" + expr + "\n"

	file, err := opts.Parse("expr", prog, 0)
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrParseExpression(expr), err)
		return
	}

	pred := starlark.StringDict{}
	syntax.Walk(file, func(n syntax.Node) bool {
		id, ok := n.(*syntax.Ident)
		if !ok || pred.Has(id.Name) {
			return true
		}
		if addr, ok := asm.Label[id.Name]; ok {
			pred[id.Name] = starlark.MakeInt(addr)
		} else if _, ok := asm.Equate[id.Name]; ok {
			v, verr := asm.valueOf(id.Name)
			if verr == nil {
				// Equates that are not numbers stay out of scope.
				pred[id.Name] = starlark.MakeInt(int(v))
			}
		}
		return true
	})

	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrParseExpression(expr), err)
		return
	}
	stInt, ok := dict["rc"].(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = stInt.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	return
}

// splitWords splits a statement on blanks and commas, keeping $(...)
// expressions whole.
func splitWords(text string) (words []string) {
	var cur strings.Builder
	depth := 0

	flush := func() {
		if cur.Len() > 0 {
			words = append(words, cur.String())
			cur.Reset()
		}
	}

	for _, r := range text {
		switch {
		case r == '(':
			depth++
		case r == ')' && depth > 0:
			depth--
		case depth == 0 && (r == ',' || r == ' ' || r == '\t'):
			flush()
			continue
		}
		cur.WriteRune(r)
	}
	flush()

	return
}

// stripComment removes a trailing ';' or '#' comment.
func stripComment(text string) string {
	depth := 0
	for n, r := range text {
		switch r {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case ';', '#':
			if depth == 0 {
				return text[:n]
			}
		}
	}
	return text
}

func isIdentifier(word string) bool {
	if word == "" {
		return false
	}
	for n, r := range word {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case n > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

// Parse assembles the source read from input.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	asm.Label = map[string]int{}
	asm.values = map[string]uint8{}
	if asm.Equate == nil {
		asm.Equate = map[string]string{}
	}

	lines, err := asm.firstPass(input)
	if err != nil {
		return
	}

	prog = &Program{}
	for _, ln := range lines {
		ln.stmt.Codes, err = asm.encode(ln)
		if err != nil {
			err = ErrSyntax{LineNo: ln.stmt.LineNo, Line: ln.stmt.Source, Err: err}
			prog = nil
			return
		}
		if asm.Verbose {
			log.Printf("%02x: % x\t%s", ln.stmt.Addr, ln.stmt.Codes, ln.stmt.Source)
		}
		prog.Statements = append(prog.Statements, ln.stmt)
	}

	return
}

// firstPass collects labels and equates and assigns addresses.
func (asm *Assembler) firstPass(input io.Reader) (lines []line, err error) {
	addr := 0
	lineno := 0

	scanner := bufio.NewScanner(input)
	for scanner.Scan() {
		lineno++
		text := strings.TrimSpace(stripComment(scanner.Text()))
		if text == "" {
			continue
		}

		ln := line{stmt: Statement{LineNo: lineno, Addr: addr}}
		syntaxErr := func(e error) error {
			return ErrSyntax{LineNo: lineno, Line: text, Err: e}
		}

		words := splitWords(text)
		for len(words) > 0 && strings.HasSuffix(words[0], ":") {
			label := strings.TrimSuffix(words[0], ":")
			if !isIdentifier(label) {
				err = syntaxErr(ErrLabelSyntax)
				return
			}
			if _, dup := asm.Label[label]; dup {
				err = syntaxErr(ErrLabelDuplicate)
				return
			}
			asm.Label[label] = addr
			ln.stmt.Labels = append(ln.stmt.Labels, label)
			words = words[1:]
		}

		if len(words) == 0 {
			lines = append(lines, ln)
			continue
		}

		mnemonic := strings.ToUpper(words[0])
		ln.words = words[1:]
		ln.stmt.Source = strings.TrimSpace(words[0] + " " + strings.Join(ln.words, ", "))

		switch mnemonic {
		case ".EQU":
			if len(ln.words) != 2 || !isIdentifier(ln.words[0]) {
				err = syntaxErr(ErrEquateSyntax)
				return
			}
			if _, dup := asm.Equate[ln.words[0]]; dup {
				err = syntaxErr(ErrEquateDuplicate)
				return
			}
			asm.Equate[ln.words[0]] = ln.words[1]
			if len(ln.stmt.Labels) != 0 {
				// Keep the labels; the equate itself emits nothing.
				ln.stmt.Source = ""
				ln.words = nil
				lines = append(lines, ln)
			}
			continue
		case "DB", ".DB":
			ln.data = true
			addr += len(ln.words)
		default:
			op, ok := insts.LookupMnemonic(mnemonic)
			if !ok {
				err = syntaxErr(fmt.Errorf("%w: %s", ErrOpcodeInvalid, words[0]))
				return
			}
			ln.op = op
			code, _ := op.Code()
			addr += int(insts.Width(code))
		}

		if addr > emu.MemorySize {
			err = syntaxErr(ErrProgramTooLarge)
			return
		}

		lines = append(lines, ln)
	}

	err = scanner.Err()
	return
}

// encode produces the bytes of a first pass line.
func (asm *Assembler) encode(ln line) (codes []byte, err error) {
	if ln.data {
		if len(ln.words) == 0 {
			err = ErrOperandCount
			return
		}
		for _, word := range ln.words {
			var value uint8
			value, err = asm.valueOf(word)
			if err != nil {
				return
			}
			codes = append(codes, value)
		}
		return
	}

	if ln.op == insts.OpUnknown {
		// Label-only line.
		return
	}

	code, _ := ln.op.Code()
	inst := insts.Instruction{Op: ln.op, Raw: code, Width: insts.Width(code)}
	if len(ln.words) != inst.NumOperands() {
		err = fmt.Errorf("%w: %v takes %d", ErrOperandCount, ln.op, inst.NumOperands())
		return
	}

	codes = []byte{code}
	for n, word := range ln.words {
		var value uint8
		if ln.op == insts.OpLDI && n == 1 {
			value, err = asm.valueOf(word)
		} else {
			var ok bool
			value, ok = registerOf(word)
			if !ok {
				err = fmt.Errorf("%w: %s", ErrRegisterInvalid, word)
			}
		}
		if err != nil {
			return
		}
		codes = append(codes, value)
	}

	return
}
