// Package emu provides functional LS-8 emulation.
package emu

import (
	"errors"

	"github.com/sarchlab/ls8/translate"
)

var f = translate.From

var (
	// ErrUnsupportedALUOp is reported by the ALU for an operation selector it
	// does not implement. It is not fatal to the emulator.
	ErrUnsupportedALUOp = errors.New(f("unsupported alu operation"))

	// ErrInvalidRegister is reported when an operand names a register outside
	// R0..R7.
	ErrInvalidRegister = errors.New(f("invalid register"))

	// ErrImageTooLarge is reported when a program does not fit in memory.
	ErrImageTooLarge = errors.New(f("program image too large"))

	// ErrMaxInstructions is reported once the instruction limit is hit.
	ErrMaxInstructions = errors.New(f("max instructions reached"))

	// ErrProgramType is reported by LoadProgram for an unsupported source.
	ErrProgramType = errors.New(f("unsupported program type"))
)
