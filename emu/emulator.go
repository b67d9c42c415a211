// Package emu provides functional LS-8 emulation.
package emu

import (
	"fmt"
	"io"
	"os"

	"github.com/sarchlab/ls8/insts"
)

// StepResult represents the result of executing a single instruction.
type StepResult struct {
	// Halted is true once a HLT instruction has executed.
	Halted bool

	// Err is set if an error occurred during execution.
	Err error
}

// Emulator executes LS-8 instructions functionally.
type Emulator struct {
	regFile *RegFile
	memory  *Memory
	decoder *insts.Decoder

	// Execution units
	alu   *ALU
	stack *StackUnit

	// I/O
	stdout io.Writer
	stderr io.Writer
	trace  io.Writer

	// Execution state
	initialSP        uint8
	halted           bool
	instructionCount uint64
	maxInstructions  uint64 // 0 means no limit
}

// EmulatorOption is a functional option for configuring the Emulator.
type EmulatorOption func(*Emulator)

// WithStdout sets the writer that receives PRN output.
func WithStdout(w io.Writer) EmulatorOption {
	return func(e *Emulator) {
		e.stdout = w
	}
}

// WithStderr sets the writer that receives diagnostics.
func WithStderr(w io.Writer) EmulatorOption {
	return func(e *Emulator) {
		e.stderr = w
	}
}

// WithTrace enables a per-instruction trace written to w.
func WithTrace(w io.Writer) EmulatorOption {
	return func(e *Emulator) {
		e.trace = w
	}
}

// WithStackPointer sets the initial stack pointer value.
func WithStackPointer(sp uint8) EmulatorOption {
	return func(e *Emulator) {
		e.initialSP = sp
		e.regFile.SetSP(sp)
	}
}

// WithMaxInstructions sets the maximum number of instructions to execute.
// A value of 0 means no limit.
func WithMaxInstructions(max uint64) EmulatorOption {
	return func(e *Emulator) {
		e.maxInstructions = max
	}
}

// NewEmulator creates a new LS-8 emulator in its power-on state.
func NewEmulator(opts ...EmulatorOption) *Emulator {
	regFile := NewRegFile()
	memory := NewMemory()

	e := &Emulator{
		regFile:   regFile,
		memory:    memory,
		decoder:   insts.NewDecoder(),
		stdout:    os.Stdout,
		stderr:    os.Stderr,
		initialSP: InitialSP,
	}

	for _, opt := range opts {
		opt(e)
	}

	e.alu = NewALU(regFile)
	e.stack = NewStackUnit(regFile, memory)

	return e
}

// RegFile returns the emulator's register file.
func (e *Emulator) RegFile() *RegFile {
	return e.regFile
}

// Memory returns the emulator's memory.
func (e *Emulator) Memory() *Memory {
	return e.memory
}

// InstructionCount returns the number of instructions executed.
func (e *Emulator) InstructionCount() uint64 {
	return e.instructionCount
}

// Halted reports whether a HLT instruction has executed.
func (e *Emulator) Halted() bool {
	return e.halted
}

// LoadProgram loads a program into memory and sets PC to 0.
// The program can be either a []byte, placed at address 0, or a *Memory,
// which replaces the emulator's memory.
func (e *Emulator) LoadProgram(program interface{}) error {
	switch p := program.(type) {
	case []byte:
		if err := e.memory.LoadProgram(p); err != nil {
			return err
		}
	case *Memory:
		e.memory = p
		e.stack = NewStackUnit(e.regFile, e.memory)
	default:
		return fmt.Errorf("%w: %T", ErrProgramType, program)
	}
	e.regFile.PC = 0
	e.halted = false
	return nil
}

// Reset restores the power-on state: memory and registers cleared, SP set
// to its initial value, PC at 0.
func (e *Emulator) Reset() {
	e.regFile.Reset()
	e.regFile.SetSP(e.initialSP)
	e.memory.Reset()
	e.halted = false
	e.instructionCount = 0
}

// Peek decodes the instruction at PC without executing it.
func (e *Emulator) Peek() *insts.Instruction {
	pc := e.regFile.PC
	return e.decoder.Decode(
		e.memory.Read8(pc),
		e.memory.Read8(pc+1),
		e.memory.Read8(pc+2),
	)
}

// Step executes a single instruction.
// Returns a StepResult indicating whether execution should continue.
func (e *Emulator) Step() StepResult {
	if e.halted {
		return StepResult{Halted: true}
	}

	if e.maxInstructions > 0 && e.instructionCount >= e.maxInstructions {
		return StepResult{
			Err: fmt.Errorf("%w (%d)", ErrMaxInstructions, e.maxInstructions),
		}
	}

	// 1. Fetch and 2. Decode
	inst := e.Peek()
	e.regFile.IR = inst.Raw

	if e.trace != nil {
		e.traceInst(inst)
	}

	// 3. Execute
	result := e.execute(inst)

	e.instructionCount++

	return result
}

// Run executes instructions until the program halts or an error occurs.
// Returns the exit code (0 on HLT, -1 on error).
func (e *Emulator) Run() int64 {
	for {
		result := e.Step()
		if result.Halted {
			return 0
		}
		if result.Err != nil {
			_, _ = fmt.Fprintf(e.stderr, "Emulation error: %v\n", result.Err)
			return -1
		}
	}
}

// execute dispatches and executes a decoded instruction.
func (e *Emulator) execute(inst *insts.Instruction) StepResult {
	if err := e.checkOperands(inst); err != nil {
		return StepResult{Err: err}
	}

	a, b := inst.OperandA, inst.OperandB

	switch inst.Op {
	case insts.OpLDI:
		e.regFile.WriteReg(a, b)
	case insts.OpADD:
		e.executeALU(ALUAdd, a, b)
	case insts.OpMUL:
		e.executeALU(ALUMul, a, b)
	case insts.OpCMP:
		e.executeALU(ALUCmp, a, b)
	case insts.OpPRN:
		_, _ = fmt.Fprintf(e.stdout, "%d\n", e.regFile.ReadReg(a))
	case insts.OpPUSH:
		e.stack.Push(e.regFile.ReadReg(a))
	case insts.OpPOP:
		e.regFile.WriteReg(a, e.stack.Pop())
	case insts.OpCALL:
		e.stack.Call(e.regFile.ReadReg(a), e.regFile.PC+inst.Width)
	case insts.OpRET:
		e.stack.Ret()
	case insts.OpHLT:
		e.halted = true
	case insts.OpUnknown:
		// Unrecognized opcodes consume their width and do nothing.
	}

	// CALL and RET have already set the PC.
	if !inst.Op.IsControlTransfer() {
		e.regFile.PC += inst.Width
	}

	return StepResult{Halted: e.halted}
}

// executeALU runs an ALU operation. ALU errors are logged, not fatal.
func (e *Emulator) executeALU(op ALUOp, a, b uint8) {
	if err := e.alu.Execute(op, a, b); err != nil {
		_, _ = fmt.Fprintf(e.stderr, "ALU error at PC=0x%02X: %v\n", e.regFile.PC, err)
	}
}

// checkOperands validates the register operands of inst.
func (e *Emulator) checkOperands(inst *insts.Instruction) error {
	var regs []uint8

	switch inst.Op {
	case insts.OpADD, insts.OpMUL, insts.OpCMP:
		regs = []uint8{inst.OperandA, inst.OperandB}
	case insts.OpLDI, insts.OpPRN, insts.OpPUSH, insts.OpPOP, insts.OpCALL:
		regs = []uint8{inst.OperandA}
	}

	for _, reg := range regs {
		if !e.regFile.Valid(reg) {
			return fmt.Errorf("%w R%d in %v at PC=0x%02X",
				ErrInvalidRegister, reg, inst.Op, e.regFile.PC)
		}
	}

	return nil
}

// traceInst writes the machine state before inst executes.
func (e *Emulator) traceInst(inst *insts.Instruction) {
	r := e.regFile

	_, _ = fmt.Fprintf(e.trace, "%02X: %02X %-4s", r.PC, inst.Raw, inst.Op)
	switch inst.NumOperands() {
	case 2:
		_, _ = fmt.Fprintf(e.trace, " %02X %02X |", inst.OperandA, inst.OperandB)
	case 1:
		_, _ = fmt.Fprintf(e.trace, " %02X    |", inst.OperandA)
	default:
		_, _ = fmt.Fprintf(e.trace, "       |")
	}
	for _, v := range r.R {
		_, _ = fmt.Fprintf(e.trace, " %02X", v)
	}
	_, _ = fmt.Fprintf(e.trace, " | E=%d L=%d G=%d\n",
		boolBit(r.Flags.E), boolBit(r.Flags.L), boolBit(r.Flags.G))
}

func boolBit(b bool) int {
	if b {
		return 1
	}
	return 0
}
