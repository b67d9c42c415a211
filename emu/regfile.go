// Package emu provides functional LS-8 emulation.
package emu

// NumRegisters is the number of general-purpose registers.
const NumRegisters = 8

// SPReg is the register used as the stack pointer.
const SPReg uint8 = 7

// InitialSP is the power-on value of the stack pointer.
const InitialSP uint8 = 0xF4

// RegFile represents the LS-8 register file.
// It contains 8 general-purpose registers (R0-R7), the program counter (PC),
// the instruction register (IR) and the condition flags.
type RegFile struct {
	// R holds general-purpose registers R0-R7.
	// R[7] is the stack pointer.
	R [NumRegisters]uint8

	// PC is the program counter.
	PC uint8

	// IR holds the opcode of the instruction being executed.
	IR uint8

	// FL is the general flags byte. Nothing writes it.
	FL uint8

	// Flags holds the comparison flags set by CMP.
	Flags Flags
}

// Flags represents the comparison flags.
type Flags struct {
	// E is the equal flag.
	E bool
	// L is the less-than flag.
	L bool
	// G is the greater-than flag.
	G bool
}

// NewRegFile creates a register file in its power-on state.
func NewRegFile() *RegFile {
	r := &RegFile{}
	r.Reset()
	return r
}

// Reset clears all registers and flags and sets SP to InitialSP.
func (r *RegFile) Reset() {
	*r = RegFile{}
	r.R[SPReg] = InitialSP
}

// Valid reports whether reg names one of R0-R7.
func (r *RegFile) Valid(reg uint8) bool {
	return reg < NumRegisters
}

// ReadReg reads a register value. reg must be Valid.
func (r *RegFile) ReadReg(reg uint8) uint8 {
	return r.R[reg]
}

// WriteReg writes a value to a register. reg must be Valid.
func (r *RegFile) WriteReg(reg uint8, value uint8) {
	r.R[reg] = value
}

// SP returns the stack pointer.
func (r *RegFile) SP() uint8 {
	return r.R[SPReg]
}

// SetSP sets the stack pointer.
func (r *RegFile) SetSP(sp uint8) {
	r.R[SPReg] = sp
}
