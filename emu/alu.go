// Package emu provides functional LS-8 emulation.
package emu

import "fmt"

// ALUOp selects an ALU operation.
type ALUOp uint8

// ALU operations.
const (
	ALUAdd ALUOp = iota
	ALUMul
	ALUCmp
)

// ALU implements LS-8 arithmetic and compare operations.
type ALU struct {
	regFile *RegFile
}

// NewALU creates a new ALU connected to the given register file.
func NewALU(regFile *RegFile) *ALU {
	return &ALU{regFile: regFile}
}

// Execute performs op on registers regA and regB.
// An unsupported op returns ErrUnsupportedALUOp and changes nothing.
func (a *ALU) Execute(op ALUOp, regA, regB uint8) error {
	for _, reg := range []uint8{regA, regB} {
		if !a.regFile.Valid(reg) {
			return fmt.Errorf("%w: R%d", ErrInvalidRegister, reg)
		}
	}

	switch op {
	case ALUAdd:
		a.ADD(regA, regB)
	case ALUMul:
		a.MUL(regA, regB)
	case ALUCmp:
		a.CMP(regA, regB)
	default:
		return fmt.Errorf("%w: %d", ErrUnsupportedALUOp, op)
	}

	return nil
}

// ADD performs 8-bit addition: Ra = (Ra + Rb) mod 256
func (a *ALU) ADD(regA, regB uint8) {
	op1 := a.regFile.ReadReg(regA)
	op2 := a.regFile.ReadReg(regB)
	a.regFile.WriteReg(regA, op1+op2)
}

// MUL performs 8-bit multiplication: Ra = (Ra * Rb) mod 256
func (a *ALU) MUL(regA, regB uint8) {
	op1 := a.regFile.ReadReg(regA)
	op2 := a.regFile.ReadReg(regB)
	a.regFile.WriteReg(regA, op1*op2)
}

// CMP compares Ra with Rb and sets exactly one of E, L or G.
// The other two flags keep whatever value they had.
func (a *ALU) CMP(regA, regB uint8) {
	op1 := a.regFile.ReadReg(regA)
	op2 := a.regFile.ReadReg(regB)

	switch {
	case op1 == op2:
		a.regFile.Flags.E = true
	case op1 < op2:
		a.regFile.Flags.L = true
	default:
		a.regFile.Flags.G = true
	}
}
