// Package insts provides LS-8 instruction definitions and decoding.
package insts

import "strings"

// Op represents an LS-8 operation.
type Op uint8

// LS-8 operations.
const (
	OpUnknown Op = iota
	OpLDI
	OpPRN
	OpHLT
	OpADD
	OpMUL
	OpCMP
	OpPUSH
	OpPOP
	OpCALL
	OpRET
)

// Raw opcode bytes as they appear in a program image.
const (
	CodeLDI  uint8 = 0b10000010
	CodePRN  uint8 = 0b01000111
	CodeHLT  uint8 = 0b00000001
	CodeADD  uint8 = 0b10100000
	CodeMUL  uint8 = 0b10100010
	CodeCMP  uint8 = 0b10100111
	CodePUSH uint8 = 0b01000101
	CodePOP  uint8 = 0b01000110
	CodeCALL uint8 = 0b01010000
	CodeRET  uint8 = 0b00010001
)

// Operand count selector bits of an opcode.
const (
	TwoOperandsBit uint8 = 0x80
	OneOperandBit  uint8 = 0x40
)

var opNames = [...]string{
	OpUnknown: "???",
	OpLDI:     "LDI",
	OpPRN:     "PRN",
	OpHLT:     "HLT",
	OpADD:     "ADD",
	OpMUL:     "MUL",
	OpCMP:     "CMP",
	OpPUSH:    "PUSH",
	OpPOP:     "POP",
	OpCALL:    "CALL",
	OpRET:     "RET",
}

var opCodes = [...]uint8{
	OpLDI:  CodeLDI,
	OpPRN:  CodePRN,
	OpHLT:  CodeHLT,
	OpADD:  CodeADD,
	OpMUL:  CodeMUL,
	OpCMP:  CodeCMP,
	OpPUSH: CodePUSH,
	OpPOP:  CodePOP,
	OpCALL: CodeCALL,
	OpRET:  CodeRET,
}

// String returns the assembler mnemonic of the operation.
func (op Op) String() string {
	if int(op) >= len(opNames) {
		return opNames[OpUnknown]
	}
	return opNames[op]
}

// Code returns the opcode byte for op. OpUnknown has no encoding and
// returns false.
func (op Op) Code() (uint8, bool) {
	if op == OpUnknown || int(op) >= len(opCodes) {
		return 0, false
	}
	return opCodes[op], true
}

// IsControlTransfer reports whether op sets the PC itself, so the engine
// must not advance it by the instruction width.
func (op Op) IsControlTransfer() bool {
	return op == OpCALL || op == OpRET
}

// LookupMnemonic maps an assembler mnemonic (any case) to its operation.
func LookupMnemonic(name string) (Op, bool) {
	name = strings.ToUpper(name)
	for op, n := range opNames {
		if Op(op) != OpUnknown && n == name {
			return Op(op), true
		}
	}
	return OpUnknown, false
}

// Width returns the total width in bytes of the instruction whose opcode is
// ir: 3 when bit 0x80 is set, 2 when only bit 0x40 is set, 1 otherwise.
func Width(ir uint8) uint8 {
	switch {
	case ir&TwoOperandsBit != 0:
		return 3
	case ir&OneOperandBit != 0:
		return 2
	default:
		return 1
	}
}

// Instruction represents a decoded LS-8 instruction.
type Instruction struct {
	Op  Op    // Operation
	Raw uint8 // Opcode byte as fetched (IR)

	// Width is the total instruction width in bytes (1, 2 or 3).
	Width uint8

	// Operands. Only the first Width-1 are meaningful.
	OperandA uint8
	OperandB uint8
}

// NumOperands returns the number of operand bytes following the opcode.
func (i *Instruction) NumOperands() int {
	return int(i.Width) - 1
}

// Decoder decodes LS-8 opcode bytes into instructions.
type Decoder struct{}

// NewDecoder creates a new LS-8 instruction decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode decodes the opcode ir together with the two bytes that follow it in
// memory. Operand bytes beyond the instruction's width are discarded.
func (d *Decoder) Decode(ir, a, b uint8) *Instruction {
	inst := &Instruction{
		Op:    d.lookup(ir),
		Raw:   ir,
		Width: Width(ir),
	}

	switch inst.Width {
	case 3:
		inst.OperandA = a
		inst.OperandB = b
	case 2:
		inst.OperandA = a
	}

	return inst
}

func (d *Decoder) lookup(ir uint8) Op {
	switch ir {
	case CodeLDI:
		return OpLDI
	case CodePRN:
		return OpPRN
	case CodeHLT:
		return OpHLT
	case CodeADD:
		return OpADD
	case CodeMUL:
		return OpMUL
	case CodeCMP:
		return OpCMP
	case CodePUSH:
		return OpPUSH
	case CodePOP:
		return OpPOP
	case CodeCALL:
		return OpCALL
	case CodeRET:
		return OpRET
	default:
		return OpUnknown
	}
}
