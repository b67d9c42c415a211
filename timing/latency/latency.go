// Package latency provides instruction timing models for the LS-8 timing
// mode. Latency values can be configured via TimingConfig.
package latency

import (
	"github.com/sarchlab/ls8/insts"
)

// Table provides instruction latency lookups.
type Table struct {
	config *TimingConfig
}

// NewTable creates a new latency table with default timing values.
func NewTable() *Table {
	return &Table{
		config: DefaultTimingConfig(),
	}
}

// NewTableWithConfig creates a new latency table with custom timing configuration.
func NewTableWithConfig(config *TimingConfig) *Table {
	return &Table{
		config: config,
	}
}

// GetLatency returns the execution latency in cycles for the given
// instruction. Cache and memory time are charged separately.
func (t *Table) GetLatency(inst *insts.Instruction) uint64 {
	if inst == nil {
		return 1
	}

	switch inst.Op {
	case insts.OpADD, insts.OpCMP:
		return t.config.ALULatency

	case insts.OpMUL:
		return t.config.MultiplyLatency

	case insts.OpLDI:
		return t.config.LoadImmediateLatency

	case insts.OpPUSH, insts.OpPOP:
		return t.config.StackLatency

	case insts.OpCALL, insts.OpRET:
		return t.config.BranchLatency

	case insts.OpPRN:
		return t.config.IOLatency

	case insts.OpHLT:
		return t.config.HaltLatency

	default:
		return t.config.UnknownLatency
	}
}

// IsStackOp returns true if the instruction reads or writes the stack.
func (t *Table) IsStackOp(inst *insts.Instruction) bool {
	if inst == nil {
		return false
	}
	switch inst.Op {
	case insts.OpPUSH, insts.OpPOP, insts.OpCALL, insts.OpRET:
		return true
	default:
		return false
	}
}

// IsStackWrite returns true if the instruction writes the stack.
func (t *Table) IsStackWrite(inst *insts.Instruction) bool {
	if inst == nil {
		return false
	}
	return inst.Op == insts.OpPUSH || inst.Op == insts.OpCALL
}

// IsBranchOp returns true if the instruction transfers control.
func (t *Table) IsBranchOp(inst *insts.Instruction) bool {
	if inst == nil {
		return false
	}
	return inst.Op.IsControlTransfer()
}

// Config returns the current timing configuration.
func (t *Table) Config() *TimingConfig {
	return t.config
}
