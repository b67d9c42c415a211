// Package emu provides functional LS-8 emulation.
package emu

// StackUnit implements the LS-8 stack and subroutine operations.
// The stack grows down from InitialSP and R7 points at the last pushed byte.
type StackUnit struct {
	regFile *RegFile
	memory  *Memory
}

// NewStackUnit creates a new StackUnit connected to the given register file
// and memory.
func NewStackUnit(regFile *RegFile, memory *Memory) *StackUnit {
	return &StackUnit{
		regFile: regFile,
		memory:  memory,
	}
}

// Push decrements SP and stores value at the new top of stack.
func (s *StackUnit) Push(value uint8) {
	sp := s.regFile.SP() - 1
	s.regFile.SetSP(sp)
	s.memory.Write8(sp, value)
}

// Pop loads the top of stack and increments SP.
func (s *StackUnit) Pop() uint8 {
	sp := s.regFile.SP()
	value := s.memory.Read8(sp)
	s.regFile.SetSP(sp + 1)
	return value
}

// Call pushes returnAddr and jumps to target.
func (s *StackUnit) Call(target, returnAddr uint8) {
	s.Push(returnAddr)
	s.regFile.PC = target
}

// Ret pops the return address into PC.
func (s *StackUnit) Ret() {
	s.regFile.PC = s.Pop()
}
