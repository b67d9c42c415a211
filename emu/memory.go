// Package emu provides functional LS-8 emulation.
package emu

import "fmt"

// MemorySize is the number of addressable bytes.
const MemorySize = 256

// Memory is the flat byte-addressable RAM of the LS-8. Addresses are 8 bits
// wide, so every address is in range.
type Memory struct {
	data [MemorySize]byte
}

// NewMemory creates a zero-filled memory.
func NewMemory() *Memory {
	return &Memory{}
}

// Read8 reads the byte at addr.
func (m *Memory) Read8(addr uint8) byte {
	return m.data[addr]
}

// Write8 writes value to addr.
func (m *Memory) Write8(addr uint8, value byte) {
	m.data[addr] = value
}

// LoadProgram copies program into memory at ascending addresses starting at
// 0. Cells past the end of the program are left untouched.
func (m *Memory) LoadProgram(program []byte) error {
	if len(program) > MemorySize {
		return fmt.Errorf("%w: %d bytes", ErrImageTooLarge, len(program))
	}
	copy(m.data[:], program)
	return nil
}

// Reset clears every cell to zero.
func (m *Memory) Reset() {
	m.data = [MemorySize]byte{}
}

// Bytes returns a copy of the memory contents.
func (m *Memory) Bytes() []byte {
	out := make([]byte, MemorySize)
	copy(out, m.data[:])
	return out
}
