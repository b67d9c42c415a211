package cache

import (
	"github.com/sarchlab/ls8/emu"
)

// MemoryBacking wraps emu.Memory as a BackingStore. Accesses wrap at the end
// of the address space.
type MemoryBacking struct {
	memory *emu.Memory
}

// NewMemoryBacking creates a new MemoryBacking adapter.
func NewMemoryBacking(memory *emu.Memory) *MemoryBacking {
	return &MemoryBacking{memory: memory}
}

// Read fetches data from the backing memory.
func (m *MemoryBacking) Read(addr uint8, size int) []byte {
	data := make([]byte, size)
	for i := range data {
		data[i] = m.memory.Read8(addr + uint8(i))
	}
	return data
}

// Write stores data to the backing memory.
func (m *MemoryBacking) Write(addr uint8, data []byte) {
	for i, b := range data {
		m.memory.Write8(addr+uint8(i), b)
	}
}
