// Package core provides the LS-8 timing core.
// It drives the functional emulator one instruction at a time and charges
// cycles for execution, instruction fetch and stack accesses.
package core

import (
	"github.com/sarchlab/ls8/emu"
	"github.com/sarchlab/ls8/timing/cache"
	"github.com/sarchlab/ls8/timing/latency"
)

// Stats holds performance statistics for the core.
type Stats struct {
	// Cycles is the total number of cycles simulated.
	Cycles uint64
	// Instructions is the number of instructions retired.
	Instructions uint64
	// FetchCycles is the part of Cycles spent fetching instructions.
	FetchCycles uint64
	// DataCycles is the part of Cycles spent on stack accesses.
	DataCycles uint64
	// Branches is the number of CALL and RET instructions retired.
	Branches uint64
	// ICache holds instruction cache statistics.
	ICache cache.Statistics
	// DCache holds stack cache statistics.
	DCache cache.Statistics
}

// CPI returns cycles per instruction.
func (s Stats) CPI() float64 {
	if s.Instructions == 0 {
		return 0
	}
	return float64(s.Cycles) / float64(s.Instructions)
}

// Core is a timing model wrapped around an emu.Emulator.
type Core struct {
	emulator *emu.Emulator
	latency  *latency.Table

	icacheConfig cache.Config
	dcacheConfig cache.Config
	icache       *cache.Cache
	dcache       *cache.Cache

	stats Stats
}

// CoreOption is a functional option for configuring the Core.
type CoreOption func(*Core)

// WithLatencyTable sets the latency table.
func WithLatencyTable(table *latency.Table) CoreOption {
	return func(c *Core) {
		c.latency = table
	}
}

// WithICacheConfig sets the instruction cache geometry.
func WithICacheConfig(config cache.Config) CoreOption {
	return func(c *Core) {
		c.icacheConfig = config
	}
}

// WithDCacheConfig sets the stack cache geometry.
func WithDCacheConfig(config cache.Config) CoreOption {
	return func(c *Core) {
		c.dcacheConfig = config
	}
}

// NewCore creates a new Core driving the given emulator. Cache hit and miss
// latencies are taken from the latency table's configuration.
func NewCore(emulator *emu.Emulator, opts ...CoreOption) *Core {
	c := &Core{
		emulator:     emulator,
		latency:      latency.NewTable(),
		icacheConfig: cache.DefaultICacheConfig(),
		dcacheConfig: cache.DefaultDCacheConfig(),
	}

	for _, opt := range opts {
		opt(c)
	}

	config := c.latency.Config()
	for _, cfg := range []*cache.Config{&c.icacheConfig, &c.dcacheConfig} {
		cfg.HitLatency = config.CacheHitLatency
		cfg.MissLatency = config.MemoryLatency
	}

	backing := cache.NewMemoryBacking(emulator.Memory())
	c.icache = cache.New(c.icacheConfig, backing)
	c.dcache = cache.New(c.dcacheConfig, backing)

	return c
}

// Emulator returns the wrapped emulator.
func (c *Core) Emulator() *emu.Emulator {
	return c.emulator
}

// Halted returns true once the program has executed HLT.
func (c *Core) Halted() bool {
	return c.emulator.Halted()
}

// Stats returns performance statistics for the core.
func (c *Core) Stats() Stats {
	stats := c.stats
	stats.ICache = c.icache.Stats()
	stats.DCache = c.dcache.Stats()
	return stats
}

// Step executes one instruction and accounts for its cycles.
func (c *Core) Step() emu.StepResult {
	if c.emulator.Halted() {
		return emu.StepResult{Halted: true}
	}

	regFile := c.emulator.RegFile()
	inst := c.emulator.Peek()
	pc := regFile.PC
	sp := regFile.SP()

	result := c.emulator.Step()
	if result.Err != nil {
		return result
	}

	// The instruction bytes are fetched in parallel; the slowest one counts.
	var fetch uint64
	for i := uint8(0); i < inst.Width; i++ {
		fetch = max(fetch, c.icache.Read(pc+i).Latency)
	}

	var data uint64
	if c.latency.IsStackOp(inst) {
		if c.latency.IsStackWrite(inst) {
			top := regFile.SP()
			data = c.dcache.Write(top, c.emulator.Memory().Read8(top)).Latency
		} else {
			data = c.dcache.Read(sp).Latency
		}
	}

	c.stats.FetchCycles += fetch
	c.stats.DataCycles += data
	c.stats.Cycles += c.latency.GetLatency(inst) + fetch + data
	c.stats.Instructions++
	if c.latency.IsBranchOp(inst) {
		c.stats.Branches++
	}

	if result.Halted {
		c.dcache.Flush()
	}

	return result
}

// Run executes the program until it halts.
// Returns the exit code (0 on HLT, -1 on error) and the error, if any.
func (c *Core) Run() (int64, error) {
	for {
		result := c.Step()
		if result.Halted {
			return 0, nil
		}
		if result.Err != nil {
			return -1, result.Err
		}
	}
}
