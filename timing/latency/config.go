package latency

import (
	"encoding/json"
	"fmt"
	"os"
)

// TimingConfig holds latency values for different instruction classes.
type TimingConfig struct {
	// ALULatency is the execution latency for ADD and CMP. Default: 1 cycle.
	ALULatency uint64 `json:"alu_latency"`

	// MultiplyLatency is the latency for MUL. Default: 3 cycles.
	MultiplyLatency uint64 `json:"multiply_latency"`

	// LoadImmediateLatency is the latency for LDI. Default: 1 cycle.
	LoadImmediateLatency uint64 `json:"load_immediate_latency"`

	// StackLatency is the execute latency for PUSH and POP, excluding the
	// data cache access. Default: 1 cycle.
	StackLatency uint64 `json:"stack_latency"`

	// BranchLatency is the execute latency for CALL and RET, excluding the
	// data cache access. Default: 2 cycles.
	BranchLatency uint64 `json:"branch_latency"`

	// IOLatency is the latency for PRN. Default: 10 cycles.
	IOLatency uint64 `json:"io_latency"`

	// HaltLatency is the latency for HLT. Default: 1 cycle.
	HaltLatency uint64 `json:"halt_latency"`

	// UnknownLatency is the latency for unrecognized opcodes, which execute
	// as no-ops. Default: 1 cycle.
	UnknownLatency uint64 `json:"unknown_latency"`

	// CacheHitLatency is the cache hit latency. Default: 1 cycle.
	CacheHitLatency uint64 `json:"cache_hit_latency"`

	// MemoryLatency is the miss latency to memory. Default: 10 cycles.
	MemoryLatency uint64 `json:"memory_latency"`
}

// DefaultTimingConfig returns a TimingConfig with default values.
func DefaultTimingConfig() *TimingConfig {
	return &TimingConfig{
		ALULatency:           1,
		MultiplyLatency:      3,
		LoadImmediateLatency: 1,
		StackLatency:         1,
		BranchLatency:        2,
		IOLatency:            10,
		HaltLatency:          1,
		UnknownLatency:       1,
		CacheHitLatency:      1,
		MemoryLatency:        10,
	}
}

// LoadConfig loads a TimingConfig from a JSON file. Fields missing from the
// file keep their default values.
func LoadConfig(path string) (*TimingConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read timing config file: %w", err)
	}

	config := DefaultTimingConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse timing config: %w", err)
	}

	return config, nil
}

// SaveConfig writes a TimingConfig to a JSON file.
func (c *TimingConfig) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize timing config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write timing config file: %w", err)
	}

	return nil
}

// Validate checks that all latency values are valid (> 0) and that a
// memory access is not faster than a cache hit.
func (c *TimingConfig) Validate() error {
	checks := []struct {
		name  string
		value uint64
	}{
		{"alu_latency", c.ALULatency},
		{"multiply_latency", c.MultiplyLatency},
		{"load_immediate_latency", c.LoadImmediateLatency},
		{"stack_latency", c.StackLatency},
		{"branch_latency", c.BranchLatency},
		{"io_latency", c.IOLatency},
		{"halt_latency", c.HaltLatency},
		{"unknown_latency", c.UnknownLatency},
		{"cache_hit_latency", c.CacheHitLatency},
		{"memory_latency", c.MemoryLatency},
	}
	for _, check := range checks {
		if check.value == 0 {
			return fmt.Errorf("%s must be > 0", check.name)
		}
	}
	if c.MemoryLatency < c.CacheHitLatency {
		return fmt.Errorf("memory_latency must be >= cache_hit_latency")
	}
	return nil
}

// Clone returns a copy of the TimingConfig.
func (c *TimingConfig) Clone() *TimingConfig {
	clone := *c
	return &clone
}
