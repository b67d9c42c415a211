package core_test

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/ls8/emu"
	"github.com/sarchlab/ls8/insts"
	"github.com/sarchlab/ls8/timing/core"
	"github.com/sarchlab/ls8/timing/latency"
)

var _ = Describe("Core", func() {
	var (
		stdoutBuf *bytes.Buffer
		emulator  *emu.Emulator
	)

	BeforeEach(func() {
		stdoutBuf = &bytes.Buffer{}
		emulator = emu.NewEmulator(
			emu.WithStdout(stdoutBuf),
			emu.WithStderr(&bytes.Buffer{}),
		)
	})

	load := func(program ...byte) {
		Expect(emulator.LoadProgram(program)).To(Succeed())
	}

	It("should start with empty statistics", func() {
		c := core.NewCore(emulator)

		stats := c.Stats()
		Expect(stats.Cycles).To(BeZero())
		Expect(stats.Instructions).To(BeZero())
		Expect(stats.CPI()).To(BeZero())
		Expect(c.Emulator()).To(BeIdenticalTo(emulator))
	})

	// 0: LDI R0, 40  exec 1, fetch miss 10
	// 3: PRN R0      exec 10, fetch hit 1
	// 5: HLT         exec 1, fetch hit 1
	Describe("straight line program", func() {
		BeforeEach(func() {
			load(insts.CodeLDI, 0, 40, insts.CodePRN, 0, insts.CodeHLT)
		})

		It("should produce the same output as the functional emulator", func() {
			c := core.NewCore(emulator)

			exitCode, err := c.Run()

			Expect(err).NotTo(HaveOccurred())
			Expect(exitCode).To(Equal(int64(0)))
			Expect(stdoutBuf.String()).To(Equal("40\n"))
			Expect(c.Halted()).To(BeTrue())
		})

		It("should charge execute and fetch cycles", func() {
			c := core.NewCore(emulator)
			_, _ = c.Run()

			stats := c.Stats()
			Expect(stats.Instructions).To(Equal(uint64(3)))
			Expect(stats.FetchCycles).To(Equal(uint64(12)))
			Expect(stats.DataCycles).To(BeZero())
			Expect(stats.Branches).To(BeZero())
			Expect(stats.Cycles).To(Equal(uint64(24)))
			Expect(stats.CPI()).To(BeNumerically("==", 8.0))
		})

		It("should fetch every instruction byte through the I-cache", func() {
			c := core.NewCore(emulator)
			_, _ = c.Run()

			stats := c.Stats()
			Expect(stats.ICache.Reads).To(Equal(uint64(6)))
			Expect(stats.ICache.Misses).To(Equal(uint64(1)))
			Expect(stats.ICache.Hits).To(Equal(uint64(5)))
		})

		It("should take cache latencies from the timing config", func() {
			config := latency.DefaultTimingConfig()
			config.MemoryLatency = 20
			config.IOLatency = 1
			c := core.NewCore(emulator,
				core.WithLatencyTable(latency.NewTableWithConfig(config)))

			_, _ = c.Run()

			Expect(c.Stats().Cycles).To(Equal(uint64((1 + 20) + (1 + 1) + (1 + 1))))
		})

		It("should keep returning Halted after the program ends", func() {
			c := core.NewCore(emulator)
			_, _ = c.Run()
			cycles := c.Stats().Cycles

			Expect(c.Step().Halted).To(BeTrue())
			Expect(c.Stats().Cycles).To(Equal(cycles))
		})
	})

	Describe("stack accesses", func() {
		It("should send PUSH and POP through the D-cache", func() {
			load(
				insts.CodeLDI, 0, 77,
				insts.CodePUSH, 0,
				insts.CodePOP, 1,
				insts.CodeHLT,
			)
			c := core.NewCore(emulator)

			_, err := c.Run()
			Expect(err).NotTo(HaveOccurred())

			stats := c.Stats()
			Expect(stats.DCache.Writes).To(Equal(uint64(1)))
			Expect(stats.DCache.Reads).To(Equal(uint64(1)))
			Expect(stats.DCache.Misses).To(Equal(uint64(1)))
			Expect(stats.DCache.Hits).To(Equal(uint64(1)))
			Expect(stats.DataCycles).To(Equal(uint64(10 + 1)))
			Expect(emulator.RegFile().ReadReg(1)).To(Equal(uint8(77)))
		})

		It("should leave memory consistent after the final flush", func() {
			load(insts.CodeLDI, 0, 77, insts.CodePUSH, 0, insts.CodeHLT)
			c := core.NewCore(emulator)

			_, _ = c.Run()

			Expect(c.Stats().DCache.Writebacks).To(Equal(uint64(1)))
			Expect(emulator.Memory().Read8(emu.InitialSP - 1)).To(Equal(byte(77)))
		})

		It("should time CALL and RET as stack accesses", func() {
			// 0: LDI R1, 6
			// 3: CALL R1
			// 5: HLT
			// 6: RET
			load(
				insts.CodeLDI, 1, 6,
				insts.CodeCALL, 1,
				insts.CodeHLT,
				insts.CodeRET,
			)
			c := core.NewCore(emulator)

			exitCode, err := c.Run()

			Expect(err).NotTo(HaveOccurred())
			Expect(exitCode).To(Equal(int64(0)))
			stats := c.Stats()
			Expect(stats.Instructions).To(Equal(uint64(4)))
			Expect(stats.Branches).To(Equal(uint64(2)))
			Expect(stats.DCache.Writes).To(Equal(uint64(1)))
			Expect(stats.DCache.Reads).To(Equal(uint64(1)))
		})
	})

	It("should stop with the emulator error", func() {
		load(insts.CodePRN, 9)
		c := core.NewCore(emulator)

		exitCode, err := c.Run()

		Expect(exitCode).To(Equal(int64(-1)))
		Expect(err).To(MatchError(emu.ErrInvalidRegister))
		Expect(c.Stats().Instructions).To(BeZero())
	})
})
