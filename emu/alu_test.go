package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/ls8/emu"
)

var _ = Describe("ALU", func() {
	var (
		regFile *emu.RegFile
		alu     *emu.ALU
	)

	BeforeEach(func() {
		regFile = emu.NewRegFile()
		alu = emu.NewALU(regFile)
	})

	Describe("ADD", func() {
		It("should add two registers", func() {
			regFile.WriteReg(0, 10)
			regFile.WriteReg(1, 32)

			alu.ADD(0, 1)

			Expect(regFile.ReadReg(0)).To(Equal(uint8(42)))
			Expect(regFile.ReadReg(1)).To(Equal(uint8(32)))
		})

		It("should wrap modulo 256", func() {
			regFile.WriteReg(0, 200)
			regFile.WriteReg(1, 100)

			alu.ADD(0, 1)

			Expect(regFile.ReadReg(0)).To(Equal(uint8(44)))
		})

		It("should match (a+b) mod 256 for all operand pairs", func() {
			for a := 0; a < 256; a++ {
				for b := 0; b < 256; b += 7 {
					regFile.WriteReg(2, uint8(a))
					regFile.WriteReg(3, uint8(b))
					alu.ADD(2, 3)
					Expect(regFile.ReadReg(2)).To(Equal(uint8((a + b) % 256)))
				}
			}
		})

		It("should double a register added to itself", func() {
			regFile.WriteReg(4, 21)

			alu.ADD(4, 4)

			Expect(regFile.ReadReg(4)).To(Equal(uint8(42)))
		})
	})

	Describe("MUL", func() {
		It("should multiply two registers", func() {
			regFile.WriteReg(0, 8)
			regFile.WriteReg(1, 9)

			alu.MUL(0, 1)

			Expect(regFile.ReadReg(0)).To(Equal(uint8(72)))
		})

		It("should match (a*b) mod 256 for all operand pairs", func() {
			for a := 0; a < 256; a += 3 {
				for b := 0; b < 256; b += 5 {
					regFile.WriteReg(2, uint8(a))
					regFile.WriteReg(3, uint8(b))
					alu.MUL(2, 3)
					Expect(regFile.ReadReg(2)).To(Equal(uint8((a * b) % 256)))
				}
			}
		})
	})

	Describe("CMP", func() {
		It("should set E for equal values", func() {
			regFile.WriteReg(0, 5)
			regFile.WriteReg(1, 5)

			alu.CMP(0, 1)

			Expect(regFile.Flags).To(Equal(emu.Flags{E: true}))
		})

		It("should set L when Ra < Rb", func() {
			regFile.WriteReg(0, 4)
			regFile.WriteReg(1, 5)

			alu.CMP(0, 1)

			Expect(regFile.Flags).To(Equal(emu.Flags{L: true}))
		})

		It("should set G when Ra > Rb", func() {
			regFile.WriteReg(0, 6)
			regFile.WriteReg(1, 5)

			alu.CMP(0, 1)

			Expect(regFile.Flags).To(Equal(emu.Flags{G: true}))
		})

		It("should compare unsigned", func() {
			regFile.WriteReg(0, 0xFF)
			regFile.WriteReg(1, 0x01)

			alu.CMP(0, 1)

			Expect(regFile.Flags.G).To(BeTrue())
		})

		It("should never clear flags set by an earlier compare", func() {
			regFile.WriteReg(0, 1)
			regFile.WriteReg(1, 1)
			alu.CMP(0, 1)

			regFile.WriteReg(1, 2)
			alu.CMP(0, 1)

			regFile.WriteReg(1, 0)
			alu.CMP(0, 1)

			Expect(regFile.Flags).To(Equal(emu.Flags{E: true, L: true, G: true}))
		})

		It("should not write any register", func() {
			regFile.WriteReg(0, 3)
			regFile.WriteReg(1, 9)
			before := regFile.R

			alu.CMP(0, 1)

			Expect(regFile.R).To(Equal(before))
		})
	})

	Describe("Execute", func() {
		It("should dispatch each operation", func() {
			regFile.WriteReg(0, 3)
			regFile.WriteReg(1, 4)

			Expect(alu.Execute(emu.ALUAdd, 0, 1)).To(Succeed())
			Expect(regFile.ReadReg(0)).To(Equal(uint8(7)))

			Expect(alu.Execute(emu.ALUMul, 0, 1)).To(Succeed())
			Expect(regFile.ReadReg(0)).To(Equal(uint8(28)))

			Expect(alu.Execute(emu.ALUCmp, 0, 1)).To(Succeed())
			Expect(regFile.Flags.G).To(BeTrue())
		})

		It("should report an unsupported operation without changing state", func() {
			regFile.WriteReg(0, 3)
			regFile.WriteReg(1, 4)
			before := *regFile

			err := alu.Execute(emu.ALUOp(99), 0, 1)

			Expect(err).To(MatchError(emu.ErrUnsupportedALUOp))
			Expect(*regFile).To(Equal(before))
		})

		It("should reject registers outside R0-R7", func() {
			err := alu.Execute(emu.ALUAdd, 0, 8)
			Expect(err).To(MatchError(emu.ErrInvalidRegister))
		})
	})
})
