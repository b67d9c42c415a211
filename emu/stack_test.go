package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/ls8/emu"
)

var _ = Describe("StackUnit", func() {
	var (
		regFile *emu.RegFile
		memory  *emu.Memory
		stack   *emu.StackUnit
	)

	BeforeEach(func() {
		regFile = emu.NewRegFile()
		memory = emu.NewMemory()
		stack = emu.NewStackUnit(regFile, memory)
	})

	Describe("Push", func() {
		It("should decrement SP then store", func() {
			stack.Push(0x42)

			Expect(regFile.SP()).To(Equal(uint8(0xF3)))
			Expect(memory.Read8(0xF3)).To(Equal(byte(0x42)))
		})

		It("should wrap SP below zero", func() {
			regFile.SetSP(0)

			stack.Push(9)

			Expect(regFile.SP()).To(Equal(uint8(0xFF)))
			Expect(memory.Read8(0xFF)).To(Equal(byte(9)))
		})
	})

	Describe("Pop", func() {
		It("should load then increment SP", func() {
			regFile.SetSP(0xF0)
			memory.Write8(0xF0, 0x99)

			Expect(stack.Pop()).To(Equal(uint8(0x99)))
			Expect(regFile.SP()).To(Equal(uint8(0xF1)))
		})

		It("should undo Push", func() {
			stack.Push(1)
			stack.Push(2)

			Expect(stack.Pop()).To(Equal(uint8(2)))
			Expect(stack.Pop()).To(Equal(uint8(1)))
			Expect(regFile.SP()).To(Equal(emu.InitialSP))
		})
	})

	Describe("Call and Ret", func() {
		It("should save the return address and jump", func() {
			regFile.PC = 0x10

			stack.Call(0x40, 0x12)

			Expect(regFile.PC).To(Equal(uint8(0x40)))
			Expect(regFile.SP()).To(Equal(uint8(0xF3)))
			Expect(memory.Read8(0xF3)).To(Equal(byte(0x12)))
		})

		It("should return to the saved address", func() {
			stack.Call(0x40, 0x12)

			stack.Ret()

			Expect(regFile.PC).To(Equal(uint8(0x12)))
			Expect(regFile.SP()).To(Equal(emu.InitialSP))
		})
	})
})
