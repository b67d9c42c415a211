// Package insts provides LS-8 instruction definitions and decoding.
//
// Every LS-8 instruction starts with a one-byte opcode. The two high bits of
// the opcode give the number of operand bytes that follow it:
//   - 0b1xxxxxxx: two operands (instruction is 3 bytes wide)
//   - 0b01xxxxxx: one operand (instruction is 2 bytes wide)
//   - 0b00xxxxxx: no operands (instruction is 1 byte wide)
//
// Usage:
//
//	decoder := insts.NewDecoder()
//	inst := decoder.Decode(0b10000010, 0, 40) // LDI R0, 40
//	fmt.Printf("Op: %v, A: %d, B: %d\n", inst.Op, inst.OperandA, inst.OperandB)
package insts
