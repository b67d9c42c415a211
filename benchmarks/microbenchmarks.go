package benchmarks

import "strings"

// GetMicrobenchmarks returns the standard set of LS-8 microbenchmarks.
// Each benchmark targets one part of the timing model.
//
// The LS-8 has no jumps, so every benchmark is straight-line code or
// subroutine calls.
func GetMicrobenchmarks() []Benchmark {
	return []Benchmark{
		arithmeticSequential(),
		multiplyChain(),
		stackSequential(),
		functionCalls(),
		mixedOperations(),
	}
}

// GetCoreBenchmarks returns a minimal set of benchmarks for quick validation.
func GetCoreBenchmarks() []Benchmark {
	return []Benchmark{
		arithmeticSequential(),
		functionCalls(),
	}
}

// 1. Arithmetic Sequential - Tests ALU latency and sequential fetch
func arithmeticSequential() Benchmark {
	return Benchmark{
		Name:        "arithmetic_sequential",
		Description: "10 ADDs into R0 - measures ALU latency and I-cache line fills",
		Source: unrolled(`
	LDI R0, 0
	LDI R1, 1
`, "\tADD R0, R1\n", 10, `
	PRN R0
	HLT
`),
		ExpectedOutput: "10\n",
	}
}

// 2. Multiply Chain - Tests multiply latency
func multiplyChain() Benchmark {
	return Benchmark{
		Name:        "multiply_chain",
		Description: "5 dependent MULs (R0 = R0 * 3) - measures multiply latency",
		Source: unrolled(`
	LDI R0, 1
	LDI R1, 3
`, "\tMUL R0, R1\n", 5, `
	PRN R0
	HLT
`),
		ExpectedOutput: "243\n",
	}
}

// 3. Stack Sequential - Tests D-cache behaviour of PUSH and POP
func stackSequential() Benchmark {
	return Benchmark{
		Name:        "stack_sequential",
		Description: "4 PUSHes then 4 POPs summed - measures stack access latency",
		Source: unrolled(`
	LDI R0, 5
`, "\tPUSH R0\n", 4, `
	POP R1
	POP R2
	ADD R1, R2
	POP R2
	ADD R1, R2
	POP R2
	ADD R1, R2
	PRN R1
	HLT
`),
		ExpectedOutput: "20\n",
	}
}

// 4. Function Calls - Tests CALL/RET overhead
func functionCalls() Benchmark {
	return Benchmark{
		Name:        "function_calls",
		Description: "2 calls to a squaring subroutine - measures call/return overhead",
		Source: `
.equ ARG 7
	LDI R0, ARG
	LDI R2, Square
	CALL R2
	PRN R0
	CALL R2
	PRN R0
	HLT
Square:
	MUL R0, R0
	RET
`,
		ExpectedOutput: "49\n97\n",
	}
}

// 5. Mixed Operations - Balanced workload
func mixedOperations() Benchmark {
	return Benchmark{
		Name:        "mixed_operations",
		Description: "ALU, multiply, stack and compare mix - balanced workload",
		Source: `
.equ BASE 6
	LDI R0, $(BASE * 7)
	LDI R1, 2
	MUL R0, R1
	PUSH R0
	LDI R3, 0x10
	ADD R0, R3
	CMP R0, R3
	POP R2
	PRN R0
	PRN R2
	HLT
`,
		ExpectedOutput: "100\n84\n",
	}
}

// unrolled returns prologue, n copies of body, then epilogue.
func unrolled(prologue, body string, n int, epilogue string) string {
	return prologue + strings.Repeat(body, n) + epilogue
}
