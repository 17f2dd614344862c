// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package isa

// Op is a machine opcode. Assembly-only pseudo-instructions have no Op.
type Op int

const (
	OP_NOP     = Op(0)  // nop
	OP_BRP     = Op(1)  // brp
	OP_BRZ     = Op(2)  // brz
	OP_BRZP    = Op(3)  // brzp
	OP_BRN     = Op(4)  // brn
	OP_BRNP    = Op(5)  // brnp
	OP_BRNZ    = Op(6)  // brnz
	OP_BRNZP   = Op(7)  // brnzp
	OP_ADD     = Op(8)  // add
	OP_MUL     = Op(9)  // mul
	OP_SUB     = Op(10) // sub
	OP_DIV     = Op(11) // div
	OP_ADD_IMM = Op(12) // add
	OP_MOD     = Op(13) // mod
	OP_AND     = Op(14) // and
	OP_NOT     = Op(15) // not
	OP_OR      = Op(16) // or
	OP_XOR     = Op(17) // xor
	OP_AND_IMM = Op(18) // and
	OP_LDR     = Op(19) // ldr
	OP_STR     = Op(20) // str
	OP_CONST   = Op(21) // const
	OP_HICONST = Op(22) // hiconst
	OP_CMP     = Op(23) // cmp
	OP_CMPU    = Op(24) // cmpu
	OP_CMPI    = Op(25) // cmpi
	OP_CMPIU   = Op(26) // cmpiu
	OP_SLL     = Op(27) // sll
	OP_SRA     = Op(28) // sra
	OP_SRL     = Op(29) // srl
	OP_JSRR    = Op(30) // jsrr
	OP_JSR     = Op(31) // jsr
	OP_JMPR    = Op(32) // jmpr
	OP_JMP     = Op(33) // jmp
	OP_TRAP    = Op(34) // trap
	OP_RTI     = Op(35) // rti

	OP_COUNT = 36
)

// Format is the bit layout of an opcode's operand fields.
type Format int

const (
	FMT_NONE    = Format(0)  // no operands
	FMT_BRANCH  = Format(1)  // imm9 pc-relative
	FMT_RRR     = Format(2)  // rd<<9 | rs<<6 | rt
	FMT_RRI5    = Format(3)  // rd<<9 | rs<<6 | 1<<5 | imm5
	FMT_RR      = Format(4)  // rd<<9 | rs<<6
	FMT_LOAD    = Format(5)  // rd<<9 | rs<<6 | imm6
	FMT_STORE   = Format(6)  // rt<<9 | rs<<6 | imm6
	FMT_CONST   = Format(7)  // rd<<9 | imm9
	FMT_HICONST = Format(8)  // rd<<9 | uimm8
	FMT_CMP_RR  = Format(9)  // rs<<9 | rt
	FMT_CMP_RI  = Format(10) // rs<<9 | imm7
	FMT_SHIFT   = Format(11) // rd<<9 | rs<<6 | uimm4
	FMT_REG     = Format(12) // rs<<6
	FMT_IMM11   = Format(13) // imm11
	FMT_TRAP    = Format(14) // uimm8
)

type opInfo struct {
	name   string
	base   uint16
	format Format
}

var opTable = [OP_COUNT]opInfo{
	OP_NOP:     {"nop", 0x0000, FMT_NONE},
	OP_BRP:     {"brp", 0x0200, FMT_BRANCH},
	OP_BRZ:     {"brz", 0x0400, FMT_BRANCH},
	OP_BRZP:    {"brzp", 0x0600, FMT_BRANCH},
	OP_BRN:     {"brn", 0x0800, FMT_BRANCH},
	OP_BRNP:    {"brnp", 0x0a00, FMT_BRANCH},
	OP_BRNZ:    {"brnz", 0x0c00, FMT_BRANCH},
	OP_BRNZP:   {"brnzp", 0x0e00, FMT_BRANCH},
	OP_ADD:     {"add", 0x1000, FMT_RRR},
	OP_MUL:     {"mul", 0x1008, FMT_RRR},
	OP_SUB:     {"sub", 0x1010, FMT_RRR},
	OP_DIV:     {"div", 0x1018, FMT_RRR},
	OP_ADD_IMM: {"add", 0x1020, FMT_RRI5},
	OP_MOD:     {"mod", 0xa030, FMT_RRR},
	OP_AND:     {"and", 0x5000, FMT_RRR},
	OP_NOT:     {"not", 0x5008, FMT_RR},
	OP_OR:      {"or", 0x5010, FMT_RRR},
	OP_XOR:     {"xor", 0x5018, FMT_RRR},
	OP_AND_IMM: {"and", 0x5020, FMT_RRI5},
	OP_LDR:     {"ldr", 0x6000, FMT_LOAD},
	OP_STR:     {"str", 0x7000, FMT_STORE},
	OP_CONST:   {"const", 0x9000, FMT_CONST},
	OP_HICONST: {"hiconst", 0xd000, FMT_HICONST},
	OP_CMP:     {"cmp", 0x2000, FMT_CMP_RR},
	OP_CMPU:    {"cmpu", 0x2080, FMT_CMP_RR},
	OP_CMPI:    {"cmpi", 0x2100, FMT_CMP_RI},
	OP_CMPIU:   {"cmpiu", 0x2180, FMT_CMP_RI},
	OP_SLL:     {"sll", 0xa000, FMT_SHIFT},
	OP_SRA:     {"sra", 0xa010, FMT_SHIFT},
	OP_SRL:     {"srl", 0xa020, FMT_SHIFT},
	OP_JSRR:    {"jsrr", 0x4000, FMT_REG},
	OP_JSR:     {"jsr", 0x4800, FMT_IMM11},
	OP_JMPR:    {"jmpr", 0xc000, FMT_REG},
	OP_JMP:     {"jmp", 0xc800, FMT_IMM11},
	OP_TRAP:    {"trap", 0xf000, FMT_TRAP},
	OP_RTI:     {"rti", 0x8000, FMT_NONE},
}

// Valid returns true if op names a machine opcode.
func (op Op) Valid() bool {
	return op >= 0 && op < OP_COUNT
}

// String returns the assembly mnemonic of the opcode.
func (op Op) String() string {
	if !op.Valid() {
		return f("Op(%d)", int(op))
	}
	return opTable[op].name
}

// Base returns the fixed bits of the opcode's encoding.
func (op Op) Base() uint16 {
	return opTable[op].base
}

// Format returns the operand field layout of the opcode.
func (op Op) Format() Format {
	return opTable[op].format
}

// IsBranch returns true for the conditional branches (not NOP).
func (op Op) IsBranch() bool {
	return op >= OP_BRP && op <= OP_BRNZP
}

// Conditions returns the N/Z/P mask a branch tests.
func (op Op) Conditions() uint16 {
	if op < OP_NOP || op > OP_BRNZP {
		return 0
	}
	return uint16(op - OP_NOP)
}

// ParseOp looks up a mnemonic. Mnemonics shared by a register and an
// immediate form (add, and) return the register form.
func ParseOp(name string) (op Op, err error) {
	for n, info := range opTable {
		if info.name == name {
			op = Op(n)
			return
		}
	}

	err = ErrMnemonic(name)
	return
}
