package isa

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeKnown(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name string
		in   Instruction
		word uint16
	}){
		{"add", Instruction{Op: OP_ADD, Rd: 0, Rs: 1, Rt: 2}, 0x1042},
		{"add_imm", Instruction{Op: OP_ADD_IMM, Rd: 1, Rs: 1, Imm: -1}, 0x127f},
		{"mod", Instruction{Op: OP_MOD, Rd: 3, Rs: 4, Rt: 5}, 0xa735},
		{"not", Instruction{Op: OP_NOT, Rd: 2, Rs: 3}, 0x54c8},
		{"str", Instruction{Op: OP_STR, Rt: 1, Rs: 6, Imm: 2}, 0x7382},
		{"const", Instruction{Op: OP_CONST, Rd: 7, Imm: -256}, 0x9f00},
		{"hiconst", Instruction{Op: OP_HICONST, Rd: 0, Imm: 0xab}, 0xd0ab},
		{"cmp", Instruction{Op: OP_CMP, Rs: 3, Rt: 4}, 0x2604},
		{"cmpiu", Instruction{Op: OP_CMPIU, Rs: 1, Imm: 0x7f}, 0x23ff},
		{"jsrr", Instruction{Op: OP_JSRR, Rs: 5}, 0x4140},
		{"jsr", Instruction{Op: OP_JSR, Imm: -1}, 0x4fff},
		{"jmpr", Instruction{Op: OP_JMPR, Rs: 7}, 0xc1c0},
		{"jmp", Instruction{Op: OP_JMP, Imm: 3}, 0xc803},
		{"trap", Instruction{Op: OP_TRAP, Imm: 0x25}, 0xf025},
		{"rti", Instruction{Op: OP_RTI}, 0x8000},
		{"brz", Instruction{Op: OP_BRZ, Imm: -1}, 0x05ff},
		{"brnzp", Instruction{Op: OP_BRNZP, Imm: 1}, 0x0e01},
		{"nop", Instruction{Op: OP_NOP}, 0x0000},
		{"sra", Instruction{Op: OP_SRA, Rd: 1, Rs: 2, Imm: 15}, 0xa29f},
	}

	for _, entry := range table {
		word := Encode(entry.in)
		assert.Equal(entry.word, word, entry.name)

		in, err := Decode(word)
		assert.NoError(err, entry.name)
		assert.Equal(entry.in, in, entry.name)
	}
}

func TestDecodeReserved(t *testing.T) {
	assert := assert.New(t)

	for _, word := range []uint16{0x3000, 0x3fff, 0xb123, 0xe000} {
		_, err := Decode(word)
		assert.ErrorIs(err, ErrInstructionInvalid)
		assert.Equal(ErrOpcode(word), err)
	}
}

// sample returns a spread of values that fit in a field.
func sample(signed bool, bits uint) (values []int16) {
	lo, hi := int32(0), int32(1)<<bits
	if signed {
		lo -= int32(1) << (bits - 1)
		hi -= int32(1) << (bits - 1)
	}
	for v := lo; v < hi; v++ {
		values = append(values, int16(v))
	}
	return
}

func TestEncodeRoundTrip(t *testing.T) {
	assert := assert.New(t)

	for op := OP_NOP; op < OP_COUNT; op++ {
		operands := Operands(op)

		regs := [3]uint8{}
		for r := range uint8(8) {
			regs = [3]uint8{r, (r + 3) % 8, (r + 5) % 8}

			imms := []int16{0}
			if operand, ok := Immediate(op); ok && op != OP_NOP {
				imms = sample(operand.Signed, operand.Bits)
			}

			for _, imm := range imms {
				in := Instruction{Op: op, Imm: imm}
				for _, operand := range operands {
					switch operand.Kind {
					case OPERAND_RD:
						in.Rd = regs[0]
					case OPERAND_RS:
						in.Rs = regs[1]
					case OPERAND_RT:
						in.Rt = regs[2]
					}
				}

				out, err := Decode(Encode(in))
				if !assert.NoError(err, op.String()) {
					return
				}
				if !assert.Equal(in, out, op.String()) {
					return
				}
			}
		}
	}
}

func TestSignRoundTrip(t *testing.T) {
	assert := assert.New(t)

	for _, bits := range []uint{4, 5, 6, 7, 8, 9, 11} {
		for _, signed := range []bool{true, false} {
			for _, v := range sample(signed, bits) {
				assert.True(Fits(int32(v), signed, bits))
				word := uint16(v) & ((1 << bits) - 1)
				if signed {
					assert.Equal(v, SignExtend(word, bits))
				} else {
					assert.Equal(v, ZeroExtend(word, bits))
				}
			}
		}
	}
}

func TestFits(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		value  int32
		signed bool
		bits   uint
		fits   bool
	}){
		{255, true, 9, true},
		{256, true, 9, false},
		{-256, true, 9, true},
		{-257, true, 9, false},
		{300, true, 9, false},
		{255, false, 8, true},
		{256, false, 8, false},
		{-1, false, 8, false},
		{1023, true, 11, true},
		{1024, true, 11, false},
	}

	for _, entry := range table {
		assert.Equal(entry.fits, Fits(entry.value, entry.signed, entry.bits), "%+v", entry)
	}
}

func TestString(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("add r0, r1, #-3", Instruction{Op: OP_ADD_IMM, Rd: 0, Rs: 1, Imm: -3}.String())
	assert.Equal("str r2, r6, #4", Instruction{Op: OP_STR, Rt: 2, Rs: 6, Imm: 4}.String())
	assert.Equal("trap x25", Instruction{Op: OP_TRAP, Imm: 0x25}.String())
	assert.Equal("rti", Instruction{Op: OP_RTI}.String())
	assert.Equal("jmpr r7", Instruction{Op: OP_JMPR, Rs: 7}.String())
}

func TestParseOp(t *testing.T) {
	assert := assert.New(t)

	op, err := ParseOp("add")
	assert.NoError(err)
	assert.Equal(OP_ADD, op)

	op, err = ParseOp("hiconst")
	assert.NoError(err)
	assert.Equal(OP_HICONST, op)

	_, err = ParseOp("lea")
	assert.ErrorIs(err, ErrOpInvalid)
}

func TestRegions(t *testing.T) {
	assert := assert.New(t)

	assert.True(CodeFits(0x0000, 0x2000))
	assert.False(CodeFits(0x1ff0, 0x2010))
	assert.True(CodeFits(0x8200, 0x8300))
	assert.False(CodeFits(0x9ff0, 0xa001))
	assert.True(DataFits(0x2000, 0x8000))
	assert.True(DataFits(0xa000, 0x10000))
	assert.False(DataFits(0x1000, 0x2001))

	assert.True(Executable(0x1fff))
	assert.False(Executable(0x2000))
	assert.True(Executable(0x8000))
	assert.False(Executable(0xa000))
}
