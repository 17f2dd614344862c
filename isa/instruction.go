// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package isa

import (
	"fmt"
	"strings"
)

// Instruction is a fully resolved machine instruction.
//
// Register fields not used by the opcode are zero. Imm holds the decoded
// immediate: sign-extended for signed fields, zero-extended otherwise.
type Instruction struct {
	Op  Op
	Rd  uint8
	Rs  uint8
	Rt  uint8
	Imm int16
}

// Encode an instruction into its machine word. Register fields are masked
// to three bits, and the immediate to the width of its field; range
// checking is the caller's job.
func Encode(in Instruction) (word uint16) {
	rd := uint16(in.Rd&7) << 9
	rs := uint16(in.Rs&7) << 6
	rt := uint16(in.Rt & 7)
	value := uint16(in.Imm)

	word = in.Op.Base()

	switch in.Op.Format() {
	case FMT_NONE:
		// pass
	case FMT_BRANCH:
		word |= value & 0x1ff
	case FMT_RRR:
		word |= rd | rs | rt
	case FMT_RRI5:
		word |= rd | rs | (value & 0x1f)
	case FMT_RR:
		word |= rd | rs
	case FMT_LOAD:
		word |= rd | rs | (value & 0x3f)
	case FMT_STORE:
		word |= (rt << 9) | rs | (value & 0x3f)
	case FMT_CONST:
		word |= rd | (value & 0x1ff)
	case FMT_HICONST:
		word |= rd | (value & 0xff)
	case FMT_CMP_RR:
		word |= (uint16(in.Rs&7) << 9) | rt
	case FMT_CMP_RI:
		word |= (uint16(in.Rs&7) << 9) | (value & 0x7f)
	case FMT_SHIFT:
		word |= rd | rs | (value & 0xf)
	case FMT_REG:
		word |= rs
	case FMT_IMM11:
		word |= value & 0x7ff
	case FMT_TRAP:
		word |= value & 0xff
	}

	return
}

// Decode a machine word. Only the three reserved opcode classes (0x3, 0xB
// and 0xE) fail to decode.
func Decode(word uint16) (in Instruction, err error) {
	rd := uint8((word >> 9) & 0x7)
	rs := uint8((word >> 6) & 0x7)
	rt := uint8(word & 0x7)

	switch word >> 12 {
	// BR   |0000    |N|Z|P|PCoffset9         |
	case 0x0:
		in.Op = OP_NOP + Op((word>>9)&0x7)
		if in.Op != OP_NOP {
			in.Imm = SignExtend(word&0x1ff, 9)
		}
	// ADD  |0001    |Rd   |Rs   |0|op |Rt    |
	// ADD  |0001    |Rd   |Rs   |1|imm5      |
	case 0x1:
		if (word & 0x20) != 0 {
			in = Instruction{Op: OP_ADD_IMM, Rd: rd, Rs: rs, Imm: SignExtend(word&0x1f, 5)}
			break
		}
		in = Instruction{Op: OP_ADD + Op((word>>3)&0x3), Rd: rd, Rs: rs, Rt: rt}
	// CMP  |0010    |Rs   |op |0|0|0|Rt    |
	// CMPI |0010    |Rs   |op |imm7          |
	case 0x2:
		rs = rd
		switch (word >> 7) & 0x3 {
		case 0:
			in = Instruction{Op: OP_CMP, Rs: rs, Rt: rt}
		case 1:
			in = Instruction{Op: OP_CMPU, Rs: rs, Rt: rt}
		case 2:
			in = Instruction{Op: OP_CMPI, Rs: rs, Imm: SignExtend(word&0x7f, 7)}
		case 3:
			in = Instruction{Op: OP_CMPIU, Rs: rs, Imm: ZeroExtend(word, 7)}
		}
	// JSRR |0100    |0|   |Rs   |            |
	// JSR  |0100    |1|imm11                 |
	case 0x4:
		if (word & 0x0800) == 0 {
			in = Instruction{Op: OP_JSRR, Rs: rs}
		} else {
			in = Instruction{Op: OP_JSR, Imm: SignExtend(word&0x7ff, 11)}
		}
	// AND  |0101    |Rd   |Rs   |0|op |Rt    |
	// AND  |0101    |Rd   |Rs   |1|imm5      |
	case 0x5:
		if (word & 0x20) != 0 {
			in = Instruction{Op: OP_AND_IMM, Rd: rd, Rs: rs, Imm: SignExtend(word&0x1f, 5)}
			break
		}
		in = Instruction{Op: OP_AND + Op((word>>3)&0x3), Rd: rd, Rs: rs, Rt: rt}
		if in.Op == OP_NOT {
			in.Rt = 0
		}
	// LDR  |0110    |Rd   |Rs   |imm6        |
	case 0x6:
		in = Instruction{Op: OP_LDR, Rd: rd, Rs: rs, Imm: SignExtend(word&0x3f, 6)}
	// STR  |0111    |Rt   |Rs   |imm6        |
	case 0x7:
		in = Instruction{Op: OP_STR, Rt: rd, Rs: rs, Imm: SignExtend(word&0x3f, 6)}
	// RTI  |1000    |                        |
	case 0x8:
		in = Instruction{Op: OP_RTI}
	// CONST|1001    |Rd   |imm9              |
	case 0x9:
		in = Instruction{Op: OP_CONST, Rd: rd, Imm: SignExtend(word&0x1ff, 9)}
	// SLL  |1010    |Rd   |Rs   |op |uimm4   |
	// MOD  |1010    |Rd   |Rs   |1|1|   |Rt  |
	case 0xa:
		op := (word >> 4) & 0x3
		if op == 3 {
			in = Instruction{Op: OP_MOD, Rd: rd, Rs: rs, Rt: rt}
			break
		}
		in = Instruction{Op: OP_SLL + Op(op), Rd: rd, Rs: rs, Imm: ZeroExtend(word, 4)}
	// JMPR |1100    |0|   |Rs   |            |
	// JMP  |1100    |1|imm11                 |
	case 0xc:
		if (word & 0x0800) == 0 {
			in = Instruction{Op: OP_JMPR, Rs: rs}
		} else {
			in = Instruction{Op: OP_JMP, Imm: SignExtend(word&0x7ff, 11)}
		}
	// HICON|1101    |Rd   | |uimm8           |
	case 0xd:
		in = Instruction{Op: OP_HICONST, Rd: rd, Imm: ZeroExtend(word, 8)}
	// TRAP |1111    |       |uimm8           |
	case 0xf:
		in = Instruction{Op: OP_TRAP, Imm: ZeroExtend(word, 8)}
	default:
		err = ErrOpcode(word)
	}

	return
}

// String disassembles the instruction.
func (in Instruction) String() string {
	var sb strings.Builder

	sb.WriteString(in.Op.String())
	for n, operand := range Operands(in.Op) {
		if n == 0 {
			sb.WriteString(" ")
		} else {
			sb.WriteString(", ")
		}
		switch operand.Kind {
		case OPERAND_RD:
			fmt.Fprintf(&sb, "r%d", in.Rd)
		case OPERAND_RS:
			fmt.Fprintf(&sb, "r%d", in.Rs)
		case OPERAND_RT:
			fmt.Fprintf(&sb, "r%d", in.Rt)
		case OPERAND_IMM, OPERAND_LABEL:
			if in.Op == OP_TRAP || in.Op == OP_HICONST {
				fmt.Fprintf(&sb, "x%02X", uint16(in.Imm))
			} else {
				fmt.Fprintf(&sb, "#%d", in.Imm)
			}
		}
	}

	return sb.String()
}
