// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package machine

import (
	"github.com/ezrec/isa16/isa"
)

// effects is everything one instruction will change, computed before any
// of it is applied.
type effects struct {
	trace Trace

	pc     uint16
	jumped bool // pc was set by a control transfer

	register uint8
	value    int16
	nzp      uint16

	address uint16
	store   uint16

	psrSet   uint16 // PSR bits to set
	psrClear uint16 // PSR bits to clear
}

func (fx *effects) write(register uint8, value int16) {
	fx.trace.Enable |= WE_REGISTER | WE_NZP
	fx.register = register
	fx.value = value
	fx.nzp = nzp(value)
}

func (fx *effects) flags(nzp uint16) {
	fx.trace.Enable |= WE_NZP
	fx.nzp = nzp
}

func (fx *effects) jump(target uint16) error {
	if !isa.Executable(target) {
		return ErrInvalidJump{Address: target}
	}
	fx.pc = target
	fx.jumped = true
	return nil
}

// access checks a data memory address.
func (m *Machine) access(addr uint16, read bool) error {
	switch {
	case addr >= uint16(isa.OS_CODE) && !m.OsMode():
		return ErrInvalidMemoryAccess{Address: addr, LacksPrivilege: true, IsRead: read}
	case isa.REGION_USER_CODE.Contains(addr):
		return ErrInvalidMemoryAccess{Address: addr, IsRead: read}
	}
	return nil
}

// execute computes the effects of an instruction at pc.
func (m *Machine) execute(in isa.Instruction, fx *effects) (err error) {
	pc := m.Pc
	next := pc + 1
	rs := m.Registers[in.Rs]
	rt := m.Registers[in.Rt]
	imm := in.Imm

	switch in.Op {
	case isa.OP_NOP:
		// pass
	case isa.OP_BRP, isa.OP_BRZ, isa.OP_BRZP, isa.OP_BRN, isa.OP_BRNP, isa.OP_BRNZ, isa.OP_BRNZP:
		if (m.Psr & in.Op.Conditions()) != 0 {
			err = fx.jump(next + uint16(imm))
		}
	case isa.OP_ADD:
		fx.write(in.Rd, rs+rt)
	case isa.OP_MUL:
		fx.write(in.Rd, rs*rt)
	case isa.OP_SUB:
		fx.write(in.Rd, rs-rt)
	case isa.OP_DIV:
		if rt == 0 || (rs == -0x8000 && rt == -1) {
			fx.write(in.Rd, 0)
		} else {
			fx.write(in.Rd, rs/rt)
		}
	case isa.OP_MOD:
		if rt == 0 || (rs == -0x8000 && rt == -1) {
			fx.write(in.Rd, 0)
		} else {
			fx.write(in.Rd, rs%rt)
		}
	case isa.OP_ADD_IMM:
		fx.write(in.Rd, rs+imm)
	case isa.OP_AND:
		fx.write(in.Rd, rs&rt)
	case isa.OP_NOT:
		fx.write(in.Rd, ^rs)
	case isa.OP_OR:
		fx.write(in.Rd, rs|rt)
	case isa.OP_XOR:
		fx.write(in.Rd, rs^rt)
	case isa.OP_AND_IMM:
		fx.write(in.Rd, rs&imm)
	case isa.OP_LDR:
		addr := uint16(rs + imm)
		if err = m.access(addr, true); err != nil {
			return
		}
		value := m.Memory[addr]
		fx.write(in.Rd, int16(value))
		fx.trace.Address = addr
		fx.trace.Value = value
	case isa.OP_STR:
		addr := uint16(rs + imm)
		if err = m.access(addr, false); err != nil {
			return
		}
		fx.trace.Enable |= WE_DATA
		fx.address = addr
		fx.store = uint16(rt)
	case isa.OP_CONST:
		fx.write(in.Rd, imm)
	case isa.OP_HICONST:
		rd := m.Registers[in.Rd]
		fx.write(in.Rd, int16((uint16(imm)<<8)|(uint16(rd)&0xff)))
	case isa.OP_CMP:
		fx.flags(compare(rs, rt))
	case isa.OP_CMPU:
		fx.flags(compare(uint16(rs), uint16(rt)))
	case isa.OP_CMPI:
		fx.flags(compare(rs, imm))
	case isa.OP_CMPIU:
		fx.flags(compare(uint16(rs), uint16(imm)))
	case isa.OP_SLL:
		fx.write(in.Rd, rs<<uint16(imm))
	case isa.OP_SRA:
		fx.write(in.Rd, rs>>uint16(imm))
	case isa.OP_SRL:
		fx.write(in.Rd, int16(uint16(rs)>>uint16(imm)))
	case isa.OP_JSRR:
		if err = fx.jump(uint16(rs)); err != nil {
			return
		}
		fx.write(7, int16(next))
	case isa.OP_JSR:
		if err = fx.jump((next & 0x8000) | (uint16(imm) << 4)); err != nil {
			return
		}
		fx.write(7, int16(next))
	case isa.OP_JMPR:
		err = fx.jump(uint16(rs))
	case isa.OP_JMP:
		err = fx.jump(next + uint16(imm))
	case isa.OP_TRAP:
		fx.write(7, int16(next))
		fx.psrSet = PSR_OS
		err = fx.jump(isa.TRAP_BASE | uint16(imm))
	case isa.OP_RTI:
		fx.psrClear = PSR_OS
		err = fx.jump(uint16(m.Registers[7]))
	default:
		err = isa.ErrOpcode(isa.Encode(in))
	}

	return
}

// Step executes the instruction at the PC. If trace is not nil it is
// filled with the effects of the step. On error the machine is unchanged
// and err is an *ErrExecution.
func (m *Machine) Step(trace *Trace) (err error) {
	pc := m.Pc
	defer func() {
		if err != nil {
			err = &ErrExecution{Pc: pc, Err: err}
		}
	}()

	word := m.Memory[pc]
	in, err := isa.Decode(word)
	if err != nil {
		return
	}

	fx := &effects{pc: pc + 1}
	fx.trace.Pc = pc
	fx.trace.Word = word

	err = m.execute(in, fx)
	if err != nil {
		return
	}

	if !fx.jumped && !isa.Executable(fx.pc) {
		err = ErrPcRollover
		return
	}

	// Commit.
	if (fx.trace.Enable & WE_REGISTER) != 0 {
		m.Registers[fx.register] = fx.value
		fx.trace.Register = fx.register
		fx.trace.RegisterValue = uint16(fx.value)
	}
	if (fx.trace.Enable & WE_DATA) != 0 {
		m.Memory[fx.address] = fx.store
		fx.trace.Address = fx.address
		fx.trace.Value = fx.store
	}
	psr := m.Psr
	if (fx.trace.Enable & WE_NZP) != 0 {
		psr = (psr &^ PSR_NZP) | fx.nzp
		fx.trace.NZP = fx.nzp
	}
	m.Psr = (psr | fx.psrSet) &^ fx.psrClear
	m.Pc = fx.pc

	if trace != nil {
		*trace = fx.trace
	}

	return
}
