// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package link

import (
	"log"

	"github.com/ezrec/isa16/isa"
	"github.com/ezrec/isa16/object"
)

const (
	CODE_START = uint32(0x0000) // first address of unplaced code
	DATA_START = uint32(0x2000) // first address of unplaced data
)

// Linker turns blocks into an object file.
type Linker struct {
	Verbose   bool // If set, log placement and output sizes.
	DebugInfo bool // If set, write symbol, file and line records.
}

// Link blocks into an object file using the constant table for LC.
func Link(blocks []Block, constants map[string]int32, debug bool) (obj []byte, err error) {
	lk := &Linker{DebugInfo: debug}
	return lk.Link(blocks, constants)
}

// entry is an expanded machine instruction awaiting relocation.
type entry struct {
	isa.Instruction
	imm   int32
	label SymbolID
	line  int
}

type state struct {
	*Linker
	blocks    []Block
	constants map[string]int32
	syms      *symtab
	labels    [][]SymbolID // per block
	code      [][]entry    // per code block, after expansion
	diags     ErrLink
}

// Link blocks into an object file. On failure err is an ErrLink holding
// every diagnostic found. The start address of each block is written to
// its Placed field.
func (lk *Linker) Link(blocks []Block, constants map[string]int32) (obj []byte, err error) {
	st := &state{
		Linker:    lk,
		blocks:    blocks,
		constants: constants,
		syms:      newSymtab(),
		labels:    make([][]SymbolID, len(blocks)),
		code:      make([][]entry, len(blocks)),
	}

	st.validate()
	if len(st.diags) == 0 {
		st.expand()
	}
	if len(st.diags) != 0 {
		err = st.diags
		return
	}

	st.place()
	st.relocate()
	if len(st.diags) != 0 {
		err = st.diags
		return
	}

	obj = st.encode()
	if lk.Verbose {
		log.Printf("link: %d blocks, %d symbols, %d bytes", len(blocks), len(st.syms.order), len(obj))
	}

	return
}

func (st *state) report(err error) {
	st.diags = append(st.diags, err)
}

// relocatable returns true if op may take a label.
func relocatable(op isa.Op) bool {
	switch op {
	case isa.OP_JMP, isa.OP_JSR, isa.OP_CONST, isa.OP_HICONST:
		return true
	}
	return op.IsBranch()
}

// validate interns every label and checks literal operands.
func (st *state) validate() {
	for n := range st.blocks {
		block := &st.blocks[n]
		for _, label := range block.Labels {
			if id := st.syms.intern(label); id != SYMBOL_NONE {
				st.labels[n] = append(st.labels[n], id)
			}
		}

		if len(block.Code) != 0 && block.Data != nil {
			st.report(ErrBlockMixed{Block: block.Name()})
			continue
		}

		for _, in := range block.Code {
			st.validateInstruction(in)
		}
	}
}

func (st *state) validateInstruction(in Instruction) {
	name := in.Mnemonic()

	switch in.Pseudo {
	case PSEUDO_RET:
		return
	case PSEUDO_LEA, PSEUDO_LC:
		if in.Rd < 0 || in.Rd > 7 {
			st.report(ErrRegisterRange{Op: name, Operand: 1, Register: in.Rd})
		}
		if len(in.Label) == 0 {
			st.report(ErrLabelMissing{Op: name})
			return
		}
		if in.Pseudo == PSEUDO_LEA {
			st.syms.intern(in.Label)
		}
		return
	}

	op := in.machineOp()
	if !op.Valid() {
		st.report(isa.ErrMnemonic(name))
		return
	}

	for n, operand := range isa.Operands(op) {
		reg := int8(0)
		switch operand.Kind {
		case isa.OPERAND_RD:
			reg = in.Rd
		case isa.OPERAND_RS:
			reg = in.Rs
		case isa.OPERAND_RT:
			reg = in.Rt
		case isa.OPERAND_IMM, isa.OPERAND_LABEL:
			if len(in.Label) != 0 {
				continue
			}
			if !isa.Fits(in.Imm, operand.Signed, operand.Bits) {
				st.report(ErrOperandRange{
					Op:      name,
					Operand: n + 1,
					Signed:  operand.Signed,
					Bits:    operand.Bits,
					Value:   in.Imm,
				})
			}
			continue
		}
		if reg < 0 || reg > 7 {
			st.report(ErrRegisterRange{Op: name, Operand: n + 1, Register: reg})
		}
	}

	if len(in.Label) != 0 {
		if !relocatable(op) {
			st.report(ErrLabelOperand{Op: name, Label: in.Label})
			return
		}
		st.syms.intern(in.Label)
	}
}

func register(reg int8) uint8 {
	if reg < 0 {
		return 0
	}
	return uint8(reg)
}

// expand rewrites each code block into machine instructions.
func (st *state) expand() {
	for n := range st.blocks {
		block := &st.blocks[n]
		if block.IsData() {
			continue
		}

		code := make([]entry, 0, len(block.Code))
		for _, in := range block.Code {
			label := SYMBOL_NONE
			if in.Pseudo != PSEUDO_LC {
				label = st.syms.intern(in.Label)
			}
			ent := entry{
				Instruction: isa.Instruction{
					Op: in.machineOp(),
					Rd: register(in.Rd),
					Rs: register(in.Rs),
					Rt: register(in.Rt),
				},
				imm:   in.Imm,
				label: label,
				line:  in.Line,
			}

			switch in.Pseudo {
			case PSEUDO_RET:
				ent.Op = isa.OP_JMPR
				ent.Rd, ent.Rs, ent.Rt = 0, 7, 0
				ent.imm = 0
			case PSEUDO_LEA:
				ent.Op = isa.OP_CONST
				ent.Rs, ent.Rt = 0, 0
				code = append(code, ent)
				ent.Op = isa.OP_HICONST
			case PSEUDO_LC:
				value, ok := st.constants[in.Label]
				if !ok {
					st.report(ErrConstantMissing{Name: in.Label})
					continue
				}
				ent.Op = isa.OP_CONST
				ent.Rs, ent.Rt = 0, 0
				ent.imm = int32(isa.SignExtend(uint16(value&0x1ff), 9))
				code = append(code, ent)

				high := (value & 0xff00) >> 8
				if high == 0 || high == 0xff {
					continue
				}
				ent.Op = isa.OP_HICONST
				ent.imm = high
			}

			code = append(code, ent)
		}

		st.code[n] = code
	}
}

type extent struct {
	name       string
	start, end uint32
}

// place assigns addresses to blocks and defines their labels.
func (st *state) place() {
	code_cursor := CODE_START
	data_cursor := DATA_START

	var placed []extent

	for n := range st.blocks {
		block := &st.blocks[n]

		cursor := &code_cursor
		size := uint32(len(st.code[n]))
		if block.IsData() {
			cursor = &data_cursor
			size = uint32(block.DataSize())
		}

		addr := *cursor
		if block.HasAddr {
			addr = uint32(block.Addr)
		}
		if block.Aligned && (addr&0xf) != 0 {
			addr |= 0xf
			addr++
		}

		block.Placed = uint16(addr)

		for _, id := range st.labels[n] {
			prev, dup := st.syms.define(id, uint16(addr))
			if dup {
				st.report(ErrLabelDuplicate{Label: st.syms.name(id), Addr: prev})
			}
		}

		here := extent{name: block.Name(), start: addr, end: addr + size}
		for _, other := range placed {
			if here.end <= other.start || other.end <= here.start {
				continue
			}
			st.report(ErrBlockOverlap{
				Block: here.name, Start: here.start, End: here.end,
				Other: other.name, OtherStart: other.start, OtherEnd: other.end,
			})
		}

		fits := isa.CodeFits(here.start, here.end)
		if block.IsData() {
			fits = isa.DataFits(here.start, here.end)
		}
		if !fits {
			st.report(ErrBlockRegion{Block: here.name, IsData: block.IsData(), Start: here.start, End: here.end})
		}

		if st.Verbose {
			log.Printf("link: %v at 0x%04x-0x%04x", here.name, here.start, here.end)
		}

		placed = append(placed, here)
		*cursor = here.end
	}
}

// relocate resolves label references into immediates.
func (st *state) relocate() {
	for n := range st.blocks {
		block := &st.blocks[n]
		for i := range st.code[n] {
			ent := &st.code[n][i]
			if ent.label == SYMBOL_NONE {
				continue
			}

			label := st.syms.name(ent.label)
			target, ok := st.syms.lookup(ent.label)
			if !ok {
				st.report(ErrLabelUndefined{Label: label})
				continue
			}

			pc := int32(block.Placed) + int32(i)

			switch {
			case ent.Op.IsBranch() || ent.Op == isa.OP_JMP:
				bits := uint(9)
				if ent.Op == isa.OP_JMP {
					bits = 11
				}
				ent.imm = int32(target) - (pc + 1)
				if !isa.Fits(ent.imm, true, bits) {
					st.report(ErrJumpTooFar{Label: label})
				}
			case ent.Op == isa.OP_JSR:
				if (target & 0xf) != 0 {
					st.report(ErrSubroutineAlign{Label: label})
					continue
				}
				ent.imm = int32(target&0x7fff) >> 4
				same_space := (uint16(pc+1) & 0x8000) == (target & 0x8000)
				if !same_space || !isa.Fits(ent.imm, true, 11) {
					st.report(ErrSubroutineTooFar{Label: label})
				}
			case ent.Op == isa.OP_CONST:
				ent.imm = int32(isa.SignExtend(target&0x1ff, 9))
			case ent.Op == isa.OP_HICONST:
				ent.imm = int32(target&0xff00) >> 8
			}
		}
	}
}

// encode writes the object file.
func (st *state) encode() []byte {
	wr := &object.Writer{}

	var files map[string]uint16
	if st.DebugInfo {
		for _, id := range st.syms.order {
			addr, _ := st.syms.lookup(id)
			wr.Symbol(addr, st.syms.name(id))
		}

		files = map[string]uint16{}
		for _, block := range st.blocks {
			if len(block.File) == 0 {
				continue
			}
			if _, ok := files[block.File]; ok {
				continue
			}
			files[block.File] = uint16(len(files))
			wr.File(block.File)
		}
	}

	for n, block := range st.blocks {
		if block.IsData() {
			var words []uint16
			for _, d := range block.Data {
				words = d.AppendWords(words)
			}
			wr.Data(block.Placed, words)
			continue
		}

		words := make([]uint16, len(st.code[n]))
		for i, ent := range st.code[n] {
			in := ent.Instruction
			in.Imm = int16(ent.imm)
			words[i] = isa.Encode(in)
		}
		wr.Code(block.Placed, words)

		file, ok := files[block.File]
		if !st.DebugInfo || !ok {
			continue
		}
		for i, ent := range st.code[n] {
			if ent.line > 0 {
				wr.Line(block.Placed+uint16(i), uint16(ent.line), file)
			}
		}
	}

	return wr.Bytes()
}
