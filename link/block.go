// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package link

import (
	"github.com/ezrec/isa16/isa"
)

// Pseudo is an assembly-only instruction expanded by the linker.
type Pseudo int

const (
	PSEUDO_NONE = Pseudo(0) // machine instruction in Op
	PSEUDO_RET  = Pseudo(1) // jmpr r7
	PSEUDO_LEA  = Pseudo(2) // load address of Label into Rd
	PSEUDO_LC   = Pseudo(3) // load constant named by Label into Rd
)

func (ps Pseudo) String() string {
	switch ps {
	case PSEUDO_RET:
		return "ret"
	case PSEUDO_LEA:
		return "lea"
	case PSEUDO_LC:
		return "lc"
	}
	return ""
}

// REG_NONE marks an unused register operand.
const REG_NONE = int8(-1)

// Instruction is a source instruction before expansion and relocation.
//
// When Label is set it replaces Imm for branches, jumps, and LEA; for LC
// it names an entry in the constant table. An ADD or AND with Rt set to
// REG_NONE is the immediate form. Line, when positive, is emitted as
// debug information.
type Instruction struct {
	Op     isa.Op
	Pseudo Pseudo
	Rd     int8
	Rs     int8
	Rt     int8
	Imm    int32
	Label  string
	Line   int
}

// Mnemonic returns the name used in diagnostics.
func (in Instruction) Mnemonic() string {
	if in.Pseudo != PSEUDO_NONE {
		return in.Pseudo.String()
	}
	return in.Op.String()
}

// machineOp returns the opcode the instruction encodes as.
func (in Instruction) machineOp() isa.Op {
	switch {
	case in.Op == isa.OP_ADD && in.Rt == REG_NONE:
		return isa.OP_ADD_IMM
	case in.Op == isa.OP_AND && in.Rt == REG_NONE:
		return isa.OP_AND_IMM
	}
	return in.Op
}

// DatumKind selects the contents of a Datum.
type DatumKind int

const (
	DATUM_ZEROS   = DatumKind(0) // Count zero words
	DATUM_WORD    = DatumKind(1) // one Value word
	DATUM_STRINGZ = DatumKind(2) // one word per byte of Text, then a zero
)

// Datum is one item of a data block.
type Datum struct {
	Kind  DatumKind
	Count uint16
	Value int16
	Text  string
}

// Zeros is n zero words.
func Zeros(n uint16) Datum {
	return Datum{Kind: DATUM_ZEROS, Count: n}
}

// Word is a single word.
func Word(v int16) Datum {
	return Datum{Kind: DATUM_WORD, Value: v}
}

// Stringz is a zero terminated string, one byte per word.
func Stringz(s string) Datum {
	return Datum{Kind: DATUM_STRINGZ, Text: s}
}

// Size returns the number of words the datum occupies.
func (d Datum) Size() int {
	switch d.Kind {
	case DATUM_ZEROS:
		return int(d.Count)
	case DATUM_WORD:
		return 1
	case DATUM_STRINGZ:
		return len(d.Text) + 1
	}
	return 0
}

// AppendWords appends the datum's memory image to words.
func (d Datum) AppendWords(words []uint16) []uint16 {
	switch d.Kind {
	case DATUM_ZEROS:
		for range d.Count {
			words = append(words, 0)
		}
	case DATUM_WORD:
		words = append(words, uint16(d.Value))
	case DATUM_STRINGZ:
		for _, b := range []byte(d.Text) {
			words = append(words, uint16(b))
		}
		words = append(words, 0)
	}
	return words
}

// Block is a contiguous run of code or data.
//
// Exactly one of Code and Data is used; a block with no Code and a
// non-nil Data is a data block. A block with Code and a non-nil Data is
// rejected by Link, even when Data is empty. Without HasAddr the block follows the previous block of
// the same kind. Placed is set by Link to the block's start address.
type Block struct {
	Addr    uint16
	HasAddr bool
	Aligned bool
	Labels  []string
	Code    []Instruction
	Data    []Datum
	File    string

	Placed uint16
}

// IsData returns true for a data block.
func (b *Block) IsData() bool {
	return len(b.Code) == 0 && b.Data != nil
}

// Name returns the first label of the block, for diagnostics.
func (b *Block) Name() string {
	if len(b.Labels) == 0 {
		return "Unlabeled"
	}
	return b.Labels[0]
}

// DataSize returns the number of words in a data block.
func (b *Block) DataSize() (size int) {
	for _, d := range b.Data {
		size += d.Size()
	}
	return
}
