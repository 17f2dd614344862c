package link

import (
	"errors"
	"strings"

	"github.com/ezrec/isa16/translate"
)

var f = translate.From

var (
	ErrOperand    = errors.New(f("operand invalid"))
	ErrPlacement  = errors.New(f("placement invalid"))
	ErrRelocation = errors.New(f("relocation invalid"))
)

// ErrLink is every diagnostic found by one link.
type ErrLink []error

func (err ErrLink) Error() string {
	lines := make([]string, len(err))
	for n, e := range err {
		lines[n] = e.Error()
	}
	return strings.Join(lines, "\n")
}

func (err ErrLink) Unwrap() []error {
	return err
}

func ordinal(n int) string {
	switch n {
	case 1:
		return f("1st")
	case 2:
		return f("2nd")
	case 3:
		return f("3rd")
	}
	return f("%sth", translate.Number(n))
}

// ErrBlockMixed is a block holding both code and data.
type ErrBlockMixed struct {
	Block string
}

func (err ErrBlockMixed) Error() string {
	return f("Block %s has both code and data.", err.Block)
}

func (err ErrBlockMixed) Unwrap() error { return ErrOperand }

// ErrOperandRange is a literal immediate that does not fit its field.
type ErrOperandRange struct {
	Op      string
	Operand int // 1-based position
	Signed  bool
	Bits    uint
	Value   int32
}

func (err ErrOperandRange) Error() string {
	signed := f("an unsigned")
	if err.Signed {
		signed = f("a signed")
	}
	return f("Instruction '%s' expects %s %v-bit immediate value as its %s operand, but '%s' cannot fit into %v bits.",
		err.Op, signed, err.Bits, ordinal(err.Operand), translate.Number(err.Value), err.Bits)
}

func (err ErrOperandRange) Unwrap() error { return ErrOperand }

// ErrRegisterRange is a register operand outside r0-r7.
type ErrRegisterRange struct {
	Op       string
	Operand  int // 1-based position
	Register int8
}

func (err ErrRegisterRange) Error() string {
	return f("Instruction '%s' expects a register as its %s operand, but 'r%s' is not a register.",
		err.Op, ordinal(err.Operand), translate.Number(err.Register))
}

func (err ErrRegisterRange) Unwrap() error { return ErrOperand }

// ErrLabelOperand is a label given to an instruction that cannot take one.
type ErrLabelOperand struct {
	Op    string
	Label string
}

func (err ErrLabelOperand) Error() string {
	return f("Instruction '%s' cannot refer to label '%s'.", err.Op, err.Label)
}

func (err ErrLabelOperand) Unwrap() error { return ErrOperand }

// ErrLabelMissing is an LEA or LC with no label or constant name.
type ErrLabelMissing struct {
	Op string
}

func (err ErrLabelMissing) Error() string {
	return f("Instruction '%s' expects a label as its 2nd operand.", err.Op)
}

func (err ErrLabelMissing) Unwrap() error { return ErrOperand }

// ErrConstantMissing is an LC naming a constant that was not supplied.
type ErrConstantMissing struct {
	Name string
}

func (err ErrConstantMissing) Error() string {
	return f("No such constant '%s'.", err.Name)
}

func (err ErrConstantMissing) Unwrap() error { return ErrOperand }

// ErrLabelDuplicate is a label defined twice. Addr is the first definition.
type ErrLabelDuplicate struct {
	Label string
	Addr  uint16
}

func (err ErrLabelDuplicate) Error() string {
	return f("Label '%s' is already defined at address %s.", err.Label, translate.Hex(err.Addr))
}

func (err ErrLabelDuplicate) Unwrap() error { return ErrPlacement }

// ErrBlockOverlap is two blocks sharing addresses.
type ErrBlockOverlap struct {
	Block      string
	Start, End uint32
	Other      string
	OtherStart uint32
	OtherEnd   uint32
}

func (err ErrBlockOverlap) Error() string {
	return f("Overlapping blocks: Block %s is %s-%s and block %s is %s-%s.",
		err.Other, translate.Hex(err.OtherStart), translate.Hex(err.OtherEnd),
		err.Block, translate.Hex(err.Start), translate.Hex(err.End))
}

func (err ErrBlockOverlap) Unwrap() error { return ErrPlacement }

// ErrBlockRegion is a block outside the memory regions of its kind.
type ErrBlockRegion struct {
	Block      string
	IsData     bool
	Start, End uint32
}

func (err ErrBlockRegion) Error() string {
	kind := f("Code")
	if err.IsData {
		kind = f("Data")
	}
	return f("%s block labeled %s is not in the correct section of memory. Range %s-%s.",
		kind, err.Block, translate.Hex(err.Start), translate.Hex(err.End))
}

func (err ErrBlockRegion) Unwrap() error { return ErrPlacement }

// ErrLabelUndefined is a reference to a label no block defines.
type ErrLabelUndefined struct {
	Label string
}

func (err ErrLabelUndefined) Error() string {
	return f("Label '%s' is not defined.", err.Label)
}

func (err ErrLabelUndefined) Unwrap() error { return ErrRelocation }

// ErrJumpTooFar is a branch or jump whose offset does not fit.
type ErrJumpTooFar struct {
	Label string
}

func (err ErrJumpTooFar) Error() string {
	return f("Jump to label '%s' is too far.", err.Label)
}

func (err ErrJumpTooFar) Unwrap() error { return ErrRelocation }

// ErrSubroutineAlign is a JSR to a label not on a 16 word boundary.
type ErrSubroutineAlign struct {
	Label string
}

func (err ErrSubroutineAlign) Error() string {
	return f("Cannot jump to subroutine of not aligned label '%s'.", err.Label)
}

func (err ErrSubroutineAlign) Unwrap() error { return ErrRelocation }

// ErrSubroutineTooFar is a JSR whose target cannot be encoded from the
// caller's address.
type ErrSubroutineTooFar struct {
	Label string
}

func (err ErrSubroutineTooFar) Error() string {
	return f("Jump to subroutine to label '%s' is too far. You cannot jump to subroutines in user/os space if you are in os/user space.", err.Label)
}

func (err ErrSubroutineTooFar) Unwrap() error { return ErrRelocation }
