package isa

// OperandKind is the kind of an instruction operand in assembly order.
type OperandKind int

const (
	OPERAND_RD    = OperandKind(0) // destination register
	OPERAND_RS    = OperandKind(1) // source register
	OPERAND_RT    = OperandKind(2) // second source register
	OPERAND_IMM   = OperandKind(3) // literal immediate
	OPERAND_LABEL = OperandKind(4) // label, or literal offset
)

// Operand describes one assembly operand and, for immediates, the width
// of its encoded field.
type Operand struct {
	Kind   OperandKind
	Signed bool
	Bits   uint
}

var (
	opRd = Operand{Kind: OPERAND_RD}
	opRs = Operand{Kind: OPERAND_RS}
	opRt = Operand{Kind: OPERAND_RT}
)

func immOperand(signed bool, bits uint) Operand {
	return Operand{Kind: OPERAND_IMM, Signed: signed, Bits: bits}
}

func labelOperand(bits uint) Operand {
	return Operand{Kind: OPERAND_LABEL, Signed: true, Bits: bits}
}

var formatOperands = map[Format][]Operand{
	FMT_NONE:    nil,
	FMT_BRANCH:  {labelOperand(9)},
	FMT_RRR:     {opRd, opRs, opRt},
	FMT_RRI5:    {opRd, opRs, immOperand(true, 5)},
	FMT_RR:      {opRd, opRs},
	FMT_LOAD:    {opRd, opRs, immOperand(true, 6)},
	FMT_STORE:   {opRt, opRs, immOperand(true, 6)},
	FMT_CONST:   {opRd, immOperand(true, 9)},
	FMT_HICONST: {opRd, immOperand(false, 8)},
	FMT_CMP_RR:  {opRs, opRt},
	FMT_CMP_RI:  {opRs, immOperand(true, 7)},
	FMT_SHIFT:   {opRd, opRs, immOperand(false, 4)},
	FMT_REG:     {opRs},
	FMT_IMM11:   {labelOperand(11)},
	FMT_TRAP:    {immOperand(false, 8)},
}

// Operands returns the assembly operands of an opcode.
func Operands(op Op) (ops []Operand) {
	ops = formatOperands[op.Format()]
	if op == OP_CMPIU {
		ops = []Operand{opRs, immOperand(false, 7)}
	}
	return
}

// Immediate returns the immediate operand of an opcode, if it has one.
func Immediate(op Op) (operand Operand, ok bool) {
	for _, operand = range Operands(op) {
		if operand.Kind == OPERAND_IMM || operand.Kind == OPERAND_LABEL {
			ok = true
			return
		}
	}

	operand = Operand{}
	return
}

// Fits returns true if value can be encoded in a field of the given width.
func Fits(value int32, signed bool, bits uint) bool {
	lo := int64(0)
	hi := int64(1) << bits
	if signed {
		change := int64(1) << (bits - 1)
		lo -= change
		hi -= change
	}

	v := int64(value)
	return v >= lo && v < hi
}

// SignExtend widens the low bits of word to a signed value.
func SignExtend(word uint16, bits uint) int16 {
	bit := uint16(1) << (bits - 1)
	pos := bit - 1

	if (word & bit) != 0 {
		return int16(word | ^pos)
	}

	return int16(word & pos)
}

// ZeroExtend masks word to its low bits.
func ZeroExtend(word uint16, bits uint) int16 {
	return int16(word & ((1 << bits) - 1))
}
