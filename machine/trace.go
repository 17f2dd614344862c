package machine

import (
	"fmt"
)

// WriteEnable flags which state a step changed.
type WriteEnable uint8

const (
	WE_NZP      = WriteEnable(1) // condition flags written
	WE_REGISTER = WriteEnable(2) // a register written
	WE_DATA     = WriteEnable(4) // a memory word written
)

// Trace records the effects of one step.
type Trace struct {
	Pc            uint16 // address of the instruction
	Word          uint16 // instruction word
	Enable        WriteEnable
	Register      uint8  // register written, if WE_REGISTER
	RegisterValue uint16 // value written, if WE_REGISTER
	NZP           uint16 // flags written, if WE_NZP
	Address       uint16 // memory address read or written
	Value         uint16 // memory value read or written
}

func flag(set bool) int {
	if set {
		return 1
	}
	return 0
}

// String formats the trace as a fixed width line:
//
//	PC   WORD R reg VALU N nzp D ADDR VALU
func (tr Trace) String() string {
	return fmt.Sprintf("%04X %04X %d %d %04X %d %03b %d %04X %04X",
		tr.Pc, tr.Word,
		flag(tr.Enable&WE_REGISTER != 0), tr.Register, tr.RegisterValue,
		flag(tr.Enable&WE_NZP != 0), tr.NZP,
		flag(tr.Enable&WE_DATA != 0), tr.Address, tr.Value)
}
