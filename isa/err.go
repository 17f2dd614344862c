package isa

import (
	"errors"

	"github.com/ezrec/isa16/translate"
)

var f = translate.From

var (
	ErrInstructionInvalid = errors.New(f("instruction invalid"))
	ErrOpInvalid          = errors.New(f("op invalid"))
)

// ErrOpcode is returned when a word does not decode to an instruction.
type ErrOpcode uint16

func (eo ErrOpcode) Error() string {
	return f("bad opcode 0x%04x", uint16(eo))
}

func (eo ErrOpcode) Unwrap() error {
	return ErrInstructionInvalid
}

// ErrMnemonic is returned by ParseOp for an unknown mnemonic.
type ErrMnemonic string

func (em ErrMnemonic) Error() string {
	return f("'%v' is not an instruction", string(em))
}

func (em ErrMnemonic) Unwrap() error {
	return ErrOpInvalid
}
