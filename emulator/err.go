package emulator

import (
	"github.com/ezrec/isa16/translate"
)

var f = translate.From

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	Pc     uint16
	Symbol string
	Err    error
}

func (err *ErrRuntime) Error() string {
	if len(err.Symbol) == 0 {
		return f("x%s: %v", translate.Word(err.Pc), err.Err)
	}
	return f("x%s (%s): %v", translate.Word(err.Pc), err.Symbol, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}

// ErrImage indicates which object image failed to load.
type ErrImage struct {
	Index int
	Err   error
}

func (err *ErrImage) Error() string {
	return f("image %s: %v", translate.Number(err.Index), err.Err)
}

func (err *ErrImage) Unwrap() error {
	return err.Err
}

// ErrBreak is a breakpoint that could not be set.
type ErrBreak struct {
	Label string
	Err   error
}

func (err *ErrBreak) Error() string {
	return f("breakpoint '%s': %v", err.Label, err.Err)
}

func (err *ErrBreak) Unwrap() error {
	return err.Err
}
