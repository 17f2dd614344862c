package machine

import (
	"errors"

	"github.com/ezrec/isa16/translate"
)

var f = translate.From

var (
	ErrPcRollover    = errors.New(f("pc rolled over into a reserved region"))
	ErrJump          = errors.New(f("jump invalid"))
	ErrMemoryAccess  = errors.New(f("memory access invalid"))
	ErrSymbolMissing = errors.New(f("symbol missing"))
)

// ErrExecution is a fault raised by Step. Pc is the address of the
// faulting instruction.
type ErrExecution struct {
	Pc  uint16
	Err error
}

func (err *ErrExecution) Error() string {
	return f("pc x%s: %v", translate.Word(err.Pc), err.Err)
}

func (err *ErrExecution) Unwrap() error {
	return err.Err
}

// ErrInvalidJump is a control transfer into a non-executable region.
type ErrInvalidJump struct {
	Address uint16
}

func (err ErrInvalidJump) Error() string {
	return f("jump to x%s is not into a code region", translate.Word(err.Address))
}

func (err ErrInvalidJump) Unwrap() error {
	return ErrJump
}

// ErrInvalidMemoryAccess is a load or store the machine refuses.
// LacksPrivilege is set for OS addresses accessed from user mode; an
// access to user code is refused regardless of mode.
type ErrInvalidMemoryAccess struct {
	Address        uint16
	LacksPrivilege bool
	IsRead         bool
}

func (err ErrInvalidMemoryAccess) Error() string {
	access := f("write")
	if err.IsRead {
		access = f("read")
	}
	reason := f("address is in a code region")
	if err.LacksPrivilege {
		reason = f("address requires OS mode")
	}
	return f("%s of x%s: %s", access, translate.Word(err.Address), reason)
}

func (err ErrInvalidMemoryAccess) Unwrap() error {
	return ErrMemoryAccess
}
