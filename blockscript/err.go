package blockscript

import (
	"errors"

	"go.starlark.net/starlark"

	"github.com/ezrec/isa16/translate"
)

var f = translate.From

var (
	ErrArgument = errors.New(f("argument invalid"))
	ErrRange    = errors.New(f("value out of range"))
)

// ErrBuiltin is a bad call to a script builtin.
type ErrBuiltin struct {
	Name string
	Err  error
}

func (err *ErrBuiltin) Error() string {
	return f("%s: %v", err.Name, err.Err)
}

func (err *ErrBuiltin) Unwrap() error {
	return err.Err
}

// ErrScript is a script that failed to run.
type ErrScript struct {
	Filename string
	Err      error
}

func (err *ErrScript) Error() string {
	var eval_err *starlark.EvalError
	if errors.As(err.Err, &eval_err) {
		return eval_err.Backtrace()
	}
	return f("%s: %v", err.Filename, err.Err)
}

func (err *ErrScript) Unwrap() error {
	return err.Err
}
