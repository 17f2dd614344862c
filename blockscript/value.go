package blockscript

import (
	"fmt"

	"go.starlark.net/starlark"

	"github.com/ezrec/isa16/link"
)

// insnValue is a link.Instruction held by a script.
type insnValue struct {
	link.Instruction
}

var _ starlark.Value = insnValue{}

func (v insnValue) String() string {
	return fmt.Sprintf("insn(%q)", v.Mnemonic())
}

func (v insnValue) Type() string         { return "insn" }
func (v insnValue) Freeze()              {}
func (v insnValue) Truth() starlark.Bool { return starlark.True }

func (v insnValue) Hash() (uint32, error) {
	return 0, &ErrBuiltin{Name: v.Type(), Err: ErrArgument}
}

// datumValue is a link.Datum held by a script.
type datumValue struct {
	link.Datum
}

var _ starlark.Value = datumValue{}

func (v datumValue) String() string {
	switch v.Kind {
	case link.DATUM_ZEROS:
		return fmt.Sprintf("zeros(%d)", v.Count)
	case link.DATUM_WORD:
		return fmt.Sprintf("word(%d)", v.Value)
	}
	return fmt.Sprintf("stringz(%q)", v.Text)
}

func (v datumValue) Type() string         { return "datum" }
func (v datumValue) Freeze()              {}
func (v datumValue) Truth() starlark.Bool { return starlark.True }

func (v datumValue) Hash() (uint32, error) {
	return 0, &ErrBuiltin{Name: v.Type(), Err: ErrArgument}
}
