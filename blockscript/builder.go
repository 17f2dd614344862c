// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package blockscript

import (
	"fmt"
	"io"
	"log"
	"maps"
	"math"
	"strconv"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/isa16/internal"
	"github.com/ezrec/isa16/isa"
	"github.com/ezrec/isa16/link"
	"github.com/ezrec/isa16/machine"
)

// Program is the linker input described by a script.
type Program struct {
	Blocks    []link.Block
	Constants map[string]int32
}

// Builder runs block scripts.
type Builder struct {
	Verbose bool              // If set, log each block built.
	Equate  map[string]string // Extra predeclared integers.
}

type run struct {
	*Builder
	filename string
	prog     *Program
}

// Parse runs a script and returns the blocks and constants it built.
func (bd *Builder) Parse(filename string, src io.Reader) (prog *Program, err error) {
	r := &run{
		Builder:  bd,
		filename: filename,
		prog:     &Program{Constants: map[string]int32{}},
	}

	pred := starlark.StringDict{
		"code":    starlark.NewBuiltin("code", r.code),
		"data":    starlark.NewBuiltin("data", r.data),
		"insn":    starlark.NewBuiltin("insn", r.insn),
		"word":    starlark.NewBuiltin("word", r.word),
		"zeros":   starlark.NewBuiltin("zeros", r.zeros),
		"stringz": starlark.NewBuiltin("stringz", r.stringz),
		"const":   starlark.NewBuiltin("const", r.constant),
	}
	for n := range 8 {
		pred[fmt.Sprintf("R%d", n)] = starlark.MakeInt(n)
	}
	defines := internal.IterSeq2Concat(isa.Defines(), machine.Defines(), maps.All(bd.Equate))
	for key, str := range defines {
		value, parse_err := strconv.ParseInt(str, 0, 64)
		if parse_err != nil {
			// Ignore non-integer equates.
			continue
		}
		pred[key] = starlark.MakeInt64(value)
	}

	thread := &starlark.Thread{
		Name: filename,
		Print: func(_ *starlark.Thread, msg string) {
			log.Printf("%v: %v", filename, msg)
		},
	}
	opts := syntax.FileOptions{}
	_, err = starlark.ExecFileOptions(&opts, thread, filename, src, pred)
	if err != nil {
		err = &ErrScript{Filename: filename, Err: err}
		return
	}

	prog = r.prog
	return
}

func argError(b *starlark.Builtin, err error) error {
	return &ErrBuiltin{Name: b.Name(), Err: err}
}

// labels accepts a single string or a sequence of strings.
func labels(b *starlark.Builtin, value starlark.Value) (names []string, err error) {
	if value == nil || value == starlark.None {
		return
	}
	if str, ok := value.(starlark.String); ok {
		names = append(names, string(str))
		return
	}
	iterable, ok := value.(starlark.Iterable)
	if !ok {
		err = argError(b, ErrArgument)
		return
	}
	iter := iterable.Iterate()
	defer iter.Done()
	var item starlark.Value
	for iter.Next(&item) {
		str, ok := item.(starlark.String)
		if !ok {
			err = argError(b, ErrArgument)
			return
		}
		names = append(names, string(str))
	}
	return
}

// placement fills the address, alignment and labels of a block.
func placement(b *starlark.Builtin, block *link.Block, addr starlark.Value, align bool, names starlark.Value) (err error) {
	if addr != nil && addr != starlark.None {
		var value int
		if err = starlark.AsInt(addr, &value); err != nil {
			return argError(b, err)
		}
		if value < 0 || value > math.MaxUint16 {
			return argError(b, ErrRange)
		}
		block.Addr = uint16(value)
		block.HasAddr = true
	}
	block.Aligned = align
	block.Labels, err = labels(b, names)
	return
}

func (r *run) append(block link.Block) {
	if r.Verbose {
		kind := "code"
		size := len(block.Code)
		if block.IsData() {
			kind = "data"
			size = block.DataSize()
		}
		log.Printf("blockscript: %s block %s, %d items", kind, block.Name(), size)
	}
	r.prog.Blocks = append(r.prog.Blocks, block)
}

func (r *run) code(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var insns *starlark.List
	var addr starlark.Value = starlark.None
	var align bool
	var names starlark.Value = starlark.None
	file := r.filename

	err := starlark.UnpackArgs(b.Name(), args, kwargs,
		"insns", &insns, "addr?", &addr, "align?", &align, "labels?", &names, "file?", &file)
	if err != nil {
		return nil, err
	}

	block := link.Block{File: file}
	if err = placement(b, &block, addr, align, names); err != nil {
		return nil, err
	}

	for n := range insns.Len() {
		in, ok := insns.Index(n).(insnValue)
		if !ok {
			return nil, argError(b, ErrArgument)
		}
		block.Code = append(block.Code, in.Instruction)
	}

	r.append(block)
	return starlark.None, nil
}

func (r *run) data(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var items *starlark.List
	var addr starlark.Value = starlark.None
	var align bool
	var names starlark.Value = starlark.None

	err := starlark.UnpackArgs(b.Name(), args, kwargs,
		"items", &items, "addr?", &addr, "align?", &align, "labels?", &names)
	if err != nil {
		return nil, err
	}

	block := link.Block{Data: []link.Datum{}}
	if err = placement(b, &block, addr, align, names); err != nil {
		return nil, err
	}

	for n := range items.Len() {
		switch item := items.Index(n).(type) {
		case datumValue:
			block.Data = append(block.Data, item.Datum)
		case starlark.String:
			block.Data = append(block.Data, link.Stringz(string(item)))
		case starlark.Int:
			value, err := wordOf(b, item)
			if err != nil {
				return nil, err
			}
			block.Data = append(block.Data, link.Word(value))
		default:
			return nil, argError(b, ErrArgument)
		}
	}

	r.append(block)
	return starlark.None, nil
}

var pseudoOps = map[string]link.Pseudo{
	link.PSEUDO_RET.String(): link.PSEUDO_RET,
	link.PSEUDO_LEA.String(): link.PSEUDO_LEA,
	link.PSEUDO_LC.String():  link.PSEUDO_LC,
}

func (r *run) insn(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var mnemonic string
	rd, rs, rt := int(link.REG_NONE), int(link.REG_NONE), int(link.REG_NONE)
	var imm int
	var label string
	line := int(thread.CallFrame(1).Pos.Line)

	err := starlark.UnpackArgs(b.Name(), args, kwargs,
		"op", &mnemonic, "rd?", &rd, "rs?", &rs, "rt?", &rt,
		"imm?", &imm, "label?", &label, "line?", &line)
	if err != nil {
		return nil, err
	}

	for _, reg := range []int{rd, rs, rt} {
		if reg < math.MinInt8 || reg > math.MaxInt8 {
			return nil, argError(b, ErrRange)
		}
	}
	if imm < math.MinInt32 || imm > math.MaxInt32 {
		return nil, argError(b, ErrRange)
	}

	in := link.Instruction{
		Rd:    int8(rd),
		Rs:    int8(rs),
		Rt:    int8(rt),
		Imm:   int32(imm),
		Label: label,
		Line:  line,
	}

	if pseudo, ok := pseudoOps[mnemonic]; ok {
		in.Pseudo = pseudo
	} else if in.Op, err = isa.ParseOp(mnemonic); err != nil {
		return nil, argError(b, err)
	}

	return insnValue{in}, nil
}

func wordOf(b *starlark.Builtin, value starlark.Value) (word int16, err error) {
	var v int
	if err = starlark.AsInt(value, &v); err != nil {
		err = argError(b, err)
		return
	}
	if v < math.MinInt16 || v > math.MaxUint16 {
		err = argError(b, ErrRange)
		return
	}
	word = int16(uint16(v))
	return
}

func (r *run) word(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var value starlark.Value
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &value); err != nil {
		return nil, err
	}
	word, err := wordOf(b, value)
	if err != nil {
		return nil, err
	}
	return datumValue{link.Word(word)}, nil
}

func (r *run) zeros(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var count int
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &count); err != nil {
		return nil, err
	}
	if count < 0 || count > math.MaxUint16 {
		return nil, argError(b, ErrRange)
	}
	return datumValue{link.Zeros(uint16(count))}, nil
}

func (r *run) stringz(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var text string
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &text); err != nil {
		return nil, err
	}
	return datumValue{link.Stringz(text)}, nil
}

func (r *run) constant(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var name string
	var value int
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 2, &name, &value); err != nil {
		return nil, err
	}
	if value < math.MinInt32 || value > math.MaxInt32 {
		return nil, argError(b, ErrRange)
	}
	r.prog.Constants[name] = int32(value)
	return starlark.MakeInt(value), nil
}
