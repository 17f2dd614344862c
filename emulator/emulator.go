// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"fmt"
	"io"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/isa16/internal"
	"github.com/ezrec/isa16/isa"
	"github.com/ezrec/isa16/machine"
)

const (
	STEP_CAP = 1_000_000 // Default step budget.
)

var _emulator_defines = map[string]string{
	"STEP_CAP": fmt.Sprintf("%v", STEP_CAP),
}

// Stop is the reason a run ended.
type Stop int

const (
	STOP_NONE  = Stop(0) // still running
	STOP_HALT  = Stop(1) // a step left the PC unchanged
	STOP_BREAK = Stop(2) // reached a breakpoint
	STOP_CAP   = Stop(3) // step budget used up
)

func (st Stop) String() string {
	switch st {
	case STOP_HALT:
		return f("halted")
	case STOP_BREAK:
		return f("breakpoint")
	case STOP_CAP:
		return f("step cap")
	}
	return f("running")
}

// Emulator state. Machine + step loop policy.
type Emulator struct {
	Verbose          bool      // If set, enables verbose logging.
	*machine.Machine           // Reference to the machine state.
	StepCap          int       // Maximum steps per Run; zero for no limit.
	Trace            io.Writer // If set, one trace line per step.
	LoaderTrace      io.Writer // If set, a listing of each loaded image.

	Steps int  // Steps since the last reset.
	Stop  Stop // Why the last tick ended the run.

	ran         int // Steps since Run, or since the last reset.
	breakpoints map[uint16]string
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Machine: machine.New(),
		StepCap: STEP_CAP,
	}
	emu.Reset()

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		isa.Defines(),
		machine.Defines(),
	)
}

// Reset the machine, step count and breakpoints.
func (emu *Emulator) Reset() {
	emu.Machine.Reset()
	emu.Steps = 0
	emu.ran = 0
	emu.Stop = STOP_NONE
	emu.breakpoints = map[uint16]string{}
}

// Load object images in order. Later images overwrite earlier ones where
// they overlap.
func (emu *Emulator) Load(images ...[]byte) (err error) {
	for n, image := range images {
		err = emu.Machine.Load(image, emu.LoaderTrace)
		if err != nil {
			err = &ErrImage{Index: n, Err: err}
			return
		}
		if emu.Verbose {
			log.Printf("emulator: image %d: %d bytes", n, len(image))
		}
	}

	return
}

// Break sets a breakpoint at a symbol from a loaded image.
func (emu *Emulator) Break(label string) (err error) {
	addr, ok := emu.Machine.Symbols[label]
	if !ok {
		err = &ErrBreak{Label: label, Err: machine.ErrSymbolMissing}
		return
	}

	emu.breakpoints[addr] = label
	return
}

// Symbol returns the current PC as label+offset, or an empty string when
// no symbol precedes it.
func (emu *Emulator) Symbol() string {
	return emu.symbol(emu.Machine.Pc)
}

func (emu *Emulator) symbol(pc uint16) string {
	name, ok := emu.Machine.Nearest(pc)
	if !ok {
		return ""
	}
	offset := pc - emu.Machine.Symbols[name]
	if offset == 0 {
		return name
	}
	return fmt.Sprintf("%s+%d", name, offset)
}

// Tick performs a single step of the machine. done is set when the
// program halts, reaches a breakpoint, or uses up the step budget.
func (emu *Emulator) Tick() (done bool, err error) {
	pc := emu.Machine.Pc

	defer func() {
		if err != nil {
			err = &ErrRuntime{Pc: pc, Symbol: emu.symbol(pc), Err: err}
		}
	}()

	if emu.Verbose {
		if in, decode_err := isa.Decode(emu.Machine.Memory[pc]); decode_err == nil {
			log.Printf("emulator: %04X %v", pc, in)
		}
	}

	var trace machine.Trace
	err = emu.Machine.Step(&trace)
	if err != nil {
		return
	}
	emu.Steps++
	emu.ran++

	if emu.Trace != nil {
		_, err = fmt.Fprintln(emu.Trace, trace.String())
		if err != nil {
			return
		}
	}

	switch {
	case emu.Machine.Pc == pc:
		emu.Stop = STOP_HALT
	case emu.breakpoints[emu.Machine.Pc] != "":
		emu.Stop = STOP_BREAK
	case emu.StepCap > 0 && emu.ran >= emu.StepCap:
		emu.Stop = STOP_CAP
	default:
		return
	}

	if emu.Verbose {
		log.Printf("emulator: %v at %04X after %d steps", emu.Stop, emu.Machine.Pc, emu.Steps)
	}

	done = true
	return
}

// Run ticks the emulator until it stops or faults.
func (emu *Emulator) Run() (err error) {
	emu.Stop = STOP_NONE
	emu.ran = 0
	for done := false; !done; {
		done, err = emu.Tick()
		if err != nil {
			return
		}
	}

	return
}
