// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/ezrec/isa16/blockscript"
	"github.com/ezrec/isa16/emulator"
	"github.com/ezrec/isa16/link"
	"github.com/ezrec/isa16/object"
)

func main() {
	var compile string
	var output string
	var debug bool
	var save bool
	var disassemble bool
	var trace string
	var step_cap int
	var loader_trace bool
	var breakpoint string
	var verbose bool

	flag.StringVar(&compile, "c", "", ".star block script to link")
	flag.StringVar(&output, "o", "", "Object file to write from the linked script")
	flag.BoolVar(&debug, "g", false, "Include symbols, files and lines in the object")
	flag.BoolVar(&save, "s", false, "Save object file only, do not execute")
	flag.BoolVar(&disassemble, "x", false, "Disassemble the object files")
	flag.StringVar(&trace, "t", "", "Trace file, '-' for stdout")
	flag.IntVar(&step_cap, "n", emulator.STEP_CAP, "Maximum steps to execute, 0 for no limit")
	flag.BoolVar(&loader_trace, "l", false, "List object files as they are loaded")
	flag.StringVar(&breakpoint, "b", "", "Stop at this label")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	var images [][]byte

	// Link a block script.
	if len(compile) != 0 {
		inf, err := os.Open(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		defer inf.Close()

		bd := &blockscript.Builder{Verbose: verbose}
		prog, err := bd.Parse(compile, inf)
		if err != nil {
			log.Fatalf("%v", err)
		}

		lk := &link.Linker{Verbose: verbose, DebugInfo: debug}
		obj, err := lk.Link(prog.Blocks, prog.Constants)
		if err != nil {
			log.Fatalf("%v:\n%v", compile, err)
		}

		if len(output) != 0 {
			err = os.WriteFile(output, obj, 0o644)
			if err != nil {
				log.Fatalf("%v: %v", output, err)
			}
		}

		images = append(images, obj)
	}

	for _, path := range flag.Args() {
		obj, err := os.ReadFile(path)
		if err != nil {
			log.Fatalf("%v: %v", path, err)
		}
		images = append(images, obj)
	}

	if len(images) == 0 {
		log.Fatalf("%v: no script or object files", os.Args[0])
	}

	if disassemble {
		for _, obj := range images {
			err := object.Disassemble(os.Stdout, obj)
			if err != nil {
				log.Fatal(err)
			}
		}
	}

	if save || disassemble {
		return
	}

	emu := emulator.NewEmulator()
	emu.Verbose = verbose
	emu.StepCap = step_cap

	if loader_trace {
		emu.LoaderTrace = os.Stdout
	}

	switch trace {
	case "":
	case "-":
		emu.Trace = os.Stdout
	default:
		ouf, err := os.Create(trace)
		if err != nil {
			log.Fatalf("%v: %v", trace, err)
		}
		defer ouf.Close()
		emu.Trace = ouf
	}

	err := emu.Load(images...)
	if err != nil {
		log.Fatal(err)
	}

	if len(breakpoint) != 0 {
		err = emu.Break(breakpoint)
		if err != nil {
			log.Fatal(err)
		}
	}

	for done, err := emu.Tick(); !done; done, err = emu.Tick() {
		if err != nil {
			log.Fatal(err)
		}
	}

	report(os.Stdout, emu)
}

// report prints the machine state when the run stops.
func report(w io.Writer, emu *emulator.Emulator) {
	fmt.Fprintf(w, "%v at x%04X %s after %d steps\n", emu.Stop, emu.PC(), emu.Symbol(), emu.Steps)
	fmt.Fprintf(w, "PSR x%04X", emu.Psr)
	for n, reg := range emu.Registers {
		fmt.Fprintf(w, " R%d=x%04X", n, uint16(reg))
	}
	fmt.Fprintln(w)
}
