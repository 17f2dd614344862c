// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package machine

import (
	"fmt"
	"iter"
	"maps"

	"github.com/ezrec/isa16/isa"
)

const (
	PSR_OS = uint16(0x8000) // OS (privileged) mode
	PSR_N  = uint16(4)      // last result negative
	PSR_Z  = uint16(2)      // last result zero
	PSR_P  = uint16(1)      // last result positive

	PSR_NZP = PSR_N | PSR_Z | PSR_P

	PC_RESET  = uint16(0x8200) // PC after reset
	PSR_RESET = PSR_OS | PSR_N // PSR after reset
)

var _machine_defines = map[string]string{
	"PC_RESET": fmt.Sprintf("0x%04x", PC_RESET),
	"PSR_OS":   fmt.Sprintf("0x%04x", PSR_OS),
	"PSR_N":    fmt.Sprintf("%d", PSR_N),
	"PSR_Z":    fmt.Sprintf("%d", PSR_Z),
	"PSR_P":    fmt.Sprintf("%d", PSR_P),
}

// Machine is the architectural state of the CPU.
type Machine struct {
	Pc        uint16
	Psr       uint16
	Registers [8]int16
	Memory    []uint16          // Always isa.MEMORY_LEN words.
	Symbols   map[string]uint16 // Symbols from loaded object files.
}

// New creates a machine in its reset state.
func New() (m *Machine) {
	m = &Machine{
		Memory: make([]uint16, isa.MEMORY_LEN),
	}
	m.Reset()
	return
}

// Reset clears registers, memory and symbols, and restores the boot PC
// in OS mode.
func (m *Machine) Reset() {
	clear(m.Memory)
	m.Registers = [8]int16{}
	m.Symbols = map[string]uint16{}
	m.Pc = PC_RESET
	m.Psr = PSR_RESET
}

// PC returns the program counter.
func (m *Machine) PC() uint16 {
	return m.Pc
}

// OsMode returns true when the machine is privileged.
func (m *Machine) OsMode() bool {
	return (m.Psr & PSR_OS) != 0
}

// NZP returns the condition flags.
func (m *Machine) NZP() uint16 {
	return m.Psr & PSR_NZP
}

// Nearest returns the symbol at or closest below addr, if any.
func (m *Machine) Nearest(addr uint16) (name string, ok bool) {
	var best uint16
	for symbol, at := range m.Symbols {
		if at > addr {
			continue
		}
		if !ok || at > best || (at == best && symbol < name) {
			name, best, ok = symbol, at, true
		}
	}
	return
}

// Defines returns the machine constants as name/value pairs.
func Defines() iter.Seq2[string, string] {
	return maps.All(_machine_defines)
}

// nzp returns the condition flag for a value.
func nzp(value int16) uint16 {
	switch {
	case value < 0:
		return PSR_N
	case value == 0:
		return PSR_Z
	}
	return PSR_P
}

// compare returns the condition flag for a - b.
func compare[T int16 | uint16](a, b T) uint16 {
	switch {
	case a < b:
		return PSR_N
	case a == b:
		return PSR_Z
	}
	return PSR_P
}
