// Package machine loads isa16 object files and executes them one
// instruction at a time.
//
// A Machine is a plain value owned by its caller: a program counter, the
// processor status register, eight registers and 64K words of memory.
// Step never leaves the machine half updated; an instruction that faults
// has no effect at all.
package machine
