// Package isa defines the 16-bit instruction set shared by the linker,
// the loader and the CPU emulator.
//
// The machine has eight 16-bit general purpose registers (r0-r7), a
// program counter, and a processor status register holding the privilege
// bit and the N/Z/P condition flags. Memory is 65536 words split into
// user code, user data, OS code and OS data regions.
//
// Every instruction is a single word. The top four bits select one of
// thirteen opcode classes; the remaining fields are decoded per class.
package isa
