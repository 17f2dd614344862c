package isa

import (
	"fmt"
	"iter"
	"maps"
)

// Memory map. Code and data each have a user and an OS region.
const (
	USER_CODE = uint32(0x0000) // User code, [0x0000, 0x2000)
	USER_DATA = uint32(0x2000) // User data, [0x2000, 0x8000)
	OS_CODE   = uint32(0x8000) // OS code, [0x8000, 0xA000)
	OS_DATA   = uint32(0xA000) // OS data, [0xA000, 0x10000)
	MEM_END   = uint32(0x10000)

	TRAP_BASE  = uint16(0x8000) // TRAP vectors land at TRAP_BASE | vector
	ALIGNMENT  = 16             // Subroutine entry alignment in words
	MEMORY_LEN = 1 << 16        // Words of memory
)

// Region is a half-open range of addresses, [Start, End).
type Region struct {
	Start uint32
	End   uint32
}

var (
	REGION_USER_CODE = Region{USER_CODE, USER_DATA}
	REGION_USER_DATA = Region{USER_DATA, OS_CODE}
	REGION_OS_CODE   = Region{OS_CODE, OS_DATA}
	REGION_OS_DATA   = Region{OS_DATA, MEM_END}
)

// Holds returns true if [start, end) lies entirely inside the region.
func (r Region) Holds(start, end uint32) bool {
	return start >= r.Start && end <= r.End && start <= end
}

// Contains returns true if the address is inside the region.
func (r Region) Contains(addr uint16) bool {
	return uint32(addr) >= r.Start && uint32(addr) < r.End
}

// CodeFits returns true if a code range is entirely in user or OS code.
func CodeFits(start, end uint32) bool {
	return REGION_USER_CODE.Holds(start, end) || REGION_OS_CODE.Holds(start, end)
}

// DataFits returns true if a data range is entirely in user or OS data.
func DataFits(start, end uint32) bool {
	return REGION_USER_DATA.Holds(start, end) || REGION_OS_DATA.Holds(start, end)
}

// Executable returns true if the PC may point at addr.
func Executable(addr uint16) bool {
	return REGION_USER_CODE.Contains(addr) || REGION_OS_CODE.Contains(addr)
}

var _isa_defines = map[string]string{
	"USER_CODE": fmt.Sprintf("0x%04x", USER_CODE),
	"USER_DATA": fmt.Sprintf("0x%04x", USER_DATA),
	"OS_CODE":   fmt.Sprintf("0x%04x", OS_CODE),
	"OS_DATA":   fmt.Sprintf("0x%04x", OS_DATA),
	"TRAP_BASE": fmt.Sprintf("0x%04x", TRAP_BASE),
	"ALIGNMENT": fmt.Sprintf("%d", ALIGNMENT),
}

// Defines returns the memory map as name/value pairs.
func Defines() iter.Seq2[string, string] {
	return maps.All(_isa_defines)
}
