// Package object reads and writes isa16 object files.
//
// An object file is a flat stream of big-endian 16-bit words with no
// header. It is a sequence of self-describing records, each introduced by
// a tag word:
//
//	CODE   0xCADE address count word...
//	DATA   0xDADA address count word...
//	SYMBOL 0xC3B7 address length byte...
//	FILE   0xF17E length byte...
//	LINE   0x715E address line file
//
// Symbol and file names are raw bytes and are not padded, so the records
// that follow them may start at an odd byte offset.
package object
