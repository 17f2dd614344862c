package object

import (
	"encoding/binary"
)

// Writer builds an object file in memory.
type Writer struct {
	buf []byte
}

func (wr *Writer) word(words ...uint16) {
	for _, w := range words {
		wr.buf = binary.BigEndian.AppendUint16(wr.buf, w)
	}
}

func (wr *Writer) section(tag Tag, addr uint16, words []uint16) {
	if len(words) == 0 {
		return
	}
	wr.word(uint16(tag), addr, uint16(len(words)))
	wr.word(words...)
}

// Code appends a code section. Empty sections are not written.
func (wr *Writer) Code(addr uint16, words []uint16) {
	wr.section(TAG_CODE, addr, words)
}

// Data appends a data section. Empty sections are not written.
func (wr *Writer) Data(addr uint16, words []uint16) {
	wr.section(TAG_DATA, addr, words)
}

// Symbol appends a symbol name for an address.
func (wr *Writer) Symbol(addr uint16, name string) {
	wr.word(uint16(TAG_SYMBOL), addr, uint16(len(name)))
	wr.buf = append(wr.buf, name...)
}

// File appends a source file name. Files are indexed from zero in the
// order they are written.
func (wr *Writer) File(name string) {
	wr.word(uint16(TAG_FILE), uint16(len(name)))
	wr.buf = append(wr.buf, name...)
}

// Line appends the source line of a code address.
func (wr *Writer) Line(addr uint16, line uint16, file uint16) {
	wr.word(uint16(TAG_LINE), addr, line, file)
}

// Bytes returns the object file written so far.
func (wr *Writer) Bytes() []byte {
	return wr.buf
}
