package object

import (
	"fmt"
	"io"

	"github.com/ezrec/isa16/isa"
)

// Lister renders object records as an assembly-style listing.
//
// Symbol records are remembered and printed as labels in front of the
// code or data word at their address, so symbols must precede the
// sections they name.
type Lister struct {
	Output io.Writer

	labels map[uint16][]string
	files  []string
}

// NewLister creates a lister writing to w.
func NewLister(w io.Writer) *Lister {
	return &Lister{Output: w}
}

// Labels returns the symbols recorded at an address.
func (ls *Lister) Labels(addr uint16) []string {
	return ls.labels[addr]
}

func (ls *Lister) printLabels(addr uint16) (err error) {
	for _, label := range ls.labels[addr] {
		if _, err = fmt.Fprintf(ls.Output, "%s:\n", label); err != nil {
			return
		}
	}
	return
}

func (ls *Lister) section(rec Record) (err error) {
	directive := ".code"
	if rec.Tag == TAG_DATA {
		directive = ".data"
	}
	if _, err = fmt.Fprintf(ls.Output, "%s\n.addr %x\n", directive, rec.Addr); err != nil {
		return
	}

	for n, word := range rec.Words {
		addr := rec.Addr + uint16(n)
		if err = ls.printLabels(addr); err != nil {
			return
		}
		if rec.Tag == TAG_DATA {
			_, err = fmt.Fprintf(ls.Output, ".fill %d\n", word)
		} else if in, decode_err := isa.Decode(word); decode_err != nil {
			_, err = fmt.Fprintf(ls.Output, "\t; invalid instruction 0x%04x\n", word)
		} else {
			_, err = fmt.Fprintf(ls.Output, "\t%v\n", in)
		}
		if err != nil {
			return
		}
	}

	return
}

// List writes one record to the listing.
func (ls *Lister) List(rec Record) (err error) {
	switch rec.Tag {
	case TAG_CODE, TAG_DATA:
		err = ls.section(rec)
	case TAG_SYMBOL:
		if ls.labels == nil {
			ls.labels = map[uint16][]string{}
		}
		ls.labels[rec.Addr] = append(ls.labels[rec.Addr], rec.Name)
	case TAG_FILE:
		ls.files = append(ls.files, rec.Name)
		_, err = fmt.Fprintf(ls.Output, "; File index (%d) file: %s\n", len(ls.files)-1, rec.Name)
	case TAG_LINE:
		_, err = fmt.Fprintf(ls.Output, "; Line number at address: %x for line %d in file index %d\n", rec.Addr, rec.Line, rec.File)
	}

	return
}

// Disassemble writes a listing of an entire object file.
func Disassemble(w io.Writer, buf []byte) (err error) {
	ls := NewLister(w)
	for rec, rec_err := range Records(buf) {
		if rec_err != nil {
			return rec_err
		}
		if err = ls.List(rec); err != nil {
			return
		}
	}

	return
}
