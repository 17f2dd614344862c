// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package object

import (
	"encoding/binary"
	"iter"
	"unicode/utf8"
)

// Tag identifies a record.
type Tag uint16

const (
	TAG_CODE   = Tag(0xCADE) // code section
	TAG_DATA   = Tag(0xDADA) // data section
	TAG_SYMBOL = Tag(0xC3B7) // symbol name
	TAG_FILE   = Tag(0xF17E) // source file name
	TAG_LINE   = Tag(0x715E) // source line of a code address
)

func (tag Tag) String() string {
	switch tag {
	case TAG_CODE:
		return "code"
	case TAG_DATA:
		return "data"
	case TAG_SYMBOL:
		return "symbol"
	case TAG_FILE:
		return "file"
	case TAG_LINE:
		return "line"
	}
	return f("tag(0x%04x)", uint16(tag))
}

// Record is one decoded object file record. Only the fields used by the
// tag are set.
type Record struct {
	Tag    Tag
	Offset int      // Byte offset of the tag word.
	Addr   uint16   // CODE, DATA, SYMBOL, LINE
	Words  []uint16 // CODE, DATA
	Name   string   // SYMBOL, FILE
	Line   uint16   // LINE
	File   uint16   // LINE, index into the FILE records seen so far
}

type reader struct {
	buf []byte
	pos int
}

func (rd *reader) word() (w uint16, ok bool) {
	if len(rd.buf)-rd.pos < 2 {
		return
	}
	w = binary.BigEndian.Uint16(rd.buf[rd.pos:])
	rd.pos += 2
	ok = true
	return
}

func (rd *reader) words(count int) (ws []uint16, ok bool) {
	if len(rd.buf)-rd.pos < count*2 {
		return
	}
	ws = make([]uint16, count)
	for n := range ws {
		ws[n], _ = rd.word()
	}
	ok = true
	return
}

func (rd *reader) text() (name string, err error) {
	length, ok := rd.word()
	if !ok {
		err = ErrTruncated
		return
	}
	if len(rd.buf)-rd.pos < int(length) {
		err = ErrTruncated
		return
	}
	raw := rd.buf[rd.pos : rd.pos+int(length)]
	rd.pos += int(length)
	if !utf8.Valid(raw) {
		err = ErrSymbolText
		return
	}
	name = string(raw)
	return
}

func (rd *reader) section(rec *Record) (err error) {
	var count uint16
	var ok bool
	if rec.Addr, ok = rd.word(); !ok {
		return ErrTruncated
	}
	if count, ok = rd.word(); !ok {
		return ErrTruncated
	}
	if uint32(rec.Addr)+uint32(count) > 1<<16 {
		return ErrSectionRange
	}
	if rec.Words, ok = rd.words(int(count)); !ok {
		return ErrTruncated
	}
	return
}

func (rd *reader) next() (rec Record, err error) {
	rec.Offset = rd.pos

	defer func() {
		if err != nil {
			err = &ErrRecord{Offset: rec.Offset, Err: err}
		}
	}()

	tag, ok := rd.word()
	if !ok {
		err = ErrTruncated
		return
	}
	rec.Tag = Tag(tag)

	switch rec.Tag {
	case TAG_CODE, TAG_DATA:
		err = rd.section(&rec)
	case TAG_SYMBOL:
		if rec.Addr, ok = rd.word(); !ok {
			err = ErrTruncated
			return
		}
		rec.Name, err = rd.text()
	case TAG_FILE:
		rec.Name, err = rd.text()
	case TAG_LINE:
		var values []uint16
		if values, ok = rd.words(3); !ok {
			err = ErrTruncated
			return
		}
		rec.Addr, rec.Line, rec.File = values[0], values[1], values[2]
	default:
		err = ErrTag(tag)
	}

	return
}

// Records iterates over the records of an object file. The first
// malformed record yields an *ErrRecord and ends the iteration.
func Records(buf []byte) iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		rd := &reader{buf: buf}
		for rd.pos < len(rd.buf) {
			rec, err := rd.next()
			if err != nil {
				yield(Record{}, err)
				return
			}
			if !yield(rec, nil) {
				return
			}
		}
	}
}
