package object

import (
	"errors"

	"github.com/ezrec/isa16/translate"
)

var f = translate.From

var (
	ErrTruncated    = errors.New(f("record truncated"))
	ErrSymbolText   = errors.New(f("name is not valid UTF-8"))
	ErrRecordTag    = errors.New(f("record tag unknown"))
	ErrSectionRange = errors.New(f("section runs past end of memory"))
)

// ErrRecord is the first malformed record found in an object file.
// Offset is the byte offset of the record's tag word.
type ErrRecord struct {
	Offset int
	Err    error
}

func (err *ErrRecord) Error() string {
	return f("object offset %s: %v", translate.Number(err.Offset), err.Err)
}

func (err *ErrRecord) Unwrap() error {
	return err.Err
}

// ErrTag is an unrecognized record tag.
type ErrTag uint16

func (et ErrTag) Error() string {
	return f("record tag 0x%04x unknown", uint16(et))
}

func (et ErrTag) Unwrap() error {
	return ErrRecordTag
}
