package machine

import (
	"io"

	"github.com/ezrec/isa16/object"
)

// Load copies an object file into memory and records its symbols. If
// trace is not nil, a listing of the object file is written to it.
//
// Records before a malformed record stay loaded; the error is an
// *object.ErrRecord naming the offset of the bad record.
func (m *Machine) Load(buf []byte, trace io.Writer) (err error) {
	var ls *object.Lister
	if trace != nil {
		ls = object.NewLister(trace)
	}

	for rec, rec_err := range object.Records(buf) {
		if rec_err != nil {
			return rec_err
		}

		switch rec.Tag {
		case object.TAG_CODE, object.TAG_DATA:
			copy(m.Memory[rec.Addr:], rec.Words)
		case object.TAG_SYMBOL:
			if m.Symbols == nil {
				m.Symbols = map[string]uint16{}
			}
			m.Symbols[rec.Name] = rec.Addr
		}

		if ls != nil {
			if err = ls.List(rec); err != nil {
				return
			}
		}
	}

	return
}
