package object

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(buf []byte) (recs []Record, err error) {
	for rec, rec_err := range Records(buf) {
		if rec_err != nil {
			err = rec_err
			return
		}
		recs = append(recs, rec)
	}
	return
}

func TestWriterLayout(t *testing.T) {
	assert := assert.New(t)

	wr := &Writer{}
	wr.Symbol(0x0000, "main")
	wr.Code(0x0000, []uint16{0x1042, 0xf025})
	wr.Data(0x2000, nil)

	assert.Equal([]byte{
		0xc3, 0xb7, 0x00, 0x00, 0x00, 0x04, 'm', 'a', 'i', 'n',
		0xca, 0xde, 0x00, 0x00, 0x00, 0x02, 0x10, 0x42, 0xf0, 0x25,
	}, wr.Bytes())
}

func TestRecords(t *testing.T) {
	assert := assert.New(t)

	wr := &Writer{}
	wr.Symbol(0x2000, "msg")
	wr.File("hello.star")
	wr.Code(0x8200, []uint16{0x9001, 0xf025})
	wr.Line(0x8200, 3, 0)
	wr.Data(0x2000, []uint16{'h', 'i', 0})

	recs, err := collect(wr.Bytes())
	require.NoError(t, err)
	require.Len(t, recs, 5)

	assert.Equal(TAG_SYMBOL, recs[0].Tag)
	assert.Equal(uint16(0x2000), recs[0].Addr)
	assert.Equal("msg", recs[0].Name)

	assert.Equal(TAG_FILE, recs[1].Tag)
	assert.Equal("hello.star", recs[1].Name)

	assert.Equal(TAG_CODE, recs[2].Tag)
	assert.Equal(uint16(0x8200), recs[2].Addr)
	assert.Equal([]uint16{0x9001, 0xf025}, recs[2].Words)

	assert.Equal(TAG_LINE, recs[3].Tag)
	assert.Equal(uint16(3), recs[3].Line)
	assert.Equal(uint16(0), recs[3].File)

	assert.Equal(TAG_DATA, recs[4].Tag)
	assert.Equal([]uint16{'h', 'i', 0}, recs[4].Words)

	// Offsets follow the odd-length names.
	assert.Equal(0, recs[0].Offset)
	assert.Equal(9, recs[1].Offset)
}

func TestRecordsMalformed(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name   string
		buf    []byte
		kind   error
		offset int
		good   int
	}){
		{"half_tag", []byte{0xca}, ErrTruncated, 0, 0},
		{"short_code", []byte{0xca, 0xde, 0x00, 0x00, 0x00, 0x02, 0x10, 0x42}, ErrTruncated, 0, 0},
		{"short_symbol", []byte{0xc3, 0xb7, 0x00, 0x00, 0x00, 0x04, 'a'}, ErrTruncated, 0, 0},
		{"bad_utf8", []byte{0xc3, 0xb7, 0x00, 0x00, 0x00, 0x02, 0xff, 0xfe}, ErrSymbolText, 0, 0},
		{"bad_tag", []byte{0xca, 0xde, 0x00, 0x00, 0x00, 0x01, 0x10, 0x42, 0x12, 0x34}, ErrRecordTag, 8, 1},
		{"wrap", []byte{0xda, 0xda, 0xff, 0xff, 0x00, 0x02, 0x00, 0x01, 0x00, 0x02}, ErrSectionRange, 0, 0},
		{"short_line", []byte{0x71, 0x5e, 0x00, 0x00, 0x00, 0x01}, ErrTruncated, 0, 0},
	}

	for _, entry := range table {
		recs, err := collect(entry.buf)
		assert.ErrorIs(err, entry.kind, entry.name)
		assert.Len(recs, entry.good, entry.name)

		var rec_err *ErrRecord
		if assert.ErrorAs(err, &rec_err, entry.name) {
			assert.Equal(entry.offset, rec_err.Offset, entry.name)
		}
	}
}

func TestRecordsErrorText(t *testing.T) {
	assert := assert.New(t)

	// 6 byte header plus 700 words puts the bad tag at 1406.
	wr := &Writer{}
	wr.Data(0x2000, make([]uint16, 700))
	buf := append(wr.Bytes(), 0xde, 0xad)

	_, err := collect(buf)
	require.Error(t, err)
	assert.Equal("object offset 1406: record tag 0xdead unknown", err.Error())
}

func TestRecordsEmpty(t *testing.T) {
	assert := assert.New(t)

	recs, err := collect(nil)
	assert.NoError(err)
	assert.Empty(recs)
}

func TestDisassemble(t *testing.T) {
	assert := assert.New(t)

	wr := &Writer{}
	wr.Symbol(0x0000, "main")
	wr.Symbol(0x2000, "msg")
	wr.File("a.star")
	wr.Code(0x0000, []uint16{0x1042, 0x3000})
	wr.Line(0x0000, 7, 0)
	wr.Data(0x2000, []uint16{5})

	var out bytes.Buffer
	err := Disassemble(&out, wr.Bytes())
	assert.NoError(err)

	expected := `; File index (0) file: a.star
.code
.addr 0
main:
	add r0, r1, r2
	; invalid instruction 0x3000
; Line number at address: 0 for line 7 in file index 0
.data
.addr 2000
msg:
.fill 5
`
	assert.Equal(expected, out.String())
}
