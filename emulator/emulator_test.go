package emulator

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezrec/isa16/isa"
	"github.com/ezrec/isa16/link"
	"github.com/ezrec/isa16/machine"
)

func TestEmulator(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	assert.False(emu.Verbose)
	assert.NotNil(emu.Machine)
	assert.Equal(STEP_CAP, emu.StepCap)
	assert.Equal(machine.PC_RESET, emu.PC())

	defines := map[string]string{}
	for key, value := range emu.Defines() {
		defines[key] = value
	}
	assert.Equal("0x8200", defines["PC_RESET"])
	assert.Equal("0x2000", defines["USER_DATA"])
	assert.Equal("1000000", defines["STEP_CAP"])
}

// sumProgram adds 5+4+3+2+1 into r1, then spins on "done".
func sumProgram(t *testing.T) []byte {
	blocks := []link.Block{
		{
			Addr: 0x8200, HasAddr: true,
			Labels: []string{"start"},
			Code: []link.Instruction{
				{Op: isa.OP_CONST, Rd: 0, Imm: 5},
				{Op: isa.OP_CONST, Rd: 1, Imm: 0},
			},
		},
		{
			Labels: []string{"loop"},
			Code: []link.Instruction{
				{Op: isa.OP_ADD, Rd: 1, Rs: 1, Rt: 0},
				{Op: isa.OP_ADD, Rd: 0, Rs: 0, Rt: link.REG_NONE, Imm: -1},
				{Op: isa.OP_BRP, Label: "loop"},
			},
		},
		{
			Labels: []string{"done"},
			Code: []link.Instruction{
				{Op: isa.OP_BRNZP, Label: "done"},
			},
		},
	}

	obj, err := link.Link(blocks, nil, true)
	require.NoError(t, err)
	return obj
}

func TestEmulatorRun(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	require.NoError(t, emu.Load(sumProgram(t)))

	var trace bytes.Buffer
	emu.Trace = &trace

	err := emu.Run()
	assert.NoError(err)
	assert.Equal(STOP_HALT, emu.Stop)
	assert.Equal(int16(15), emu.Registers[1])
	assert.Equal(int16(0), emu.Registers[0])
	assert.Equal("done", emu.Symbol())

	// 2 setup + 5 * 3 loop + 1 halting step
	assert.Equal(18, emu.Steps)
	lines := strings.Split(strings.TrimSpace(trace.String()), "\n")
	assert.Len(lines, 18)
	assert.True(strings.HasPrefix(lines[0], "8200 9005 1 0 0005 1 001 0"))
}

func TestEmulatorBreak(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	require.NoError(t, emu.Load(sumProgram(t)))

	err := emu.Break("nowhere")
	assert.ErrorIs(err, machine.ErrSymbolMissing)

	require.NoError(t, emu.Break("loop"))

	assert.NoError(emu.Run())
	assert.Equal(STOP_BREAK, emu.Stop)
	assert.Equal("loop", emu.Symbol())
	assert.Equal(2, emu.Steps)

	// Each pass around the loop returns to the breakpoint.
	assert.NoError(emu.Run())
	assert.Equal(STOP_BREAK, emu.Stop)
	assert.Equal(5, emu.Steps)
	assert.Equal(int16(5), emu.Registers[1])
}

func TestEmulatorStepCap(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	require.NoError(t, emu.Load(sumProgram(t)))
	emu.StepCap = 4

	assert.NoError(emu.Run())
	assert.Equal(STOP_CAP, emu.Stop)
	assert.Equal(4, emu.Steps)
	assert.Equal("loop+2", emu.Symbol())

	// The budget applies to each Run.
	assert.NoError(emu.Run())
	assert.Equal(STOP_CAP, emu.Stop)
	assert.Equal(8, emu.Steps)
	assert.Equal("loop", emu.Symbol())
}

func TestLinkedImageInMemory(t *testing.T) {
	assert := assert.New(t)

	blocks := []link.Block{
		{
			Addr: 0x8200, HasAddr: true,
			Labels: []string{"start"},
			Code: []link.Instruction{
				{Op: isa.OP_ADD, Rd: 0, Rs: 1, Rt: 2},
				{Op: isa.OP_TRAP, Imm: 0x25},
				{Pseudo: link.PSEUDO_RET},
			},
		},
		{
			Addr: 0x4000, HasAddr: true,
			Labels: []string{"msg"},
			Data:   []link.Datum{link.Word(-1), link.Stringz("ok"), link.Zeros(2)},
		},
	}
	obj, err := link.Link(blocks, nil, false)
	require.NoError(t, err)

	m := machine.New()
	require.NoError(t, m.Load(obj, nil))

	assert.Equal([]uint16{0x1042, 0xf025, 0xc1c0}, m.Memory[0x8200:0x8203])
	assert.Equal([]uint16{0xffff, 'o', 'k', 0, 0, 0}, m.Memory[0x4000:0x4006])
	assert.Equal(uint16(0), m.Memory[0x8203])
	assert.Equal(uint16(0), m.Memory[0x4006])
}

func TestEmulatorFault(t *testing.T) {
	assert := assert.New(t)

	blocks := []link.Block{
		{
			Addr: 0x8200, HasAddr: true,
			Labels: []string{"start"},
			Code: []link.Instruction{
				{Pseudo: link.PSEUDO_LEA, Rd: 0, Label: "table"},
				{Op: isa.OP_JMPR, Rs: 0},
			},
		},
		{
			Labels: []string{"table"},
			Data:   []link.Datum{link.Word(1)},
		},
	}
	obj, err := link.Link(blocks, nil, true)
	require.NoError(t, err)

	emu := NewEmulator()
	var listing bytes.Buffer
	emu.LoaderTrace = &listing
	require.NoError(t, emu.Load(obj))
	assert.Contains(listing.String(), "table:\n.fill 1\n")

	err = emu.Run()

	var runtime_err *ErrRuntime
	require.ErrorAs(t, err, &runtime_err)
	assert.Equal(uint16(0x8202), runtime_err.Pc)
	assert.Equal("start+2", runtime_err.Symbol)
	assert.ErrorIs(err, machine.ErrJump)
	assert.Equal(uint16(0x8202), emu.PC())
}

func TestEmulatorLoadImages(t *testing.T) {
	assert := assert.New(t)

	user, err := link.Link([]link.Block{
		{Labels: []string{"main"}, Code: []link.Instruction{
			{Op: isa.OP_TRAP, Imm: 0x00},
		}},
	}, nil, true)
	require.NoError(t, err)

	os, err := link.Link([]link.Block{
		{Addr: 0x8000, HasAddr: true, Labels: []string{"trap_halt"}, Code: []link.Instruction{
			{Op: isa.OP_BRNZP, Imm: -1},
		}},
		{Addr: 0x8200, HasAddr: true, Labels: []string{"boot"}, Code: []link.Instruction{
			{Op: isa.OP_CONST, Rd: 7, Imm: 0},
			{Op: isa.OP_RTI},
		}},
	}, nil, true)
	require.NoError(t, err)

	emu := NewEmulator()
	require.NoError(t, emu.Load(user, os))

	assert.NoError(emu.Run())
	assert.Equal(STOP_HALT, emu.Stop)
	assert.Equal("trap_halt", emu.Symbol())
	assert.True(emu.OsMode())
	assert.Equal(int16(1), emu.Registers[7])

	err = emu.Load(user, []byte{0x12, 0x34})
	var image_err *ErrImage
	require.ErrorAs(t, err, &image_err)
	assert.Equal(1, image_err.Index)

	// Reset clears symbols and breakpoints.
	emu.Reset()
	assert.ErrorIs(emu.Break("main"), machine.ErrSymbolMissing)
	assert.Equal(0, emu.Steps)
}
