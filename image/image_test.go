package image

import (
	"bytes"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezrec/koala/asm"
	"github.com/ezrec/koala/sim"
	"github.com/ezrec/koala/vm"
)

const source = `
Walker(5)=1:
  x = RAND & 1
  R = R + x
Counter(1):
  R = R + $(Walker_count)
`

func TestProgramRoundTrip(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	prog, err := asm.Compile(source)
	require.NoError(err)

	var buf bytes.Buffer
	require.NoError(WriteProgram(&buf, prog))

	loaded, err := ReadProgram(&buf)
	require.NoError(err)

	assert.Equal(prog.Code, loaded.Code)
	assert.Equal(prog.State, loaded.State)
	assert.Equal(prog.Meta, loaded.Meta)
	assert.Equal(prog.Width, loaded.Width)
	assert.Equal(prog.Height, loaded.Height)
	assert.Equal(prog.Order, loaded.Order)
	assert.Equal(prog.Rules, loaded.Rules)
	assert.Equal(prog.Opcodes, loaded.Opcodes)

	// A loaded image runs exactly like the compiled program.
	assert.Equal(vm.Step(prog, prog.State, 9), vm.Step(loaded, loaded.State, 9))

	// Encoding is canonical.
	again, err := MarshalProgram(loaded)
	require.NoError(err)
	first, err := MarshalProgram(prog)
	require.NoError(err)
	assert.Equal(first, again)
}

func TestSnapshotRoundTrip(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	prog, err := asm.Compile(source)
	require.NoError(err)

	s := sim.New(prog)
	s.Run(6)

	var buf bytes.Buffer
	require.NoError(WriteSnapshot(&buf, s.Snapshot()))

	snap, err := ReadSnapshot(&buf)
	require.NoError(err)
	assert.Equal(s.Snapshot(), snap)

	restored := sim.New(prog)
	require.NoError(restored.Restore(snap))
	s.Run(2)
	restored.Run(2)
	assert.Equal(s.State(), restored.State())
	assert.Equal(s.Frame(), restored.Frame())
}

func TestImageErrors(t *testing.T) {
	assert := assert.New(t)

	_, err := UnmarshalProgram([]byte{0xff})
	assert.Error(err)

	prog, err := asm.Compile(source)
	assert.NoError(err)

	s := sim.New(prog)
	data, err := MarshalSnapshot(s.Snapshot())
	assert.NoError(err)

	_, err = UnmarshalProgram(data)
	assert.ErrorIs(err, ErrMagic)

	data, err = cbor.Marshal(map[string]any{"magic": PROGRAM_MAGIC, "version": 99})
	assert.NoError(err)
	_, err = UnmarshalProgram(data)
	assert.ErrorIs(err, ErrVersion)

	snap := s.Snapshot()
	snap.State = snap.State[:4]
	data, err = MarshalSnapshot(snap)
	assert.NoError(err)
	_, err = UnmarshalSnapshot(data)
	assert.ErrorIs(err, ErrCorrupt)
}
