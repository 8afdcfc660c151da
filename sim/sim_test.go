package sim

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezrec/koala/asm"
	"github.com/ezrec/koala/grid"
)

func newSim(t *testing.T, source string) *Simulation {
	prog, err := asm.Compile(source)
	require.NoError(t, err)
	return New(prog)
}

func TestSimulationCounter(t *testing.T) {
	assert := assert.New(t)

	sim := newSim(t, "Counter(1)=0:\n  R = R + 1\n")
	assert.Equal(int32(0), sim.Frame())

	for n := range 5 {
		state := sim.Step(true)
		assert.Equal(int32(n+1), state[grid.CHANNEL_R])
	}

	sim.Run(5)
	rec, err := sim.Cell("Counter", 0)
	assert.NoError(err)
	assert.Equal(int32(10), rec[grid.CHANNEL_R])
	assert.Equal(int32(10), sim.Frame())

	assert.Nil(sim.Step(false))

	sim.Reset()
	assert.Equal(int32(0), sim.Frame())
	assert.Equal(sim.Program.State, sim.State())
}

func TestSimulationDoubleBuffer(t *testing.T) {
	assert := assert.New(t)

	// Each cell copies its left neighbour. A single buffer updated in
	// place would smear the first value across the whole row.
	source := `
Shift(4):
  R = R(ID - 1)
`
	sim := newSim(t, source)
	for n := range 4 {
		assert.NoError(sim.SetCell("Shift", n, grid.Record{int32(n + 1), 0, 0, int32(sim.Program.Rules["Shift"].ProgramAddress)}))
	}

	sim.Step(false)

	var got []int32
	for n := range 4 {
		rec, err := sim.Cell("Shift", n)
		assert.NoError(err)
		got = append(got, rec[grid.CHANNEL_R])
	}
	assert.Equal([]int32{0, 1, 2, 3}, got)
}

func TestSimulationSnapshot(t *testing.T) {
	assert := assert.New(t)

	sim := newSim(t, "Counter(3)=5:\n  R = R + OFFSET\n")
	sim.Run(4)
	snap := sim.Snapshot()
	assert.Equal(int32(4), snap.Frame)

	sim.Run(3)
	assert.NoError(sim.Restore(snap))
	assert.Equal(int32(4), sim.Frame())
	assert.Equal(snap.State, sim.State())

	rec, err := sim.Cell("Counter", 2)
	assert.NoError(err)
	assert.Equal(int32(5+4*2), rec[grid.CHANNEL_R])

	snap.Width++
	assert.ErrorIs(sim.Restore(snap), ErrSnapshotSize)
}

func TestSimulationCellErrors(t *testing.T) {
	assert := assert.New(t)

	sim := newSim(t, "One(1):\n  end\n")

	_, err := sim.Cell("Two", 0)
	assert.ErrorIs(err, asm.ErrRuleMissing)

	err = sim.SetCell("One", 1, grid.Record{})
	assert.ErrorIs(err, asm.ErrOrdinalRange)

	var cell *ErrCell
	assert.ErrorAs(err, &cell)
	assert.Equal("One", cell.Rule)
}

func TestSimulationDump(t *testing.T) {
	assert := assert.New(t)

	sim := newSim(t, "A(2)=1:\n  R = R * 2\nB(1)=3:\n  end\n")
	sim.Step(false)

	var out bytes.Buffer
	assert.NoError(sim.Dump(&out))
	assert.Equal("; frame 1\nA(0): 2 0 0 1\nA(1): 2 0 0 1\nB(0): 3 0 0 5\n", out.String())
}
