// Package sim runs a compiled program over its double-buffered cell state.
package sim

import (
	"fmt"
	"io"
	"log"
	"slices"

	"github.com/ezrec/koala/asm"
	"github.com/ezrec/koala/grid"
	"github.com/ezrec/koala/vm"
)

// Snapshot is the state of a simulation between steps.
type Snapshot struct {
	Frame  int32   // Steps taken.
	Width  int     // Grid width in cells.
	Height int     // Grid height in cells.
	State  []int32 // Current state buffer.
}

// Simulation state. Program + ping-pong state buffers.
type Simulation struct {
	Verbose bool         // If set, enables verbose logging.
	Machine vm.Machine   // Step executor.
	Program *asm.Program // Reference to the running program.

	buffer  [2][]int32
	current int
	frame   int32
}

// New creates a simulation of prog at its initial state.
func New(prog *asm.Program) (sim *Simulation) {
	sim = &Simulation{
		Program: prog,
	}

	sim.Reset()

	return
}

// Reset returns to the program's initial state and frame 0.
func (sim *Simulation) Reset() {
	size := len(sim.Program.State)
	for n := range sim.buffer {
		if cap(sim.buffer[n]) < size {
			sim.buffer[n] = make([]int32, size)
		}
		sim.buffer[n] = sim.buffer[n][:size]
	}

	copy(sim.buffer[0], sim.Program.State)
	clear(sim.buffer[1])
	sim.current = 0
	sim.frame = 0

	if sim.Verbose {
		log.Printf("sim: reset %dx%d", sim.Program.Width, sim.Program.Height)
	}
}

// Step advances one frame. If readback is set, a copy of the new state is
// returned.
func (sim *Simulation) Step(readback bool) (state []int32) {
	sim.Machine.Verbose = sim.Verbose

	next := 1 - sim.current
	sim.Machine.Step(sim.Program, sim.buffer[sim.current], sim.buffer[next], sim.frame)

	sim.current = next
	sim.frame++

	if readback {
		state = sim.State()
	}

	return
}

// Run advances the given number of frames.
func (sim *Simulation) Run(steps int) {
	for range steps {
		sim.Step(false)
	}

	if sim.Verbose {
		log.Printf("sim: frame %d", sim.frame)
	}
}

// State returns a copy of the current state buffer.
func (sim *Simulation) State() []int32 {
	return slices.Clone(sim.buffer[sim.current])
}

// Frame returns the number of steps taken since a reset.
func (sim *Simulation) Frame() int32 {
	return sim.frame
}

// Cell returns the current record of an instance of a rule.
func (sim *Simulation) Cell(rule string, ordinal int) (rec grid.Record, err error) {
	index, err := sim.Program.Cell(rule, ordinal)
	if err != nil {
		err = &ErrCell{Rule: rule, Ordinal: ordinal, Err: err}
		return
	}

	rec = grid.Get(sim.buffer[sim.current], index)

	return
}

// SetCell replaces the current record of an instance of a rule. The edit
// is visible to the next step.
func (sim *Simulation) SetCell(rule string, ordinal int, rec grid.Record) (err error) {
	index, err := sim.Program.Cell(rule, ordinal)
	if err != nil {
		err = &ErrCell{Rule: rule, Ordinal: ordinal, Err: err}
		return
	}

	grid.Set(sim.buffer[sim.current], index, rec)

	return
}

// Snapshot captures the current state.
func (sim *Simulation) Snapshot() Snapshot {
	return Snapshot{
		Frame:  sim.frame,
		Width:  sim.Program.Width,
		Height: sim.Program.Height,
		State:  sim.State(),
	}
}

// Restore replaces the current state and frame with a snapshot taken from
// the same program.
func (sim *Simulation) Restore(snap Snapshot) (err error) {
	if snap.Width != sim.Program.Width || snap.Height != sim.Program.Height ||
		len(snap.State) != len(sim.buffer[sim.current]) {
		err = ErrSnapshotSize
		return
	}

	copy(sim.buffer[sim.current], snap.State)
	sim.frame = snap.Frame

	return
}

// Dump writes the current records of every rule instance.
func (sim *Simulation) Dump(w io.Writer) (err error) {
	_, err = fmt.Fprintf(w, "; frame %d\n", sim.frame)
	if err != nil {
		return
	}

	for _, name := range sim.Program.Order {
		rule := sim.Program.Rules[name]
		for n := range rule.Count {
			rec := grid.Get(sim.buffer[sim.current], rule.Records()+n)
			_, err = fmt.Fprintf(w, "%v(%d): %d %d %d %d\n", name, n, rec[0], rec[1], rec[2], rec[3])
			if err != nil {
				return
			}
		}
	}

	return
}
