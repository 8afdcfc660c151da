package vm

import (
	"log"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/ezrec/koala/asm"
	"github.com/ezrec/koala/grid"
	"github.com/ezrec/koala/internal"
	"github.com/ezrec/koala/isa"
)

// MAX_INSTR is the instruction budget of a cell per step.
const MAX_INSTR = 100

// Machine executes steps of a program over a cell grid.
type Machine struct {
	Verbose bool // If set, logs every step.
	Workers int  // Maximum parallel row bands. 0 uses GOMAXPROCS.
}

// Cell runs the program of cell (x, y) and returns its next record.
func Cell(prog *asm.Program, current []int32, x, y int, frame int32) (next grid.Record, ticks int) {
	index := grid.Index(x, y, prog.Width)
	rec := grid.Get(current, index)

	var reg Registers
	reg.Seed(rec, grid.Get(prog.Meta, index), index, frame)

	pc := int(rec[grid.CHANNEL_A])
	for ticks = 0; ticks < MAX_INSTR; ticks++ {
		if pc < 0 || pc >= len(prog.Code) {
			break
		}
		reg[isa.SLOT_RAND] = Rand(x, y, frame, pc)
		if !reg.Exec(prog.Code[pc], current) {
			break
		}
		pc++
	}

	next = reg.Record()

	return
}

// rows runs every cell of rows [start, end).
func rows(prog *asm.Program, current, next []int32, frame int32, start, end int) (ticks int) {
	for y := start; y < end; y++ {
		for x := range prog.Width {
			rec, n := Cell(prog, current, x, y, frame)
			grid.Set(next, grid.Index(x, y, prog.Width), rec)
			ticks += n
		}
	}
	return
}

// Step computes next from current for every cell of the grid. Rows are
// split into bands executed in parallel.
func (m *Machine) Step(prog *asm.Program, current, next []int32, frame int32) {
	workers := m.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	band := max(1, (prog.Height+workers-1)/workers)
	ticks := make([]int, (prog.Height+band-1)/band)

	var group errgroup.Group
	group.SetLimit(workers)

	n := 0
	for start, end := range internal.Bands(prog.Height, band) {
		slot := &ticks[n]
		n++
		group.Go(func() error {
			*slot = rows(prog, current, next, frame, start, end)
			return nil
		})
	}

	_ = group.Wait()

	if m.Verbose {
		total := 0
		for _, t := range ticks {
			total += t
		}
		log.Printf("vm: frame %d: %dx%d cells, %d bands, %d instructions", frame, prog.Width, prog.Height, len(ticks), total)
	}
}

// Step returns the state following current, computed sequentially.
func Step(prog *asm.Program, current []int32, frame int32) (next []int32) {
	next = make([]int32, len(current))
	rows(prog, current, next, frame, 0, prog.Height)
	return
}
