// Package vm executes a compiled program once per cell.
//
// A step reads every cell from the current state buffer and writes every
// cell to the next buffer. Cells never observe each other's writes within
// a step, so the result does not depend on evaluation order or on the
// number of workers.
package vm
