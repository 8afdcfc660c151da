// Package grid lays out 4-word cell records on a near-square 2D grid.
//
// Both the state memory and the metadata memory of a compiled program are
// flat []int32 slices holding one record per cell, in row-major order.
package grid

import (
	"math"
)

// RECORD_WORDS is the number of words per cell record.
const RECORD_WORDS = 4

// State record channels.
const (
	CHANNEL_R = 0
	CHANNEL_G = 1
	CHANNEL_B = 2
	CHANNEL_A = 3 // Program entry address of the cell.
)

// Metadata record fields.
const (
	META_OFFSET = 1 // Instance ordinal within its rule.
)

// Record is a single cell record.
type Record [RECORD_WORDS]int32

// Dimensions returns the smallest near-square grid holding count records.
func Dimensions(count int) (width, height int) {
	if count <= 0 {
		return
	}

	width = int(math.Ceil(math.Sqrt(float64(count))))
	for width*width < count {
		width++
	}
	height = (count + width - 1) / width

	return
}

// Pad extends words with zero records to fill a width x height grid.
func Pad(words []int32, width, height int) []int32 {
	size := width * height * RECORD_WORDS
	if len(words) >= size {
		return words
	}

	return append(words, make([]int32, size-len(words))...)
}

// Index returns the record index of cell (x, y).
func Index(x, y, width int) int {
	return x + y*width
}

// Records returns the number of records in words.
func Records(words []int32) int {
	return len(words) / RECORD_WORDS
}

// Get returns record n of words, or a zero record if n is out of range.
func Get(words []int32, n int) (rec Record) {
	if n < 0 || n >= Records(words) {
		return
	}
	copy(rec[:], words[n*RECORD_WORDS:])
	return
}

// Set replaces record n of words. Out of range indexes are ignored.
func Set(words []int32, n int, rec Record) {
	if n < 0 || n >= Records(words) {
		return
	}
	copy(words[n*RECORD_WORDS:], rec[:])
}
