package internal

import (
	"iter"
)

// IterSeq2Concat concatenates multiple dual-return iterators into a single iterator sequence.
func IterSeq2Concat[T1 any, T2 any](seqs ...iter.Seq2[T1, T2]) iter.Seq2[T1, T2] {
	return func(yield func(T1, T2) bool) {
		for _, seq := range seqs {
			for val1, val2 := range seq {
				if !yield(val1, val2) {
					return
				}
			}
		}
	}
}

// Bands splits [0, total) into consecutive [start, end) ranges of at most
// size elements.
func Bands(total, size int) iter.Seq2[int, int] {
	return func(yield func(start, end int) bool) {
		if size <= 0 {
			size = 1
		}
		for start := 0; start < total; start += size {
			if !yield(start, min(start+size, total)) {
				return
			}
		}
	}
}
