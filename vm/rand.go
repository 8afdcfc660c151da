package vm

// hash is a 32-bit one-at-a-time style integer mix.
func hash(x uint32) uint32 {
	x += x << 10
	x ^= x >> 6
	x += x << 3
	x ^= x >> 11
	x += x << 15
	return x
}

// hash2 mixes a pair of words.
func hash2(a, b uint32) uint32 {
	return hash(a ^ hash(b))
}

// Rand returns the RAND value seen by cell (x, y) at instruction pc of
// step frame.
func Rand(x, y int, frame int32, pc int) int32 {
	k := uint32(frame)*1000 + uint32(pc)*1000
	return int32(hash2(uint32(x)+k, uint32(y)+k))
}
