package internal

import (
	"maps"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBands(t *testing.T) {
	assert := assert.New(t)

	var got [][2]int
	for start, end := range Bands(10, 4) {
		got = append(got, [2]int{start, end})
	}
	assert.Equal([][2]int{{0, 4}, {4, 8}, {8, 10}}, got)

	got = nil
	for start, end := range Bands(3, 0) {
		got = append(got, [2]int{start, end})
	}
	assert.Equal([][2]int{{0, 1}, {1, 2}, {2, 3}}, got)

	for range Bands(0, 4) {
		assert.Fail("empty range yielded a band")
	}
}

func TestIterSeq2Concat(t *testing.T) {
	assert := assert.New(t)

	a := map[string]int{"a": 1}
	b := map[string]int{"b": 2, "c": 3}

	all := maps.Collect(IterSeq2Concat(maps.All(a), maps.All(b)))
	assert.Equal(map[string]int{"a": 1, "b": 2, "c": 3}, all)

	keys := slices.Sorted(maps.Keys(all))
	assert.Equal([]string{"a", "b", "c"}, keys)
}
