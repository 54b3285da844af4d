package maze

import (
	"fmt"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShuffle_IsPermutation(t *testing.T) {
	src := NewSource(5)
	for n := 0; n < 20; n++ {
		items := make([]int, n)
		for i := range items {
			items[i] = i
		}

		Shuffle(items, src)

		sorted := slices.Clone(items)
		slices.Sort(sorted)
		for i, v := range sorted {
			require.Equal(t, i, v)
		}
	}
}

func TestShuffle_Order(t *testing.T) {
	// walks from the last index down, swapping with the drawn index
	src := &scriptedSource{t: t, values: []int{0, 1, 0}}
	items := []string{"a", "b", "c"}

	Shuffle(items, src)

	// i=2 swap with 0 -> c b a; i=1 swap with 1 -> c b a; i=0 no-op
	assert.Equal(t, []string{"c", "b", "a"}, items)
	assert.Equal(t, 3, src.calls)
}

func TestShuffle_Uniform(t *testing.T) {
	const trials = 60000
	src := NewSource(2024)
	counts := map[string]int{}

	for i := 0; i < trials; i++ {
		items := []int{0, 1, 2}
		Shuffle(items, src)
		counts[fmt.Sprint(items)]++
	}

	require.Len(t, counts, 6)
	expected := trials / 6
	for perm, n := range counts {
		assert.InDelta(t, expected, n, float64(expected)*0.05, "permutation %s", perm)
	}
}

func TestShuffle_Deterministic(t *testing.T) {
	a := []int{1, 2, 3, 4, 5, 6, 7, 8}
	b := slices.Clone(a)

	Shuffle(a, NewSource(11))
	Shuffle(b, NewSource(11))

	assert.Equal(t, a, b)
}
