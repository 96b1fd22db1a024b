package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReorderWithoutShuffleKeepsOrder(t *testing.T) {
	items := []string{"a", "b", "c", "d", "e"}
	r := DefaultRandomizer()

	for i := 0; i < 20; i++ {
		out := Reorder(r, items, false)
		assert.Equal(t, items, out)
	}

	out := Reorder(r, items, false)
	out[0] = "z"
	assert.Equal(t, "a", items[0], "result must not alias the input")
}

func TestReorderUsesInjectedSource(t *testing.T) {
	out := Reorder[int](reverseRand{}, []int{1, 2, 3}, true)
	assert.Equal(t, []int{3, 2, 1}, out)
}

func TestReorderShuffleIsPermutation(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7, 8}
	r := NewRandomizer(42)

	differs := false
	for i := 0; i < 100; i++ {
		out := Reorder(r, items, true)
		assert.ElementsMatch(t, items, out)
		if !assert.ObjectsAreEqual(items, out) {
			differs = true
		}
	}
	assert.True(t, differs, "100 shuffles of 8 items should produce a different order")
}

func TestReorderSmallInputs(t *testing.T) {
	r := DefaultRandomizer()
	assert.Empty(t, Reorder(r, []int{}, true))
	assert.Equal(t, []int{7}, Reorder(r, []int{7}, true))
}
