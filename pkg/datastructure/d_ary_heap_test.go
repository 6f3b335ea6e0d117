package datastructure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeapExtractsInRankOrder(t *testing.T) {
	h := NewFourAryHeap[string]()
	h.Insert(NewPriorityQueueNode(5.0, "e"))
	h.Insert(NewPriorityQueueNode(1.0, "a"))
	h.Insert(NewPriorityQueueNode(3.0, "c"))
	h.Insert(NewPriorityQueueNode(2.0, "b"))
	h.Insert(NewPriorityQueueNode(4.0, "d"))

	var order []string
	for !h.IsEmpty() {
		node, err := h.ExtractMin()
		require.NoError(t, err)
		order = append(order, node.GetItem())
	}

	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, order)
}

func TestExtractMinOnEmptyHeapReturnsError(t *testing.T) {
	h := NewFourAryHeap[int]()
	_, err := h.ExtractMin()
	assert.Error(t, err)
}

func TestDecreaseKeyReordersExtraction(t *testing.T) {
	h := NewFourAryHeap[string]()
	node := NewPriorityQueueNode(10.0, "late")
	h.Insert(node)
	h.Insert(NewPriorityQueueNode(1.0, "early"))

	require.NoError(t, h.DecreaseKey(node, 0.5))

	first, err := h.ExtractMin()
	require.NoError(t, err)
	assert.Equal(t, "late", first.GetItem())
}

func TestDecreaseKeyRejectsIncrease(t *testing.T) {
	h := NewFourAryHeap[string]()
	node := NewPriorityQueueNode(1.0, "only")
	h.Insert(node)

	err := h.DecreaseKey(node, 5.0)
	assert.Error(t, err)
}

func TestBinaryHeapAlsoOrdersByRank(t *testing.T) {
	h := NewBinaryHeap[int]()
	for _, v := range []float64{9, 2, 7, 1, 5} {
		h.Insert(NewPriorityQueueNode(v, int(v)))
	}

	min, err := h.ExtractMin()
	require.NoError(t, err)
	assert.Equal(t, 1, min.GetItem())
}
