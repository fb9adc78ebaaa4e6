package huffman

import (
	"container/heap"
	"fmt"
)

// Build constructs a Huffman tree for the given symbol counts.
//
// Entries with an empty Symbol are ignored.  Counts of 0 are permitted; such
// symbols still receive a leaf (and therefore a Code).  The caller must not
// supply the same Symbol twice.
//
// The tree is built by repeatedly removing the two lowest-count nodes from a
// minheap, merging them into a new internal node (the first removed becomes
// the left child), and pushing the new node back.  Ties are broken in favor of
// the node that was pushed first: leaves in input order, then merged nodes in
// creation order.  When only one node remains, it becomes the root.
//
// With a single symbol, no merge happens and the root is that symbol's leaf,
// whose Code is empty.
//
func Build(counts []SymbolCount) (*Tree, error) {
	var numSymbols int
	var total uint64
	for _, sc := range counts {
		if sc.Symbol == "" {
			continue
		}
		sum := total + sc.Count
		if sum < total {
			return nil, fmt.Errorf("%w: at symbol %q", ErrCountOverflow, sc.Symbol)
		}
		total = sum
		numSymbols++
	}
	if numSymbols == 0 {
		return nil, ErrEmptyAlphabet
	}

	// A full binary tree with n leaves has 2n-1 nodes.
	t := NewTree(2*numSymbols - 1)

	// Step 1: build a minheap of leaves.

	h := nodeHeap{list: make([]weightedNode, 0, numSymbols)}
	var seq uint64
	for _, sc := range counts {
		if sc.Symbol == "" {
			continue
		}
		id := t.AddLeaf(sc.Symbol, sc.Count)
		h.list = append(h.list, weightedNode{id: id, count: sc.Count, seq: seq})
		seq++
	}
	h.Init()

	// Step 2: process the minheap by popping two nodes, merging them into
	// a new internal node, and pushing the new node back onto the minheap.

	for h.Len() > 1 {
		left := heap.Pop(&h).(weightedNode)
		right := heap.Pop(&h).(weightedNode)
		id := t.Merge(left.id, right.id)
		heap.Push(&h, weightedNode{id: id, count: left.count + right.count, seq: seq})
		seq++
	}

	root := heap.Pop(&h).(weightedNode)
	t.SetRoot(root.id)
	return t, nil
}

// type weightedNode + type nodeHeap {{{

type weightedNode struct {
	id    NodeID
	count uint64
	seq   uint64
}

type nodeHeap struct {
	list []weightedNode
}

func (h *nodeHeap) Init() {
	heap.Init(h)
}

func (h *nodeHeap) Len() int {
	return len(h.list)
}

func (h *nodeHeap) Swap(i, j int) {
	h.list[i], h.list[j] = h.list[j], h.list[i]
}

func (h *nodeHeap) Less(i, j int) bool {
	a, b := h.list[i], h.list[j]
	if a.count != b.count {
		return a.count < b.count
	}
	return a.seq < b.seq
}

func (h *nodeHeap) Push(x interface{}) {
	h.list = append(h.list, x.(weightedNode))
}

func (h *nodeHeap) Pop() interface{} {
	last := uint(len(h.list)) - 1
	x := h.list[last]
	h.list = h.list[:last]
	return x
}

var _ heap.Interface = (*nodeHeap)(nil)

// }}}
