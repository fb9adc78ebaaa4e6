package huffman

import (
	"bytes"
	"fmt"
	"io"
	"slices"

	"github.com/chronos-tachyon/assert"
)

// NodeID identifies a Node within its Tree.
type NodeID int32

// NoNode is the NodeID of an absent child, or of the root of a Tree that has
// no root yet.
const NoNode = NodeID(-1)

// Node is either a leaf, holding one Symbol and its observed count, or an
// internal node, holding InternalSymbol, the combined count of its subtree,
// and exactly two children.
type Node struct {
	Symbol Symbol
	Count  uint64
	Left   NodeID
	Right  NodeID
}

// IsLeaf returns true iff this Node has no children.
func (n Node) IsLeaf() bool {
	return n.Left == NoNode && n.Right == NoNode
}

// Tree is an arena of Nodes.  Children are referenced by NodeID, and every
// Node has at most one parent, so the Nodes always form a forest; once a root
// is chosen with SetRoot, that root's subtree is the Huffman tree.
//
// A Tree returned by Build is finalized and must not be modified.  It is
// safe for concurrent readers.
//
type Tree struct {
	nodes  []Node
	parent []NodeID
	root   NodeID
}

// NewTree constructs an empty Tree with room for the given number of Nodes.
func NewTree(capacity int) *Tree {
	return &Tree{
		nodes:  make([]Node, 0, capacity),
		parent: make([]NodeID, 0, capacity),
		root:   NoNode,
	}
}

// AddLeaf adds a new leaf Node to the Tree and returns its NodeID.
func (t *Tree) AddLeaf(symbol Symbol, count uint64) NodeID {
	return t.add(Node{Symbol: symbol, Count: count, Left: NoNode, Right: NoNode})
}

// Merge adds a new internal Node whose children are left and right, and
// returns its NodeID.  Both children must be distinct, existing Nodes that
// do not yet have a parent.
func (t *Tree) Merge(left, right NodeID) NodeID {
	t.assertOrphan(left)
	t.assertOrphan(right)
	assert.Assertf(left != right, "cannot merge node %d with itself", left)

	a, b := t.nodes[left].Count, t.nodes[right].Count
	sum := a + b
	assert.Assertf(sum >= a, "count overflow merging nodes %d (%d) and %d (%d)", left, a, right, b)

	id := t.add(Node{Symbol: InternalSymbol, Count: sum, Left: left, Right: right})
	t.parent[left] = id
	t.parent[right] = id
	return id
}

// Branch performs one merge round over an unordered collection of Nodes.
//
// The two Nodes with the lowest Count are removed from the collection and
// merged under InternalSymbol (the lower of the two becomes the left child),
// and the new Node is appended.  Among Nodes of equal Count, the one that
// appears earlier in the collection is taken first.  Since merged Nodes are
// appended, repeated calls follow the same policy as Build.
//
// The remaining Nodes keep their relative order.  The collection is modified
// in place, and the (possibly reallocated) collection is returned.  If fewer
// than two Nodes are given, Branch does nothing.
//
// Like Merge, Branch panics if the merged Count would overflow a uint64.
// Callers that accept arbitrary counts should check their sum first, as
// Build does.
//
func (t *Tree) Branch(nodes []NodeID) []NodeID {
	if len(nodes) < 2 {
		return nodes
	}

	first := t.lowest(nodes, -1)
	second := t.lowest(nodes, first)
	left, right := nodes[first], nodes[second]

	nodes = slices.Delete(nodes, max(first, second), max(first, second)+1)
	nodes = slices.Delete(nodes, min(first, second), min(first, second)+1)
	return append(nodes, t.Merge(left, right))
}

// SetRoot designates the given parentless Node as the root of this Tree.
func (t *Tree) SetRoot(id NodeID) {
	t.assertOrphan(id)
	t.root = id
}

// Root returns the NodeID of the root, or NoNode if no root was set.
func (t *Tree) Root() NodeID {
	return t.root
}

// Node returns the Node with the given NodeID.
func (t *Tree) Node(id NodeID) Node {
	t.assertValid(id)
	return t.nodes[id]
}

// Parent returns the parent of the given Node, or NoNode.
func (t *Tree) Parent(id NodeID) NodeID {
	t.assertValid(id)
	return t.parent[id]
}

// Len returns the number of Nodes in this Tree.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Count returns the Count of the root, which is the sum of all leaf counts.
func (t *Tree) Count() uint64 {
	if t.root == NoNode {
		return 0
	}
	return t.nodes[t.root].Count
}

// Dump writes a programmer-readable debugging dump of the Tree to the given
// writer, one line per Node in depth-first order, indented by depth.
func (t *Tree) Dump(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	buf.WriteString("Tree{\n")
	for _, entry := range t.Generate() {
		node := t.nodes[entry.Node]
		for depth := 0; depth <= entry.Code.Size(); depth++ {
			buf.WriteByte('\t')
		}
		if node.IsLeaf() {
			fmt.Fprintf(&buf, "%s %q %d\n", entry.Code, node.Symbol, node.Count)
		} else {
			fmt.Fprintf(&buf, "%s * %d\n", entry.Code, node.Count)
		}
	}
	buf.WriteString("}\n")
	return buf.WriteTo(w)
}

func (t *Tree) add(node Node) NodeID {
	id := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, node)
	t.parent = append(t.parent, NoNode)
	return id
}

func (t *Tree) assertValid(id NodeID) {
	assert.Assertf(id >= 0 && int(id) < len(t.nodes), "node %d out of range [0, %d)", id, len(t.nodes))
}

func (t *Tree) assertOrphan(id NodeID) {
	t.assertValid(id)
	assert.Assertf(t.parent[id] == NoNode, "node %d already has parent %d", id, t.parent[id])
}

func (t *Tree) lowest(nodes []NodeID, skip int) int {
	best := -1
	for index, id := range nodes {
		if index == skip {
			continue
		}
		if best < 0 || t.Node(id).Count < t.Node(nodes[best]).Count {
			best = index
		}
	}
	return best
}
