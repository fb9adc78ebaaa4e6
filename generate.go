package huffman

// Entry pairs a Node with its Code, i.e. its path from the root.
type Entry struct {
	Node NodeID
	Code Code
}

// Generate walks the tree depth-first from the root and returns every Node,
// internal and leaf alike, together with its Code.  The root comes first with
// the empty Code, and each left subtree is listed before its sibling.
//
// Generate returns nil if the Tree has no root.
//
func (t *Tree) Generate() []Entry {
	if t.root == NoNode {
		return nil
	}

	// The stack holds at most one pending right sibling per level, plus
	// the node being visited.
	stack := make([]Entry, 0, log2int(len(t.nodes))+1)
	result := make([]Entry, 0, len(t.nodes))

	stack = append(stack, Entry{Node: t.root})
	for len(stack) != 0 {
		last := len(stack) - 1
		top := stack[last]
		stack[last] = Entry{}
		stack = stack[:last]

		result = append(result, top)

		node := t.nodes[top.Node]
		if node.Right != NoNode {
			stack = append(stack, Entry{Node: node.Right, Code: top.Code.Append(1)})
		}
		if node.Left != NoNode {
			stack = append(stack, Entry{Node: node.Left, Code: top.Code.Append(0)})
		}
	}
	return result
}

// ToDictionary derives a Dictionary from the output of Generate.  Only leaves
// with a non-empty Symbol are kept; internal nodes never appear, even though
// a leaf whose Symbol happens to equal InternalSymbol does.
func (t *Tree) ToDictionary(entries []Entry) Dictionary {
	codes := make(map[Symbol]Code, (len(entries)+1)/2)
	for _, entry := range entries {
		node := t.Node(entry.Node)
		if !node.IsLeaf() || node.Symbol == "" {
			continue
		}
		codes[node.Symbol] = entry.Code
	}
	return Dictionary{codes: codes}
}

// Dictionary is shorthand for t.ToDictionary(t.Generate()).
func (t *Tree) Dictionary() Dictionary {
	return t.ToDictionary(t.Generate())
}
