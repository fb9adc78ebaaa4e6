package tokenizer

// trie is a byte-wise prefix tree over the vocabulary.  index is the position
// of the vocabulary entry that ends at this node, or -1.
type trie struct {
	index    int
	children map[byte]*trie
}

func newTrie() *trie {
	return &trie{index: -1, children: map[byte]*trie{}}
}

// insert adds word as vocabulary entry index.  It reports false if word was
// already present, in which case the earlier entry is kept.
func (n *trie) insert(word string, index int) bool {
	for i := 0; i < len(word); i++ {
		child, ok := n.children[word[i]]
		if !ok {
			child = newTrie()
			n.children[word[i]] = child
		}
		n = child
	}
	if n.index >= 0 {
		return false
	}
	n.index = index
	return true
}

// longestMatch returns the vocabulary index and length of the longest entry
// that prefixes text, or (-1, 0).
func (n *trie) longestMatch(text string) (index int, size int) {
	index = -1
	for i := 0; i < len(text); i++ {
		child, ok := n.children[text[i]]
		if !ok {
			break
		}
		n = child
		if n.index >= 0 {
			index, size = n.index, i+1
		}
	}
	return
}
