// Package huffman builds Huffman codes for alphabets of string tokens.
//
// Build turns a list of symbol counts into a Tree by repeatedly merging the
// two lowest-count nodes.  Tree.Generate walks the tree and assigns each node
// its path from the root as a Code, and Tree.ToDictionary keeps the leaves.
// An Encoder then substitutes each input token with its Code.
//
// Any optimal code may be produced when counts tie; the code is not
// canonical.  Decoding is not provided.
//
// References:
//
//     <https://en.wikipedia.org/wiki/Huffman_coding>
//
package huffman
