package huffman

import (
	"errors"
)

// ErrEmptyAlphabet is returned by Build when no non-empty Symbol was given.
// There is no Huffman tree for an alphabet of zero symbols.
var ErrEmptyAlphabet = errors.New("cannot build Huffman tree: empty alphabet")

// ErrCountOverflow is returned by Build when the sum of all counts does not
// fit in a uint64, and by Dictionary.Cost when the weighted sum does not.
var ErrCountOverflow = errors.New("count overflows uint64")

// ErrUncodedSymbol is returned by Encoder when asked to encode a Symbol that
// has no entry in its Dictionary.
var ErrUncodedSymbol = errors.New("symbol not coded")
