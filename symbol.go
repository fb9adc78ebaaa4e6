package huffman

// Symbol represents a symbol in an arbitrary alphabet of tokens.  Symbols are
// compared by equality only.  The empty Symbol is never part of a code.
type Symbol string

// InternalSymbol is the placeholder Symbol carried by internal (merge) nodes.
// Leaves may also use it: nodes are told apart by their children, not their
// Symbol, so a leaf named InternalSymbol is still assigned a Code.
const InternalSymbol = Symbol("*")

// SymbolCount pairs a Symbol with the number of times it was observed.
type SymbolCount struct {
	Symbol Symbol
	Count  uint64
}

// MakeSymbolCounts is a convenience function that constructs a list of
// SymbolCount from parallel lists of symbols and counts.  Symbols beyond the
// end of counts are assigned a count of 0.
func MakeSymbolCounts(symbols []Symbol, counts []uint64) []SymbolCount {
	out := make([]SymbolCount, len(symbols))
	for index, symbol := range symbols {
		out[index].Symbol = symbol
		if index < len(counts) {
			out[index].Count = counts[index]
		}
	}
	return out
}
