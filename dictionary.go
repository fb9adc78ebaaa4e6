package huffman

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/bits"
	"sort"
	"strings"
)

// Dictionary maps each leaf Symbol of a Huffman tree to its Code.  A
// Dictionary is immutable and safe for concurrent use.  The zero value is an
// empty Dictionary.
type Dictionary struct {
	codes map[Symbol]Code
}

// Len returns the number of Symbols in this Dictionary.
func (d Dictionary) Len() int {
	return len(d.codes)
}

// Lookup returns the Code assigned to the given Symbol.
func (d Dictionary) Lookup(symbol Symbol) (Code, bool) {
	hc, found := d.codes[symbol]
	return hc, found
}

// Symbols returns the Symbols in this Dictionary, sorted.
func (d Dictionary) Symbols() []Symbol {
	out := make([]Symbol, 0, len(d.codes))
	for symbol := range d.codes {
		out = append(out, symbol)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// MinSize is the bit length of the shortest Code.
func (d Dictionary) MinSize() int {
	minSize, _ := d.sizeRange()
	return minSize
}

// MaxSize is the bit length of the longest Code.
func (d Dictionary) MaxSize() int {
	_, maxSize := d.sizeRange()
	return maxSize
}

// SizeBySymbol returns the bit length of each Symbol's Code.
func (d Dictionary) SizeBySymbol() map[Symbol]int {
	out := make(map[Symbol]int, len(d.codes))
	for symbol, hc := range d.codes {
		out[symbol] = hc.Size()
	}
	return out
}

// Cost returns Σ count × len(Code) over the given counts, i.e. the total
// number of bits needed to encode an input with those counts.  Symbols that
// are not in the Dictionary contribute nothing.  If the total does not fit in
// a uint64, Cost returns an error wrapping ErrCountOverflow.
func (d Dictionary) Cost(counts []SymbolCount) (uint64, error) {
	var cost uint64
	for _, sc := range counts {
		hc, found := d.codes[sc.Symbol]
		if !found {
			continue
		}
		hi, lo := bits.Mul64(sc.Count, uint64(hc.Size()))
		sum, carry := bits.Add64(cost, lo, 0)
		if hi != 0 || carry != 0 {
			return 0, fmt.Errorf("%w: cost of symbol %q (count %d, %d bits)", ErrCountOverflow, sc.Symbol, sc.Count, hc.Size())
		}
		cost = sum
	}
	return cost, nil
}

// IsPrefixFree returns true iff no Code in this Dictionary is a prefix of
// another Code in this Dictionary.
func (d Dictionary) IsPrefixFree() bool {
	// After a lexicographic sort, if any code is a prefix of another, it
	// is also a prefix of the code immediately after it.
	sorted := make(byDigits, 0, len(d.codes))
	for _, hc := range d.codes {
		sorted = append(sorted, hc)
	}
	sorted.Sort()
	for index := 1; index < len(sorted); index++ {
		if sorted[index].HasPrefix(sorted[index-1]) {
			return false
		}
	}
	return true
}

// Dump writes a programmer-readable debugging dump of the Dictionary to the
// given writer.
func (d Dictionary) Dump(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	buf.WriteString("Dictionary{\n")
	fmt.Fprintf(&buf, "\tMinSize() = %d\n", d.MinSize())
	fmt.Fprintf(&buf, "\tMaxSize() = %d\n", d.MaxSize())
	for _, symbol := range d.Symbols() {
		fmt.Fprintf(&buf, "\tLookup(%q) = %s\n", symbol, d.codes[symbol])
	}
	buf.WriteString("}\n")
	return buf.WriteTo(w)
}

// DebugString returns the output of Dump as a string.
func (d Dictionary) DebugString() string {
	var buf strings.Builder
	_, _ = d.Dump(&buf)
	return buf.String()
}

// String returns a brief human-readable description of the Dictionary.
func (d Dictionary) String() string {
	return fmt.Sprintf("(Huffman dictionary with %d symbols, with coded lengths of %d .. %d bits)", len(d.codes), d.MinSize(), d.MaxSize())
}

// MarshalJSON renders the Dictionary as a JSON object mapping each Symbol to
// its Code as a string of digits.
func (d Dictionary) MarshalJSON() ([]byte, error) {
	out := make(map[Symbol]string, len(d.codes))
	for symbol, hc := range d.codes {
		out[symbol] = hc.Digits()
	}
	return json.Marshal(out)
}

func (d Dictionary) sizeRange() (minSize int, maxSize int) {
	first := true
	for _, hc := range d.codes {
		size := hc.Size()
		if first {
			minSize, maxSize = size, size
			first = false
		} else if minSize > size {
			minSize = size
		} else if maxSize < size {
			maxSize = size
		}
	}
	return
}

var (
	_ fmt.Stringer   = Dictionary{}
	_ json.Marshaler = Dictionary{}
)

// type byDigits {{{

type byDigits []Code

func (list byDigits) Sort() {
	sort.Sort(list)
}

func (list byDigits) Len() int {
	return len(list)
}

func (list byDigits) Swap(i, j int) {
	list[i], list[j] = list[j], list[i]
}

func (list byDigits) Less(i, j int) bool {
	a, b := list[i], list[j]
	for index := 0; index < a.Size() && index < b.Size(); index++ {
		if x, y := a.Bit(index), b.Bit(index); x != y {
			return x < y
		}
	}
	return a.Size() < b.Size()
}

var _ sort.Interface = byDigits(nil)

// }}}
