package huffman

import (
	"fmt"
	"strings"

	"github.com/icza/bitio"
)

// Encoder substitutes each Symbol of an input with its Code from a
// Dictionary.
type Encoder struct {
	dict Dictionary
}

// NewEncoder is a convenience function that constructs an Encoder.
func NewEncoder(dict Dictionary) Encoder {
	var e Encoder
	e.Init(dict)
	return e
}

// Init initializes this Encoder with the Dictionary to encode with.
func (e *Encoder) Init(dict Dictionary) {
	*e = Encoder{dict: dict}
}

// Dictionary returns the Dictionary this Encoder was initialized with.
func (e Encoder) Dictionary() Dictionary {
	return e.dict
}

// EncodeSymbol returns the Code for a single Symbol.
func (e Encoder) EncodeSymbol(symbol Symbol) (Code, error) {
	hc, found := e.dict.Lookup(symbol)
	if !found {
		return Code{}, fmt.Errorf("%w: %q", ErrUncodedSymbol, symbol)
	}
	return hc, nil
}

// Encode concatenates the Codes of all the given Symbols into a string of '0'
// and '1' digits.  If any Symbol is not in the Dictionary, Encode returns an
// empty string and an error wrapping ErrUncodedSymbol.
func (e Encoder) Encode(symbols []Symbol) (string, error) {
	codes, size, err := e.lookupAll(symbols)
	if err != nil {
		return "", err
	}

	var buf strings.Builder
	buf.Grow(size)
	for _, hc := range codes {
		hc.appendDigits(&buf)
	}
	return buf.String(), nil
}

// EncodeTo writes the Codes of all the given Symbols to w, one bit at a time,
// and returns the number of bits written.  The caller owns w and is
// responsible for calling its Close method to flush any partial byte.
//
// Every Symbol is looked up before anything is written, so if any Symbol is
// not in the Dictionary, nothing is written to w.
//
func (e Encoder) EncodeTo(w *bitio.Writer, symbols []Symbol) (int64, error) {
	codes, _, err := e.lookupAll(symbols)
	if err != nil {
		return 0, err
	}

	var n int64
	for _, hc := range codes {
		for index := 0; index < hc.Size(); index++ {
			if err := w.WriteBool(hc.Bit(index) == 1); err != nil {
				return n, err
			}
			n++
		}
	}
	return n, nil
}

func (e Encoder) lookupAll(symbols []Symbol) ([]Code, int, error) {
	codes := make([]Code, len(symbols))
	var size int
	for index, symbol := range symbols {
		hc, err := e.EncodeSymbol(symbol)
		if err != nil {
			return nil, 0, fmt.Errorf("token %d: %w", index, err)
		}
		codes[index] = hc
		size += hc.Size()
	}
	return codes, size, nil
}
