package huffman

import (
	"fmt"
	"strconv"
	"strings"
)

// Code represents a sequence of bits: the path from the root of a Tree to one
// of its nodes.  Bit 0 means "descend left" and bit 1 means "descend right".
// The first bit is the branch taken at the root.
//
// The zero value is the empty Code, which is the Code of the root.
type Code struct {
	bits []byte
}

// MakeCode is a convenience function that constructs a Code from a list of
// bits, each of which must be 0 or 1.
func MakeCode(bits ...byte) Code {
	if len(bits) == 0 {
		return Code{}
	}
	out := make([]byte, len(bits))
	for index, bit := range bits {
		out[index] = bit & 1
	}
	return Code{bits: out}
}

// ParseCode parses a string of '0' and '1' digits into a Code.
func ParseCode(str string) (Code, error) {
	bits := make([]byte, len(str))
	for index := 0; index < len(str); index++ {
		switch str[index] {
		case '0':
			bits[index] = 0
		case '1':
			bits[index] = 1
		default:
			return Code{}, fmt.Errorf("invalid digit %q at index %d in code %q", str[index], index, str)
		}
	}
	if len(bits) == 0 {
		return Code{}, nil
	}
	return Code{bits: bits}, nil
}

// Size returns the number of bits in this Code.
func (hc Code) Size() int {
	return len(hc.bits)
}

// Bit returns the bit at the given position, counting from the root.
func (hc Code) Bit(index int) byte {
	return hc.bits[index]
}

// Append returns a new Code consisting of this Code followed by one more bit.
// The receiver is not modified and never shares storage with the result.
func (hc Code) Append(bit byte) Code {
	out := make([]byte, len(hc.bits)+1)
	copy(out, hc.bits)
	out[len(hc.bits)] = bit & 1
	return Code{bits: out}
}

// HasPrefix returns true iff prefix is a (not necessarily proper) prefix of
// this Code.
func (hc Code) HasPrefix(prefix Code) bool {
	if len(prefix.bits) > len(hc.bits) {
		return false
	}
	for index, bit := range prefix.bits {
		if hc.bits[index] != bit {
			return false
		}
	}
	return true
}

// Equal returns true iff both Codes hold the same bits.
func (hc Code) Equal(other Code) bool {
	return len(hc.bits) == len(other.bits) && hc.HasPrefix(other)
}

// Digits returns the bits of this Code as a string of '0' and '1' digits.
func (hc Code) Digits() string {
	var buf strings.Builder
	hc.appendDigits(&buf)
	return buf.String()
}

// String returns the string representation of this Code.
func (hc Code) String() string {
	if len(hc.bits) == 0 {
		return "\"\""
	}
	return strconv.Quote(hc.Digits())
}

func (hc Code) appendDigits(buf *strings.Builder) {
	buf.Grow(len(hc.bits))
	for _, bit := range hc.bits {
		buf.WriteByte('0' + bit)
	}
}

var _ fmt.Stringer = Code{}
