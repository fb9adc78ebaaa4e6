package huffman

import (
	mathbits "math/bits"
)

func log2int(x int) int {
	if x <= 0 {
		x = 1
	}
	return mathbits.Len(uint(x))
}
