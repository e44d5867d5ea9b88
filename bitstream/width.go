package bitstream

import "math/bits"

// SignedWidth returns the fewest bits that hold every value in two's
// complement. Zero needs no bits.
func SignedWidth(vals ...int32) int {
	width := 0
	for _, v := range vals {
		var n int
		switch {
		case v > 0:
			n = bits.Len32(uint32(v)) + 1
		case v < 0:
			n = bits.Len32(uint32(^v)) + 1
		}
		if n > width {
			width = n
		}
	}
	return width
}

// UnsignedWidth returns the fewest bits that hold every value.
func UnsignedWidth(vals ...uint32) int {
	width := 0
	for _, v := range vals {
		if n := bits.Len32(v); n > width {
			width = n
		}
	}
	return width
}

// BytesForBits returns the number of whole bytes needed for n bits.
func BytesForBits(n int) int {
	return (n + 7) >> 3
}
