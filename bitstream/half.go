package bitstream

import "github.com/x448/float16"

// HalfToFloat converts IEEE 754 binary16 bits to a float32.
func HalfToFloat(h uint16) float32 {
	return float16.Frombits(h).Float32()
}

// FloatToHalf converts a float32 to IEEE 754 binary16 bits, rounding to
// nearest even. Values beyond the half range become infinities.
func FloatToHalf(f float32) uint16 {
	return float16.Fromfloat32(f).Bits()
}
