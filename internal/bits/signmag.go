// Package bits holds small bit-manipulation helpers shared by the header
// and payload decoders.
package bits

// SignMagnitude interprets the low n bits of x as a sign-magnitude integer:
// the most significant of the n bits is the sign (1 = negative), the
// remaining n-1 bits are the magnitude.
//
// Examples of unsigned (n-bit width) x values on the left and decoded
// values on the right, for n=10:
//
//	0b0000000000 ->  0
//	0b0000000001 ->  1
//	0b0111111111 ->  511
//	0b1000000000 -> -0
//	0b1000000001 -> -1
//	0b1111111111 -> -511
func SignMagnitude(x uint64, n uint) int64 {
	signBitMask := uint64(1) << (n - 1)
	magnitude := int64(x &^ signBitMask)
	if x&signBitMask != 0 {
		return -magnitude
	}
	return magnitude
}
