// Package bitstream implements the bit-level reader and writer used by every
// record codec.
//
// Packed fields are read and written MSB-first at arbitrary widths up to 32
// bits. Byte-aligned primitives (8/16/32-bit integers, half/single/double
// floats, strings) are little-endian and implicitly align the cursor to the
// next byte boundary first.
//
// Length-checked regions assert that a record body consumed exactly its
// declared size:
//
//	rg := r.Mark(length)
//	if err := body.Decode(r, ctx); err != nil {
//	    rg.Close()
//	    return err
//	}
//	return rg.Close()
//
// or, equivalently:
//
//	err := bitstream.Within(r, length, func() error { return body.Decode(r, ctx) })
//
// Reading past the end of the data is always a fault; there are no partial
// reads. Writers record the first failure and report it through Err.
package bitstream
