package bitstream

import (
	"encoding/binary"
	"math"

	"golang.org/x/text/encoding"

	"github.com/wippyai/swfkit/errors"
)

// Reader consumes bit-packed and byte-aligned fields from a byte slice.
// Bits are read MSB-first. Byte-aligned reads are little-endian and
// discard any partially consumed byte first.
type Reader struct {
	data    []byte
	dec     *encoding.Decoder
	regions []*Region
	pos     int  // index of the byte holding the next bit
	bit     uint // bits already consumed from data[pos]
}

// NewReader creates a Reader over data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// SetCharset sets the encoding used to decode strings. A nil charset
// passes bytes through as UTF-8.
func (r *Reader) SetCharset(enc encoding.Encoding) {
	if enc == nil {
		r.dec = nil
		return
	}
	r.dec = enc.NewDecoder()
}

// Offset returns the number of bytes consumed. A partially read byte counts
// as consumed.
func (r *Reader) Offset() int {
	if r.bit > 0 {
		return r.pos + 1
	}
	return r.pos
}

// Len returns the total size of the underlying data.
func (r *Reader) Len() int {
	return len(r.data)
}

// Remaining returns the bytes left before the end of the innermost open
// region, or before the end of the data when no region is open.
func (r *Reader) Remaining() int {
	if n := len(r.regions); n > 0 {
		return r.regions[n-1].Remaining()
	}
	return len(r.data) - r.Offset()
}

func (r *Reader) bitsLeft() int {
	return (len(r.data)-r.pos)*8 - int(r.bit)
}

// AlignToByte discards the unread bits of a partially consumed byte.
func (r *Reader) AlignToByte() {
	if r.bit > 0 {
		r.bit = 0
		r.pos++
	}
}

// ReadUBits reads n bits (0 <= n <= 32) as an unsigned value.
func (r *Reader) ReadUBits(n int) (uint32, error) {
	if n == 0 {
		return 0, nil
	}
	if n < 0 || n > 32 {
		return 0, errors.InvalidInput(errors.PhaseDecode, "bit count must be between 0 and 32")
	}
	if left := r.bitsLeft(); left < n {
		return 0, errors.Truncated(r.pos, n, left)
	}
	var v uint32
	for n > 0 {
		avail := 8 - r.bit
		take := uint(n)
		if take > avail {
			take = avail
		}
		cur := uint32(r.data[r.pos]) >> (avail - take) & (1<<take - 1)
		v = v<<take | cur
		r.bit += take
		if r.bit == 8 {
			r.bit = 0
			r.pos++
		}
		n -= int(take)
	}
	return v, nil
}

// ReadBits reads n bits. When signed is set the value is sign extended
// from bit n-1.
func (r *Reader) ReadBits(n int, signed bool) (int32, error) {
	v, err := r.ReadUBits(n)
	if err != nil {
		return 0, err
	}
	if signed && n > 0 && n < 32 && v&(1<<(n-1)) != 0 {
		v |= ^uint32(0) << n
	}
	return int32(v), nil
}

// ReadBool reads a single bit.
func (r *Reader) ReadBool() (bool, error) {
	v, err := r.ReadUBits(1)
	return v == 1, err
}

func (r *Reader) take(n int) ([]byte, error) {
	r.AlignToByte()
	if n < 0 {
		return nil, errors.InvalidData(errors.PhaseDecode, r.pos, "negative length")
	}
	if len(r.data)-r.pos < n {
		return nil, errors.Truncated(r.pos, n*8, (len(r.data)-r.pos)*8)
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// ReadByte reads one byte.
func (r *Reader) ReadByte() (byte, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadUint16 reads a little-endian uint16.
func (r *Reader) ReadUint16() (uint16, error) {
	b, err := r.take(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// ReadInt16 reads a little-endian int16.
func (r *Reader) ReadInt16() (int16, error) {
	v, err := r.ReadUint16()
	return int16(v), err
}

// ReadUint32 reads a little-endian uint32.
func (r *Reader) ReadUint32() (uint32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// ReadInt32 reads a little-endian int32.
func (r *Reader) ReadInt32() (int32, error) {
	v, err := r.ReadUint32()
	return int32(v), err
}

// ReadHalf reads a little-endian IEEE 754 half precision float.
func (r *Reader) ReadHalf() (float32, error) {
	v, err := r.ReadUint16()
	if err != nil {
		return 0, err
	}
	return HalfToFloat(v), nil
}

// ReadFloat32 reads a little-endian IEEE 754 single precision float.
func (r *Reader) ReadFloat32() (float32, error) {
	v, err := r.ReadUint32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// ReadFloat64 reads a little-endian IEEE 754 double precision float.
func (r *Reader) ReadFloat64() (float64, error) {
	b, err := r.take(8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(b)), nil
}

// ReadBytes reads exactly n bytes. The returned slice is a copy.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	b, err := r.take(n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b)
	return out, nil
}

// Skip discards n bytes.
func (r *Reader) Skip(n int) error {
	_, err := r.take(n)
	return err
}

// ScanByte returns the next byte-aligned byte without consuming it.
func (r *Reader) ScanByte() (byte, error) {
	at := r.Offset()
	if at >= len(r.data) {
		return 0, errors.Truncated(at, 8, 0)
	}
	return r.data[at], nil
}

// ReadString reads n bytes and decodes them with the reader's charset.
func (r *Reader) ReadString(n int) (string, error) {
	b, err := r.take(n)
	if err != nil {
		return "", err
	}
	return r.decode(b)
}

// ReadCString reads a NUL terminated string. The terminator is consumed
// but not returned.
func (r *Reader) ReadCString() (string, error) {
	r.AlignToByte()
	for i := r.pos; i < len(r.data); i++ {
		if r.data[i] == 0 {
			b := r.data[r.pos:i]
			r.pos = i + 1
			return r.decode(b)
		}
	}
	return "", errors.New(errors.PhaseDecode, errors.KindTruncated).
		Offset(r.pos).
		Detail("unterminated string").
		Build()
}

func (r *Reader) decode(b []byte) (string, error) {
	if r.dec == nil {
		return string(b), nil
	}
	out, err := r.dec.Bytes(b)
	if err != nil {
		return "", errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Offset(r.pos).
			Cause(err).
			Detail("string charset").
			Build()
	}
	return string(out), nil
}

// Mark opens a length-checked region of declared bytes starting at the
// current offset. Regions must be closed in reverse order of opening.
func (r *Reader) Mark(declared int) *Region {
	rg := &Region{
		owner:    r,
		phase:    errors.PhaseDecode,
		base:     r.Offset(),
		declared: declared,
	}
	r.regions = append(r.regions, rg)
	return rg
}

// Depth returns the number of open regions.
func (r *Reader) Depth() int {
	return len(r.regions)
}

func (r *Reader) stack() *[]*Region {
	return &r.regions
}
