package bitstream

import (
	"encoding/binary"
	"math"
	"math/bits"

	"golang.org/x/text/encoding"

	"github.com/wippyai/swfkit/errors"
)

// Writer accumulates bit-packed and byte-aligned fields. Byte-aligned
// writes flush any partially filled byte, padding it with zero bits.
//
// The first failed write is recorded and returned by Err; later writes are
// ignored.
type Writer struct {
	err     error
	enc     *encoding.Encoder
	buf     []byte
	regions []*Region
	acc     byte
	nbits   uint
}

// NewWriter creates an empty Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// NewWriterSize creates an empty Writer with capacity for n bytes.
func NewWriterSize(n int) *Writer {
	return &Writer{buf: make([]byte, 0, n)}
}

// SetCharset sets the encoding used for strings. A nil charset writes
// strings as UTF-8.
func (w *Writer) SetCharset(enc encoding.Encoding) {
	if enc == nil {
		w.enc = nil
		return
	}
	w.enc = enc.NewEncoder()
}

// Err returns the first error recorded by the writer.
func (w *Writer) Err() error {
	return w.err
}

// Offset returns the number of bytes written. A partially filled byte
// counts as written.
func (w *Writer) Offset() int {
	if w.nbits > 0 {
		return len(w.buf) + 1
	}
	return len(w.buf)
}

// Bytes aligns the writer and returns the written bytes.
func (w *Writer) Bytes() []byte {
	w.AlignToByte()
	return w.buf
}

func (w *Writer) fail(err error) {
	if w.err == nil {
		w.err = err
	}
}

// AlignToByte flushes a partially filled byte.
func (w *Writer) AlignToByte() {
	if w.nbits > 0 {
		w.buf = append(w.buf, w.acc<<(8-w.nbits))
		w.acc = 0
		w.nbits = 0
	}
}

func (w *Writer) put(v uint32, n int) {
	for n > 0 {
		room := 8 - w.nbits
		take := uint(n)
		if take > room {
			take = room
		}
		chunk := byte(v>>(uint(n)-take)) & (1<<take - 1)
		w.acc = w.acc<<take | chunk
		w.nbits += take
		n -= int(take)
		if w.nbits == 8 {
			w.buf = append(w.buf, w.acc)
			w.acc = 0
			w.nbits = 0
		}
	}
}

// WriteUBits writes the low n bits (0 <= n <= 32) of v. It fails when v
// needs more than n bits.
func (w *Writer) WriteUBits(v uint32, n int) {
	if w.err != nil {
		return
	}
	if n < 0 || n > 32 {
		w.fail(errors.InvalidInput(errors.PhaseEncode, "bit count must be between 0 and 32"))
		return
	}
	if bits.Len32(v) > n {
		w.fail(errors.Overflow(errors.PhaseEncode, nil, v, n))
		return
	}
	w.put(v, n)
}

// WriteBits writes v as an n bit two's-complement value. It fails when v
// cannot be represented in n bits.
func (w *Writer) WriteBits(v int32, n int) {
	if w.err != nil {
		return
	}
	if n < 0 || n > 32 {
		w.fail(errors.InvalidInput(errors.PhaseEncode, "bit count must be between 0 and 32"))
		return
	}
	if SignedWidth(v) > n {
		w.fail(errors.Overflow(errors.PhaseEncode, nil, v, n))
		return
	}
	u := uint32(v)
	if n < 32 {
		u &= 1<<uint(n) - 1
	}
	w.put(u, n)
}

// WriteBool writes a single bit.
func (w *Writer) WriteBool(b bool) {
	if b {
		w.WriteUBits(1, 1)
	} else {
		w.WriteUBits(0, 1)
	}
}

func (w *Writer) raw(b ...byte) {
	if w.err != nil {
		return
	}
	w.AlignToByte()
	w.buf = append(w.buf, b...)
}

// WriteByte writes one byte. It always returns nil; failures are reported
// by Err.
func (w *Writer) WriteByte(b byte) error {
	w.raw(b)
	return nil
}

// WriteUint16 writes a little-endian uint16.
func (w *Writer) WriteUint16(v uint16) {
	w.raw(byte(v), byte(v>>8))
}

// WriteInt16 writes a little-endian int16.
func (w *Writer) WriteInt16(v int16) {
	w.WriteUint16(uint16(v))
}

// WriteUint32 writes a little-endian uint32.
func (w *Writer) WriteUint32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.raw(b[:]...)
}

// WriteInt32 writes a little-endian int32.
func (w *Writer) WriteInt32(v int32) {
	w.WriteUint32(uint32(v))
}

// WriteHalf writes f as a little-endian IEEE 754 half precision float.
func (w *Writer) WriteHalf(f float32) {
	w.WriteUint16(FloatToHalf(f))
}

// WriteFloat32 writes a little-endian IEEE 754 single precision float.
func (w *Writer) WriteFloat32(f float32) {
	w.WriteUint32(math.Float32bits(f))
}

// WriteFloat64 writes a little-endian IEEE 754 double precision float.
func (w *Writer) WriteFloat64(f float64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], math.Float64bits(f))
	w.raw(b[:]...)
}

// WriteBytes writes data verbatim.
func (w *Writer) WriteBytes(data []byte) {
	w.raw(data...)
}

// EncodeString returns s encoded with the writer's charset.
func (w *Writer) EncodeString(s string) ([]byte, error) {
	if w.enc == nil {
		return []byte(s), nil
	}
	return encodeWith(w.enc, s)
}

// EncodeString returns s encoded with enc. A nil enc returns the UTF-8
// bytes of s.
func EncodeString(enc encoding.Encoding, s string) ([]byte, error) {
	if enc == nil {
		return []byte(s), nil
	}
	return encodeWith(enc.NewEncoder(), s)
}

func encodeWith(e *encoding.Encoder, s string) ([]byte, error) {
	b, err := e.Bytes([]byte(s))
	if err != nil {
		return nil, errors.New(errors.PhaseEncode, errors.KindInvalidData).
			Cause(err).
			Detail("string charset").
			Build()
	}
	return b, nil
}

// WriteString writes s in the writer's charset without a terminator.
func (w *Writer) WriteString(s string) {
	b, err := w.EncodeString(s)
	if err != nil {
		w.fail(err)
		return
	}
	w.raw(b...)
}

// WriteCString writes s followed by a NUL terminator.
func (w *Writer) WriteCString(s string) {
	w.WriteString(s)
	w.raw(0)
}

// Mark opens a length-checked region of declared bytes starting at the
// current offset.
func (w *Writer) Mark(declared int) *Region {
	rg := &Region{
		owner:    w,
		phase:    errors.PhaseEncode,
		base:     w.Offset(),
		declared: declared,
	}
	w.regions = append(w.regions, rg)
	return rg
}

func (w *Writer) stack() *[]*Region {
	return &w.regions
}
