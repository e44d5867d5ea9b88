package codec

import (
	"github.com/wippyai/swfkit/bitstream"
	"github.com/wippyai/swfkit/errors"
)

// Layout is the result of sizing a record for a given context. Encode
// replays the decisions it captures (widths, presence flags, child layouts,
// offset tables) instead of recomputing them.
type Layout interface {
	// Len returns the encoded size in bytes.
	Len() int
}

// Size is the Layout of records whose encoded size is the only decision
// Prepare makes.
type Size int

// Len implements Layout.
func (s Size) Len() int { return int(s) }

// Decoder populates a record from the stream.
type Decoder interface {
	Decode(r *bitstream.Reader, ctx Context) error
}

// Encoder is the two-pass encoding contract. Prepare is called exactly once
// per encode and its Layout is passed unchanged to Encode, which must write
// exactly Layout.Len() bytes.
type Encoder interface {
	Prepare(ctx Context) (Layout, error)
	Encode(w *bitstream.Writer, ctx Context, l Layout) error
}

// Record is implemented by every encodable structure.
type Record interface {
	Decoder
	Encoder
}

// Coded is a record identified on the wire by a numeric discriminant.
type Coded interface {
	Record
	Code() uint16
}

// Tag is a top-level framed record.
type Tag interface {
	Coded
}

// LayoutAs asserts that l has type T. It reports a mismatch as an encode
// fault rather than panicking.
func LayoutAs[T Layout](l Layout, record string) (T, error) {
	t, ok := l.(T)
	if !ok {
		var zero T
		return zero, errors.New(errors.PhaseEncode, errors.KindInvalidInput).
			Record(record).
			Detail("layout %T was not produced by Prepare", l).
			Build()
	}
	return t, nil
}

// EncodeRecord writes rec inside a region sized by l, so any disagreement
// between Prepare and Encode is reported.
func EncodeRecord(w *bitstream.Writer, ctx Context, rec Encoder, l Layout) error {
	return bitstream.Within(w, l.Len(), func() error {
		if err := rec.Encode(w, ctx, l); err != nil {
			return err
		}
		w.AlignToByte()
		return w.Err()
	})
}

// DecodeRecord decodes rec inside a region of length bytes.
func DecodeRecord(r *bitstream.Reader, ctx Context, rec Decoder, length int) error {
	return bitstream.Within(r, length, func() error {
		if err := rec.Decode(r, ctx); err != nil {
			return err
		}
		r.AlignToByte()
		return nil
	})
}

// Marshal prepares and encodes rec into a fresh buffer.
func Marshal(ctx Context, rec Encoder) ([]byte, error) {
	l, err := rec.Prepare(ctx)
	if err != nil {
		return nil, err
	}
	w := bitstream.NewWriterSize(l.Len())
	if err := EncodeRecord(w, ctx, rec, l); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// Unmarshal decodes rec from data, which must be consumed exactly.
func Unmarshal(data []byte, ctx Context, rec Decoder) error {
	return DecodeRecord(bitstream.NewReader(data), ctx, rec, len(data))
}
