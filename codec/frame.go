package codec

import (
	"strconv"

	"go.uber.org/zap"

	"github.com/wippyai/swfkit/bitstream"
	"github.com/wippyai/swfkit/errors"
)

// Record header layout.
const (
	// MaxCode is the largest type code that fits the 10-bit code field.
	MaxCode = 0x3FF

	// lengthEscape in the 6-bit length field announces a 32-bit length.
	lengthEscape = 0x3F

	// ShortLengthMax is the largest body length written in the short form.
	ShortLengthMax = lengthEscape - 1

	shortHeaderLen = 2
	longHeaderLen  = 6
)

// Header is a decoded record header.
type Header struct {
	Code   uint16
	Length int
	Long   bool // extended form with a 32-bit length
}

// Len returns the encoded size of the header.
func (h Header) Len() int {
	if h.Long || h.Length > ShortLengthMax {
		return longHeaderLen
	}
	return shortHeaderLen
}

// ReadHeader reads a short or extended record header.
func ReadHeader(r *bitstream.Reader) (Header, error) {
	word, err := r.ReadUint16()
	if err != nil {
		return Header{}, err
	}
	h := Header{
		Code:   word >> 6,
		Length: int(word & lengthEscape),
	}
	if h.Length == lengthEscape {
		n, err := r.ReadUint32()
		if err != nil {
			return Header{}, err
		}
		if n > 1<<31-1 {
			return Header{}, errors.InvalidData(errors.PhaseDecode, r.Offset()-4, "record length exceeds 2GiB")
		}
		h.Length = int(n)
		h.Long = true
	}
	return h, nil
}

// WriteHeader writes h, choosing the extended form when requested or when
// the length does not fit the short form.
func WriteHeader(w *bitstream.Writer, h Header) error {
	if h.Code > MaxCode {
		return errors.Overflow(errors.PhaseEncode, []string{"code"}, h.Code, 10)
	}
	if h.Length < 0 || int64(h.Length) > 1<<31-1 {
		return errors.Overflow(errors.PhaseEncode, []string{"length"}, h.Length, 31)
	}
	if h.Len() == shortHeaderLen {
		w.WriteUint16(h.Code<<6 | uint16(h.Length))
		return w.Err()
	}
	w.WriteUint16(h.Code<<6 | lengthEscape)
	w.WriteUint32(uint32(h.Length))
	return w.Err()
}

// HeaderForm is implemented by tags that control or remember the header
// form they are framed with.
type HeaderForm interface {
	LongHeader() bool
	SetLongHeader(long bool)
}

// Framing is embedded by tags to remember the header form they were decoded
// with, so re-encoding reproduces the original bytes. Tags that the format
// requires to use the extended form set Long in their constructor.
type Framing struct {
	Long bool
}

// LongHeader reports whether the extended header form is used.
func (f *Framing) LongHeader() bool { return f.Long }

// SetLongHeader records the header form.
func (f *Framing) SetLongHeader(long bool) { f.Long = long }

// EncodeTag prepares t exactly once, writes its header and then its body
// inside a length-checked region. The body sees KeyParent set to the tag
// code, as it does when decoded.
func EncodeTag(w *bitstream.Writer, ctx Context, t Tag) error {
	ctx = ctx.With(KeyParent, int(t.Code()))
	l, err := t.Prepare(ctx)
	if err != nil {
		return errors.Within(err, tagName(t))
	}
	h := Header{Code: t.Code(), Length: l.Len()}
	if hf, ok := t.(HeaderForm); ok {
		h.Long = hf.LongHeader()
	}
	if err := WriteHeader(w, h); err != nil {
		return errors.Within(err, tagName(t))
	}
	if err := EncodeRecord(w, ctx, t, l); err != nil {
		return errors.Within(err, tagName(t))
	}
	return nil
}

// DecodeTag reads a header and decodes the body through the registry. An
// unregistered code resolves through the registry fallback.
//
// A body that is not consumed exactly is a framing fault. When ctx has
// KeyLenient set, trailing unread bytes are skipped instead; over-reads are
// always fatal.
func DecodeTag(r *bitstream.Reader, ctx Context, reg *Registry[Tag]) (Tag, error) {
	start := r.Offset()
	h, err := ReadHeader(r)
	if err != nil {
		return nil, err
	}
	if h.Length > r.Remaining() {
		return nil, errors.Truncated(r.Offset(), h.Length*8, r.Remaining()*8)
	}

	t, err := reg.Resolve(h.Code, h.Length)
	if err != nil {
		return nil, err
	}
	if hf, ok := t.(HeaderForm); ok {
		hf.SetLongHeader(h.Long)
	}

	name := reg.Name(h.Code)
	rg := r.Mark(h.Length)
	if err := t.Decode(r, ctx.With(KeyParent, int(h.Code))); err != nil {
		_ = rg.Close()
		return nil, errors.Within(err, name)
	}
	r.AlignToByte()

	if rem := rg.Remaining(); rem > 0 && ctx.Flag(KeyLenient) {
		Logger().Warn("skipping unread record bytes",
			zap.Uint16("code", h.Code),
			zap.String("name", name),
			zap.Int("offset", start),
			zap.Int("unread", rem))
		if err := rg.Drain(); err != nil {
			_ = rg.Close()
			return nil, errors.Within(err, name)
		}
	}
	if err := rg.Close(); err != nil {
		return nil, errors.Within(err, name)
	}
	if _, ok := t.(*UnknownTag); ok {
		debugf(ctx, "tag %d not registered, kept %d opaque bytes", h.Code, h.Length)
	}
	debugf(ctx, "decoded %s (code %d, %d bytes) at %d", name, h.Code, h.Length, start)
	return t, nil
}

func tagName(t Tag) string {
	if n, ok := t.(interface{ Name() string }); ok {
		return n.Name()
	}
	return "tag " + strconv.Itoa(int(t.Code()))
}
