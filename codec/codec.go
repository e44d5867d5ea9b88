package codec

import (
	"golang.org/x/text/encoding"

	"go.uber.org/zap"

	"github.com/wippyai/swfkit/bitstream"
	"github.com/wippyai/swfkit/errors"
)

// EndCode is the type code of the record that terminates a tag sequence.
const EndCode = 0

// Codec decodes and encodes framed records with one configuration and tag
// registry. A Codec holds no per-call state and may be shared; every call
// uses its own reader, writer and root Context.
type Codec struct {
	tags    *Registry[Tag]
	charset encoding.Encoding
	cfg     Config
}

// New creates a Codec. The configuration is validated.
func New(tags *Registry[Tag], cfg Config) (*Codec, error) {
	if tags == nil {
		return nil, errors.InvalidInput(errors.PhaseConfig, "nil tag registry")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	charset, err := cfg.Encoding()
	if err != nil {
		return nil, err
	}
	return &Codec{tags: tags, charset: charset, cfg: cfg}, nil
}

// Config returns the codec configuration.
func (c *Codec) Config() Config {
	return c.cfg
}

// Tags returns the tag registry.
func (c *Codec) Tags() *Registry[Tag] {
	return c.tags
}

// Context returns a fresh root context for one top-level call.
func (c *Codec) Context() Context {
	ctx := NewContext(c.cfg.Version).WithCharset(c.charset)
	if !c.cfg.StrictLengths {
		ctx = ctx.With(KeyLenient, 1)
	}
	if c.cfg.Debug {
		ctx = ctx.With(KeyDebug, 1)
	}
	return ctx
}

// NewReader returns a reader over data using the configured charset.
func (c *Codec) NewReader(data []byte) *bitstream.Reader {
	r := bitstream.NewReader(data)
	r.SetCharset(c.charset)
	return r
}

// NewWriter returns an empty writer using the configured charset.
func (c *Codec) NewWriter() *bitstream.Writer {
	w := bitstream.NewWriter()
	w.SetCharset(c.charset)
	return w
}

// DecodeTag decodes the first framed record in data and returns it with
// the number of bytes consumed.
func (c *Codec) DecodeTag(data []byte) (Tag, int, error) {
	r := c.NewReader(data)
	t, err := DecodeTag(r, c.Context(), c.tags)
	if err != nil {
		return nil, 0, err
	}
	return t, r.Offset(), nil
}

// EncodeTag encodes one framed record.
func (c *Codec) EncodeTag(t Tag) ([]byte, error) {
	w := c.NewWriter()
	if err := EncodeTag(w, c.Context(), t); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// DecodeTags decodes framed records until the end record, which is
// included in the result, or until data is exhausted.
func (c *Codec) DecodeTags(data []byte) ([]Tag, error) {
	r := c.NewReader(data)
	ctx := c.Context()
	var tags []Tag
	for r.Remaining() > 0 {
		t, err := DecodeTag(r, ctx, c.tags)
		if err != nil {
			return nil, err
		}
		tags = append(tags, t)
		if t.Code() == EndCode {
			break
		}
	}
	Logger().Debug("decoded tag sequence",
		zap.Int("tags", len(tags)),
		zap.Int("bytes", r.Offset()))
	return tags, nil
}

// EncodeTags encodes records in order. No end record is appended.
func (c *Codec) EncodeTags(tags []Tag) ([]byte, error) {
	w := c.NewWriter()
	ctx := c.Context()
	for i, t := range tags {
		if t == nil {
			return nil, errors.New(errors.PhaseEncode, errors.KindInvalidInput).
				Value(i).
				Detail("nil tag at index %d", i).
				Build()
		}
		if err := EncodeTag(w, ctx, t); err != nil {
			return nil, err
		}
	}
	Logger().Debug("encoded tag sequence",
		zap.Int("tags", len(tags)),
		zap.Int("bytes", w.Offset()))
	return w.Bytes(), nil
}
