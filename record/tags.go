package record

import (
	"github.com/wippyai/swfkit/bitstream"
	"github.com/wippyai/swfkit/codec"
	"github.com/wippyai/swfkit/errors"
)

// Tag codes.
const (
	CodeEnd                uint16 = 0
	CodeShowFrame          uint16 = 1
	CodeSetBackgroundColor uint16 = 9
	CodeDefineFont         uint16 = 10
	CodeDoAction           uint16 = 12
	CodeDefineButton2      uint16 = 34
	CodeFrameLabel         uint16 = 43
	CodeDefineFont2        uint16 = 48
)

// Tags is the default tag registry. Unregistered codes decode as
// codec.UnknownTag.
var Tags = codec.NewRegistry[codec.Tag]("tag")

func init() {
	Tags.MustRegister(CodeEnd, "End", func() codec.Tag { return &End{} })
	Tags.MustRegister(CodeShowFrame, "ShowFrame", func() codec.Tag { return &ShowFrame{} })
	Tags.MustRegister(CodeSetBackgroundColor, "SetBackgroundColor", func() codec.Tag { return &SetBackgroundColor{} })
	Tags.MustRegister(CodeDefineFont, "DefineFont", func() codec.Tag { return &DefineFont{} })
	Tags.MustRegister(CodeDoAction, "DoAction", func() codec.Tag { return &DoAction{} })
	Tags.MustRegister(CodeDefineButton2, "DefineButton2", func() codec.Tag { return &DefineButton2{} })
	Tags.MustRegister(CodeFrameLabel, "FrameLabel", func() codec.Tag { return &FrameLabel{} })
	Tags.MustRegister(CodeDefineFont2, "DefineFont2", func() codec.Tag { return &DefineFont2{} })
	Tags.SetFallback(codec.NewUnknownTag)
}

// NewCodec returns a codec using the default tag registry.
func NewCodec(cfg codec.Config) (*codec.Codec, error) {
	return codec.New(Tags, cfg)
}

func checkID(path string, id int) error {
	if id < 1 || id > 0xFFFF {
		return errors.OutOfRange([]string{path, "id"}, id, 1, 0xFFFF)
	}
	return nil
}

// End terminates a tag sequence.
type End struct {
	codec.Framing
}

// Code implements codec.Coded.
func (*End) Code() uint16 { return CodeEnd }

// Decode implements codec.Decoder.
func (*End) Decode(*bitstream.Reader, codec.Context) error { return nil }

// Prepare implements codec.Encoder.
func (*End) Prepare(codec.Context) (codec.Layout, error) { return codec.Size(0), nil }

// Encode implements codec.Encoder.
func (*End) Encode(*bitstream.Writer, codec.Context, codec.Layout) error { return nil }

// ShowFrame displays the current frame.
type ShowFrame struct {
	codec.Framing
}

// Code implements codec.Coded.
func (*ShowFrame) Code() uint16 { return CodeShowFrame }

// Decode implements codec.Decoder.
func (*ShowFrame) Decode(*bitstream.Reader, codec.Context) error { return nil }

// Prepare implements codec.Encoder.
func (*ShowFrame) Prepare(codec.Context) (codec.Layout, error) { return codec.Size(0), nil }

// Encode implements codec.Encoder.
func (*ShowFrame) Encode(*bitstream.Writer, codec.Context, codec.Layout) error { return nil }

// SetBackgroundColor sets the stage color. The color never has alpha.
type SetBackgroundColor struct {
	codec.Framing
	Color Color
}

// Code implements codec.Coded.
func (*SetBackgroundColor) Code() uint16 { return CodeSetBackgroundColor }

// Decode implements codec.Decoder.
func (t *SetBackgroundColor) Decode(r *bitstream.Reader, ctx codec.Context) error {
	return t.Color.Decode(r, ctx.Without(codec.KeyTransparent))
}

// Prepare implements codec.Encoder.
func (t *SetBackgroundColor) Prepare(ctx codec.Context) (codec.Layout, error) {
	return t.Color.Prepare(ctx.Without(codec.KeyTransparent))
}

// Encode implements codec.Encoder.
func (t *SetBackgroundColor) Encode(w *bitstream.Writer, ctx codec.Context, l codec.Layout) error {
	return t.Color.Encode(w, ctx.Without(codec.KeyTransparent), l)
}

// DoAction runs actions when the frame is shown.
type DoAction struct {
	codec.Framing
	Actions ActionList
}

// Code implements codec.Coded.
func (*DoAction) Code() uint16 { return CodeDoAction }

// Decode implements codec.Decoder.
func (t *DoAction) Decode(r *bitstream.Reader, ctx codec.Context) error {
	return t.Actions.Decode(r, ctx)
}

// Prepare implements codec.Encoder.
func (t *DoAction) Prepare(ctx codec.Context) (codec.Layout, error) {
	return t.Actions.Prepare(ctx)
}

// Encode implements codec.Encoder.
func (t *DoAction) Encode(w *bitstream.Writer, ctx codec.Context, l codec.Layout) error {
	return t.Actions.Encode(w, ctx, l)
}

// FrameLabel names the current frame. Anchor labels, available from
// version 6, are followed by a flag byte.
type FrameLabel struct {
	codec.Framing
	Name   string
	Anchor bool
}

// NewFrameLabel returns a label. The name must be non-empty and free of NUL.
func NewFrameLabel(name string, anchor bool) (*FrameLabel, error) {
	if err := checkString("name", name); err != nil {
		return nil, errors.Within(err, "FrameLabel")
	}
	return &FrameLabel{Name: name, Anchor: anchor}, nil
}

// Code implements codec.Coded.
func (*FrameLabel) Code() uint16 { return CodeFrameLabel }

// Decode implements codec.Decoder.
func (t *FrameLabel) Decode(r *bitstream.Reader, ctx codec.Context) error {
	name, err := r.ReadCString()
	if err != nil {
		return err
	}
	t.Name = name
	if r.Remaining() == 0 {
		return nil
	}
	off := r.Offset()
	if ctx.Version() < codec.UnicodeVersion {
		return errors.New(errors.PhaseDecode, errors.KindUnsupported).
			Offset(off).
			Detail("anchor labels before version 6").
			Build()
	}
	flag, err := r.ReadByte()
	if err != nil {
		return err
	}
	if flag != 1 {
		return errors.InvalidData(errors.PhaseDecode, off, "frame label anchor flag must be 1")
	}
	t.Anchor = true
	return nil
}

type labelLayout struct {
	name   cstrings
	anchor bool
}

func (l *labelLayout) Len() int {
	if l.anchor {
		return l.name.Len() + 1
	}
	return l.name.Len()
}

// Prepare implements codec.Encoder.
func (t *FrameLabel) Prepare(ctx codec.Context) (codec.Layout, error) {
	if t.Anchor && ctx.Version() < codec.UnicodeVersion {
		return nil, errors.Unsupported(errors.PhaseEncode, "anchor labels before version 6")
	}
	name, err := prepareStrings(ctx, "FrameLabel", t.Name)
	if err != nil {
		return nil, err
	}
	return &labelLayout{name: name, anchor: t.Anchor}, nil
}

// Encode implements codec.Encoder.
func (t *FrameLabel) Encode(w *bitstream.Writer, _ codec.Context, l codec.Layout) error {
	ll, err := codec.LayoutAs[*labelLayout](l, "FrameLabel")
	if err != nil {
		return err
	}
	ll.name.write(w)
	if ll.anchor {
		w.WriteByte(1)
	}
	return w.Err()
}
