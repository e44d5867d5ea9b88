package record

import (
	"github.com/wippyai/swfkit/bitstream"
	"github.com/wippyai/swfkit/codec"
	"github.com/wippyai/swfkit/errors"
)

// Color is an RGB color with an alpha channel. The alpha byte is present
// on the wire only when the context has codec.KeyTransparent set; otherwise
// it decodes as 255 and is not written.
type Color struct {
	R, G, B, A uint8
}

// RGB returns an opaque color.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 0xFF}
}

// NewColor returns a color from integer channels, each in [0, 255].
func NewColor(r, g, b, a int) (Color, error) {
	for _, ch := range []struct {
		name string
		v    int
	}{{"red", r}, {"green", g}, {"blue", b}, {"alpha", a}} {
		if ch.v < 0 || ch.v > 0xFF {
			return Color{}, errors.OutOfRange([]string{"color", ch.name}, ch.v, 0, 0xFF)
		}
	}
	return Color{R: uint8(r), G: uint8(g), B: uint8(b), A: uint8(a)}, nil
}

// Decode implements codec.Decoder.
func (c *Color) Decode(r *bitstream.Reader, ctx codec.Context) error {
	var err error
	if c.R, err = r.ReadByte(); err != nil {
		return err
	}
	if c.G, err = r.ReadByte(); err != nil {
		return err
	}
	if c.B, err = r.ReadByte(); err != nil {
		return err
	}
	if !ctx.Flag(codec.KeyTransparent) {
		c.A = 0xFF
		return nil
	}
	c.A, err = r.ReadByte()
	return err
}

// Prepare implements codec.Encoder.
func (c *Color) Prepare(ctx codec.Context) (codec.Layout, error) {
	if ctx.Flag(codec.KeyTransparent) {
		return codec.Size(4), nil
	}
	return codec.Size(3), nil
}

// Encode implements codec.Encoder.
func (c *Color) Encode(w *bitstream.Writer, ctx codec.Context, _ codec.Layout) error {
	w.WriteBytes([]byte{c.R, c.G, c.B})
	if ctx.Flag(codec.KeyTransparent) {
		w.WriteByte(c.A)
	}
	return w.Err()
}

// ColorTransform scales and offsets color channels. Multiply terms are
// 8.8 fixed point (256 is identity); add terms are signed offsets. Alpha
// terms are present only under codec.KeyTransparent.
type ColorTransform struct {
	RedMul, GreenMul, BlueMul, AlphaMul int32
	RedAdd, GreenAdd, BlueAdd, AlphaAdd int32
}

// MulIdentity is the multiply term that leaves a channel unchanged.
const MulIdentity = 256

// IdentityTransform returns a transform that leaves colors unchanged.
func IdentityTransform() ColorTransform {
	return ColorTransform{
		RedMul:   MulIdentity,
		GreenMul: MulIdentity,
		BlueMul:  MulIdentity,
		AlphaMul: MulIdentity,
	}
}

// All present terms share one width behind a 4-bit prefix.
var cxformGroup = codec.Group{Prefix: 4}

type cxformLayout struct {
	group    codec.GroupLayout
	mul, add bool
	size     int
}

func (l *cxformLayout) Len() int { return l.size }

func (t *ColorTransform) channels(ctx codec.Context) int {
	if ctx.Flag(codec.KeyTransparent) {
		return 4
	}
	return 3
}

func (t *ColorTransform) muls(n int) []int32 {
	return []int32{t.RedMul, t.GreenMul, t.BlueMul, t.AlphaMul}[:n]
}

func (t *ColorTransform) adds(n int) []int32 {
	return []int32{t.RedAdd, t.GreenAdd, t.BlueAdd, t.AlphaAdd}[:n]
}

// Decode implements codec.Decoder.
func (t *ColorTransform) Decode(r *bitstream.Reader, ctx codec.Context) error {
	hasAdd, err := r.ReadBool()
	if err != nil {
		return err
	}
	hasMul, err := r.ReadBool()
	if err != nil {
		return err
	}
	n := t.channels(ctx)
	count := 0
	if hasMul {
		count += n
	}
	if hasAdd {
		count += n
	}
	vals, _, err := cxformGroup.Read(r, count)
	if err != nil {
		return err
	}
	r.AlignToByte()

	*t = IdentityTransform()
	if hasMul {
		t.RedMul, t.GreenMul, t.BlueMul = vals[0], vals[1], vals[2]
		if n == 4 {
			t.AlphaMul = vals[3]
		}
		vals = vals[n:]
	}
	if hasAdd {
		t.RedAdd, t.GreenAdd, t.BlueAdd = vals[0], vals[1], vals[2]
		if n == 4 {
			t.AlphaAdd = vals[3]
		}
	}
	return nil
}

// Prepare implements codec.Encoder.
func (t *ColorTransform) Prepare(ctx codec.Context) (codec.Layout, error) {
	n := t.channels(ctx)
	l := &cxformLayout{}
	var vals []int32
	for _, v := range t.muls(n) {
		if v != MulIdentity {
			l.mul = true
		}
	}
	for _, v := range t.adds(n) {
		if v != 0 {
			l.add = true
		}
	}
	if l.mul {
		vals = append(vals, t.muls(n)...)
	}
	if l.add {
		vals = append(vals, t.adds(n)...)
	}
	g, err := cxformGroup.Plan(true, vals...)
	if err != nil {
		return nil, errors.Within(err, "ColorTransform")
	}
	l.group = g
	l.size = bitstream.BytesForBits(2 + cxformGroup.Bits(g, len(vals)))
	return l, nil
}

// Encode implements codec.Encoder.
func (t *ColorTransform) Encode(w *bitstream.Writer, ctx codec.Context, l codec.Layout) error {
	cl, err := codec.LayoutAs[*cxformLayout](l, "ColorTransform")
	if err != nil {
		return err
	}
	n := t.channels(ctx)
	w.WriteBool(cl.add)
	w.WriteBool(cl.mul)
	var vals []int32
	if cl.mul {
		vals = append(vals, t.muls(n)...)
	}
	if cl.add {
		vals = append(vals, t.adds(n)...)
	}
	cxformGroup.Write(w, cl.group, vals...)
	w.AlignToByte()
	return w.Err()
}
