package record

import (
	"math"

	"github.com/wippyai/swfkit/bitstream"
	"github.com/wippyai/swfkit/codec"
	"github.com/wippyai/swfkit/errors"
)

// Fixed1 is 1.0 in 16.16 fixed point.
const Fixed1 = 1 << 16

// ToFixed converts f to 16.16 fixed point, rounding to nearest.
func ToFixed(f float64) int32 {
	return int32(math.Round(f * Fixed1))
}

// FromFixed converts a 16.16 fixed point value to float64.
func FromFixed(v int32) float64 {
	return float64(v) / Fixed1
}

// packed is the layout of a record made of shared-width groups followed by
// byte alignment.
type packed struct {
	groups []codec.GroupLayout
	size   int
}

func (p *packed) Len() int { return p.size }

// Bounds is a rectangle in twips.
type Bounds struct {
	XMin, XMax, YMin, YMax int32
}

var boundsGroup = codec.Group{Prefix: 5}

// Decode implements codec.Decoder.
func (b *Bounds) Decode(r *bitstream.Reader, _ codec.Context) error {
	vals, _, err := boundsGroup.Read(r, 4)
	if err != nil {
		return err
	}
	b.XMin, b.XMax, b.YMin, b.YMax = vals[0], vals[1], vals[2], vals[3]
	r.AlignToByte()
	return nil
}

// Prepare implements codec.Encoder.
func (b *Bounds) Prepare(codec.Context) (codec.Layout, error) {
	g, err := boundsGroup.Plan(true, b.XMin, b.XMax, b.YMin, b.YMax)
	if err != nil {
		return nil, errors.Within(err, "Bounds")
	}
	return &packed{
		groups: []codec.GroupLayout{g},
		size:   bitstream.BytesForBits(boundsGroup.Bits(g, 4)),
	}, nil
}

// Encode implements codec.Encoder.
func (b *Bounds) Encode(w *bitstream.Writer, _ codec.Context, l codec.Layout) error {
	p, err := codec.LayoutAs[*packed](l, "Bounds")
	if err != nil {
		return err
	}
	boundsGroup.Write(w, p.groups[0], b.XMin, b.XMax, b.YMin, b.YMax)
	w.AlignToByte()
	return w.Err()
}

// Matrix is an affine transform. Scale and rotate/skew terms are 16.16
// fixed point; translation is in twips. The zero Matrix scales by zero;
// use IdentityMatrix or Translate to build transforms.
type Matrix struct {
	ScaleX, ScaleY           int32
	RotateSkew0, RotateSkew1 int32
	TranslateX, TranslateY   int32
}

// IdentityMatrix returns the identity transform.
func IdentityMatrix() Matrix {
	return Matrix{ScaleX: Fixed1, ScaleY: Fixed1}
}

// Translate returns a pure translation.
func Translate(dx, dy int32) Matrix {
	m := IdentityMatrix()
	m.TranslateX, m.TranslateY = dx, dy
	return m
}

var (
	scaleGroup     = codec.Group{Prefix: 5, Optional: true}
	rotateGroup    = codec.Group{Prefix: 5, Optional: true}
	translateGroup = codec.Group{Prefix: 5}
)

// HasScale reports whether the scale terms differ from identity.
func (m *Matrix) HasScale() bool {
	return m.ScaleX != Fixed1 || m.ScaleY != Fixed1
}

// HasRotate reports whether any rotate/skew term is set.
func (m *Matrix) HasRotate() bool {
	return m.RotateSkew0 != 0 || m.RotateSkew1 != 0
}

// Decode implements codec.Decoder.
func (m *Matrix) Decode(r *bitstream.Reader, _ codec.Context) error {
	*m = IdentityMatrix()

	scale, ok, err := scaleGroup.Read(r, 2)
	if err != nil {
		return err
	}
	if ok {
		m.ScaleX, m.ScaleY = scale[0], scale[1]
	}

	rot, ok, err := rotateGroup.Read(r, 2)
	if err != nil {
		return err
	}
	if ok {
		m.RotateSkew0, m.RotateSkew1 = rot[0], rot[1]
	}

	tr, _, err := translateGroup.Read(r, 2)
	if err != nil {
		return err
	}
	m.TranslateX, m.TranslateY = tr[0], tr[1]
	r.AlignToByte()
	return nil
}

// Prepare implements codec.Encoder.
func (m *Matrix) Prepare(codec.Context) (codec.Layout, error) {
	scale, err := scaleGroup.Plan(m.HasScale(), m.ScaleX, m.ScaleY)
	if err != nil {
		return nil, errors.Within(err, "Matrix.scale")
	}
	rot, err := rotateGroup.Plan(m.HasRotate(), m.RotateSkew0, m.RotateSkew1)
	if err != nil {
		return nil, errors.Within(err, "Matrix.rotate")
	}
	tr, err := translateGroup.Plan(true, m.TranslateX, m.TranslateY)
	if err != nil {
		return nil, errors.Within(err, "Matrix.translate")
	}
	bits := scaleGroup.Bits(scale, 2) + rotateGroup.Bits(rot, 2) + translateGroup.Bits(tr, 2)
	return &packed{
		groups: []codec.GroupLayout{scale, rot, tr},
		size:   bitstream.BytesForBits(bits),
	}, nil
}

// Encode implements codec.Encoder.
func (m *Matrix) Encode(w *bitstream.Writer, _ codec.Context, l codec.Layout) error {
	p, err := codec.LayoutAs[*packed](l, "Matrix")
	if err != nil {
		return err
	}
	scaleGroup.Write(w, p.groups[0], m.ScaleX, m.ScaleY)
	rotateGroup.Write(w, p.groups[1], m.RotateSkew0, m.RotateSkew1)
	translateGroup.Write(w, p.groups[2], m.TranslateX, m.TranslateY)
	w.AlignToByte()
	return w.Err()
}
