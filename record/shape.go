package record

import (
	"github.com/wippyai/swfkit/bitstream"
	"github.com/wippyai/swfkit/codec"
	"github.com/wippyai/swfkit/errors"
)

// ShapeRecord is one drawing command of a Shape: *StyleChange,
// *StraightEdge or *CurvedEdge. The end of the command list is implicit.
type ShapeRecord interface {
	// plan returns the shared width of the record's fields and its size
	// in bits.
	plan(ctx codec.Context) (width, bits int, err error)
	write(w *bitstream.Writer, ctx codec.Context, width int)
}

// StyleChange moves the pen and selects fill and line styles. Style
// indices are packed at the widths carried by codec.KeyFillBits and
// codec.KeyLineBits.
type StyleChange struct {
	MoveX, MoveY int32
	Fill0, Fill1 uint32
	Line         uint32
	HasMove      bool
	HasFill0     bool
	HasFill1     bool
	HasLine      bool
}

// StraightEdge draws a line relative to the pen.
type StraightEdge struct {
	DX, DY int32
}

// CurvedEdge draws a quadratic curve relative to the pen.
type CurvedEdge struct {
	ControlX, ControlY int32
	AnchorX, AnchorY   int32
}

// Shape is a glyph outline: drawing commands using fill and line style
// indices of a shared width.
type Shape struct {
	// FillBits and LineBits are the minimum index widths. Encoding widens
	// them when an index does not fit.
	FillBits, LineBits int
	Records            []ShapeRecord
}

const (
	styleBits   = 4 // fill/line width fields in the shape header
	moveBits    = 5
	edgeBits    = 4
	endBits     = 6
	maxEdgeBits = 1<<edgeBits - 1 + 2
)

// Style change flags, in stream order after the type bit.
const (
	flagNewStyles = 1 << (4 - iota)
	flagLine
	flagFill1
	flagFill0
	flagMove
)

type shapeLayout struct {
	widths   []int
	fillBits int
	lineBits int
	size     int
}

func (l *shapeLayout) Len() int { return l.size }

// Decode implements codec.Decoder.
func (s *Shape) Decode(r *bitstream.Reader, ctx codec.Context) error {
	fb, err := r.ReadUBits(styleBits)
	if err != nil {
		return err
	}
	lb, err := r.ReadUBits(styleBits)
	if err != nil {
		return err
	}
	s.FillBits, s.LineBits = int(fb), int(lb)
	ctx = ctx.With(codec.KeyFillBits, int(fb)).With(codec.KeyLineBits, int(lb))

	s.Records = s.Records[:0]
	for {
		edge, err := r.ReadBool()
		if err != nil {
			return err
		}
		var rec ShapeRecord
		if edge {
			rec, err = readEdge(r)
		} else {
			var flags uint32
			if flags, err = r.ReadUBits(5); err != nil {
				return err
			}
			if flags == 0 {
				r.AlignToByte()
				return nil
			}
			rec, err = readStyleChange(r, ctx, flags)
		}
		if err != nil {
			return err
		}
		s.Records = append(s.Records, rec)
	}
}

// Prepare implements codec.Encoder.
func (s *Shape) Prepare(ctx codec.Context) (codec.Layout, error) {
	l := &shapeLayout{
		fillBits: s.FillBits,
		lineBits: s.LineBits,
		widths:   make([]int, len(s.Records)),
	}
	for _, rec := range s.Records {
		if sc, ok := rec.(*StyleChange); ok {
			if sc.HasFill0 {
				l.fillBits = max(l.fillBits, bitstream.UnsignedWidth(sc.Fill0))
			}
			if sc.HasFill1 {
				l.fillBits = max(l.fillBits, bitstream.UnsignedWidth(sc.Fill1))
			}
			if sc.HasLine {
				l.lineBits = max(l.lineBits, bitstream.UnsignedWidth(sc.Line))
			}
		}
	}
	if l.fillBits > 1<<styleBits-1 || l.lineBits > 1<<styleBits-1 {
		return nil, errors.Overflow(errors.PhaseEncode, []string{"Shape", "style"}, max(l.fillBits, l.lineBits), styleBits)
	}

	ctx = ctx.With(codec.KeyFillBits, l.fillBits).With(codec.KeyLineBits, l.lineBits)
	bits := 2*styleBits + endBits
	for i, rec := range s.Records {
		if rec == nil {
			return nil, errors.InvalidInput(errors.PhaseEncode, "nil shape record")
		}
		w, n, err := rec.plan(ctx)
		if err != nil {
			return nil, errors.Within(err, "Shape")
		}
		l.widths[i] = w
		bits += n
	}
	l.size = bitstream.BytesForBits(bits)
	return l, nil
}

// Encode implements codec.Encoder.
func (s *Shape) Encode(w *bitstream.Writer, ctx codec.Context, lay codec.Layout) error {
	l, err := codec.LayoutAs[*shapeLayout](lay, "Shape")
	if err != nil {
		return err
	}
	w.WriteUBits(uint32(l.fillBits), styleBits)
	w.WriteUBits(uint32(l.lineBits), styleBits)
	ctx = ctx.With(codec.KeyFillBits, l.fillBits).With(codec.KeyLineBits, l.lineBits)
	for i, rec := range s.Records {
		rec.write(w, ctx, l.widths[i])
	}
	w.WriteUBits(0, endBits)
	w.AlignToByte()
	return w.Err()
}

func readStyleChange(r *bitstream.Reader, ctx codec.Context, flags uint32) (*StyleChange, error) {
	if flags&flagNewStyles != 0 {
		return nil, errors.New(errors.PhaseDecode, errors.KindUnsupported).
			Record("StyleChange").
			Offset(r.Offset()).
			Detail("new style arrays in a glyph outline").
			Build()
	}
	sc := &StyleChange{
		HasMove:  flags&flagMove != 0,
		HasFill0: flags&flagFill0 != 0,
		HasFill1: flags&flagFill1 != 0,
		HasLine:  flags&flagLine != 0,
	}
	var err error
	if sc.HasMove {
		n, err := r.ReadUBits(moveBits)
		if err != nil {
			return nil, err
		}
		if sc.MoveX, err = r.ReadBits(int(n), true); err != nil {
			return nil, err
		}
		if sc.MoveY, err = r.ReadBits(int(n), true); err != nil {
			return nil, err
		}
	}
	fb, lb := ctx.Int(codec.KeyFillBits), ctx.Int(codec.KeyLineBits)
	if sc.HasFill0 {
		if sc.Fill0, err = r.ReadUBits(fb); err != nil {
			return nil, err
		}
	}
	if sc.HasFill1 {
		if sc.Fill1, err = r.ReadUBits(fb); err != nil {
			return nil, err
		}
	}
	if sc.HasLine {
		if sc.Line, err = r.ReadUBits(lb); err != nil {
			return nil, err
		}
	}
	return sc, nil
}

func (sc *StyleChange) flags() uint32 {
	var f uint32
	if sc.HasMove {
		f |= flagMove
	}
	if sc.HasFill0 {
		f |= flagFill0
	}
	if sc.HasFill1 {
		f |= flagFill1
	}
	if sc.HasLine {
		f |= flagLine
	}
	return f
}

func (sc *StyleChange) plan(ctx codec.Context) (int, int, error) {
	if sc.flags() == 0 {
		return 0, 0, errors.InvalidInput(errors.PhaseEncode, "style change without changes")
	}
	bits := 1 + 5
	width := 0
	if sc.HasMove {
		width = bitstream.SignedWidth(sc.MoveX, sc.MoveY)
		if width > 1<<moveBits-1 {
			return 0, 0, errors.Overflow(errors.PhaseEncode, []string{"StyleChange", "move"}, width, moveBits)
		}
		bits += moveBits + 2*width
	}
	fb, lb := ctx.Int(codec.KeyFillBits), ctx.Int(codec.KeyLineBits)
	if sc.HasFill0 {
		bits += fb
	}
	if sc.HasFill1 {
		bits += fb
	}
	if sc.HasLine {
		bits += lb
	}
	return width, bits, nil
}

func (sc *StyleChange) write(w *bitstream.Writer, ctx codec.Context, width int) {
	w.WriteBool(false)
	w.WriteUBits(sc.flags(), 5)
	if sc.HasMove {
		w.WriteUBits(uint32(width), moveBits)
		w.WriteBits(sc.MoveX, width)
		w.WriteBits(sc.MoveY, width)
	}
	fb, lb := ctx.Int(codec.KeyFillBits), ctx.Int(codec.KeyLineBits)
	if sc.HasFill0 {
		w.WriteUBits(sc.Fill0, fb)
	}
	if sc.HasFill1 {
		w.WriteUBits(sc.Fill1, fb)
	}
	if sc.HasLine {
		w.WriteUBits(sc.Line, lb)
	}
}

func readEdge(r *bitstream.Reader) (ShapeRecord, error) {
	straight, err := r.ReadBool()
	if err != nil {
		return nil, err
	}
	nb, err := r.ReadUBits(edgeBits)
	if err != nil {
		return nil, err
	}
	n := int(nb) + 2
	if !straight {
		var vals [4]int32
		for i := range vals {
			if vals[i], err = r.ReadBits(n, true); err != nil {
				return nil, err
			}
		}
		return &CurvedEdge{ControlX: vals[0], ControlY: vals[1], AnchorX: vals[2], AnchorY: vals[3]}, nil
	}

	e := &StraightEdge{}
	general, err := r.ReadBool()
	if err != nil {
		return nil, err
	}
	if general {
		if e.DX, err = r.ReadBits(n, true); err != nil {
			return nil, err
		}
		e.DY, err = r.ReadBits(n, true)
		return e, err
	}
	vertical, err := r.ReadBool()
	if err != nil {
		return nil, err
	}
	if vertical {
		e.DY, err = r.ReadBits(n, true)
	} else {
		e.DX, err = r.ReadBits(n, true)
	}
	return e, err
}

func edgeWidth(record string, vals ...int32) (int, error) {
	width := max(bitstream.SignedWidth(vals...), 2)
	if width > maxEdgeBits {
		return 0, errors.Overflow(errors.PhaseEncode, []string{record}, width, edgeBits)
	}
	return width, nil
}

func (e *StraightEdge) general() bool {
	return e.DX != 0 && e.DY != 0
}

func (e *StraightEdge) plan(codec.Context) (int, int, error) {
	width, err := edgeWidth("StraightEdge", e.DX, e.DY)
	if err != nil {
		return 0, 0, err
	}
	bits := 2 + edgeBits + 1
	if e.general() {
		bits += 2 * width
	} else {
		bits += 1 + width
	}
	return width, bits, nil
}

func (e *StraightEdge) write(w *bitstream.Writer, _ codec.Context, width int) {
	w.WriteBool(true)
	w.WriteBool(true)
	w.WriteUBits(uint32(width-2), edgeBits)
	w.WriteBool(e.general())
	switch {
	case e.general():
		w.WriteBits(e.DX, width)
		w.WriteBits(e.DY, width)
	case e.DX == 0:
		w.WriteBool(true)
		w.WriteBits(e.DY, width)
	default:
		w.WriteBool(false)
		w.WriteBits(e.DX, width)
	}
}

func (e *CurvedEdge) plan(codec.Context) (int, int, error) {
	width, err := edgeWidth("CurvedEdge", e.ControlX, e.ControlY, e.AnchorX, e.AnchorY)
	if err != nil {
		return 0, 0, err
	}
	return width, 2 + edgeBits + 4*width, nil
}

func (e *CurvedEdge) write(w *bitstream.Writer, _ codec.Context, width int) {
	w.WriteBool(true)
	w.WriteBool(false)
	w.WriteUBits(uint32(width-2), edgeBits)
	w.WriteBits(e.ControlX, width)
	w.WriteBits(e.ControlY, width)
	w.WriteBits(e.AnchorX, width)
	w.WriteBits(e.AnchorY, width)
}
