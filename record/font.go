package record

import (
	"strconv"

	"github.com/wippyai/swfkit/bitstream"
	"github.com/wippyai/swfkit/codec"
	"github.com/wippyai/swfkit/errors"
)

func glyphPath(i int) string {
	return "glyph[" + strconv.Itoa(i) + "]"
}

// DefineFont defines glyph outlines. The glyphs are delimited by a table
// of 16-bit offsets whose first entry also gives the glyph count; the last
// glyph runs to the end of the tag.
type DefineFont struct {
	codec.Framing
	Glyphs []Shape
	ID     uint16
}

// NewDefineFont returns a font definition with id in [1, 65535].
func NewDefineFont(id int, glyphs []Shape) (*DefineFont, error) {
	if err := checkID("DefineFont", id); err != nil {
		return nil, err
	}
	return &DefineFont{ID: uint16(id), Glyphs: glyphs}, nil
}

type fontLayout struct {
	glyphs []codec.Layout
	table  codec.OffsetTable
	size   int
}

func (l *fontLayout) Len() int { return l.size }

// Code implements codec.Coded.
func (*DefineFont) Code() uint16 { return CodeDefineFont }

// Decode implements codec.Decoder.
func (t *DefineFont) Decode(r *bitstream.Reader, ctx codec.Context) error {
	var err error
	if t.ID, err = r.ReadUint16(); err != nil {
		return err
	}
	t.Glyphs = nil
	if r.Remaining() == 0 {
		return nil
	}

	end := r.Remaining()
	off := r.Offset()
	first, err := r.ReadUint16()
	if err != nil {
		return err
	}
	if first == 0 || first%2 != 0 {
		return errors.InvalidData(errors.PhaseDecode, off, "first glyph offset must be a positive even number")
	}
	n := int(first) / 2
	rest, err := codec.ReadOffsets(r, n-1, false)
	if err != nil {
		return err
	}
	table := codec.OffsetTable{Offsets: append([]int{int(first)}, rest.Offsets...)}
	spans, err := table.Spans(n, end)
	if err != nil {
		return err
	}

	t.Glyphs = make([]Shape, n)
	for i := range t.Glyphs {
		if err := codec.DecodeRecord(r, ctx, &t.Glyphs[i], spans[i]); err != nil {
			return errors.Within(err, glyphPath(i))
		}
	}
	return nil
}

// Prepare implements codec.Encoder.
func (t *DefineFont) Prepare(ctx codec.Context) (codec.Layout, error) {
	l := &fontLayout{glyphs: make([]codec.Layout, len(t.Glyphs)), size: 2}
	if len(t.Glyphs) == 0 {
		return l, nil
	}
	lengths := make([]int, len(t.Glyphs))
	for i := range t.Glyphs {
		gl, err := t.Glyphs[i].Prepare(ctx)
		if err != nil {
			return nil, errors.Within(err, glyphPath(i))
		}
		l.glyphs[i] = gl
		lengths[i] = gl.Len()
		l.size += gl.Len()
	}
	l.table = codec.PlanOffsets(lengths, len(lengths), false)
	if l.table.Wide {
		return nil, errors.Overflow(errors.PhaseEncode, []string{"DefineFont", "offsets"}, l.table.Offsets[len(lengths)-1], 16)
	}
	l.size += l.table.Size()
	return l, nil
}

// Encode implements codec.Encoder.
func (t *DefineFont) Encode(w *bitstream.Writer, ctx codec.Context, lay codec.Layout) error {
	l, err := codec.LayoutAs[*fontLayout](lay, "DefineFont")
	if err != nil {
		return err
	}
	w.WriteUint16(t.ID)
	if len(t.Glyphs) == 0 {
		return w.Err()
	}
	if err := l.table.Write(w); err != nil {
		return err
	}
	for i := range t.Glyphs {
		if err := codec.EncodeRecord(w, ctx, &t.Glyphs[i], l.glyphs[i]); err != nil {
			return errors.Within(err, glyphPath(i))
		}
	}
	return nil
}

// KerningRecord adjusts the advance between two character codes. Codes
// are 16-bit under codec.KeyWideCodes and 8-bit otherwise.
type KerningRecord struct {
	Code1, Code2 uint16
	Adjustment   int16
}

func readCode(r *bitstream.Reader, ctx codec.Context) (uint16, error) {
	if ctx.Flag(codec.KeyWideCodes) {
		return r.ReadUint16()
	}
	b, err := r.ReadByte()
	return uint16(b), err
}

func writeCode(w *bitstream.Writer, ctx codec.Context, c uint16) {
	if ctx.Flag(codec.KeyWideCodes) {
		w.WriteUint16(c)
		return
	}
	w.WriteByte(byte(c))
}

func codeSize(ctx codec.Context) int {
	if ctx.Flag(codec.KeyWideCodes) {
		return 2
	}
	return 1
}

func checkCode(ctx codec.Context, path string, c uint16) error {
	if !ctx.Flag(codec.KeyWideCodes) && c > 0xFF {
		return errors.Overflow(errors.PhaseEncode, []string{path}, c, 8)
	}
	return nil
}

// Decode implements codec.Decoder.
func (k *KerningRecord) Decode(r *bitstream.Reader, ctx codec.Context) error {
	var err error
	if k.Code1, err = readCode(r, ctx); err != nil {
		return err
	}
	if k.Code2, err = readCode(r, ctx); err != nil {
		return err
	}
	k.Adjustment, err = r.ReadInt16()
	return err
}

// Prepare implements codec.Encoder.
func (k *KerningRecord) Prepare(ctx codec.Context) (codec.Layout, error) {
	if err := checkCode(ctx, "code1", k.Code1); err != nil {
		return nil, err
	}
	if err := checkCode(ctx, "code2", k.Code2); err != nil {
		return nil, err
	}
	return codec.Size(2*codeSize(ctx) + 2), nil
}

// Encode implements codec.Encoder.
func (k *KerningRecord) Encode(w *bitstream.Writer, ctx codec.Context, _ codec.Layout) error {
	writeCode(w, ctx, k.Code1)
	writeCode(w, ctx, k.Code2)
	w.WriteInt16(k.Adjustment)
	return w.Err()
}

// FontMetrics is the optional layout section of DefineFont2. Advances and
// Bounds have one entry per glyph.
type FontMetrics struct {
	Advances []int16
	Bounds   []Bounds
	Kerning  []KerningRecord
	Ascent   uint16
	Descent  uint16
	Leading  int16
}

// DefineFont2 defines a font with glyphs, the character code of each
// glyph and optional metrics. Glyphs are delimited by an N+1 entry offset
// table whose last entry locates the code table; the table uses 32-bit
// offsets when requested or when 16 bits do not suffice.
type DefineFont2 struct {
	codec.Framing
	Metrics     *FontMetrics
	Name        string
	Glyphs      []Shape
	Codes       []uint16
	ID          uint16
	Language    uint8
	WideOffsets bool
	WideCodes   bool
	ShiftJIS    bool
	SmallText   bool
	ANSI        bool
	Italic      bool
	Bold        bool
}

// NewDefineFont2 returns a font with one character code per glyph. Codes
// above 255 select 16-bit character codes.
func NewDefineFont2(id int, name string, glyphs []Shape, codes []uint16) (*DefineFont2, error) {
	if err := checkID("DefineFont2", id); err != nil {
		return nil, err
	}
	if len(name) > 0xFF {
		return nil, errors.OutOfRange([]string{"DefineFont2", "name"}, len(name), 0, 0xFF)
	}
	if len(glyphs) > 0xFFFF {
		return nil, errors.OutOfRange([]string{"DefineFont2", "glyphs"}, len(glyphs), 0, 0xFFFF)
	}
	if len(codes) != len(glyphs) {
		return nil, errors.New(errors.PhaseValidate, errors.KindInvalidInput).
			Path("DefineFont2", "codes").
			Detail("%d codes for %d glyphs", len(codes), len(glyphs)).
			Build()
	}
	f := &DefineFont2{ID: uint16(id), Name: name, Glyphs: glyphs, Codes: codes}
	for _, c := range codes {
		if c > 0xFF {
			f.WideCodes = true
		}
	}
	return f, nil
}

// Code implements codec.Coded.
func (*DefineFont2) Code() uint16 { return CodeDefineFont2 }

type font2Layout struct {
	name    []byte
	glyphs  []codec.Layout
	bounds  []codec.Layout
	kerning []codec.Layout
	table   codec.OffsetTable
	size    int
}

func (l *font2Layout) Len() int { return l.size }

// Decode implements codec.Decoder.
func (t *DefineFont2) Decode(r *bitstream.Reader, ctx codec.Context) error {
	var err error
	if t.ID, err = r.ReadUint16(); err != nil {
		return err
	}
	flags, err := r.ReadByte()
	if err != nil {
		return err
	}
	hasMetrics := flags&0x80 != 0
	t.ShiftJIS = flags&0x40 != 0
	t.SmallText = flags&0x20 != 0
	t.ANSI = flags&0x10 != 0
	t.WideOffsets = flags&0x08 != 0
	t.WideCodes = flags&0x04 != 0
	t.Italic = flags&0x02 != 0
	t.Bold = flags&0x01 != 0

	if t.Language, err = r.ReadByte(); err != nil {
		return err
	}
	nameLen, err := r.ReadByte()
	if err != nil {
		return err
	}
	if t.Name, err = r.ReadString(int(nameLen)); err != nil {
		return err
	}
	count, err := r.ReadUint16()
	if err != nil {
		return err
	}
	n := int(count)

	end := r.Remaining()
	off := r.Offset()
	table, err := codec.ReadOffsets(r, n+1, t.WideOffsets)
	if err != nil {
		return err
	}
	if table.Offsets[0] != table.Size() {
		return errors.InvalidData(errors.PhaseDecode, off, "glyphs must follow the offset table")
	}
	spans, err := table.Spans(n, end)
	if err != nil {
		return err
	}
	t.Glyphs = make([]Shape, n)
	for i := range t.Glyphs {
		if err := codec.DecodeRecord(r, ctx, &t.Glyphs[i], spans[i]); err != nil {
			return errors.Within(err, glyphPath(i))
		}
	}

	ctx = ctx.WithFlag(codec.KeyWideCodes, t.WideCodes)
	t.Codes = make([]uint16, n)
	for i := range t.Codes {
		if t.Codes[i], err = readCode(r, ctx); err != nil {
			return err
		}
	}

	t.Metrics = nil
	if !hasMetrics {
		return nil
	}
	m := &FontMetrics{Advances: make([]int16, n), Bounds: make([]Bounds, n)}
	if m.Ascent, err = r.ReadUint16(); err != nil {
		return err
	}
	if m.Descent, err = r.ReadUint16(); err != nil {
		return err
	}
	if m.Leading, err = r.ReadInt16(); err != nil {
		return err
	}
	for i := range m.Advances {
		if m.Advances[i], err = r.ReadInt16(); err != nil {
			return err
		}
	}
	for i := range m.Bounds {
		if err := m.Bounds[i].Decode(r, ctx); err != nil {
			return errors.Within(err, "bounds")
		}
	}
	kerns, err := r.ReadUint16()
	if err != nil {
		return err
	}
	m.Kerning = make([]KerningRecord, kerns)
	for i := range m.Kerning {
		if err := m.Kerning[i].Decode(r, ctx); err != nil {
			return errors.Within(err, "kerning")
		}
	}
	t.Metrics = m
	return nil
}

// Prepare implements codec.Encoder.
func (t *DefineFont2) Prepare(ctx codec.Context) (codec.Layout, error) {
	n := len(t.Glyphs)
	if n > 0xFFFF {
		return nil, errors.Overflow(errors.PhaseEncode, []string{"DefineFont2", "glyphs"}, n, 16)
	}
	if len(t.Codes) != n {
		return nil, errors.New(errors.PhaseEncode, errors.KindInvalidInput).
			Record("DefineFont2").
			Detail("%d codes for %d glyphs", len(t.Codes), n).
			Build()
	}
	name, err := ctx.EncodeString(t.Name)
	if err != nil {
		return nil, errors.Within(err, "DefineFont2")
	}
	if len(name) > 0xFF {
		return nil, errors.Overflow(errors.PhaseEncode, []string{"DefineFont2", "name"}, len(name), 8)
	}

	l := &font2Layout{name: name, glyphs: make([]codec.Layout, n)}
	lengths := make([]int, n)
	glyphBytes := 0
	for i := range t.Glyphs {
		gl, err := t.Glyphs[i].Prepare(ctx)
		if err != nil {
			return nil, errors.Within(err, glyphPath(i))
		}
		l.glyphs[i] = gl
		lengths[i] = gl.Len()
		glyphBytes += gl.Len()
	}
	l.table = codec.PlanOffsets(lengths, n+1, t.WideOffsets)

	ctx = ctx.WithFlag(codec.KeyWideCodes, t.WideCodes)
	for i, c := range t.Codes {
		if err := checkCode(ctx, "codes["+strconv.Itoa(i)+"]", c); err != nil {
			return nil, errors.Within(err, "DefineFont2")
		}
	}
	l.size = 2 + 1 + 1 + 1 + len(name) + 2 + l.table.Size() + glyphBytes + n*codeSize(ctx)

	if m := t.Metrics; m != nil {
		if len(m.Advances) != n || len(m.Bounds) != n {
			return nil, errors.New(errors.PhaseEncode, errors.KindInvalidInput).
				Record("DefineFont2").
				Detail("metrics need %d advances and bounds, have %d and %d", n, len(m.Advances), len(m.Bounds)).
				Build()
		}
		if len(m.Kerning) > 0xFFFF {
			return nil, errors.Overflow(errors.PhaseEncode, []string{"DefineFont2", "kerning"}, len(m.Kerning), 16)
		}
		l.size += 6 + 2*n + 2
		l.bounds = make([]codec.Layout, n)
		for i := range m.Bounds {
			bl, err := m.Bounds[i].Prepare(ctx)
			if err != nil {
				return nil, errors.Within(err, "bounds")
			}
			l.bounds[i] = bl
			l.size += bl.Len()
		}
		l.kerning = make([]codec.Layout, len(m.Kerning))
		for i := range m.Kerning {
			kl, err := m.Kerning[i].Prepare(ctx)
			if err != nil {
				return nil, errors.Within(err, "kerning")
			}
			l.kerning[i] = kl
			l.size += kl.Len()
		}
	}
	return l, nil
}

// Encode implements codec.Encoder.
func (t *DefineFont2) Encode(w *bitstream.Writer, ctx codec.Context, lay codec.Layout) error {
	l, err := codec.LayoutAs[*font2Layout](lay, "DefineFont2")
	if err != nil {
		return err
	}
	w.WriteUint16(t.ID)
	for _, f := range []bool{t.Metrics != nil, t.ShiftJIS, t.SmallText, t.ANSI, l.table.Wide, t.WideCodes, t.Italic, t.Bold} {
		w.WriteBool(f)
	}
	w.WriteByte(t.Language)
	w.WriteByte(byte(len(l.name)))
	w.WriteBytes(l.name)
	w.WriteUint16(uint16(len(t.Glyphs)))
	if err := l.table.Write(w); err != nil {
		return err
	}
	for i := range t.Glyphs {
		if err := codec.EncodeRecord(w, ctx, &t.Glyphs[i], l.glyphs[i]); err != nil {
			return errors.Within(err, glyphPath(i))
		}
	}

	ctx = ctx.WithFlag(codec.KeyWideCodes, t.WideCodes)
	for _, c := range t.Codes {
		writeCode(w, ctx, c)
	}

	m := t.Metrics
	if m == nil {
		return w.Err()
	}
	w.WriteUint16(m.Ascent)
	w.WriteUint16(m.Descent)
	w.WriteInt16(m.Leading)
	for _, a := range m.Advances {
		w.WriteInt16(a)
	}
	for i := range m.Bounds {
		if err := codec.EncodeRecord(w, ctx, &m.Bounds[i], l.bounds[i]); err != nil {
			return errors.Within(err, "bounds")
		}
	}
	w.WriteUint16(uint16(len(m.Kerning)))
	for i := range m.Kerning {
		if err := codec.EncodeRecord(w, ctx, &m.Kerning[i], l.kerning[i]); err != nil {
			return errors.Within(err, "kerning")
		}
	}
	return w.Err()
}
