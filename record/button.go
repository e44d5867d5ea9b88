package record

import (
	"strconv"

	"github.com/wippyai/swfkit/bitstream"
	"github.com/wippyai/swfkit/codec"
	"github.com/wippyai/swfkit/errors"
)

// Button states in which a button record is displayed.
const (
	StateUp      uint8 = 1 << iota
	StateOver
	StateDown
	StateHitTest
	stateMask = StateUp | StateOver | StateDown | StateHitTest
)

const (
	buttonHasFilters = 0x10
	buttonHasBlend   = 0x20
	buttonReserved   = 0xC0
)

// ButtonRecord places a character in one or more button states. Under
// DefineButton2 its color transform carries alpha terms.
type ButtonRecord struct {
	Filters     FilterList
	Transform   ColorTransform
	Matrix      Matrix
	CharacterID uint16
	Depth       uint16
	States      uint8
	Blend       BlendMode
	HasFilters  bool
	HasBlend    bool
}

type buttonRecordLayout struct {
	matrix    codec.Layout
	transform codec.Layout
	filters   codec.Layout
	size      int
}

func (l *buttonRecordLayout) Len() int { return l.size }

func transformContext(ctx codec.Context) codec.Context {
	return ctx.WithFlag(codec.KeyTransparent, ctx.Int(codec.KeyParent) == int(CodeDefineButton2))
}

// Decode implements codec.Decoder.
func (b *ButtonRecord) Decode(r *bitstream.Reader, ctx codec.Context) error {
	off := r.Offset()
	flags, err := r.ReadByte()
	if err != nil {
		return err
	}
	if flags&buttonReserved != 0 || flags&stateMask == 0 {
		return errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Record("ButtonRecord").
			Offset(off).
			Value(flags).
			Detail("invalid button record flags 0x%02x", flags).
			Build()
	}
	b.States = flags & stateMask
	b.HasFilters = flags&buttonHasFilters != 0
	b.HasBlend = flags&buttonHasBlend != 0

	if b.CharacterID, err = r.ReadUint16(); err != nil {
		return err
	}
	if b.Depth, err = r.ReadUint16(); err != nil {
		return err
	}
	if err := b.Matrix.Decode(r, ctx); err != nil {
		return errors.Within(err, "matrix")
	}
	if err := b.Transform.Decode(r, transformContext(ctx)); err != nil {
		return errors.Within(err, "transform")
	}
	b.Filters = nil
	if b.HasFilters {
		if err := b.Filters.Decode(r, ctx); err != nil {
			return errors.Within(err, "filters")
		}
	}
	if b.HasBlend {
		if b.Blend, err = ReadBlendMode(r); err != nil {
			return err
		}
	}
	return nil
}

// Prepare implements codec.Encoder.
func (b *ButtonRecord) Prepare(ctx codec.Context) (codec.Layout, error) {
	if b.States == 0 || b.States&^stateMask != 0 {
		return nil, errors.New(errors.PhaseEncode, errors.KindInvalidInput).
			Record("ButtonRecord").
			Value(b.States).
			Detail("states must be a non-empty set of button states").
			Build()
	}
	if b.HasBlend && !b.Blend.Valid() {
		return nil, errors.New(errors.PhaseEncode, errors.KindInvalidInput).
			Record("ButtonRecord").
			Value(b.Blend).
			Detail("unknown blend mode %s", b.Blend).
			Build()
	}
	l := &buttonRecordLayout{size: 5}
	var err error
	if l.matrix, err = b.Matrix.Prepare(ctx); err != nil {
		return nil, err
	}
	if l.transform, err = b.Transform.Prepare(transformContext(ctx)); err != nil {
		return nil, err
	}
	l.size += l.matrix.Len() + l.transform.Len()
	if b.HasFilters {
		if l.filters, err = b.Filters.Prepare(ctx); err != nil {
			return nil, errors.Within(err, "filters")
		}
		l.size += l.filters.Len()
	}
	if b.HasBlend {
		l.size++
	}
	return l, nil
}

// Encode implements codec.Encoder.
func (b *ButtonRecord) Encode(w *bitstream.Writer, ctx codec.Context, lay codec.Layout) error {
	l, err := codec.LayoutAs[*buttonRecordLayout](lay, "ButtonRecord")
	if err != nil {
		return err
	}
	flags := b.States
	if b.HasFilters {
		flags |= buttonHasFilters
	}
	if b.HasBlend {
		flags |= buttonHasBlend
	}
	w.WriteByte(flags)
	w.WriteUint16(b.CharacterID)
	w.WriteUint16(b.Depth)
	if err := codec.EncodeRecord(w, ctx, &b.Matrix, l.matrix); err != nil {
		return errors.Within(err, "matrix")
	}
	if err := codec.EncodeRecord(w, transformContext(ctx), &b.Transform, l.transform); err != nil {
		return errors.Within(err, "transform")
	}
	if b.HasFilters {
		if err := codec.EncodeRecord(w, ctx, &b.Filters, l.filters); err != nil {
			return errors.Within(err, "filters")
		}
	}
	if b.HasBlend {
		b.Blend.Write(w)
	}
	return w.Err()
}

// Button event conditions.
const (
	CondIdleToOverDown    uint16 = 1 << 15
	CondOutDownToIdle     uint16 = 1 << 14
	CondOutDownToOverDown uint16 = 1 << 13
	CondOverDownToOutDown uint16 = 1 << 12
	CondOverDownToOverUp  uint16 = 1 << 11
	CondOverUpToOverDown  uint16 = 1 << 10
	CondOverUpToIdle      uint16 = 1 << 9
	CondIdleToOverUp      uint16 = 1 << 8
	CondOverDownToIdle    uint16 = 1

	condKeyShift = 1
	condKeyMask  = 0x7F << condKeyShift
)

// ButtonCondAction runs actions on button events. Handlers form a chain:
// each starts with the size of itself so the next can be found, and the
// last handler, marked by codec.KeyLast, writes zero instead.
type ButtonCondAction struct {
	Actions    ActionList
	Conditions uint16
}

// KeyPress returns the key code of the condition, or zero.
func (h *ButtonCondAction) KeyPress() uint8 {
	return uint8(h.Conditions & condKeyMask >> condKeyShift)
}

// SetKeyPress sets the key code of the condition.
func (h *ButtonCondAction) SetKeyPress(key uint8) {
	h.Conditions = h.Conditions&^condKeyMask | uint16(key&0x7F)<<condKeyShift
}

type condLayout struct {
	actions codec.Layout
	size    int
}

func (l *condLayout) Len() int { return l.size }

// Decode implements codec.Decoder.
func (h *ButtonCondAction) Decode(r *bitstream.Reader, ctx codec.Context) error {
	off := r.Offset()
	next, err := r.ReadUint16()
	if err != nil {
		return err
	}
	length := r.Remaining()
	if next != 0 {
		if next < 4 {
			return errors.InvalidData(errors.PhaseDecode, off, "condition action size "+strconv.Itoa(int(next)))
		}
		length = int(next) - 2
	}
	return bitstream.Within(r, length, func() error {
		cond, err := r.ReadUBits(16)
		if err != nil {
			return err
		}
		h.Conditions = uint16(cond)
		return h.Actions.Decode(r, ctx)
	})
}

// Prepare implements codec.Encoder.
func (h *ButtonCondAction) Prepare(ctx codec.Context) (codec.Layout, error) {
	al, err := h.Actions.Prepare(ctx)
	if err != nil {
		return nil, err
	}
	l := &condLayout{actions: al, size: 4 + al.Len()}
	if !ctx.Flag(codec.KeyLast) && l.size > 0xFFFF {
		return nil, errors.Overflow(errors.PhaseEncode, []string{"ButtonCondAction", "size"}, l.size, 16)
	}
	return l, nil
}

// Encode implements codec.Encoder.
func (h *ButtonCondAction) Encode(w *bitstream.Writer, ctx codec.Context, lay codec.Layout) error {
	l, err := codec.LayoutAs[*condLayout](lay, "ButtonCondAction")
	if err != nil {
		return err
	}
	if ctx.Flag(codec.KeyLast) {
		w.WriteUint16(0)
	} else {
		w.WriteUint16(uint16(l.size))
	}
	w.WriteUBits(uint32(h.Conditions), 16)
	return codec.EncodeRecord(w, ctx, &h.Actions, l.actions)
}

// DefineButton2 defines a button from display records and event
// handlers. ActionOffset, the distance from its own field to the first
// handler, is computed on encode.
type DefineButton2 struct {
	codec.Framing
	Records     []ButtonRecord
	Handlers    []ButtonCondAction
	ID          uint16
	TrackAsMenu bool
}

// NewDefineButton2 returns a button with id in [1, 65535]. Every record
// must be shown in at least one state.
func NewDefineButton2(id int, records []ButtonRecord, handlers []ButtonCondAction) (*DefineButton2, error) {
	if err := checkID("DefineButton2", id); err != nil {
		return nil, err
	}
	for i := range records {
		if s := int(records[i].States); s < 1 || s > int(stateMask) {
			return nil, errors.OutOfRange([]string{"DefineButton2", "records[" + strconv.Itoa(i) + "]", "states"}, s, 1, int(stateMask))
		}
	}
	return &DefineButton2{ID: uint16(id), Records: records, Handlers: handlers}, nil
}

// Code implements codec.Coded.
func (*DefineButton2) Code() uint16 { return CodeDefineButton2 }

type button2Layout struct {
	records  []codec.Layout
	handlers []codec.Layout
	offset   int
	size     int
}

func (l *button2Layout) Len() int { return l.size }

// Decode implements codec.Decoder.
func (t *DefineButton2) Decode(r *bitstream.Reader, ctx codec.Context) error {
	var err error
	if t.ID, err = r.ReadUint16(); err != nil {
		return err
	}
	flags, err := r.ReadByte()
	if err != nil {
		return err
	}
	t.TrackAsMenu = flags&1 != 0

	base := r.Offset()
	actionOffset, err := r.ReadUint16()
	if err != nil {
		return err
	}

	t.Records = nil
	for {
		next, err := r.ScanByte()
		if err != nil {
			return err
		}
		if next == 0 {
			_, _ = r.ReadByte()
			break
		}
		var rec ButtonRecord
		if err := rec.Decode(r, ctx); err != nil {
			return errors.Within(err, "records["+strconv.Itoa(len(t.Records))+"]")
		}
		t.Records = append(t.Records, rec)
	}

	t.Handlers = nil
	if actionOffset == 0 {
		return nil
	}
	if got := r.Offset() - base; got != int(actionOffset) {
		return errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Record("DefineButton2").
			Offset(base).
			Value(actionOffset).
			Detail("action offset %d, records end at %d", actionOffset, got).
			Build()
	}
	for r.Remaining() > 0 {
		var h ButtonCondAction
		if err := h.Decode(r, ctx); err != nil {
			return errors.Within(err, "handlers["+strconv.Itoa(len(t.Handlers))+"]")
		}
		t.Handlers = append(t.Handlers, h)
	}
	return nil
}

// Prepare implements codec.Encoder.
func (t *DefineButton2) Prepare(ctx codec.Context) (codec.Layout, error) {
	l := &button2Layout{
		records:  make([]codec.Layout, len(t.Records)),
		handlers: make([]codec.Layout, len(t.Handlers)),
	}
	recordBytes := 1
	for i := range t.Records {
		rl, err := t.Records[i].Prepare(ctx)
		if err != nil {
			return nil, errors.Within(err, "records["+strconv.Itoa(i)+"]")
		}
		l.records[i] = rl
		recordBytes += rl.Len()
	}
	l.size = 2 + 1 + 2 + recordBytes

	if len(t.Handlers) > 0 {
		l.offset = 2 + recordBytes
		if l.offset > 0xFFFF {
			return nil, errors.Overflow(errors.PhaseEncode, []string{"DefineButton2", "action_offset"}, l.offset, 16)
		}
	}
	last := len(t.Handlers) - 1
	for i := range t.Handlers {
		hl, err := t.Handlers[i].Prepare(ctx.WithFlag(codec.KeyLast, i == last))
		if err != nil {
			return nil, errors.Within(err, "handlers["+strconv.Itoa(i)+"]")
		}
		l.handlers[i] = hl
		l.size += hl.Len()
	}
	return l, nil
}

// Encode implements codec.Encoder.
func (t *DefineButton2) Encode(w *bitstream.Writer, ctx codec.Context, lay codec.Layout) error {
	l, err := codec.LayoutAs[*button2Layout](lay, "DefineButton2")
	if err != nil {
		return err
	}
	w.WriteUint16(t.ID)
	w.WriteUBits(0, 7)
	w.WriteBool(t.TrackAsMenu)
	w.WriteUint16(uint16(l.offset))
	for i := range t.Records {
		if err := codec.EncodeRecord(w, ctx, &t.Records[i], l.records[i]); err != nil {
			return errors.Within(err, "records["+strconv.Itoa(i)+"]")
		}
	}
	w.WriteByte(0)

	last := len(t.Handlers) - 1
	for i := range t.Handlers {
		if err := codec.EncodeRecord(w, ctx.WithFlag(codec.KeyLast, i == last), &t.Handlers[i], l.handlers[i]); err != nil {
			return errors.Within(err, "handlers["+strconv.Itoa(i)+"]")
		}
	}
	return w.Err()
}
