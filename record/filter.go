package record

import (
	"go.uber.org/zap"

	"github.com/wippyai/swfkit/bitstream"
	"github.com/wippyai/swfkit/codec"
	"github.com/wippyai/swfkit/errors"
)

// Filter is a bitmap filter applied to a display object. Filters carry no
// length on the wire, so an unregistered filter keeps everything that
// follows it in the enclosing region.
type Filter interface {
	codec.Coded
}

// Filters is the filter registry.
var Filters = codec.NewRegistry[Filter]("filter")

// Filter IDs.
const (
	FilterDropShadow    = 0
	FilterBlur          = 1
	FilterGlow          = 2
	FilterBevel         = 3
	FilterGradientGlow  = 4
	FilterConvolution   = 5
	FilterColorMatrix   = 6
	FilterGradientBevel = 7
)

func init() {
	Filters.MustRegister(FilterBlur, "Blur", func() Filter { return &BlurFilter{} })
	Filters.MustRegister(FilterGlow, "Glow", func() Filter { return &GlowFilter{} })
	Filters.MustRegister(FilterColorMatrix, "ColorMatrix", func() Filter { return &ColorMatrixFilter{} })
	Filters.SetFallback(func(code uint16, length int) Filter {
		return &UnknownFilter{Opaque: *codec.NewOpaque(code, length)}
	})
}

const maxPasses = 1<<5 - 1

func checkPasses(record string, passes uint8) error {
	if passes > maxPasses {
		return errors.Overflow(errors.PhaseEncode, []string{record, "passes"}, passes, 5)
	}
	return nil
}

// BlurFilter is a box blur. BlurX and BlurY are 16.16 fixed point.
type BlurFilter struct {
	BlurX, BlurY int32
	Passes       uint8
}

// Code implements codec.Coded.
func (f *BlurFilter) Code() uint16 { return FilterBlur }

// Decode implements codec.Decoder.
func (f *BlurFilter) Decode(r *bitstream.Reader, _ codec.Context) error {
	var err error
	if f.BlurX, err = r.ReadInt32(); err != nil {
		return err
	}
	if f.BlurY, err = r.ReadInt32(); err != nil {
		return err
	}
	passes, err := r.ReadUBits(5)
	if err != nil {
		return err
	}
	f.Passes = uint8(passes)
	_, err = r.ReadUBits(3)
	return err
}

// Prepare implements codec.Encoder.
func (f *BlurFilter) Prepare(codec.Context) (codec.Layout, error) {
	if err := checkPasses("Blur", f.Passes); err != nil {
		return nil, err
	}
	return codec.Size(9), nil
}

// Encode implements codec.Encoder.
func (f *BlurFilter) Encode(w *bitstream.Writer, _ codec.Context, _ codec.Layout) error {
	w.WriteInt32(f.BlurX)
	w.WriteInt32(f.BlurY)
	w.WriteUBits(uint32(f.Passes), 5)
	w.WriteUBits(0, 3)
	return w.Err()
}

// GlowFilter draws a colored glow. Strength is 8.8 fixed point.
type GlowFilter struct {
	Color        Color
	BlurX, BlurY int32
	Strength     int16
	Inner        bool
	Knockout     bool
	Composite    bool
	Passes       uint8
}

// Code implements codec.Coded.
func (f *GlowFilter) Code() uint16 { return FilterGlow }

// Decode implements codec.Decoder.
func (f *GlowFilter) Decode(r *bitstream.Reader, ctx codec.Context) error {
	var err error
	if err = f.Color.Decode(r, ctx.With(codec.KeyTransparent, 1)); err != nil {
		return err
	}
	if f.BlurX, err = r.ReadInt32(); err != nil {
		return err
	}
	if f.BlurY, err = r.ReadInt32(); err != nil {
		return err
	}
	if f.Strength, err = r.ReadInt16(); err != nil {
		return err
	}
	if f.Inner, err = r.ReadBool(); err != nil {
		return err
	}
	if f.Knockout, err = r.ReadBool(); err != nil {
		return err
	}
	if f.Composite, err = r.ReadBool(); err != nil {
		return err
	}
	passes, err := r.ReadUBits(5)
	f.Passes = uint8(passes)
	return err
}

// Prepare implements codec.Encoder.
func (f *GlowFilter) Prepare(codec.Context) (codec.Layout, error) {
	if err := checkPasses("Glow", f.Passes); err != nil {
		return nil, err
	}
	return codec.Size(15), nil
}

// Encode implements codec.Encoder.
func (f *GlowFilter) Encode(w *bitstream.Writer, ctx codec.Context, _ codec.Layout) error {
	if err := f.Color.Encode(w, ctx.With(codec.KeyTransparent, 1), codec.Size(4)); err != nil {
		return err
	}
	w.WriteInt32(f.BlurX)
	w.WriteInt32(f.BlurY)
	w.WriteInt16(f.Strength)
	w.WriteBool(f.Inner)
	w.WriteBool(f.Knockout)
	w.WriteBool(f.Composite)
	w.WriteUBits(uint32(f.Passes), 5)
	return w.Err()
}

// ColorMatrixFilter applies a 4x5 color matrix in row-major order.
type ColorMatrixFilter struct {
	Matrix [20]float32
}

// Code implements codec.Coded.
func (f *ColorMatrixFilter) Code() uint16 { return FilterColorMatrix }

// Decode implements codec.Decoder.
func (f *ColorMatrixFilter) Decode(r *bitstream.Reader, _ codec.Context) error {
	for i := range f.Matrix {
		v, err := r.ReadFloat32()
		if err != nil {
			return err
		}
		f.Matrix[i] = v
	}
	return nil
}

// Prepare implements codec.Encoder.
func (f *ColorMatrixFilter) Prepare(codec.Context) (codec.Layout, error) {
	return codec.Size(4 * len(f.Matrix)), nil
}

// Encode implements codec.Encoder.
func (f *ColorMatrixFilter) Encode(w *bitstream.Writer, _ codec.Context, _ codec.Layout) error {
	for _, v := range f.Matrix {
		w.WriteFloat32(v)
	}
	return w.Err()
}

// UnknownFilter holds the raw bytes of an unregistered filter and of
// everything after it in the enclosing region. Following counts the
// filters of the enclosing list that those bytes contain.
type UnknownFilter struct {
	codec.Opaque
	Following int
}

// FilterList is a count-prefixed sequence of filters.
type FilterList []Filter

// Decode implements codec.Decoder.
func (l *FilterList) Decode(r *bitstream.Reader, ctx codec.Context) error {
	count, err := r.ReadByte()
	if err != nil {
		return err
	}
	*l = make(FilterList, 0, count)
	for i := 0; i < int(count); i++ {
		id, err := r.ReadByte()
		if err != nil {
			return err
		}
		f, err := Filters.Resolve(uint16(id), r.Remaining())
		if err != nil {
			return err
		}
		if err := f.Decode(r, ctx); err != nil {
			return errors.Within(err, Filters.Name(uint16(id)))
		}
		r.AlignToByte()
		*l = append(*l, f)
		if u, ok := f.(*UnknownFilter); ok {
			u.Following = int(count) - i - 1
			codec.Logger().Debug("unknown filter retains rest of region",
				zap.Uint8("id", id),
				zap.Int("bytes", len(u.Data)),
				zap.Int("following", u.Following))
			return nil
		}
	}
	return nil
}

// Prepare implements codec.Encoder.
func (l *FilterList) Prepare(ctx codec.Context) (codec.Layout, error) {
	count := len(*l)
	ll := &listLayout{items: make([]codec.Layout, count), size: 1}
	for i, f := range *l {
		if f.Code() > 0xFF {
			return nil, errors.Overflow(errors.PhaseEncode, []string{"FilterList", "id"}, f.Code(), 8)
		}
		if u, ok := f.(*UnknownFilter); ok {
			if i != len(*l)-1 {
				return nil, errors.InvalidInput(errors.PhaseEncode, "unknown filter must be the last in its list")
			}
			count += u.Following
		}
		fl, err := f.Prepare(ctx)
		if err != nil {
			return nil, errors.Within(err, Filters.Name(f.Code()))
		}
		ll.items[i] = fl
		ll.size += 1 + fl.Len()
	}
	if count > 0xFF {
		return nil, errors.Overflow(errors.PhaseEncode, []string{"FilterList", "count"}, count, 8)
	}
	return ll, nil
}

// Encode implements codec.Encoder.
func (l *FilterList) Encode(w *bitstream.Writer, ctx codec.Context, lay codec.Layout) error {
	ll, err := codec.LayoutAs[*listLayout](lay, "FilterList")
	if err != nil {
		return err
	}
	count := len(*l)
	if n := count; n > 0 {
		if u, ok := (*l)[n-1].(*UnknownFilter); ok {
			count += u.Following
		}
	}
	w.WriteByte(byte(count))
	for i, f := range *l {
		w.WriteByte(byte(f.Code()))
		if err := codec.EncodeRecord(w, ctx, f, ll.items[i]); err != nil {
			return errors.Within(err, Filters.Name(f.Code()))
		}
	}
	return w.Err()
}
