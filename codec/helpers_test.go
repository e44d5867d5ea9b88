package codec

import (
	"errors"

	"github.com/wippyai/swfkit/bitstream"
	swferrors "github.com/wippyai/swfkit/errors"
)

func isKind(err error, phase swferrors.Phase, kind swferrors.Kind) bool {
	return errors.Is(err, &swferrors.Error{Phase: phase, Kind: kind})
}

// blobTag is a tag whose body is its data.
type blobTag struct {
	Framing
	data []byte
	code uint16
}

func (t *blobTag) Code() uint16 { return t.code }

func (t *blobTag) Decode(r *bitstream.Reader, _ Context) error {
	data, err := r.ReadBytes(r.Remaining())
	t.data = data
	return err
}

func (t *blobTag) Prepare(Context) (Layout, error) { return Size(len(t.data)), nil }

func (t *blobTag) Encode(w *bitstream.Writer, _ Context, _ Layout) error {
	w.WriteBytes(t.data)
	return w.Err()
}

// fixedTag reads a fixed number of bytes regardless of the declared length.
type fixedTag struct {
	data []byte
	n    int
}

func (t *fixedTag) Code() uint16 { return 5 }

func (t *fixedTag) Decode(r *bitstream.Reader, _ Context) error {
	data, err := r.ReadBytes(t.n)
	t.data = data
	return err
}

func (t *fixedTag) Prepare(Context) (Layout, error) { return Size(len(t.data)), nil }

func (t *fixedTag) Encode(w *bitstream.Writer, _ Context, _ Layout) error {
	w.WriteBytes(t.data)
	return w.Err()
}

// liarTag reports one more byte from Prepare than Encode writes.
type liarTag struct{}

func (liarTag) Code() uint16 { return 7 }
func (liarTag) Decode(*bitstream.Reader, Context) error { return nil }
func (liarTag) Prepare(Context) (Layout, error) { return Size(2), nil }
func (liarTag) Encode(w *bitstream.Writer, _ Context, _ Layout) error {
	w.WriteByte(1)
	return w.Err()
}

// link is one element of a chain. Non-terminal links carry a forward
// offset; the terminal link writes zero. A link with value 0xFF fails to
// encode.
type link struct {
	seenLast bool
	value    byte
}

func (l *link) Decode(r *bitstream.Reader, ctx Context) error {
	l.seenLast = ctx.Flag(KeyLast)
	if _, err := r.ReadByte(); err != nil {
		return err
	}
	v, err := r.ReadByte()
	l.value = v
	return err
}

func (l *link) Prepare(ctx Context) (Layout, error) {
	l.seenLast = ctx.Flag(KeyLast)
	return Size(2), nil
}

func (l *link) Encode(w *bitstream.Writer, ctx Context, _ Layout) error {
	if l.value == 0xFF {
		return swferrors.InvalidInput(swferrors.PhaseEncode, "poisoned link")
	}
	if ctx.Flag(KeyLast) {
		w.WriteByte(0)
	} else {
		w.WriteByte(2)
	}
	w.WriteByte(l.value)
	return w.Err()
}

// chainTag encodes its links with KeyLast set only for the final one.
type chainTag struct {
	links []*link
}

type chainLayout struct {
	items []Layout
	size  int
}

func (c *chainLayout) Len() int { return c.size }

func (t *chainTag) Code() uint16 { return 9 }

func (t *chainTag) Decode(r *bitstream.Reader, ctx Context) error {
	for {
		next, err := r.ScanByte()
		if err != nil {
			return err
		}
		l := &link{}
		if err := l.Decode(r, ctx.WithFlag(KeyLast, next == 0)); err != nil {
			return err
		}
		t.links = append(t.links, l)
		if next == 0 {
			return nil
		}
	}
}

func (t *chainTag) Prepare(ctx Context) (Layout, error) {
	cl := &chainLayout{}
	for i, l := range t.links {
		ll, err := l.Prepare(ctx.WithFlag(KeyLast, i == len(t.links)-1))
		if err != nil {
			return nil, err
		}
		cl.items = append(cl.items, ll)
		cl.size += ll.Len()
	}
	return cl, nil
}

func (t *chainTag) Encode(w *bitstream.Writer, ctx Context, l Layout) error {
	cl, err := LayoutAs[*chainLayout](l, "chain")
	if err != nil {
		return err
	}
	for i, lk := range t.links {
		if err := EncodeRecord(w, ctx.WithFlag(KeyLast, i == len(t.links)-1), lk, cl.items[i]); err != nil {
			return err
		}
	}
	return nil
}

func testRegistry() *Registry[Tag] {
	reg := NewRegistry[Tag]("tag")
	reg.MustRegister(0, "End", func() Tag { return &blobTag{code: 0} })
	reg.MustRegister(1, "ShowFrame", func() Tag { return &blobTag{code: 1} })
	reg.MustRegister(5, "Fixed", func() Tag { return &fixedTag{n: 1} })
	reg.MustRegister(9, "Chain", func() Tag { return &chainTag{} })
	reg.SetFallback(NewUnknownTag)
	return reg
}
