package codec

import (
	"github.com/wippyai/swfkit/bitstream"
)

// Opaque is a record whose layout is not understood. Its body is kept
// verbatim so the containing structure re-encodes byte for byte.
type Opaque struct {
	Data   []byte
	ID     uint16
	length int
}

// NewOpaque returns an Opaque that will read length bytes when decoded.
func NewOpaque(code uint16, length int) *Opaque {
	return &Opaque{ID: code, length: length}
}

// Code implements Coded.
func (o *Opaque) Code() uint16 { return o.ID }

// Decode reads the body bytes the record was created for.
func (o *Opaque) Decode(r *bitstream.Reader, _ Context) error {
	data, err := r.ReadBytes(o.length)
	if err != nil {
		return err
	}
	o.Data = data
	return nil
}

// Prepare implements Encoder.
func (o *Opaque) Prepare(Context) (Layout, error) {
	return Size(len(o.Data)), nil
}

// Encode implements Encoder.
func (o *Opaque) Encode(w *bitstream.Writer, _ Context, _ Layout) error {
	w.WriteBytes(o.Data)
	return w.Err()
}

// UnknownTag is a framed record with an unregistered type code.
type UnknownTag struct {
	Framing
	Opaque
}

// NewUnknownTag is the tag registry fallback.
func NewUnknownTag(code uint16, length int) Tag {
	return &UnknownTag{Opaque: Opaque{ID: code, length: length}}
}

// Name implements the naming hook used in error paths.
func (t *UnknownTag) Name() string { return "UnknownTag" }
