package record

import (
	"github.com/wippyai/swfkit/bitstream"
	"github.com/wippyai/swfkit/codec"
	"github.com/wippyai/swfkit/errors"
)

// Action is one instruction of an action list. Actions with a code below
// 0x80 have no body; longer actions carry a 16-bit body length.
type Action interface {
	codec.Coded
}

// Actions is the action registry. Unregistered codes below 0x80 decode as
// BasicAction; others are kept as UnknownAction.
var Actions = codec.NewRegistry[Action]("action")

// Action codes.
const (
	ActionEnd        = 0x00
	ActionNextFrame  = 0x04
	ActionPrevFrame  = 0x05
	ActionPlay       = 0x06
	ActionStop       = 0x07
	ActionStopSounds = 0x09
	ActionPop        = 0x17
	ActionGetVar     = 0x1C
	ActionSetVar     = 0x1D
	ActionGotoFrame  = 0x81
	ActionGetURL     = 0x83
	ActionSetTarget  = 0x8B
	ActionGotoLabel  = 0x8C
	ActionJump       = 0x99
	ActionIf         = 0x9D

	// actionHasLength is the lowest code followed by a body length.
	actionHasLength = 0x80
)

func init() {
	for code, name := range map[uint8]string{
		ActionNextFrame:  "NextFrame",
		ActionPrevFrame:  "PreviousFrame",
		ActionPlay:       "Play",
		ActionStop:       "Stop",
		ActionStopSounds: "StopSounds",
		ActionPop:        "Pop",
		ActionGetVar:     "GetVariable",
		ActionSetVar:     "SetVariable",
	} {
		Actions.MustRegister(uint16(code), name, func() Action { return &BasicAction{ID: code} })
	}
	Actions.MustRegister(ActionGotoFrame, "GotoFrame", func() Action { return &GotoFrame{} })
	Actions.MustRegister(ActionGetURL, "GetURL", func() Action { return &GetURL{} })
	Actions.MustRegister(ActionSetTarget, "SetTarget", func() Action { return &SetTarget{} })
	Actions.MustRegister(ActionGotoLabel, "GotoLabel", func() Action { return &GotoLabel{} })
	Actions.MustRegister(ActionJump, "Jump", func() Action { return &Jump{} })
	Actions.MustRegister(ActionIf, "If", func() Action { return &If{} })
	Actions.SetFallback(newFallbackAction)
}

func newFallbackAction(code uint16, length int) Action {
	if code < actionHasLength {
		return &BasicAction{ID: uint8(code)}
	}
	return &UnknownAction{Opaque: *codec.NewOpaque(code, length)}
}

// BasicAction is a single-byte action with no body.
type BasicAction struct {
	ID uint8
}

// Code implements codec.Coded.
func (a *BasicAction) Code() uint16 { return uint16(a.ID) }

// Decode implements codec.Decoder.
func (a *BasicAction) Decode(*bitstream.Reader, codec.Context) error { return nil }

// Prepare implements codec.Encoder.
func (a *BasicAction) Prepare(codec.Context) (codec.Layout, error) { return codec.Size(0), nil }

// Encode implements codec.Encoder.
func (a *BasicAction) Encode(*bitstream.Writer, codec.Context, codec.Layout) error { return nil }

// UnknownAction keeps the body of an unregistered long action.
type UnknownAction struct {
	codec.Opaque
}

// GotoFrame jumps to a frame index.
type GotoFrame struct {
	Frame uint16
}

// Code implements codec.Coded.
func (a *GotoFrame) Code() uint16 { return ActionGotoFrame }

// Decode implements codec.Decoder.
func (a *GotoFrame) Decode(r *bitstream.Reader, _ codec.Context) (err error) {
	a.Frame, err = r.ReadUint16()
	return err
}

// Prepare implements codec.Encoder.
func (a *GotoFrame) Prepare(codec.Context) (codec.Layout, error) { return codec.Size(2), nil }

// Encode implements codec.Encoder.
func (a *GotoFrame) Encode(w *bitstream.Writer, _ codec.Context, _ codec.Layout) error {
	w.WriteUint16(a.Frame)
	return w.Err()
}

// GetURL loads a URL into a target window or level.
type GetURL struct {
	URL    string
	Target string
}

// Code implements codec.Coded.
func (a *GetURL) Code() uint16 { return ActionGetURL }

// Decode implements codec.Decoder.
func (a *GetURL) Decode(r *bitstream.Reader, _ codec.Context) (err error) {
	if a.URL, err = r.ReadCString(); err != nil {
		return err
	}
	a.Target, err = r.ReadCString()
	return err
}

// Prepare implements codec.Encoder.
func (a *GetURL) Prepare(ctx codec.Context) (codec.Layout, error) {
	return prepareStrings(ctx, "GetURL", a.URL, a.Target)
}

// Encode implements codec.Encoder.
func (a *GetURL) Encode(w *bitstream.Writer, _ codec.Context, l codec.Layout) error {
	s, err := codec.LayoutAs[cstrings](l, "GetURL")
	if err != nil {
		return err
	}
	s.write(w)
	return w.Err()
}

// SetTarget changes the target of subsequent actions.
type SetTarget struct {
	Target string
}

// Code implements codec.Coded.
func (a *SetTarget) Code() uint16 { return ActionSetTarget }

// Decode implements codec.Decoder.
func (a *SetTarget) Decode(r *bitstream.Reader, _ codec.Context) (err error) {
	a.Target, err = r.ReadCString()
	return err
}

// Prepare implements codec.Encoder.
func (a *SetTarget) Prepare(ctx codec.Context) (codec.Layout, error) {
	return prepareStrings(ctx, "SetTarget", a.Target)
}

// Encode implements codec.Encoder.
func (a *SetTarget) Encode(w *bitstream.Writer, _ codec.Context, l codec.Layout) error {
	s, err := codec.LayoutAs[cstrings](l, "SetTarget")
	if err != nil {
		return err
	}
	s.write(w)
	return w.Err()
}

// GotoLabel jumps to a labelled frame.
type GotoLabel struct {
	Label string
}

// Code implements codec.Coded.
func (a *GotoLabel) Code() uint16 { return ActionGotoLabel }

// Decode implements codec.Decoder.
func (a *GotoLabel) Decode(r *bitstream.Reader, _ codec.Context) (err error) {
	a.Label, err = r.ReadCString()
	return err
}

// Prepare implements codec.Encoder.
func (a *GotoLabel) Prepare(ctx codec.Context) (codec.Layout, error) {
	return prepareStrings(ctx, "GotoLabel", a.Label)
}

// Encode implements codec.Encoder.
func (a *GotoLabel) Encode(w *bitstream.Writer, _ codec.Context, l codec.Layout) error {
	s, err := codec.LayoutAs[cstrings](l, "GotoLabel")
	if err != nil {
		return err
	}
	s.write(w)
	return w.Err()
}

// Jump branches by a signed byte offset relative to the next action.
type Jump struct {
	Offset int16
}

// Code implements codec.Coded.
func (a *Jump) Code() uint16 { return ActionJump }

// Decode implements codec.Decoder.
func (a *Jump) Decode(r *bitstream.Reader, _ codec.Context) (err error) {
	a.Offset, err = r.ReadInt16()
	return err
}

// Prepare implements codec.Encoder.
func (a *Jump) Prepare(codec.Context) (codec.Layout, error) { return codec.Size(2), nil }

// Encode implements codec.Encoder.
func (a *Jump) Encode(w *bitstream.Writer, _ codec.Context, _ codec.Layout) error {
	w.WriteInt16(a.Offset)
	return w.Err()
}

// If branches like Jump when the value on top of the stack is true.
type If struct {
	Offset int16
}

// Code implements codec.Coded.
func (a *If) Code() uint16 { return ActionIf }

// Decode implements codec.Decoder.
func (a *If) Decode(r *bitstream.Reader, _ codec.Context) (err error) {
	a.Offset, err = r.ReadInt16()
	return err
}

// Prepare implements codec.Encoder.
func (a *If) Prepare(codec.Context) (codec.Layout, error) { return codec.Size(2), nil }

// Encode implements codec.Encoder.
func (a *If) Encode(w *bitstream.Writer, _ codec.Context, _ codec.Layout) error {
	w.WriteInt16(a.Offset)
	return w.Err()
}

// ActionList is a sequence of actions terminated by an end byte.
type ActionList []Action

type listLayout struct {
	items []codec.Layout
	size  int
}

func (l *listLayout) Len() int { return l.size }

// Decode implements codec.Decoder.
func (l *ActionList) Decode(r *bitstream.Reader, ctx codec.Context) error {
	*l = (*l)[:0]
	for {
		code, err := r.ReadByte()
		if err != nil {
			return err
		}
		if code == ActionEnd {
			return nil
		}
		length := 0
		if code >= actionHasLength {
			n, err := r.ReadUint16()
			if err != nil {
				return err
			}
			length = int(n)
		}
		a, err := Actions.Resolve(uint16(code), length)
		if err != nil {
			return err
		}
		if err := codec.DecodeRecord(r, ctx, a, length); err != nil {
			return errors.Within(err, Actions.Name(uint16(code)))
		}
		*l = append(*l, a)
	}
}

// Prepare implements codec.Encoder.
func (l *ActionList) Prepare(ctx codec.Context) (codec.Layout, error) {
	ll := &listLayout{items: make([]codec.Layout, len(*l))}
	for i, a := range *l {
		code := a.Code()
		if code == ActionEnd || code > 0xFF {
			return nil, errors.New(errors.PhaseEncode, errors.KindInvalidInput).
				Record("ActionList").
				Value(code).
				Detail("action code %d at index %d", code, i).
				Build()
		}
		al, err := a.Prepare(ctx)
		if err != nil {
			return nil, errors.Within(err, Actions.Name(code))
		}
		switch {
		case code < actionHasLength && al.Len() != 0:
			return nil, errors.New(errors.PhaseEncode, errors.KindInvalidInput).
				Record(Actions.Name(code)).
				Detail("action %d cannot carry a body", code).
				Build()
		case al.Len() > 0xFFFF:
			return nil, errors.Overflow(errors.PhaseEncode, []string{Actions.Name(code), "length"}, al.Len(), 16)
		}
		ll.items[i] = al
		ll.size++
		if code >= actionHasLength {
			ll.size += 2 + al.Len()
		}
	}
	ll.size++
	return ll, nil
}

// Encode implements codec.Encoder.
func (l *ActionList) Encode(w *bitstream.Writer, ctx codec.Context, lay codec.Layout) error {
	ll, err := codec.LayoutAs[*listLayout](lay, "ActionList")
	if err != nil {
		return err
	}
	for i, a := range *l {
		code := a.Code()
		w.WriteByte(byte(code))
		if code >= actionHasLength {
			w.WriteUint16(uint16(ll.items[i].Len()))
		}
		if err := codec.EncodeRecord(w, ctx, a, ll.items[i]); err != nil {
			return errors.Within(err, Actions.Name(code))
		}
	}
	w.WriteByte(ActionEnd)
	return w.Err()
}
