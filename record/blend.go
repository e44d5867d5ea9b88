package record

import (
	"strconv"

	"github.com/wippyai/swfkit/bitstream"
	"github.com/wippyai/swfkit/errors"
)

// BlendMode selects how a display object is composited. It is encoded as
// one byte; 0 and 1 both mean normal.
type BlendMode uint8

const (
	BlendNormal0 BlendMode = iota
	BlendNormal
	BlendLayer
	BlendMultiply
	BlendScreen
	BlendLighten
	BlendDarken
	BlendDifference
	BlendAdd
	BlendSubtract
	BlendInvert
	BlendAlpha
	BlendErase
	BlendOverlay
	BlendHardlight
	numBlendModes
)

var blendNames = [numBlendModes]string{
	"normal", "normal", "layer", "multiply", "screen", "lighten", "darken",
	"difference", "add", "subtract", "invert", "alpha", "erase", "overlay",
	"hardlight",
}

func (m BlendMode) String() string {
	if m < numBlendModes {
		return blendNames[m]
	}
	return "blend(" + strconv.Itoa(int(m)) + ")"
}

// Valid reports whether m is a defined mode.
func (m BlendMode) Valid() bool {
	return m < numBlendModes
}

// ReadBlendMode reads a blend mode byte.
func ReadBlendMode(r *bitstream.Reader) (BlendMode, error) {
	off := r.Offset()
	b, err := r.ReadByte()
	if err != nil {
		return 0, err
	}
	m := BlendMode(b)
	if !m.Valid() {
		return 0, errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Offset(off).
			Value(b).
			Detail("unknown blend mode %d", b).
			Build()
	}
	return m, nil
}

// Write writes m as one byte. Callers validate m while preparing.
func (m BlendMode) Write(w *bitstream.Writer) {
	w.WriteByte(byte(m))
}
