package codec

import (
	"github.com/wippyai/swfkit/bitstream"
	"github.com/wippyai/swfkit/errors"
)

// Group packs sibling signed fields at one shared bit width. The width is
// written first in a Prefix-bit field. An Optional group starts with a
// presence bit; when clear, neither the width nor the members follow.
type Group struct {
	Prefix   int
	Optional bool
}

// GroupLayout is the packing chosen for one group instance.
type GroupLayout struct {
	Width   int
	Present bool
}

// Plan chooses the minimal shared width for vals. A non-optional group is
// always present.
func (g Group) Plan(present bool, vals ...int32) (GroupLayout, error) {
	if !g.Optional {
		present = true
	}
	if !present {
		return GroupLayout{}, nil
	}
	width := bitstream.SignedWidth(vals...)
	if width >= 1<<g.Prefix {
		return GroupLayout{}, errors.Overflow(errors.PhaseEncode, []string{"width"}, width, g.Prefix)
	}
	return GroupLayout{Width: width, Present: true}, nil
}

// Bits returns the packed size in bits of a group of n members.
func (g Group) Bits(l GroupLayout, n int) int {
	bits := 0
	if g.Optional {
		bits++
	}
	if l.Present {
		bits += g.Prefix + n*l.Width
	}
	return bits
}

// Write packs vals according to l.
func (g Group) Write(w *bitstream.Writer, l GroupLayout, vals ...int32) {
	if g.Optional {
		w.WriteBool(l.Present)
	}
	if !l.Present {
		return
	}
	w.WriteUBits(uint32(l.Width), g.Prefix)
	for _, v := range vals {
		w.WriteBits(v, l.Width)
	}
}

// Read unpacks a group of n members. For an absent optional group it
// returns present == false and a nil slice; callers substitute defaults.
func (g Group) Read(r *bitstream.Reader, n int) (vals []int32, present bool, err error) {
	if g.Optional {
		if present, err = r.ReadBool(); err != nil || !present {
			return nil, false, err
		}
	}
	width, err := r.ReadUBits(g.Prefix)
	if err != nil {
		return nil, false, err
	}
	vals = make([]int32, n)
	for i := range vals {
		if vals[i], err = r.ReadBits(int(width), true); err != nil {
			return nil, false, err
		}
	}
	return vals, true, nil
}
