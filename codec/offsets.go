package codec

import (
	"github.com/wippyai/swfkit/bitstream"
	"github.com/wippyai/swfkit/errors"
)

const maxNarrowOffset = 0xFFFF

// OffsetTable is an index of byte offsets delimiting variable-length
// sibling sub-records. Offsets are measured from the start of the table.
type OffsetTable struct {
	Offsets []int
	Wide    bool
}

// PlanOffsets lays out entries table slots followed by bodies of the given
// lengths. entries is len(lengths), or len(lengths)+1 when the table also
// records where the last body ends. The table is narrow (16-bit) unless
// wide is requested or the last offset does not fit in 16 bits.
func PlanOffsets(lengths []int, entries int, wide bool) OffsetTable {
	t := layoutOffsets(lengths, entries, wide)
	if !wide && t.end() > maxNarrowOffset {
		t = layoutOffsets(lengths, entries, true)
	}
	return t
}

func layoutOffsets(lengths []int, entries int, wide bool) OffsetTable {
	width := 2
	if wide {
		width = 4
	}
	offsets := make([]int, entries)
	off := entries * width
	for i := range offsets {
		offsets[i] = off
		if i < len(lengths) {
			off += lengths[i]
		}
	}
	return OffsetTable{Offsets: offsets, Wide: wide}
}

func (t OffsetTable) end() int {
	if len(t.Offsets) == 0 {
		return 0
	}
	return t.Offsets[len(t.Offsets)-1]
}

// EntrySize returns the size of one table slot.
func (t OffsetTable) EntrySize() int {
	if t.Wide {
		return 4
	}
	return 2
}

// Size returns the encoded size of the table.
func (t OffsetTable) Size() int {
	return len(t.Offsets) * t.EntrySize()
}

// Write emits the table.
func (t OffsetTable) Write(w *bitstream.Writer) error {
	for _, off := range t.Offsets {
		if t.Wide {
			w.WriteUint32(uint32(off))
			continue
		}
		if off > maxNarrowOffset {
			return errors.Overflow(errors.PhaseEncode, []string{"offsets"}, off, 16)
		}
		w.WriteUint16(uint16(off))
	}
	return w.Err()
}

// ReadOffsets reads a table of n entries.
func ReadOffsets(r *bitstream.Reader, n int, wide bool) (OffsetTable, error) {
	t := OffsetTable{Offsets: make([]int, n), Wide: wide}
	for i := range t.Offsets {
		if wide {
			v, err := r.ReadUint32()
			if err != nil {
				return OffsetTable{}, err
			}
			t.Offsets[i] = int(v)
		} else {
			v, err := r.ReadUint16()
			if err != nil {
				return OffsetTable{}, err
			}
			t.Offsets[i] = int(v)
		}
	}
	return t, nil
}

// Spans returns the length of each of the first n sub-records, computed as
// successive differences. The last sub-record is measured against end when
// the table has no closing entry. Offsets that precede the table, decrease,
// or pass end are invalid.
func (t OffsetTable) Spans(n, end int) ([]int, error) {
	if n > len(t.Offsets) {
		return nil, errors.InvalidData(errors.PhaseDecode, errors.NoOffset, "offset table shorter than sub-record count")
	}
	bounds := make([]int, 0, n+1)
	bounds = append(bounds, t.Offsets[:n]...)
	if len(t.Offsets) > n {
		bounds = append(bounds, t.Offsets[n])
	} else {
		bounds = append(bounds, end)
	}

	spans := make([]int, n)
	prev := t.Size()
	for i, off := range bounds {
		if off < prev || off > end {
			return nil, errors.New(errors.PhaseDecode, errors.KindInvalidData).
				Record("OffsetTable").
				Value(off).
				Detail("offset %d outside [%d, %d]", off, prev, end).
				Build()
		}
		if i > 0 {
			spans[i-1] = off - bounds[i-1]
		}
		prev = off
	}
	return spans, nil
}
