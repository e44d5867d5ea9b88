package codec

import (
	"testing"

	"github.com/wippyai/swfkit/bitstream"
	swferrors "github.com/wippyai/swfkit/errors"
)

func TestPlanOffsetsDifferencesMatchLengths(t *testing.T) {
	lengths := []int{10, 0, 7, 300}

	for _, entries := range []int{len(lengths), len(lengths) + 1} {
		tbl := PlanOffsets(lengths, entries, false)
		if tbl.Wide {
			t.Errorf("entries=%d: small table should be narrow", entries)
		}
		if tbl.Offsets[0] != tbl.Size() {
			t.Errorf("entries=%d: first offset %d, want table size %d", entries, tbl.Offsets[0], tbl.Size())
		}
		for i := 0; i+1 < len(tbl.Offsets); i++ {
			if got := tbl.Offsets[i+1] - tbl.Offsets[i]; got != lengths[i] {
				t.Errorf("entries=%d: offset[%d]-offset[%d] = %d, want %d", entries, i+1, i, got, lengths[i])
			}
		}
	}
}

func TestPlanOffsetsNarrowWideBoundary(t *testing.T) {
	// Three entries: two bodies and a closing offset. Narrow table is 6 bytes.
	fits := PlanOffsets([]int{0xFFFF - 6 - 100, 100}, 3, false)
	if fits.Wide {
		t.Errorf("end offset 0xFFFF should fit narrow, got wide (%v)", fits.Offsets)
	}

	over := PlanOffsets([]int{0xFFFF - 6 - 100, 101}, 3, false)
	if !over.Wide {
		t.Errorf("end offset 0x10000 should force wide (%v)", over.Offsets)
	}
	if over.Offsets[0] != 12 {
		t.Errorf("wide table first offset: got %d, want 12", over.Offsets[0])
	}

	forced := PlanOffsets([]int{1}, 2, true)
	if !forced.Wide || forced.Size() != 8 {
		t.Errorf("requested wide: got wide=%v size=%d", forced.Wide, forced.Size())
	}
}

func TestOffsetTableRoundTrip(t *testing.T) {
	for _, wide := range []bool{false, true} {
		tbl := PlanOffsets([]int{3, 5, 2}, 3, wide)
		w := bitstream.NewWriter()
		if err := tbl.Write(w); err != nil {
			t.Fatal(err)
		}
		if len(w.Bytes()) != tbl.Size() {
			t.Errorf("wide=%v: wrote %d bytes, want %d", wide, len(w.Bytes()), tbl.Size())
		}

		got, err := ReadOffsets(bitstream.NewReader(w.Bytes()), 3, wide)
		if err != nil {
			t.Fatal(err)
		}
		spans, err := got.Spans(3, tbl.Size()+10)
		if err != nil {
			t.Fatal(err)
		}
		want := []int{3, 5, 2}
		for i := range want {
			if spans[i] != want[i] {
				t.Errorf("wide=%v: span %d = %d, want %d", wide, i, spans[i], want[i])
			}
		}
	}
}

func TestOffsetSpansWithClosingEntry(t *testing.T) {
	tbl := OffsetTable{Offsets: []int{6, 10, 12}}
	spans, err := tbl.Spans(2, 40)
	if err != nil {
		t.Fatal(err)
	}
	if spans[0] != 4 || spans[1] != 2 {
		t.Errorf("spans: got %v, want [4 2]", spans)
	}
}

func TestOffsetSpansRejectInvalid(t *testing.T) {
	tests := []struct {
		name    string
		offsets []int
		end     int
	}{
		{"points into table", []int{2, 8}, 20},
		{"decreasing", []int{4, 10, 8}, 20},
		{"past end", []int{4, 30}, 20},
	}

	for _, tt := range tests {
		tbl := OffsetTable{Offsets: tt.offsets}
		_, err := tbl.Spans(len(tt.offsets), tt.end)
		if !isKind(err, swferrors.PhaseDecode, swferrors.KindInvalidData) {
			t.Errorf("%s: got %v, want invalid data", tt.name, err)
		}
	}
}

func TestNarrowWriteOverflow(t *testing.T) {
	tbl := OffsetTable{Offsets: []int{0x10000}}
	err := tbl.Write(bitstream.NewWriter())
	if !isKind(err, swferrors.PhaseEncode, swferrors.KindOverflow) {
		t.Errorf("got %v, want overflow", err)
	}
}
