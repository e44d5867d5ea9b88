package bitstream

import (
	"errors"
	"testing"

	swferrors "github.com/wippyai/swfkit/errors"
)

func TestRegionExactLength(t *testing.T) {
	r := NewReader([]byte{1, 2, 3, 4})
	rg := r.Mark(3)
	if _, err := r.ReadBytes(3); err != nil {
		t.Fatal(err)
	}
	if rg.Remaining() != 0 {
		t.Errorf("Remaining: got %d, want 0", rg.Remaining())
	}
	if err := rg.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
	if r.Depth() != 0 {
		t.Errorf("Depth after Close: got %d, want 0", r.Depth())
	}
	if err := rg.Close(); err != nil {
		t.Errorf("second Close should be a no-op, got %v", err)
	}
}

func TestRegionMismatch(t *testing.T) {
	r := NewReader([]byte{1, 2, 3, 4})
	rg := r.Mark(3)
	if _, err := r.ReadUint16(); err != nil {
		t.Fatal(err)
	}
	err := rg.Close()
	if !isKind(err, swferrors.PhaseDecode, swferrors.KindLengthMismatch) {
		t.Fatalf("under-read: got %v, want length mismatch", err)
	}

	w := NewWriter()
	wrg := w.Mark(1)
	w.WriteUint16(7)
	if err := wrg.Close(); !isKind(err, swferrors.PhaseEncode, swferrors.KindLengthMismatch) {
		t.Errorf("over-write: got %v, want encode length mismatch", err)
	}
}

func TestRegionCountsPartialByte(t *testing.T) {
	w := NewWriter()
	rg := w.Mark(1)
	w.WriteUBits(3, 2)
	if err := rg.Close(); err != nil {
		t.Errorf("partial byte should count as one byte: %v", err)
	}
}

func TestRegionNesting(t *testing.T) {
	r := NewReader([]byte{1, 2, 3, 4, 5})
	outer := r.Mark(5)
	if _, err := r.ReadByte(); err != nil {
		t.Fatal(err)
	}
	inner := r.Mark(2)
	if r.Remaining() != 2 {
		t.Errorf("Remaining inside inner region: got %d, want 2", r.Remaining())
	}
	if _, err := r.ReadUint16(); err != nil {
		t.Fatal(err)
	}
	if err := inner.Close(); err != nil {
		t.Fatalf("inner Close: %v", err)
	}
	if r.Remaining() != 2 {
		t.Errorf("Remaining inside outer region: got %d, want 2", r.Remaining())
	}
	if err := r.Skip(2); err != nil {
		t.Fatal(err)
	}
	if err := outer.Close(); err != nil {
		t.Errorf("outer Close: %v", err)
	}
}

func TestRegionClosedOutOfOrder(t *testing.T) {
	r := NewReader([]byte{1, 2})
	outer := r.Mark(0)
	r.Mark(0)

	err := outer.Close()
	if !isKind(err, swferrors.PhaseDecode, swferrors.KindInvalidInput) {
		t.Errorf("got %v, want invalid input", err)
	}
	if r.Depth() != 0 {
		t.Errorf("abandoned regions should be discarded, depth %d", r.Depth())
	}
}

func TestRegionDrain(t *testing.T) {
	r := NewReader([]byte{1, 2, 3, 4})
	rg := r.Mark(3)
	if _, err := r.ReadByte(); err != nil {
		t.Fatal(err)
	}
	if err := rg.Drain(); err != nil {
		t.Fatal(err)
	}
	if err := rg.Close(); err != nil {
		t.Errorf("Close after Drain: %v", err)
	}
	b, _ := r.ReadByte()
	if b != 4 {
		t.Errorf("next byte: got %d, want 4", b)
	}
}

func TestWithinPrefersCallbackError(t *testing.T) {
	boom := errors.New("boom")
	r := NewReader([]byte{1, 2, 3})

	err := Within(r, 3, func() error {
		_, _ = r.ReadByte()
		return boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("got %v, want callback error", err)
	}
	if r.Depth() != 0 {
		t.Errorf("region left open after error, depth %d", r.Depth())
	}

	r = NewReader([]byte{1, 2, 3})
	err = Within(r, 3, func() error {
		_, err := r.ReadByte()
		return err
	})
	if !isKind(err, swferrors.PhaseDecode, swferrors.KindLengthMismatch) {
		t.Errorf("got %v, want length mismatch", err)
	}
}
