package bitstream

import (
	"github.com/wippyai/swfkit/errors"
)

type regionOwner interface {
	Offset() int
	stack() *[]*Region
}

// Marker is implemented by Reader and Writer.
type Marker interface {
	Offset() int
	Mark(declared int) *Region
}

// Region is a length-checked span of the stream. It is opened by Mark and
// verified by Close, which asserts that exactly the declared number of
// bytes were consumed (or produced) since the region was opened.
type Region struct {
	owner    regionOwner
	phase    errors.Phase
	base     int
	declared int
	closed   bool
}

// Declared returns the length the region was opened with.
func (rg *Region) Declared() int {
	return rg.declared
}

// Start returns the byte offset at which the region was opened.
func (rg *Region) Start() int {
	return rg.base
}

// Consumed returns the bytes processed since the region was opened.
func (rg *Region) Consumed() int {
	return rg.owner.Offset() - rg.base
}

// Remaining returns the declared bytes not yet processed. It is negative
// after an over-read.
func (rg *Region) Remaining() int {
	return rg.declared - rg.Consumed()
}

// Close pops the region and verifies its length. Closing an already closed
// region is a no-op.
func (rg *Region) Close() error {
	if rg.closed {
		return nil
	}
	rg.closed = true

	// Regions opened after this one and abandoned by an early return are
	// discarded along with it.
	st := rg.owner.stack()
	idx := -1
	for i := len(*st) - 1; i >= 0; i-- {
		if (*st)[i] == rg {
			idx = i
			break
		}
	}
	if idx < 0 {
		return errors.New(rg.phase, errors.KindInvalidInput).
			Offset(rg.owner.Offset()).
			Detail("region is not open").
			Build()
	}
	nested := len(*st) - 1 - idx
	for _, inner := range (*st)[idx+1:] {
		inner.closed = true
	}
	*st = (*st)[:idx]
	if nested > 0 {
		return errors.New(rg.phase, errors.KindInvalidInput).
			Offset(rg.owner.Offset()).
			Detail("region closed with %d nested regions open", nested).
			Build()
	}

	if got := rg.Consumed(); got != rg.declared {
		return errors.LengthMismatch(rg.phase, rg.base, rg.declared, got)
	}
	return nil
}

// Drain discards the unread remainder of a decode region so the stream is
// positioned at its declared end. It does nothing for encode regions or
// when the region has been over-read.
func (rg *Region) Drain() error {
	r, ok := rg.owner.(*Reader)
	if !ok {
		return nil
	}
	if rem := rg.Remaining(); rem > 0 {
		return r.Skip(rem)
	}
	r.AlignToByte()
	return nil
}

// Within opens a region of declared bytes, runs fn and closes the region.
// An error from fn takes precedence over a length mismatch.
func Within(m Marker, declared int, fn func() error) error {
	rg := m.Mark(declared)
	err := fn()
	if cerr := rg.Close(); err == nil {
		err = cerr
	}
	return err
}
