package codec

import (
	"bytes"
	"testing"

	"github.com/wippyai/swfkit/bitstream"
	swferrors "github.com/wippyai/swfkit/errors"
)

func TestHeaderFormSelection(t *testing.T) {
	tests := []struct {
		length  int
		wantLen int
	}{
		{0, 2},
		{1, 2},
		{ShortLengthMax, 2},
		{ShortLengthMax + 1, 6},
		{65, 6},
		{1 << 20, 6},
	}

	for _, tt := range tests {
		w := bitstream.NewWriter()
		if err := WriteHeader(w, Header{Code: 12, Length: tt.length}); err != nil {
			t.Fatalf("WriteHeader(%d): %v", tt.length, err)
		}
		data := w.Bytes()
		if len(data) != tt.wantLen {
			t.Errorf("length %d: header is %d bytes, want %d", tt.length, len(data), tt.wantLen)
		}

		h, err := ReadHeader(bitstream.NewReader(data))
		if err != nil {
			t.Fatalf("ReadHeader(%d): %v", tt.length, err)
		}
		if h.Code != 12 || h.Length != tt.length {
			t.Errorf("decoded header: got code %d length %d, want 12 %d", h.Code, h.Length, tt.length)
		}
		if h.Long != (tt.wantLen == 6) {
			t.Errorf("length %d: Long = %v", tt.length, h.Long)
		}
	}
}

func TestExtendedHeaderFor65ByteBody(t *testing.T) {
	body := bytes.Repeat([]byte{0xAB}, 65)
	w := bitstream.NewWriter()
	if err := EncodeTag(w, NewContext(10), &blobTag{code: 1, data: body}); err != nil {
		t.Fatal(err)
	}
	data := w.Bytes()

	want := []byte{0x7F, 0x00, 65, 0, 0, 0}
	if !bytes.Equal(data[:6], want) {
		t.Fatalf("header: got %x, want %x", data[:6], want)
	}
	if len(data) != 6+65 {
		t.Errorf("total: got %d bytes, want 71", len(data))
	}

	h, err := ReadHeader(bitstream.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if h.Length != 65 || !h.Long {
		t.Errorf("got %+v, want long header with length 65", h)
	}
}

func TestWriteHeaderRejectsLargeCode(t *testing.T) {
	err := WriteHeader(bitstream.NewWriter(), Header{Code: MaxCode + 1})
	if !isKind(err, swferrors.PhaseEncode, swferrors.KindOverflow) {
		t.Errorf("got %v, want overflow", err)
	}
}

func TestLongFormPreservedOnRoundTrip(t *testing.T) {
	// ShowFrame with an empty body framed in the extended form.
	data := []byte{0x7F, 0x00, 0, 0, 0, 0}
	reg := testRegistry()
	r := bitstream.NewReader(data)
	tag, err := DecodeTag(r, NewContext(10), reg)
	if err != nil {
		t.Fatal(err)
	}
	hf, ok := tag.(HeaderForm)
	if !ok || !hf.LongHeader() {
		t.Fatal("decoded tag should remember the extended form")
	}

	w := bitstream.NewWriter()
	if err := EncodeTag(w, NewContext(10), tag); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(w.Bytes(), data) {
		t.Errorf("re-encoded: got %x, want %x", w.Bytes(), data)
	}
}

func TestDecodeTagUnknownCodeIsOpaque(t *testing.T) {
	// Code 700 with a 3 byte body, followed by End.
	word := uint16(700)<<6 | 3
	data := []byte{byte(word), byte(word >> 8), 0xDE, 0xAD, 0xBE, 0x00, 0x00}

	reg := testRegistry()
	r := bitstream.NewReader(data)
	tag, err := DecodeTag(r, NewContext(10), reg)
	if err != nil {
		t.Fatal(err)
	}
	u, ok := tag.(*UnknownTag)
	if !ok {
		t.Fatalf("got %T, want *UnknownTag", tag)
	}
	if u.Code() != 700 || !bytes.Equal(u.Data, []byte{0xDE, 0xAD, 0xBE}) {
		t.Errorf("got code %d data %x", u.Code(), u.Data)
	}

	w := bitstream.NewWriter()
	if err := EncodeTag(w, NewContext(10), u); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(w.Bytes(), data[:5]) {
		t.Errorf("re-encoded: got %x, want %x", w.Bytes(), data[:5])
	}
}

func TestDecodeTagStrictUnderRead(t *testing.T) {
	word := uint16(5)<<6 | 3
	data := []byte{byte(word), byte(word >> 8), 1, 2, 3, 0x40, 0x00}

	_, err := DecodeTag(bitstream.NewReader(data), NewContext(10), testRegistry())
	if !isKind(err, swferrors.PhaseDecode, swferrors.KindLengthMismatch) {
		t.Fatalf("strict: got %v, want length mismatch", err)
	}

	r := bitstream.NewReader(data)
	ctx := NewContext(10).With(KeyLenient, 1)
	tag, err := DecodeTag(r, ctx, testRegistry())
	if err != nil {
		t.Fatalf("lenient: %v", err)
	}
	if got := tag.(*fixedTag).data; !bytes.Equal(got, []byte{1}) {
		t.Errorf("lenient data: got %x", got)
	}
	next, err := DecodeTag(r, ctx, testRegistry())
	if err != nil {
		t.Fatalf("next tag after resync: %v", err)
	}
	if next.Code() != 1 {
		t.Errorf("next tag code: got %d, want 1", next.Code())
	}
	if r.Depth() != 0 {
		t.Errorf("regions left open: %d", r.Depth())
	}
}

func TestDecodeTagOverReadIsAlwaysFatal(t *testing.T) {
	reg := NewRegistry[Tag]("tag")
	reg.MustRegister(5, "Fixed", func() Tag { return &fixedTag{n: 3} })

	word := uint16(5)<<6 | 1
	data := []byte{byte(word), byte(word >> 8), 1, 2, 3}
	ctx := NewContext(10).With(KeyLenient, 1)
	_, err := DecodeTag(bitstream.NewReader(data), ctx, reg)
	if !isKind(err, swferrors.PhaseDecode, swferrors.KindLengthMismatch) {
		t.Errorf("got %v, want length mismatch", err)
	}
}

func TestDecodeTagTruncatedBody(t *testing.T) {
	word := uint16(1)<<6 | 10
	data := []byte{byte(word), byte(word >> 8), 1, 2}
	_, err := DecodeTag(bitstream.NewReader(data), NewContext(10), testRegistry())
	if !isKind(err, swferrors.PhaseDecode, swferrors.KindTruncated) {
		t.Errorf("got %v, want truncated", err)
	}
}

func TestEncodeTagDetectsSizeDisagreement(t *testing.T) {
	err := EncodeTag(bitstream.NewWriter(), NewContext(10), liarTag{})
	if !isKind(err, swferrors.PhaseEncode, swferrors.KindLengthMismatch) {
		t.Errorf("got %v, want encode length mismatch", err)
	}
}
