package record

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/wippyai/swfkit/codec"
	swferrors "github.com/wippyai/swfkit/errors"
)

func TestBlurFilterBytes(t *testing.T) {
	list := FilterList{&BlurFilter{BlurX: ToFixed(4), BlurY: ToFixed(4), Passes: 1}}
	data := marshal(t, codec.NewContext(10), &list)
	want := []byte{
		0x01,
		FilterBlur,
		0x00, 0x00, 0x04, 0x00,
		0x00, 0x00, 0x04, 0x00,
		0x08,
	}
	if !bytes.Equal(data, want) {
		t.Errorf("got %x, want %x", data, want)
	}
}

func TestFilterListRoundTrip(t *testing.T) {
	var cm ColorMatrixFilter
	for i := 0; i < 20; i += 6 {
		cm.Matrix[i] = 1
	}
	cm.Matrix[4] = -0.25

	list := FilterList{
		&BlurFilter{BlurX: ToFixed(2), BlurY: ToFixed(8), Passes: 3},
		&GlowFilter{
			Color:     Color{R: 255, G: 128, B: 0, A: 200},
			BlurX:     ToFixed(6),
			BlurY:     ToFixed(6),
			Strength:  0x0180,
			Knockout:  true,
			Composite: true,
			Passes:    2,
		},
		&cm,
	}
	ctx := codec.NewContext(10)
	data := marshal(t, ctx, &list)
	if len(data) != 1+(1+9)+(1+15)+(1+80) {
		t.Errorf("size: got %d", len(data))
	}

	var got FilterList
	if err := codec.Unmarshal(data, ctx, &got); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, list) {
		t.Errorf("got %#v, want %#v", got, list)
	}
}

func TestUnknownFilterRetainsRegion(t *testing.T) {
	// Two filters declared; the first is a bevel, which is not registered.
	data := []byte{0x02, FilterBevel, 0xAA, 0xBB, 0xCC, 0xDD}
	ctx := codec.NewContext(10)

	var list FilterList
	if err := codec.Unmarshal(data, ctx, &list); err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 {
		t.Fatalf("decoded %d filters, want 1", len(list))
	}
	u, ok := list[0].(*UnknownFilter)
	if !ok {
		t.Fatalf("got %T, want *UnknownFilter", list[0])
	}
	if u.Code() != FilterBevel || !bytes.Equal(u.Data, []byte{0xAA, 0xBB, 0xCC, 0xDD}) || u.Following != 1 {
		t.Errorf("got code %d data %x following %d", u.Code(), u.Data, u.Following)
	}

	if again := marshal(t, ctx, &list); !bytes.Equal(again, data) {
		t.Errorf("re-encoded: got %x, want %x", again, data)
	}
}

func TestUnknownFilterAfterKnown(t *testing.T) {
	blur := FilterList{&BlurFilter{Passes: 1}}
	known := marshal(t, codec.NewContext(10), &blur)
	data := append([]byte{0x02}, known[1:]...)
	data = append(data, FilterDropShadow, 0xEE)

	var list FilterList
	if err := codec.Unmarshal(data, codec.NewContext(10), &list); err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Fatalf("decoded %d filters, want 2", len(list))
	}
	if u := list[1].(*UnknownFilter); u.Following != 0 || !bytes.Equal(u.Data, []byte{0xEE}) {
		t.Errorf("unknown filter: %+v", u)
	}
	if again := marshal(t, codec.NewContext(10), &list); !bytes.Equal(again, data) {
		t.Errorf("re-encoded: got %x, want %x", again, data)
	}
}

func TestFilterPassesOverflow(t *testing.T) {
	list := FilterList{&BlurFilter{Passes: 32}}
	_, err := list.Prepare(codec.NewContext(10))
	if !isKind(err, swferrors.PhaseEncode, swferrors.KindOverflow) {
		t.Errorf("got %v, want overflow", err)
	}
}
