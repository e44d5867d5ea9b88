package record

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/wippyai/swfkit/codec"
	swferrors "github.com/wippyai/swfkit/errors"
)

func TestActionListBytes(t *testing.T) {
	list := ActionList{&GotoFrame{Frame: 5}, &BasicAction{ID: ActionPlay}}
	data := marshal(t, codec.NewContext(10), &list)
	want := []byte{0x81, 0x02, 0x00, 0x05, 0x00, 0x06, 0x00}
	if !bytes.Equal(data, want) {
		t.Fatalf("got %x, want %x", data, want)
	}
}

func TestActionListRoundTrip(t *testing.T) {
	list := ActionList{
		&GotoLabel{Label: "intro"},
		&GetURL{URL: "http://example.com/", Target: "_blank"},
		&SetTarget{Target: "/clip"},
		&Jump{Offset: -12},
		&If{Offset: 7},
		&BasicAction{ID: ActionStop},
		&BasicAction{ID: 0x30},
	}
	ctx := codec.NewContext(10)
	data := marshal(t, ctx, &list)

	var got ActionList
	if err := codec.Unmarshal(data, ctx, &got); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, list) {
		t.Errorf("got %#v, want %#v", got, list)
	}
}

func TestUnknownActionKeepsBytes(t *testing.T) {
	data := []byte{0xAA, 0x03, 0x00, 0x01, 0x02, 0x03, 0x07, 0x00}
	ctx := codec.NewContext(10)

	var list ActionList
	if err := codec.Unmarshal(data, ctx, &list); err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Fatalf("decoded %d actions, want 2", len(list))
	}
	u, ok := list[0].(*UnknownAction)
	if !ok {
		t.Fatalf("got %T, want *UnknownAction", list[0])
	}
	if u.Code() != 0xAA || !bytes.Equal(u.Data, []byte{1, 2, 3}) {
		t.Errorf("got code %#x data %x", u.Code(), u.Data)
	}
	if Actions.Name(ActionStop) != "Stop" {
		t.Errorf("Name: got %q", Actions.Name(ActionStop))
	}

	if again := marshal(t, ctx, &list); !bytes.Equal(again, data) {
		t.Errorf("re-encoded: got %x, want %x", again, data)
	}
}

func TestActionListRejects(t *testing.T) {
	tests := []struct {
		name string
		list ActionList
		kind swferrors.Kind
	}{
		{"end code", ActionList{&BasicAction{ID: ActionEnd}}, swferrors.KindInvalidInput},
		{"short action with body", ActionList{&UnknownAction{Opaque: codec.Opaque{ID: 0x10, Data: []byte{1}}}}, swferrors.KindInvalidInput},
		{"oversized body", ActionList{&UnknownAction{Opaque: codec.Opaque{ID: 0xF0, Data: make([]byte, 0x10000)}}}, swferrors.KindOverflow},
	}
	for _, tt := range tests {
		_, err := tt.list.Prepare(codec.NewContext(10))
		if !isKind(err, swferrors.PhaseEncode, tt.kind) {
			t.Errorf("%s: got %v, want %s", tt.name, err, tt.kind)
		}
	}
}

func TestActionListTruncated(t *testing.T) {
	var list ActionList
	err := codec.Unmarshal([]byte{0x81, 0x02, 0x00, 0x05}, codec.NewContext(10), &list)
	if err == nil {
		t.Fatal("truncated action body should fail")
	}
}
