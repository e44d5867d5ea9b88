package codec

import (
	"bytes"
	"testing"

	"golang.org/x/text/encoding/charmap"
)

func TestContextWithWithout(t *testing.T) {
	ctx := NewContext(8)
	if ctx.Version() != 8 {
		t.Errorf("Version: got %d, want 8", ctx.Version())
	}
	if ctx.Has(KeyTransparent) {
		t.Error("fresh context should not have transparent set")
	}

	child := ctx.With(KeyTransparent, 1).With(KeyFillBits, 3)
	if !child.Flag(KeyTransparent) {
		t.Error("child should have transparent flag")
	}
	if v, ok := child.Get(KeyFillBits); !ok || v != 3 {
		t.Errorf("Get(fill_bits): got %d, %v", v, ok)
	}
	if ctx.Has(KeyTransparent) || ctx.Has(KeyFillBits) {
		t.Error("deriving a child must not modify the parent")
	}

	cleared := child.Without(KeyTransparent)
	if cleared.Has(KeyTransparent) {
		t.Error("Without should remove the key")
	}
	if !child.Has(KeyTransparent) {
		t.Error("Without must not modify the receiver")
	}
}

func TestContextZeroValueIsSetButNotFlag(t *testing.T) {
	ctx := Context{}.With(KeyLineBits, 0)
	if !ctx.Has(KeyLineBits) {
		t.Error("a zero value is still set")
	}
	if ctx.Flag(KeyLineBits) {
		t.Error("a zero value is not a flag")
	}
	if ctx.WithFlag(KeyLast, false).Has(KeyLast) {
		t.Error("WithFlag(false) should leave the key unset")
	}
}

func TestContextKeys(t *testing.T) {
	ctx := NewContext(6).With(KeyLast, 1).With(KeyParent, 34)
	keys := ctx.Keys()
	want := []Key{KeyParent, KeyVersion, KeyLast}
	if len(keys) != len(want) {
		t.Fatalf("Keys: got %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("Keys[%d]: got %v, want %v", i, keys[i], want[i])
		}
	}
	if KeyWideCodes.String() != "wide_codes" {
		t.Errorf("String: got %q", KeyWideCodes.String())
	}
	if Key(200).String() != "key(200)" {
		t.Errorf("String for unknown key: got %q", Key(200).String())
	}
	if ctx.With(Key(200), 1) != ctx {
		t.Error("unknown keys should be ignored")
	}
}

func TestContextCharset(t *testing.T) {
	ctx := NewContext(5)
	got, err := ctx.EncodeString("café")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, []byte("café")) {
		t.Errorf("UTF-8: got %x", got)
	}

	legacy := ctx.WithCharset(charmap.Windows1252)
	got, err = legacy.EncodeString("café")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, []byte{'c', 'a', 'f', 0xE9}) {
		t.Errorf("windows-1252: got %x", got)
	}
	if ctx.Charset() != nil {
		t.Error("WithCharset must not modify the receiver")
	}
}
