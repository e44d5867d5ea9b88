package codec

import (
	"sync"
	"testing"

	swferrors "github.com/wippyai/swfkit/errors"
)

func TestRegistryRegisterAndResolve(t *testing.T) {
	reg := testRegistry()

	tag, err := reg.Resolve(9, 0)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := tag.(*chainTag); !ok {
		t.Errorf("Resolve(9): got %T, want *chainTag", tag)
	}

	a, _ := reg.Resolve(9, 0)
	b, _ := reg.Resolve(9, 0)
	if a == b {
		t.Error("Resolve should return a fresh record each time")
	}

	if reg.Name(5) != "Fixed" {
		t.Errorf("Name(5): got %q", reg.Name(5))
	}
	if reg.Name(99) != "tag(99)" {
		t.Errorf("Name(99): got %q", reg.Name(99))
	}

	codes := reg.Codes()
	want := []uint16{0, 1, 5, 9}
	if len(codes) != len(want) {
		t.Fatalf("Codes: got %v, want %v", codes, want)
	}
	for i := range want {
		if codes[i] != want[i] {
			t.Errorf("Codes[%d]: got %d, want %d", i, codes[i], want[i])
		}
	}
}

func TestRegistryDuplicate(t *testing.T) {
	reg := testRegistry()
	err := reg.Register(5, "Again", func() Tag { return &fixedTag{} })
	if !isKind(err, swferrors.PhaseRegister, swferrors.KindRegistration) {
		t.Errorf("got %v, want registration error", err)
	}

	defer func() {
		if recover() == nil {
			t.Error("MustRegister should panic on duplicate")
		}
	}()
	reg.MustRegister(5, "Again", func() Tag { return &fixedTag{} })
}

func TestRegistryNilFactory(t *testing.T) {
	reg := NewRegistry[Tag]("tag")
	if err := reg.Register(1, "x", nil); err == nil {
		t.Error("nil factory should be rejected")
	}
}

func TestRegistryFallback(t *testing.T) {
	reg := testRegistry()
	tag, err := reg.Resolve(600, 4)
	if err != nil {
		t.Fatal(err)
	}
	u, ok := tag.(*UnknownTag)
	if !ok {
		t.Fatalf("got %T, want *UnknownTag", tag)
	}
	if u.Code() != 600 {
		t.Errorf("Code: got %d, want 600", u.Code())
	}

	bare := NewRegistry[Tag]("tag")
	_, err = bare.Resolve(600, 4)
	if !isKind(err, swferrors.PhaseDecode, swferrors.KindUnsupported) {
		t.Errorf("without fallback: got %v, want unsupported", err)
	}
}

func TestRegistryConcurrentLookup(t *testing.T) {
	reg := testRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if _, ok := reg.Lookup(9); !ok {
					t.Error("Lookup(9) failed")
					return
				}
				_ = reg.Name(uint16(j))
			}
		}()
	}
	wg.Wait()
}
