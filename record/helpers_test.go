package record

import (
	"errors"
	"testing"

	"github.com/wippyai/swfkit/codec"
	swferrors "github.com/wippyai/swfkit/errors"
)

func isKind(err error, phase swferrors.Phase, kind swferrors.Kind) bool {
	return errors.Is(err, &swferrors.Error{Phase: phase, Kind: kind})
}

// marshal encodes rec and checks the layout length against the output.
func marshal(t *testing.T, ctx codec.Context, rec codec.Encoder) []byte {
	t.Helper()
	l, err := rec.Prepare(ctx)
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	data, err := codec.Marshal(ctx, rec)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if len(data) != l.Len() {
		t.Fatalf("Prepare reported %d bytes, Encode wrote %d", l.Len(), len(data))
	}
	return data
}

func newCodec(t *testing.T, cfg codec.Config) *codec.Codec {
	t.Helper()
	c, err := NewCodec(cfg)
	if err != nil {
		t.Fatal(err)
	}
	return c
}
