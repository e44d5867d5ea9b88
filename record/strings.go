package record

import (
	"bytes"

	"github.com/wippyai/swfkit/bitstream"
	"github.com/wippyai/swfkit/codec"
	"github.com/wippyai/swfkit/errors"
)

// cstrings is the layout of a record made of NUL terminated strings. The
// strings are encoded once in Prepare and written verbatim by Encode.
type cstrings [][]byte

func (c cstrings) Len() int {
	n := 0
	for _, b := range c {
		n += len(b) + 1
	}
	return n
}

func (c cstrings) write(w *bitstream.Writer) {
	for _, b := range c {
		w.WriteBytes(b)
		w.WriteByte(0)
	}
}

func prepareStrings(ctx codec.Context, record string, ss ...string) (cstrings, error) {
	out := make(cstrings, len(ss))
	for i, s := range ss {
		b, err := ctx.EncodeString(s)
		if err != nil {
			return nil, errors.Within(err, record)
		}
		if bytes.IndexByte(b, 0) >= 0 {
			return nil, errors.New(errors.PhaseEncode, errors.KindInvalidInput).
				Record(record).
				Value(s).
				Detail("string contains NUL").
				Build()
		}
		out[i] = b
	}
	return out, nil
}

func checkString(path, s string) error {
	if s == "" {
		return errors.New(errors.PhaseValidate, errors.KindInvalidInput).
			Path(path).
			Detail("empty string").
			Build()
	}
	if bytes.IndexByte([]byte(s), 0) >= 0 {
		return errors.New(errors.PhaseValidate, errors.KindInvalidInput).
			Path(path).
			Value(s).
			Detail("string contains NUL").
			Build()
	}
	return nil
}
