package codec

import (
	"strconv"

	"golang.org/x/text/encoding"

	"github.com/wippyai/swfkit/bitstream"
)

// Key identifies a Context slot.
type Key uint8

const (
	KeyParent      Key = iota // tag code of the enclosing definition
	KeyTransparent            // colors carry an alpha channel
	KeyWideCodes              // character codes are 16-bit
	KeyVersion                // format version
	KeyLast                   // terminal element of a chain
	KeyFillBits               // bit width of fill style indices
	KeyLineBits               // bit width of line style indices
	KeyLenient                // framing tolerates under-read bodies
	KeyDebug                  // per-record debug logging
	numKeys
)

var keyNames = [numKeys]string{
	KeyParent:      "parent",
	KeyTransparent: "transparent",
	KeyWideCodes:   "wide_codes",
	KeyVersion:     "version",
	KeyLast:        "last",
	KeyFillBits:    "fill_bits",
	KeyLineBits:    "line_bits",
	KeyLenient:     "lenient",
	KeyDebug:       "debug",
}

func (k Key) String() string {
	if k < numKeys {
		return keyNames[k]
	}
	return "key(" + strconv.Itoa(int(k)) + ")"
}

// Context carries the configuration that steers field layout through a
// decode or encode call tree. It is a small value: a parent derives the
// context for a nested call with With and passes the copy down, so a key
// set for one child is never visible to its siblings, to the parent, or to
// a later top-level call.
//
// The context also carries the string charset so Prepare can size strings
// exactly as the writer will emit them.
type Context struct {
	charset encoding.Encoding
	vals    [numKeys]int32
	set     uint16
}

// NewContext returns a context carrying the format version.
func NewContext(version int) Context {
	return Context{}.With(KeyVersion, version)
}

// With returns a copy of c with k set to v.
func (c Context) With(k Key, v int) Context {
	if k >= numKeys {
		return c
	}
	c.vals[k] = int32(v)
	c.set |= 1 << k
	return c
}

// WithFlag returns a copy of c with k set to 1 when on, or removed.
func (c Context) WithFlag(k Key, on bool) Context {
	if on {
		return c.With(k, 1)
	}
	return c.Without(k)
}

// Without returns a copy of c with k removed.
func (c Context) Without(k Key) Context {
	if k >= numKeys {
		return c
	}
	c.vals[k] = 0
	c.set &^= 1 << k
	return c
}

// Get returns the value of k and whether it is set.
func (c Context) Get(k Key) (int, bool) {
	if !c.Has(k) {
		return 0, false
	}
	return int(c.vals[k]), true
}

// Has reports whether k is set.
func (c Context) Has(k Key) bool {
	return k < numKeys && c.set&(1<<k) != 0
}

// Int returns the value of k, or zero when unset.
func (c Context) Int(k Key) int {
	v, _ := c.Get(k)
	return v
}

// Flag reports whether k is set to a non-zero value.
func (c Context) Flag(k Key) bool {
	return c.Int(k) != 0
}

// Version returns the format version, or zero when unset.
func (c Context) Version() int {
	return c.Int(KeyVersion)
}

// Keys returns the keys that are set, in key order.
func (c Context) Keys() []Key {
	var keys []Key
	for k := Key(0); k < numKeys; k++ {
		if c.Has(k) {
			keys = append(keys, k)
		}
	}
	return keys
}

// WithCharset returns a copy of c whose strings use enc. nil means UTF-8.
func (c Context) WithCharset(enc encoding.Encoding) Context {
	c.charset = enc
	return c
}

// Charset returns the string charset, or nil for UTF-8.
func (c Context) Charset() encoding.Encoding {
	return c.charset
}

// EncodeString encodes s in the context charset.
func (c Context) EncodeString(s string) ([]byte, error) {
	return bitstream.EncodeString(c.charset, s)
}
