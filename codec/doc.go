// Package codec implements the record layer shared by every record type:
// header framing, the dynamically scoped Context, the two-pass
// size-then-emit encoding contract, shared-width bit-field groups, offset
// tables and registry dispatch for open record families.
//
// # Records
//
// Every record implements Record:
//
//	Decode(r *bitstream.Reader, ctx Context) error
//	Prepare(ctx Context) (Layout, error)
//	Encode(w *bitstream.Writer, ctx Context, l Layout) error
//
// Prepare is called exactly once before Encode and returns a Layout holding
// every decision Encode needs (field widths, presence flags, child layouts,
// offset tables). Its Len is the exact body size, which lets a parent write
// a length field before the body without backtracking. EncodeRecord and
// DecodeRecord wrap a body in a length-checked region, so a Prepare that
// disagrees with Encode is reported instead of silently desynchronising
// the stream.
//
// # Framing
//
// A tag header is a little-endian 16-bit word holding a 10-bit type code
// and a 6-bit length. Lengths above ShortLengthMax use the escape value
// 0x3F followed by a 32-bit length:
//
//	data, err := codec.Marshal(ctx, tag)            // body only
//	err := codec.EncodeTag(w, ctx, tag)             // header + body
//	tag, err := codec.DecodeTag(r, ctx, registry)   // header + body
//
// # Context
//
// Context is a value. A parent derives the context for a nested call and
// passes it down:
//
//	child := ctx.With(codec.KeyTransparent, 1)
//	err := color.Decode(r, child)
//
// Nothing a child sets is visible to its siblings or to the parent, on any
// exit path.
//
// # Registries
//
// Open families (tags, actions, filters) are dispatched through a
// Registry keyed by the discriminant read from the stream. A registry
// fallback produces an opaque record for unknown discriminants so the
// bytes survive a decode/encode round trip unchanged.
package codec
