// Package swfkit reads and writes the tagged binary records of the SWF
// movie format without losing a bit.
//
// Records are framed by a code and a length, packed at bit granularity
// and sized before they are written, so every length field is exact. The
// packages are layered:
//
//	swfkit/
//	├── errors/     Structured errors: phase, kind, record path and offset
//	├── bitstream/  Bit-granular Reader and Writer, length-checked regions
//	├── codec/      Record contracts, framing, shared-width groups, offset
//	│               tables, registries, context, configuration
//	└── record/     Concrete records and the default registries
//
// # Quick Start
//
// Decode a tag stream and write it back:
//
//	c, err := record.NewCodec(codec.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	tags, err := c.DecodeTags(data)
//	if err != nil {
//		return err
//	}
//	out, err := c.EncodeTags(tags)
//
// Tags the registry does not know decode as codec.UnknownTag and are
// written back verbatim.
//
// # Encoding
//
// Every record is encoded in two passes. Prepare computes a Layout
// holding the record's exact byte length and any planned bit widths;
// Encode writes the record using that Layout. Parents size their children
// through the same call, so a record is prepared once per encode.
//
// # Context
//
// A codec.Context is a small value passed down the call tree. Parents
// derive a child context with With or WithFlag instead of mutating shared
// state, so a failed encode leaves nothing behind for the next one.
package swfkit
