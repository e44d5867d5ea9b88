// Package record provides concrete records built on the codec engine: the
// color, transform and bounds primitives, the action and filter families,
// glyph shapes, and a representative set of tags with their default
// registries.
//
// Every record implements codec.Record. Records whose layout depends on the
// enclosing structure read it from the codec.Context passed to them; for
// example a Color carries an alpha byte only when codec.KeyTransparent is
// set.
//
//	c, err := record.NewCodec(codec.DefaultConfig())
//	tags, err := c.DecodeTags(data)
package record
