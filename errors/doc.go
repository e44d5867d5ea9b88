// Package errors provides structured error types for the swfkit library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes rich context: record path, stream offset, record name and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDecode, errors.KindInvalidData).
//		Path("DefineFont2", "glyphs").
//		Offset(r.Offset()).
//		Detail("offset %d precedes table end", off).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.Truncated(offset, 16, 3)
//	err := errors.LengthMismatch(errors.PhaseEncode, offset, 65, 64)
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
