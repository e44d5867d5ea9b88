package errors

import (
	"fmt"
	"strconv"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseDecode   Phase = "decode"   // bytes to records
	PhaseEncode   Phase = "encode"   // records to bytes
	PhaseValidate Phase = "validate" // record construction
	PhaseConfig   Phase = "config"   // configuration loading
	PhaseRegister Phase = "register" // registry setup
)

// Kind categorizes the error
type Kind string

const (
	KindTruncated      Kind = "truncated"
	KindLengthMismatch Kind = "length_mismatch"
	KindOutOfRange     Kind = "out_of_range"
	KindOverflow       Kind = "overflow"
	KindInvalidData    Kind = "invalid_data"
	KindUnsupported    Kind = "unsupported"
	KindRegistration   Kind = "registration"
	KindInvalidInput   Kind = "invalid_input"
)

// NoOffset marks an error that is not tied to a stream position.
const NoOffset = -1

// Error is the structured error type used throughout swfkit
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Record string
	Detail string
	Path   []string
	Offset int
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Offset >= 0 {
		b.WriteString(" (offset ")
		b.WriteString(strconv.Itoa(e.Offset))
		b.WriteByte(')')
	}

	if e.Record != "" {
		b.WriteString(": ")
		b.WriteString(e.Record)
	}

	if e.Detail != "" {
		if e.Record != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase:  phase,
			Kind:   kind,
			Offset: NoOffset,
		},
	}
}

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Record sets the record type name
func (b *Builder) Record(name string) *Builder {
	b.err.Record = name
	return b
}

// Offset sets the byte offset in the stream
func (b *Builder) Offset(off int) *Builder {
	b.err.Offset = off
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// Truncated creates an error for a read past the end of the available data
func Truncated(offset, want, have int) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindTruncated,
		Offset: offset,
		Detail: fmt.Sprintf("need %d bits, %d available", want, have),
	}
}

// LengthMismatch creates an error for a region whose declared and actual sizes differ
func LengthMismatch(phase Phase, offset, declared, actual int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindLengthMismatch,
		Offset: offset,
		Detail: fmt.Sprintf("declared %d bytes, processed %d", declared, actual),
		Value:  actual,
	}
}

// OutOfRange creates a construction-time range error
func OutOfRange(path []string, value, lo, hi int) *Error {
	return &Error{
		Phase:  PhaseValidate,
		Kind:   KindOutOfRange,
		Path:   path,
		Offset: NoOffset,
		Detail: fmt.Sprintf("value %d outside [%d, %d]", value, lo, hi),
		Value:  value,
	}
}

// Overflow creates an error for a value that does not fit its bit width
func Overflow(phase Phase, path []string, value any, bits int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOverflow,
		Path:   path,
		Offset: NoOffset,
		Detail: fmt.Sprintf("value %v does not fit in %d bits", value, bits),
		Value:  value,
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, offset int, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Offset: offset,
		Detail: detail,
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Offset: NoOffset,
		Detail: what,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Offset: NoOffset,
		Detail: detail,
	}
}

// Registration creates a registry setup error
func Registration(family string, code uint16, detail string) *Error {
	return &Error{
		Phase:  PhaseRegister,
		Kind:   KindRegistration,
		Offset: NoOffset,
		Record: family,
		Detail: fmt.Sprintf("code %d: %s", code, detail),
		Value:  code,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Offset: NoOffset,
		Detail: detail,
		Cause:  cause,
	}
}

// Within prefixes the path of a structured error with the given record name.
// Other errors are returned unchanged.
func Within(err error, name string) error {
	e, ok := err.(*Error)
	if !ok {
		return err
	}
	e.Path = append([]string{name}, e.Path...)
	return e
}
