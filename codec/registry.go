package codec

import (
	"slices"
	"strconv"
	"sync"

	"github.com/wippyai/swfkit/errors"
)

// Factory materializes an empty record ready to be decoded.
type Factory[T Coded] func() T

// Fallback materializes a record for a discriminant with no registered
// factory. length is the number of body bytes available to it.
type Fallback[T Coded] func(code uint16, length int) T

type entry[T Coded] struct {
	factory Factory[T]
	name    string
}

// Registry maps stream discriminants of an open record family to factories.
// Registries are populated during package initialisation and are read-only
// afterwards; lookups are safe for concurrent use.
type Registry[T Coded] struct {
	entries  map[uint16]entry[T]
	fallback Fallback[T]
	family   string
	mu       sync.RWMutex
}

// NewRegistry creates an empty registry for the named family.
func NewRegistry[T Coded](family string) *Registry[T] {
	return &Registry[T]{
		family:  family,
		entries: make(map[uint16]entry[T]),
	}
}

// Family returns the family name.
func (reg *Registry[T]) Family() string {
	return reg.family
}

// Register adds a factory for code. Registering a code twice is an error.
func (reg *Registry[T]) Register(code uint16, name string, f Factory[T]) error {
	if f == nil {
		return errors.Registration(reg.family, code, "nil factory")
	}
	reg.mu.Lock()
	defer reg.mu.Unlock()
	if prev, ok := reg.entries[code]; ok {
		return errors.Registration(reg.family, code, "already registered as "+prev.name)
	}
	reg.entries[code] = entry[T]{factory: f, name: name}
	return nil
}

// MustRegister is like Register but panics on error. It is intended for
// package initialisation.
func (reg *Registry[T]) MustRegister(code uint16, name string, f Factory[T]) {
	if err := reg.Register(code, name, f); err != nil {
		panic(err)
	}
}

// SetFallback sets the constructor used for unregistered codes.
func (reg *Registry[T]) SetFallback(f Fallback[T]) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.fallback = f
}

// Lookup returns the factory registered for code.
func (reg *Registry[T]) Lookup(code uint16) (Factory[T], bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	e, ok := reg.entries[code]
	return e.factory, ok
}

// Name returns the registered name for code, or a generic name.
func (reg *Registry[T]) Name(code uint16) string {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	if e, ok := reg.entries[code]; ok {
		return e.name
	}
	return reg.family + "(" + strconv.Itoa(int(code)) + ")"
}

// Codes returns the registered codes in ascending order.
func (reg *Registry[T]) Codes() []uint16 {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	codes := make([]uint16, 0, len(reg.entries))
	for c := range reg.entries {
		codes = append(codes, c)
	}
	slices.Sort(codes)
	return codes
}

// Resolve returns a fresh record for code, using the fallback when no
// factory is registered. Without a fallback an unknown code is an error.
func (reg *Registry[T]) Resolve(code uint16, length int) (T, error) {
	reg.mu.RLock()
	e, ok := reg.entries[code]
	fb := reg.fallback
	reg.mu.RUnlock()

	if ok {
		return e.factory(), nil
	}
	if fb != nil {
		return fb(code, length), nil
	}
	var zero T
	return zero, errors.New(errors.PhaseDecode, errors.KindUnsupported).
		Record(reg.family).
		Value(code).
		Detail("no factory for code %d", code).
		Build()
}
