// Package objects is the runtime value surface of the extraction
// engine: attribute lookup on resolved values and the module registry
// consulted for import instructions. It mirrors what a live runtime
// would provide, without ever invoking user code beyond an explicit
// AttrResolver.
package objects

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrNoAttr reports that a value has no attribute with the requested
// name under any of the supported lookup strategies.
var ErrNoAttr = errors.New("no such attribute")

// AttrResolver lets a value define its own attribute namespace.
// It takes priority over the reflective strategies.
type AttrResolver interface {
	Attr(name string) (any, error)
}

// Attr resolves attribute name on v. Strategies in order:
//
//  1. v's own AttrResolver implementation,
//  2. key lookup when v is a map[string]any,
//  3. a method named name, on v or on a pointer to v,
//  4. an exported struct field named name, dereferencing pointers.
//
// Failure wraps ErrNoAttr with the concrete type and name.
func Attr(v any, name string) (any, error) {
	if r, ok := v.(AttrResolver); ok {
		return r.Attr(name)
	}
	if m, ok := v.(map[string]any); ok {
		if val, ok := m[name]; ok {
			return val, nil
		}
		return nil, fmt.Errorf("%w: %q on map", ErrNoAttr, name)
	}

	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return nil, fmt.Errorf("%w: %q on nil", ErrNoAttr, name)
	}

	if m := rv.MethodByName(name); m.IsValid() {
		return m.Interface(), nil
	}
	if rv.Kind() != reflect.Pointer {
		// Pointer-receiver methods are invisible on a bare value.
		pv := reflect.New(rv.Type())
		pv.Elem().Set(rv)
		if m := pv.MethodByName(name); m.IsValid() {
			return m.Interface(), nil
		}
	}

	sv := rv
	for sv.Kind() == reflect.Pointer {
		if sv.IsNil() {
			return nil, fmt.Errorf("%w: %q on nil %s", ErrNoAttr, name, rv.Type())
		}
		sv = sv.Elem()
	}
	if sv.Kind() == reflect.Struct {
		if f, ok := sv.Type().FieldByName(name); ok && f.IsExported() {
			return sv.FieldByIndex(f.Index).Interface(), nil
		}
	}

	return nil, fmt.Errorf("%w: %q on %s", ErrNoAttr, name, rv.Type())
}
