// Package fingerprint turns an extracted reference list into
// deterministic hash bytes. Each resolved value is tokenized by a
// per-type protocol; symbols contribute their name. The fold is
// order-sensitive, which is the point: the reference list's order is
// part of the behavior being fingerprinted.
package fingerprint

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"reflect"
	"runtime"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/govalues/decimal"
	"github.com/rickb777/date/v2"

	"github.com/baxen/bionic/objects"
)

// ErrUnsupportedType reports that no registered protocol can tokenize
// a value.
var ErrUnsupportedType = errors.New("no protocol for value type")

// Protocol tokenizes the values of some family of types. Tokenize is
// only called on values Supports accepted, and must be deterministic:
// equal values, equal bytes, across processes.
type Protocol interface {
	Supports(v any) bool
	Tokenize(v any) ([]byte, error)
}

type protocolFunc struct {
	supports func(any) bool
	tokenize func(any) ([]byte, error)
}

func (p protocolFunc) Supports(v any) bool { return p.supports(v) }

func (p protocolFunc) Tokenize(v any) ([]byte, error) { return p.tokenize(v) }

// ProtocolFunc builds a Protocol from two functions.
func ProtocolFunc(supports func(any) bool, tokenize func(any) ([]byte, error)) Protocol {
	return protocolFunc{supports: supports, tokenize: tokenize}
}

// Registry holds protocols in consultation order. The zero value is
// unusable; start from New or Default.
type Registry struct {
	protocols []Protocol
}

func New() *Registry { return &Registry{} }

// Register adds a protocol with priority over everything already
// registered, so embedders can override the built-ins for their own
// types.
func (r *Registry) Register(p Protocol) {
	r.protocols = append([]Protocol{p}, r.protocols...)
}

// Tokenize finds the first protocol supporting v and applies it.
func (r *Registry) Tokenize(v any) ([]byte, error) {
	for _, p := range r.protocols {
		if p.Supports(v) {
			return p.Tokenize(v)
		}
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupportedType, v)
}

// Default returns a fresh registry preloaded with the built-in
// protocols. Registries are independent: registering on one never
// affects another.
func Default() *Registry {
	r := New()
	for i := len(builtins) - 1; i >= 0; i-- {
		r.Register(builtins[i])
	}
	return r
}

// builtins in consultation order: exact types first, then kind-based
// scalar protocols, interface catch-alls last. Exact types must come
// before the kind-based ones: date.Date for example is an int64
// underneath and would otherwise tokenize as a bare integer.
var builtins = []Protocol{
	ProtocolFunc(
		func(v any) bool { return v == nil },
		func(any) ([]byte, error) { return []byte("nil"), nil },
	),
	ProtocolFunc(
		func(v any) bool { _, ok := v.(bool); return ok },
		func(v any) ([]byte, error) {
			if v.(bool) {
				return []byte{1}, nil
			}
			return []byte{0}, nil
		},
	),
	ProtocolFunc(
		func(v any) bool { _, ok := v.(string); return ok },
		func(v any) ([]byte, error) { return []byte(v.(string)), nil },
	),
	ProtocolFunc(
		func(v any) bool { _, ok := v.([]byte); return ok },
		func(v any) ([]byte, error) { return v.([]byte), nil },
	),

	// Well-known value types.
	ProtocolFunc(
		func(v any) bool { _, ok := v.(time.Time); return ok },
		func(v any) ([]byte, error) {
			return []byte(v.(time.Time).UTC().Format(time.RFC3339Nano)), nil
		},
	),
	ProtocolFunc(
		func(v any) bool { _, ok := v.(date.Date); return ok },
		func(v any) ([]byte, error) { return []byte(v.(date.Date).String()), nil },
	),
	ProtocolFunc(
		func(v any) bool { _, ok := v.(decimal.Decimal); return ok },
		func(v any) ([]byte, error) { return []byte(v.(decimal.Decimal).String()), nil },
	),
	ProtocolFunc(
		func(v any) bool { _, ok := v.(uuid.UUID); return ok },
		func(v any) ([]byte, error) {
			u := v.(uuid.UUID)
			return u[:], nil
		},
	),

	// Engine types.
	ProtocolFunc(
		func(v any) bool { _, ok := v.(*objects.Module); return ok },
		func(v any) ([]byte, error) {
			return []byte("module:" + v.(*objects.Module).Name), nil
		},
	),
	ProtocolFunc(
		func(v any) bool { _, ok := v.(reflect.Type); return ok },
		func(v any) ([]byte, error) {
			return []byte("type:" + v.(reflect.Type).String()), nil
		},
	),

	// Kind-based scalars, catching named numeric types too.
	ProtocolFunc(
		isInteger,
		func(v any) ([]byte, error) {
			rv := reflect.ValueOf(v)
			if rv.CanInt() {
				return strconv.AppendInt(nil, rv.Int(), 10), nil
			}
			return strconv.AppendUint(nil, rv.Uint(), 10), nil
		},
	),
	ProtocolFunc(
		func(v any) bool {
			k := reflect.ValueOf(v).Kind()
			return k == reflect.Float32 || k == reflect.Float64
		},
		func(v any) ([]byte, error) {
			bits := math.Float64bits(reflect.ValueOf(v).Float())
			return binary.LittleEndian.AppendUint64(nil, bits), nil
		},
	),

	// Functions hash by their linker name. Anonymous funcs still get
	// a stable name within one build, which is the best a behavior
	// hash can do without reading the binary.
	ProtocolFunc(
		func(v any) bool {
			rv := reflect.ValueOf(v)
			return rv.IsValid() && rv.Kind() == reflect.Func
		},
		func(v any) ([]byte, error) {
			pc := reflect.ValueOf(v).Pointer()
			f := runtime.FuncForPC(pc)
			if f == nil {
				return nil, fmt.Errorf("%w: unnameable func", ErrUnsupportedType)
			}
			return []byte("func:" + f.Name()), nil
		},
	),

	// Last resort: anything that can render itself.
	ProtocolFunc(
		func(v any) bool { _, ok := v.(fmt.Stringer); return ok },
		func(v any) ([]byte, error) { return []byte(v.(fmt.Stringer).String()), nil },
	),
}

func isInteger(v any) bool {
	switch reflect.ValueOf(v).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	default:
		return false
	}
}
