package refs

import (
	"errors"
	"fmt"

	"github.com/baxen/bionic/bytecode"
)

// ErrClosureMismatch reports that a callable declares a different
// number of externally captured variables than its closure binds.
// It is the one fatal condition in this package: no instruction is
// processed when it occurs.
var ErrClosureMismatch = errors.New("free variable names and closure cells differ in count")

// Context is the snapshot of a callable's enclosing bindings that a
// single walk resolves names against.
//
// Globals aliases the callable's namespace and is shared; the walker
// only reads it. Cells is fixed once built: internal captures map to
// their own name (no value exists at this scope), external captures
// map to the captured value. Locals belongs to exactly one walk,
// seeded with the receiver for bound methods and mutated by
// store/delete instructions as the walk tracks assignments.
type Context struct {
	Globals map[string]any
	Cells   map[string]Ref
	Locals  map[string]Ref
}

// NewContext builds the binding snapshot for fn. Deterministic, no
// side effects. Returns ErrClosureMismatch when fn.Code.FreeVars and
// fn.Closure cannot be paired one to one.
func NewContext(fn *bytecode.Func) (*Context, error) {
	code := fn.Code

	if len(code.FreeVars) != len(fn.Closure) {
		return nil, fmt.Errorf("%w: %d names, %d cells in %s",
			ErrClosureMismatch, len(code.FreeVars), len(fn.Closure), code.Name)
	}

	cells := make(map[string]Ref, len(code.CellVars)+len(code.FreeVars))
	for _, name := range code.CellVars {
		cells[name] = Symbol(name)
	}
	for i, name := range code.FreeVars {
		cells[name] = Resolved{Value: fn.Closure[i].Contents}
	}

	locals := make(map[string]Ref)
	if fn.Receiver != nil {
		locals["self"] = Resolved{Value: fn.Receiver}
	}

	return &Context{Globals: fn.Globals, Cells: cells, Locals: locals}, nil
}
