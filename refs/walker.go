package refs

import (
	"fmt"

	"github.com/baxen/bionic/bytecode"
	"github.com/baxen/bionic/diag"
	"github.com/baxen/bionic/objects"
)

// Option configures a single walk.
type Option func(*config)

type config struct {
	sink    diag.Sink
	modules *objects.Registry
}

// WithSink routes resolution diagnostics to s instead of discarding
// them.
func WithSink(s diag.Sink) Option {
	return func(c *config) { c.sink = s }
}

// WithModules resolves import instructions against r instead of
// objects.DefaultRegistry.
func WithModules(r *objects.Registry) Option {
	return func(c *config) { c.modules = r }
}

// walker is the state of one pass: the single pending reference, the
// last seen line marker and the output accumulator. One walker per
// Extract call, never shared.
type walker struct {
	ctx     *Context
	modules *objects.Registry
	sink    diag.Sink

	tos  Ref
	line int
	out  References
}

// Extract walks code's instruction stream against ctx and returns
// every reference it commits, in commit order. The walk always runs
// to completion: any per-instruction failure is reported to the sink,
// the pending reference is discarded and the next instruction
// proceeds, so a failed lookup weakens the resulting fingerprint
// rather than breaking the caller.
func Extract(code *bytecode.Code, ctx *Context, opts ...Option) References {
	cfg := config{sink: diag.Nop(), modules: objects.DefaultRegistry}
	for _, opt := range opts {
		opt(&cfg)
	}

	w := walker{ctx: ctx, modules: cfg.modules, sink: cfg.sink}

	for _, in := range code.Instructions {
		if in.Line > 0 {
			w.line = in.Line
		}
		if err := w.step(in); err != nil {
			w.sink.Report(diag.Diagnostic{
				Func: code.Name,
				File: code.File,
				Line: w.line,
				Err:  err,
			})
			w.tos = nil
		}
	}
	w.commit()

	return w.out
}

// FuncReferences is the whole engine for one callable: build the
// context, walk the stream. The error is exactly the context
// builder's contract violation; an empty reference list with a nil
// error means the callable touches nothing.
func FuncReferences(fn *bytecode.Func, opts ...Option) (References, error) {
	ctx, err := NewContext(fn)
	if err != nil {
		return nil, err
	}
	return Extract(fn.Code, ctx, opts...), nil
}

// commit moves a pending reference to the output.
func (w *walker) commit() {
	if w.tos != nil {
		w.out = append(w.out, w.tos)
		w.tos = nil
	}
}

// replace commits whatever is pending and makes r the new pending
// reference, so reading several objects in a row keeps all of them.
func (w *walker) replace(r Ref) {
	w.commit()
	w.tos = r
}

// step dispatches one instruction. Anything that goes wrong inside a
// step, including panics out of reflective attribute lookup or a
// custom AttrResolver, surfaces as the returned error and is
// contained by the caller.
func (w *walker) step(in bytecode.Instruction) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s %q: %v", in.Op, in.Arg, r)
		}
	}()

	switch in.Op {
	case bytecode.LoadGlobal, bytecode.LoadName:
		if v, ok := w.ctx.Globals[in.Arg]; ok {
			w.replace(Resolved{Value: v})
		} else {
			w.replace(Symbol(in.Arg))
		}

	case bytecode.LoadDeref, bytecode.LoadClosure:
		cell, ok := w.ctx.Cells[in.Arg]
		if !ok {
			return fmt.Errorf("no cell binding for %q", in.Arg)
		}
		w.replace(cell)

	case bytecode.ImportName:
		if m, importErr := w.modules.Import(in.Arg); importErr == nil {
			w.replace(Resolved{Value: m})
		} else {
			// Unresolvable imports fall back to the module name.
			w.replace(Symbol(in.Arg))
		}

	case bytecode.LoadAttr, bytecode.LoadMethod, bytecode.ImportFrom:
		switch cur := w.tos.(type) {
		case nil:
			// Attribute of a consumed or never-known receiver: keep
			// the bare name, leave nothing pending.
			w.out = append(w.out, Symbol(in.Arg))
		case Symbol:
			w.tos = Symbol(string(cur) + "." + in.Arg)
		case Resolved:
			v, attrErr := objects.Attr(cur.Value, in.Arg)
			if attrErr != nil {
				return attrErr
			}
			w.tos = Resolved{Value: v}
		}

	case bytecode.DeleteFast:
		if w.tos != nil {
			delete(w.ctx.Locals, in.Arg)
			w.tos = nil
		}

	case bytecode.StoreFast:
		if w.tos != nil {
			w.ctx.Locals[in.Arg] = w.tos
			w.tos = nil
		}

	case bytecode.LoadFast:
		if v, ok := w.ctx.Locals[in.Arg]; ok {
			w.replace(v)
		} else {
			// Unknown local, same as the default: the pending
			// reference is assumed consumed.
			w.commit()
		}

	default:
		w.commit()
	}

	return nil
}
