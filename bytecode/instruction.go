// Package bytecode models the compiled form of a callable as a static
// artifact: an ordered instruction stream plus the capture and
// namespace information the reference walker needs to resolve names.
// Nothing in this package executes anything.
package bytecode

// Instruction is one step of a callable's compiled body. Arg carries
// the symbolic operand for name-oriented opcodes and is empty
// otherwise. Line is the 1-based source line the instruction starts,
// or 0 when the instruction continues the previous line.
type Instruction struct {
	Op   Op
	Arg  string
	Line int
}

// Code is the compiled body of a callable: its instruction stream and
// the ordered capture name lists.
//
//   - CellVars are variables captured by closures defined inside this
//     callable; they have no value at this scope.
//   - FreeVars are variables this callable captures from an enclosing
//     scope; each pairs positionally with a bound cell in Func.Closure.
type Code struct {
	Name         string
	File         string
	Instructions []Instruction
	CellVars     []string
	FreeVars     []string
}

// Cell is a closure cell: a box shared between an enclosing callable
// and the nested callables that capture the variable it holds.
type Cell struct {
	Contents any
}

// Func describes a callable to the extraction engine. Globals is a
// live reference into the enclosing namespace, shared with the
// runtime and never copied or mutated here. Closure holds the bound
// cells for Code.FreeVars, in declaration order. A non-nil Receiver
// marks a bound method.
type Func struct {
	Code     *Code
	Globals  map[string]any
	Closure  []*Cell
	Receiver any
}
