package bytecode

// Builder assembles an instruction stream without going through a
// front-end compiler. Embedders that translate real compiled
// callables use it too, but its main audience is tests.
//
// Op methods append one instruction and return the builder for
// chaining. At marks the next appended instruction with a source
// line; instructions appended after it carry no line marker until At
// is called again.
type Builder struct {
	name     string
	file     string
	instrs   []Instruction
	cellVars []string
	freeVars []string
	nextLine int
}

func NewBuilder(name, file string) *Builder {
	return &Builder{name: name, file: file}
}

// At marks the next appended instruction as the first on source line n.
func (b *Builder) At(n int) *Builder {
	b.nextLine = n
	return b
}

// CellVars declares, in order, the variables captured by closures
// defined inside the callable being assembled.
func (b *Builder) CellVars(names ...string) *Builder {
	b.cellVars = append(b.cellVars, names...)
	return b
}

// FreeVars declares, in order, the variables the callable captures
// from an enclosing scope.
func (b *Builder) FreeVars(names ...string) *Builder {
	b.freeVars = append(b.freeVars, names...)
	return b
}

func (b *Builder) emit(op Op, arg string) *Builder {
	b.instrs = append(b.instrs, Instruction{Op: op, Arg: arg, Line: b.nextLine})
	b.nextLine = 0
	return b
}

func (b *Builder) LoadGlobal(name string) *Builder { return b.emit(LoadGlobal, name) }
func (b *Builder) LoadName(name string) *Builder { return b.emit(LoadName, name) }
func (b *Builder) LoadDeref(name string) *Builder { return b.emit(LoadDeref, name) }
func (b *Builder) LoadClosure(name string) *Builder { return b.emit(LoadClosure, name) }
func (b *Builder) ImportName(name string) *Builder { return b.emit(ImportName, name) }
func (b *Builder) ImportFrom(name string) *Builder { return b.emit(ImportFrom, name) }
func (b *Builder) LoadAttr(name string) *Builder { return b.emit(LoadAttr, name) }
func (b *Builder) LoadMethod(name string) *Builder { return b.emit(LoadMethod, name) }
func (b *Builder) LoadFast(name string) *Builder { return b.emit(LoadFast, name) }
func (b *Builder) StoreFast(name string) *Builder { return b.emit(StoreFast, name) }
func (b *Builder) DeleteFast(name string) *Builder { return b.emit(DeleteFast, name) }
func (b *Builder) LoadConst() *Builder { return b.emit(LoadConst, "") }
func (b *Builder) StoreGlobal(name string) *Builder { return b.emit(StoreGlobal, name) }
func (b *Builder) StoreAttr(name string) *Builder { return b.emit(StoreAttr, name) }
func (b *Builder) Call() *Builder { return b.emit(Call, "") }
func (b *Builder) Return() *Builder { return b.emit(Return, "") }
func (b *Builder) PopTop() *Builder { return b.emit(PopTop, "") }
func (b *Builder) BinaryOp() *Builder { return b.emit(BinaryOp, "") }
func (b *Builder) CompareOp() *Builder { return b.emit(CompareOp, "") }
func (b *Builder) Jump() *Builder { return b.emit(Jump, "") }
func (b *Builder) MakeFunction() *Builder { return b.emit(MakeFunction, "") }
func (b *Builder) BuildList() *Builder { return b.emit(BuildList, "") }

// Code finalizes the stream. The builder keeps no reference to the
// returned value and may be reused afterwards, though tests rarely do.
func (b *Builder) Code() *Code {
	instrs := make([]Instruction, len(b.instrs))
	copy(instrs, b.instrs)
	return &Code{
		Name:         b.name,
		File:         b.file,
		Instructions: instrs,
		CellVars:     append([]string(nil), b.cellVars...),
		FreeVars:     append([]string(nil), b.freeVars...),
	}
}
