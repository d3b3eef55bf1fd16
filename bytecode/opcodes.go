package bytecode

// Op is the closed set of instruction kinds the reference walker
// understands. Kinds it has no special handling for still need to be
// representable, so the set includes the common stack-effect opcodes
// of a conventional bytecode compiler.
type Op uint8

const (
	Nop Op = iota

	// Name loads from the enclosing namespace.
	LoadGlobal
	LoadName

	// Closure cell access.
	LoadDeref
	LoadClosure

	// Module imports.
	ImportName
	ImportFrom

	// Attribute access on whatever was just loaded.
	LoadAttr
	LoadMethod

	// Function-local slots.
	LoadFast
	StoreFast
	DeleteFast

	// Everything below has no dedicated dispatch rule in the walker.
	LoadConst
	StoreGlobal
	StoreAttr
	Call
	Return
	PopTop
	BinaryOp
	CompareOp
	Jump
	MakeFunction
	BuildList
)

var opNames = map[Op]string{
	Nop:          "NOP",
	LoadGlobal:   "LOAD_GLOBAL",
	LoadName:     "LOAD_NAME",
	LoadDeref:    "LOAD_DEREF",
	LoadClosure:  "LOAD_CLOSURE",
	ImportName:   "IMPORT_NAME",
	ImportFrom:   "IMPORT_FROM",
	LoadAttr:     "LOAD_ATTR",
	LoadMethod:   "LOAD_METHOD",
	LoadFast:     "LOAD_FAST",
	StoreFast:    "STORE_FAST",
	DeleteFast:   "DELETE_FAST",
	LoadConst:    "LOAD_CONST",
	StoreGlobal:  "STORE_GLOBAL",
	StoreAttr:    "STORE_ATTR",
	Call:         "CALL",
	Return:       "RETURN",
	PopTop:       "POP_TOP",
	BinaryOp:     "BINARY_OP",
	CompareOp:    "COMPARE_OP",
	Jump:         "JUMP",
	MakeFunction: "MAKE_FUNCTION",
	BuildList:    "BUILD_LIST",
}

func (op Op) String() string {
	if name, ok := opNames[op]; ok {
		return name
	}
	return "UNKNOWN"
}
