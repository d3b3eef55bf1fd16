package bytecode_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/baxen/bionic/bytecode"
)

func TestBuilderEmitsInOrder(t *testing.T) {
	code := bytecode.NewBuilder("x", "file.go").
		At(3).LoadGlobal("a").
		LoadAttr("b").
		At(4).Return().
		Code()

	assert.Equal(t, "x", code.Name)
	assert.Equal(t, "file.go", code.File)
	assert.Equal(t, []bytecode.Instruction{
		{Op: bytecode.LoadGlobal, Arg: "a", Line: 3},
		{Op: bytecode.LoadAttr, Arg: "b"},
		{Op: bytecode.Return, Line: 4},
	}, code.Instructions)
}

func TestBuilderCaptureLists(t *testing.T) {
	code := bytecode.NewBuilder("x", "file.go").
		CellVars("c1", "c2").
		FreeVars("f1").
		Code()

	assert.Equal(t, []string{"c1", "c2"}, code.CellVars)
	assert.Equal(t, []string{"f1"}, code.FreeVars)
}

func TestBuilderCodeIsDetached(t *testing.T) {
	b := bytecode.NewBuilder("x", "file.go").LoadGlobal("a")
	first := b.Code()
	b.LoadGlobal("b")

	assert.Len(t, first.Instructions, 1)
	assert.Len(t, b.Code().Instructions, 2)
}

func TestOpString(t *testing.T) {
	assert.Equal(t, "LOAD_GLOBAL", bytecode.LoadGlobal.String())
	assert.Equal(t, "IMPORT_FROM", bytecode.ImportFrom.String())
	assert.Equal(t, "UNKNOWN", bytecode.Op(250).String())
}
