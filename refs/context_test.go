package refs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baxen/bionic/bytecode"
	"github.com/baxen/bionic/refs"
)

func TestNewContextCells(t *testing.T) {
	code := bytecode.NewBuilder("x", "context_test.go").
		CellVars("inner").
		FreeVars("outer").
		Code()
	fn := &bytecode.Func{
		Code:    code,
		Globals: map[string]any{"g": 1},
		Closure: []*bytecode.Cell{{Contents: "42"}},
	}

	ctx, err := refs.NewContext(fn)
	require.NoError(t, err)

	// Internal capture: name placeholder. External capture: value.
	assert.Equal(t, refs.Symbol("inner"), ctx.Cells["inner"])
	assert.Equal(t, refs.Resolved{Value: "42"}, ctx.Cells["outer"])
	assert.Len(t, ctx.Cells, 2)
	assert.Empty(t, ctx.Locals)
}

func TestNewContextAliasesGlobals(t *testing.T) {
	globals := map[string]any{"g": 1}
	code := bytecode.NewBuilder("x", "context_test.go").Code()
	fn := &bytecode.Func{Code: code, Globals: globals}

	ctx, err := refs.NewContext(fn)
	require.NoError(t, err)

	// Shared, not copied.
	assert.Equal(t, len(globals), len(ctx.Globals))
	globals["h"] = 2
	assert.Len(t, ctx.Globals, 2)
}

func TestNewContextClosureMismatch(t *testing.T) {
	code := bytecode.NewBuilder("x", "context_test.go").
		FreeVars("a", "b").
		Code()
	fn := &bytecode.Func{
		Code:    code,
		Globals: map[string]any{},
		Closure: []*bytecode.Cell{{Contents: 1}},
	}

	_, err := refs.NewContext(fn)
	assert.ErrorIs(t, err, refs.ErrClosureMismatch)

	// The convenience entry point surfaces the same violation before
	// touching a single instruction.
	_, err = refs.FuncReferences(fn)
	assert.ErrorIs(t, err, refs.ErrClosureMismatch)
}

func TestNewContextReceiver(t *testing.T) {
	recv := &struct{ N int }{N: 3}
	code := bytecode.NewBuilder("m", "context_test.go").Code()
	fn := &bytecode.Func{Code: code, Globals: map[string]any{}, Receiver: recv}

	ctx, err := refs.NewContext(fn)
	require.NoError(t, err)

	assert.Equal(t, refs.Resolved{Value: recv}, ctx.Locals["self"])
}
