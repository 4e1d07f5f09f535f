// Package scripting runs scripted dice presets in a sandboxed GopherLua VM.
// Scripts see only the safe standard libraries plus the modules the caller
// installs, such as the dice table bound to a logged dice.Roller.
package scripting

import (
	"context"
	"sync/atomic"

	lua "github.com/yuin/gopher-lua"
)

// DefaultInstructionLimit is the opcode budget of a script run when no limit
// is configured.
const DefaultInstructionLimit = 100_000

// Module installs globals into a fresh sandbox.
type Module func(L *lua.LState)

// unsafeGlobals are left behind by OpenBase and removed from every sandbox.
var unsafeGlobals = []string{"dofile", "loadfile", "load", "loadstring", "collectgarbage", "require"}

// opcodeBudget is a context that cancels itself once Done has been polled
// more times than its budget. GopherLua polls Done once per opcode.
type opcodeBudget struct {
	context.Context
	cancel context.CancelFunc
	left   atomic.Int64
}

func (b *opcodeBudget) Done() <-chan struct{} {
	if b.left.Add(-1) < 0 {
		b.cancel()
	}
	return b.Context.Done()
}

func newOpcodeBudget(limit int) (*opcodeBudget, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	b := &opcodeBudget{Context: ctx, cancel: cancel}
	b.left.Store(int64(limit))
	return b, cancel
}

// NewSandboxedState returns an LState that has only the base, table, string
// and math libraries, no unsafeGlobals, and at most instLimit opcodes to run.
// Each module is installed in order after the sandbox is locked down.
//
// Precondition: instLimit >= 0; 0 uses DefaultInstructionLimit.
// Postcondition: The caller owns the LState and the cancel func, and must call
// both cancel() and L.Close().
func NewSandboxedState(instLimit int, modules ...Module) (*lua.LState, context.CancelFunc) {
	if instLimit <= 0 {
		instLimit = DefaultInstructionLimit
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	for _, open := range []lua.LGFunction{lua.OpenBase, lua.OpenTable, lua.OpenString, lua.OpenMath} {
		open(L)
	}
	for _, name := range unsafeGlobals {
		L.SetGlobal(name, lua.LNil)
	}
	for _, install := range modules {
		install(L)
	}

	budget, cancel := newOpcodeBudget(instLimit)
	L.SetContext(budget)
	return L, cancel
}
