package scripting

import (
	"errors"
	"fmt"
	"math"
	"strings"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/dicebag/internal/dice"
)

// ErrBadResult is returned when a script does not return an integer.
var ErrBadResult = errors.New("script must return an integer")

// Outcome is the result of one script run.
type Outcome struct {
	// Value is the number the script returned.
	Value int
	// Rolls holds every dice.roll made by the script, in call order.
	Rolls [][]dice.DiceSetResults
}

// execution is the per-run state shared with the Lua callbacks.
type execution struct {
	name  string
	rolls [][]dice.DiceSetResults
}

// Runner executes dice scripts. Each Run gets a fresh sandbox, so a Runner is
// safe for concurrent use.
type Runner struct {
	roller *dice.Roller
	logger *zap.Logger
	limit  int
}

// NewRunner creates a Runner.
//
// Precondition: roller and logger must be non-nil; limit >= 0 (0 uses
// DefaultInstructionLimit).
// Postcondition: Returns a non-nil Runner.
func NewRunner(roller *dice.Roller, logger *zap.Logger, limit int) *Runner {
	return &Runner{roller: roller, logger: logger, limit: limit}
}

// Run executes src as a Lua chunk named name and returns its result.
//
// Postcondition: on success Value is the integer returned by the chunk. Lua
// errors, instruction limit exhaustion and non-integer results are returned as
// errors and logged at Warn level.
func (r *Runner) Run(name, src string) (Outcome, error) {
	run := &execution{name: name}
	L, cancel := NewSandboxedState(r.limit, r.diceModule(run), r.logModule(run))
	defer L.Close()
	defer cancel()

	fn, err := L.Load(strings.NewReader(src), name)
	if err != nil {
		return Outcome{}, fmt.Errorf("scripting: compiling %q: %w", name, err)
	}
	if err := L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}); err != nil {
		r.logger.Warn("scripting: Lua runtime error",
			zap.String("script", name),
			zap.Error(err),
		)
		return Outcome{}, fmt.Errorf("scripting: running %q: %w", name, err)
	}

	ret := L.Get(-1)
	L.Pop(1)
	value, err := toInt(ret)
	if err != nil {
		r.logger.Warn("scripting: bad script result",
			zap.String("script", name),
			zap.String("result", ret.String()),
		)
		return Outcome{}, fmt.Errorf("scripting: %q returned %s: %w", name, ret.Type(), err)
	}

	r.logger.Debug("scripting: script finished",
		zap.String("script", name),
		zap.Int("value", value),
		zap.Int("rolls", len(run.rolls)),
	)
	return Outcome{Value: value, Rolls: run.rolls}, nil
}

func toInt(v lua.LValue) (int, error) {
	n, ok := v.(lua.LNumber)
	if !ok {
		return 0, ErrBadResult
	}
	f := float64(n)
	if f != math.Trunc(f) || math.IsInf(f, 0) || f > math.MaxInt32 || f < math.MinInt32 {
		return 0, ErrBadResult
	}
	return int(f), nil
}
