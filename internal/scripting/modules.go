package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/dicebag/internal/dice"
)

// diceModule installs the dice global. Every roll made through dice.roll is
// appended to run.rolls.
func (r *Runner) diceModule(run *execution) Module {
	return func(L *lua.LState) {
		tbl := L.NewTable()
		L.SetField(tbl, "roll", L.NewFunction(func(L *lua.LState) int {
			results, err := r.roller.RollExpr(L.CheckString(1))
			if err != nil {
				L.RaiseError("dice.roll: %s", err.Error())
				return 0
			}
			run.rolls = append(run.rolls, results)
			L.Push(rollToTable(L, results))
			return 1
		}))
		L.SetField(tbl, "log", L.NewFunction(func(L *lua.LState) int {
			r.logger.Info(L.CheckString(1), zap.String("script", run.name))
			return 0
		}))
		L.SetGlobal("dice", tbl)
	}
}

// logModule installs the log global with one function per zap level.
func (r *Runner) logModule(run *execution) Module {
	return func(L *lua.LState) {
		tbl := L.NewTable()
		for level, fn := range map[string]func(string, ...zap.Field){
			"debug": r.logger.Debug,
			"info":  r.logger.Info,
			"warn":  r.logger.Warn,
			"error": r.logger.Error,
		} {
			L.SetField(tbl, level, L.NewFunction(func(L *lua.LState) int {
				fn(L.CheckString(1), zap.String("script", run.name))
				return 0
			}))
		}
		L.SetGlobal("log", tbl)
	}
}

// rollToTable converts roll results into
// {total=, sets={{total=, results={{total=, first={...}, second={...}}}}}}.
func rollToTable(L *lua.LState, results []dice.DiceSetResults) *lua.LTable {
	sets := L.NewTable()
	total := 0
	for _, set := range results {
		total += set.Total

		rs := L.NewTable()
		for _, res := range set.Results {
			rt := L.NewTable()
			L.SetField(rt, "total", lua.LNumber(res.Total))
			L.SetField(rt, "first", intsToTable(L, res.FirstDraws))
			if res.SecondDraws != nil {
				L.SetField(rt, "second", intsToTable(L, res.SecondDraws))
			}
			rs.Append(rt)
		}

		st := L.NewTable()
		L.SetField(st, "total", lua.LNumber(set.Total))
		L.SetField(st, "results", rs)
		sets.Append(st)
	}

	tbl := L.NewTable()
	L.SetField(tbl, "total", lua.LNumber(total))
	L.SetField(tbl, "sets", sets)
	return tbl
}

func intsToTable(L *lua.LState, xs []int) *lua.LTable {
	t := L.CreateTable(len(xs), 0)
	for _, x := range xs {
		t.Append(lua.LNumber(x))
	}
	return t
}
