// Package engine wires configuration, the dice roller, the preset catalog and
// the script runner into one entry point.
package engine

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/dicebag/internal/config"
	"github.com/cory-johannsen/dicebag/internal/dice"
	"github.com/cory-johannsen/dicebag/internal/preset"
	"github.com/cory-johannsen/dicebag/internal/scripting"
)

// ErrUnknownPreset is returned by RollPreset for a name not in the catalog.
var ErrUnknownPreset = errors.New("unknown preset")

// Outcome is the result of rolling a preset.
type Outcome struct {
	Preset string
	// Sets holds every evaluated dice set, in order. For script presets this
	// is every set of every dice.roll call.
	Sets []dice.DiceSetResults
	// Total is the sum of set totals for notation presets and the returned
	// value for script presets.
	Total int
}

// Engine rolls dice expressions and named presets. It is safe for concurrent use.
type Engine struct {
	roller  *dice.Roller
	runner  *scripting.Runner
	presets *preset.Catalog
	logger  *zap.Logger
}

// New creates an Engine from cfg. A non-zero cfg.Roller.Seed selects a
// deterministic source; zero selects crypto/rand.
//
// Precondition: cfg.Validate() == nil; logger must be non-nil.
// Postcondition: Returns a ready Engine, or an error if the preset catalog
// cannot be loaded.
func New(cfg config.Config, logger *zap.Logger) (*Engine, error) {
	var src dice.Source
	if cfg.Roller.Seed != 0 {
		src = dice.NewSeededSource(uint64(cfg.Roller.Seed))
		logger.Info("using seeded dice source", zap.Int64("seed", cfg.Roller.Seed))
	} else {
		src = dice.NewCryptoSource()
	}
	return NewWithSource(cfg, src, logger)
}

// NewWithSource is New with an explicit randomness source; cfg.Roller.Seed is
// ignored.
func NewWithSource(cfg config.Config, src dice.Source, logger *zap.Logger) (*Engine, error) {
	catalog, err := loadCatalog(cfg)
	if err != nil {
		return nil, err
	}

	roller := dice.NewLoggedRollerWithParser(src, logger, cfg.Roller.Parser())
	e := &Engine{
		roller:  roller,
		runner:  scripting.NewRunner(roller, logger, cfg.Scripting.InstructionLimit),
		presets: catalog,
		logger:  logger,
	}
	logger.Debug("dice engine ready",
		zap.Int("presets", catalog.Len()),
		zap.Int("max_dice", cfg.Roller.MaxDice),
		zap.Int("max_sides", cfg.Roller.MaxSides),
		zap.Int("max_modifier", cfg.Roller.MaxModifier),
		zap.Int("instruction_limit", cfg.Scripting.InstructionLimit),
	)
	return e, nil
}

// loadCatalog loads cfg.Presets.Path and checks every notation preset
// against the configured limits.
func loadCatalog(cfg config.Config) (*preset.Catalog, error) {
	if cfg.Presets.Path == "" {
		return preset.NewCatalog()
	}
	catalog, err := preset.Load(cfg.Presets.Path)
	if err != nil {
		return nil, fmt.Errorf("loading presets: %w", err)
	}
	parser := cfg.Roller.Parser()
	for _, name := range catalog.Names() {
		p, _ := catalog.Get(name)
		if p.IsScript() {
			continue
		}
		if _, err := dice.ParseRollWith(parser, p.Notation); err != nil {
			return nil, fmt.Errorf("preset %q: %w", name, err)
		}
	}
	return catalog, nil
}

// Roll parses and rolls expr with the configured limits.
//
// Postcondition: returns one DiceSetResults per comma-separated group, or a
// *dice.ParseError.
func (e *Engine) Roll(expr string) ([]dice.DiceSetResults, error) {
	return e.roller.RollExpr(expr)
}

// RollPreset rolls the named preset.
//
// Postcondition: returns an error wrapping ErrUnknownPreset if name is not in
// the catalog.
func (e *Engine) RollPreset(name string) (Outcome, error) {
	p, ok := e.presets.Get(name)
	if !ok {
		return Outcome{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}

	var out Outcome
	if p.IsScript() {
		res, err := e.runner.Run(p.Name, p.Script)
		if err != nil {
			return Outcome{}, err
		}
		out = Outcome{Preset: p.Name, Total: res.Value}
		for _, roll := range res.Rolls {
			out.Sets = append(out.Sets, roll...)
		}
	} else {
		sets, err := e.roller.RollExpr(p.Notation)
		if err != nil {
			return Outcome{}, fmt.Errorf("preset %q: %w", p.Name, err)
		}
		out = Outcome{Preset: p.Name, Sets: sets, Total: sumTotals(sets)}
	}

	e.logger.Info("preset rolled",
		zap.String("preset", out.Preset),
		zap.Bool("script", p.IsScript()),
		zap.Int("total", out.Total),
	)
	return out, nil
}

// Presets returns the sorted preset names.
func (e *Engine) Presets() []string {
	return e.presets.Names()
}

// Preset returns a copy of the named preset definition.
func (e *Engine) Preset(name string) (preset.Preset, bool) {
	return e.presets.Get(name)
}

func sumTotals(sets []dice.DiceSetResults) int {
	total := 0
	for _, s := range sets {
		total += s.Total
	}
	return total
}
