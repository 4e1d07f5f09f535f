package engine_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/dicebag/internal/config"
	"github.com/cory-johannsen/dicebag/internal/dice"
	"github.com/cory-johannsen/dicebag/internal/engine"
	"github.com/cory-johannsen/dicebag/internal/testutil"
)

const presetsYAML = `
presets:
  - name: damage
    notation: 2d6+2 - d4
  - name: stats
    notation: 4d6, 4d6
  - name: attack
    script: |
      local hit = dice.roll("d20 adv").total
      if hit < 10 then return 0 end
      return dice.roll("2d6").total
`

func configWithPresets(t *testing.T) config.Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "presets.yaml")
	require.NoError(t, os.WriteFile(path, []byte(presetsYAML), 0644))
	cfg := config.Default()
	cfg.Presets.Path = path
	return cfg
}

func TestEngine_Roll(t *testing.T) {
	e, err := engine.NewWithSource(config.Default(), testutil.NewSequenceSource(t, 2, 6, 2, 3, 3), zap.NewNop())
	require.NoError(t, err)

	res, err := e.Roll("2d6, d10 , 2d4")
	require.NoError(t, err)
	require.Len(t, res, 3)
	assert.Equal(t, 8, res[0].Total)
	assert.Equal(t, 2, res[1].Total)
	assert.Equal(t, 6, res[2].Total)
}

func TestEngine_Roll_ParseError(t *testing.T) {
	e, err := engine.New(config.Default(), zap.NewNop())
	require.NoError(t, err)

	_, err = e.Roll("2d6 +")
	var perr *dice.ParseError
	assert.True(t, errors.As(err, &perr))
}

func TestEngine_Roll_ConfiguredLimits(t *testing.T) {
	cfg := config.Default()
	cfg.Roller.MaxDice = 5
	e, err := engine.New(cfg, zap.NewNop())
	require.NoError(t, err)

	_, err = e.Roll("6d6")
	assert.Error(t, err)
	_, err = e.Roll("5d6")
	assert.NoError(t, err)
}

func TestEngine_SeededIsDeterministic(t *testing.T) {
	cfg := config.Default()
	cfg.Roller.Seed = 2024

	a, err := engine.New(cfg, zap.NewNop())
	require.NoError(t, err)
	b, err := engine.New(cfg, zap.NewNop())
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		ra, err := a.Roll("3d6 adv - d4, d100")
		require.NoError(t, err)
		rb, err := b.Roll("3d6 adv - d4, d100")
		require.NoError(t, err)
		assert.Equal(t, ra, rb)
	}
}

func TestEngine_New_LogsSeed(t *testing.T) {
	logger, logs := testutil.NewObservedLogger(zap.InfoLevel)
	cfg := config.Default()
	cfg.Roller.Seed = 9

	_, err := engine.New(cfg, logger)
	require.NoError(t, err)

	entries := logs.FilterMessage("using seeded dice source").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(9), entries[0].ContextMap()["seed"])
}

func TestEngine_Presets(t *testing.T) {
	e, err := engine.New(configWithPresets(t), zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, []string{"attack", "damage", "stats"}, e.Presets())

	p, ok := e.Preset("damage")
	require.True(t, ok)
	assert.Equal(t, "2d6+2 - d4", p.Notation)
}

func TestEngine_NoPresets(t *testing.T) {
	e, err := engine.New(config.Default(), zap.NewNop())
	require.NoError(t, err)
	assert.Empty(t, e.Presets())
}

func TestEngine_RollPreset_Notation(t *testing.T) {
	logger, logs := testutil.NewObservedLogger(zap.InfoLevel)
	e, err := engine.NewWithSource(configWithPresets(t), testutil.NewSequenceSource(t, 2, 6, 4), logger)
	require.NoError(t, err)

	out, err := e.RollPreset("damage")
	require.NoError(t, err)
	assert.Equal(t, "damage", out.Preset)
	require.Len(t, out.Sets, 1)
	assert.Equal(t, 6, out.Sets[0].Total)
	assert.Equal(t, 6, out.Total)

	entries := logs.FilterMessage("preset rolled").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(6), entries[0].ContextMap()["total"])
}

func TestEngine_RollPreset_MultipleSetsSum(t *testing.T) {
	e, err := engine.NewWithSource(configWithPresets(t), testutil.NewSequenceSource(t, 1, 2, 3, 4, 6, 6, 6, 6), zap.NewNop())
	require.NoError(t, err)

	out, err := e.RollPreset("stats")
	require.NoError(t, err)
	require.Len(t, out.Sets, 2)
	assert.Equal(t, 10, out.Sets[0].Total)
	assert.Equal(t, 24, out.Sets[1].Total)
	assert.Equal(t, 34, out.Total)
}

func TestEngine_RollPreset_Script(t *testing.T) {
	// d20 adv draws 4 and 15, then 2d6 draws 3 and 5.
	e, err := engine.NewWithSource(configWithPresets(t), testutil.NewSequenceSource(t, 4, 15, 3, 5), zap.NewNop())
	require.NoError(t, err)

	out, err := e.RollPreset("attack")
	require.NoError(t, err)
	assert.Equal(t, 8, out.Total)
	require.Len(t, out.Sets, 2)
	assert.Equal(t, 15, out.Sets[0].Total)
	assert.Equal(t, 8, out.Sets[1].Total)
}

func TestEngine_RollPreset_ScriptMiss(t *testing.T) {
	e, err := engine.NewWithSource(configWithPresets(t), testutil.NewSequenceSource(t, 4, 2), zap.NewNop())
	require.NoError(t, err)

	out, err := e.RollPreset("attack")
	require.NoError(t, err)
	assert.Equal(t, 0, out.Total)
	require.Len(t, out.Sets, 1)
}

func TestEngine_RollPreset_Unknown(t *testing.T) {
	e, err := engine.New(configWithPresets(t), zap.NewNop())
	require.NoError(t, err)

	_, err = e.RollPreset("nope")
	assert.ErrorIs(t, err, engine.ErrUnknownPreset)
}

func TestEngine_New_PresetExceedsLimits(t *testing.T) {
	cfg := configWithPresets(t)
	cfg.Roller.MaxSides = 4

	_, err := engine.New(cfg, zap.NewNop())
	require.Error(t, err)
	var perr *dice.ParseError
	assert.True(t, errors.As(err, &perr))
}

func TestEngine_New_MissingPresets(t *testing.T) {
	cfg := config.Default()
	cfg.Presets.Path = filepath.Join(t.TempDir(), "missing.yaml")

	_, err := engine.New(cfg, zap.NewNop())
	assert.Error(t, err)
}

func TestEngine_New_PresetWithinRaisedLimits(t *testing.T) {
	path := filepath.Join(t.TempDir(), "horde.yaml")
	require.NoError(t, os.WriteFile(path, []byte("presets:\n  - name: horde\n    notation: 2000d6\n"), 0644))
	cfg := config.Default()
	cfg.Roller.MaxDice = 5000
	cfg.Presets.Path = path

	e, err := engine.New(cfg, zap.NewNop())
	require.NoError(t, err)

	_, err = e.Roll("2000d6")
	require.NoError(t, err)
	out, err := e.RollPreset("horde")
	require.NoError(t, err)
	require.Len(t, out.Sets, 1)
	assert.Len(t, out.Sets[0].Results[0].FirstDraws, 2000)
}

func TestEngine_New_PresetAboveDefaultLimitsRejectedByDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "horde.yaml")
	require.NoError(t, os.WriteFile(path, []byte("presets:\n  - name: horde\n    notation: 2000d6\n"), 0644))
	cfg := config.Default()
	cfg.Presets.Path = path

	_, err := engine.New(cfg, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "horde")
}

func TestEngine_Preset_ReturnsCopy(t *testing.T) {
	e, err := engine.New(configWithPresets(t), zap.NewNop())
	require.NoError(t, err)

	p, ok := e.Preset("damage")
	require.True(t, ok)
	p.Notation = "100d100"

	again, _ := e.Preset("damage")
	assert.Equal(t, "2d6+2 - d4", again.Notation)
}

func TestEngine_NewWithSource_LogsLimits(t *testing.T) {
	logger, logs := testutil.NewObservedLogger(zap.DebugLevel)
	cfg := config.Default()
	cfg.Roller.MaxDice = 12

	_, err := engine.NewWithSource(cfg, dice.NewSeededSource(1), logger)
	require.NoError(t, err)

	entries := logs.FilterMessage("dice engine ready").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(12), entries[0].ContextMap()["max_dice"])
}
