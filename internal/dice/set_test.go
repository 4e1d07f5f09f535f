package dice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/dicebag/internal/dice"
	"github.com/cory-johannsen/dicebag/internal/testutil"
)

func TestDiceSet_Evaluate_Subtraction(t *testing.T) {
	set := dice.NewDiceSet(
		dice.New(2, 6, 2, dice.Regular, dice.Add),
		dice.New(1, 4, 0, dice.Regular, dice.Subtract),
	)
	src := testutil.NewSequenceSource(t, 2, 6, 4)

	res := set.Evaluate(src)

	assert.Equal(t, []dice.RollResult{
		{FirstDraws: []int{2, 6}, Total: 10},
		{FirstDraws: []int{4}, Total: 4},
	}, res.Results)
	assert.Equal(t, 6, res.Total)
}

func TestDiceSet_Evaluate_Addition(t *testing.T) {
	set := dice.NewDiceSet(
		dice.New(2, 6, 2, dice.Regular, dice.Add),
		dice.New(1, 4, 0, dice.Regular, dice.Add),
	)
	res := set.Evaluate(testutil.NewSequenceSource(t, 2, 6, 4))
	assert.Equal(t, 14, res.Total)
}

func TestDiceSet_Evaluate_Combined(t *testing.T) {
	set, err := dice.ParseDiceSet("2d6+2 + d10+2 - 2d4-1")
	require.NoError(t, err)
	src := testutil.NewSequenceSource(t, 2, 6, 2, 3, 3)

	res := set.Evaluate(src)

	assert.Equal(t, []dice.RollResult{
		{FirstDraws: []int{2, 6}, Total: 10},
		{FirstDraws: []int{2}, Total: 4},
		{FirstDraws: []int{3, 3}, Total: 5},
	}, res.Results)
	assert.Equal(t, 9, res.Total)
	assert.Equal(t, 0, src.Remaining())
}

func TestDiceSet_Evaluate_AdvantageComponent(t *testing.T) {
	set := dice.NewDiceSet(
		dice.New(1, 20, 3, dice.Advantage, dice.Add),
		dice.New(1, 4, 0, dice.Regular, dice.Subtract),
	)
	res := set.Evaluate(testutil.NewSequenceSource(t, 7, 15, 2))

	require.Len(t, res.Results, 2)
	assert.Equal(t, []int{7}, res.Results[0].FirstDraws)
	assert.Equal(t, []int{15}, res.Results[0].SecondDraws)
	assert.Equal(t, 18, res.Results[0].Total)
	assert.Equal(t, 16, res.Total)
}

func TestDiceSet_Empty(t *testing.T) {
	res := dice.NewDiceSet().Evaluate(testutil.NewSequenceSource(t))
	assert.Empty(t, res.Results)
	assert.Equal(t, 0, res.Total)
}

func TestDiceSet_OwnsItsDice(t *testing.T) {
	in := []dice.Dice{dice.New(1, 6, 0, dice.Regular, dice.Add)}
	set := dice.NewDiceSet(in...)
	in[0].Sides = 100

	out := set.Dice()
	assert.Equal(t, 6, out[0].Sides)
	out[0].Sides = 200
	assert.Equal(t, 6, set.Dice()[0].Sides)
	assert.Equal(t, 1, set.Len())
}

func TestDiceSet_Deterministic(t *testing.T) {
	set := dice.NewDiceSet(
		dice.New(3, 6, 0, dice.Regular, dice.Add),
		dice.New(2, 20, 1, dice.Disadvantage, dice.Subtract),
	)
	assert.Equal(t, set.Evaluate(dice.NewSeededSource(7)), set.Evaluate(dice.NewSeededSource(7)))
}

func TestDiceSet_String(t *testing.T) {
	set := dice.NewDiceSet(
		dice.New(2, 6, 2, dice.Regular, dice.Add),
		dice.New(1, 10, 0, dice.Advantage, dice.Add),
		dice.New(2, 4, -1, dice.Regular, dice.Subtract),
	)
	assert.Equal(t, "2d6+2 + d10 adv - 2d4-1", set.String())
}

func TestDiceSet_Roll_UsesDefaultSource(t *testing.T) {
	set := dice.NewDiceSet(dice.New(2, 6, 0, dice.Regular, dice.Add))
	res := set.Roll()
	require.Len(t, res.Results, 1)
	assert.GreaterOrEqual(t, res.Total, 2)
	assert.LessOrEqual(t, res.Total, 12)
}

func TestDiceSet_Validate_TooManyGroups(t *testing.T) {
	groups := make([]dice.Dice, dice.MaxSetLen+1)
	for i := range groups {
		groups[i] = dice.New(0, 6, 0, dice.Regular, dice.Add)
	}
	set := dice.NewDiceSet(groups...)

	assert.Error(t, set.Validate())
	assert.Panics(t, func() { set.Evaluate(dice.NewSeededSource(1)) })
	assert.NoError(t, dice.NewDiceSet(groups[:dice.MaxSetLen]...).Validate())
}

func TestDiceSet_Evaluate_ExtremeTotalsDoNotWrap(t *testing.T) {
	big := dice.New(1, dice.MaxFaceTotal, dice.MaxFaceTotal, dice.Regular, dice.Add)
	set := dice.NewDiceSet(big, big, big)
	res := set.Evaluate(testutil.NewSequenceSource(t, dice.MaxFaceTotal, dice.MaxFaceTotal, dice.MaxFaceTotal))
	assert.Equal(t, 6*dice.MaxFaceTotal, res.Total)

	neg := dice.New(1, dice.MaxFaceTotal, dice.MaxFaceTotal, dice.Regular, dice.Subtract)
	res = dice.NewDiceSet(neg, neg).Evaluate(testutil.NewSequenceSource(t, dice.MaxFaceTotal, dice.MaxFaceTotal))
	assert.Equal(t, -4*dice.MaxFaceTotal, res.Total)
}

func TestDiceSet_Evaluate_SignFold(t *testing.T) {
	tests := []struct {
		name string
		sign dice.Sign
		want int
	}{
		{"add", dice.Add, 7},
		{"subtract", dice.Subtract, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := dice.NewDiceSet(
				dice.New(1, 6, 0, dice.Regular, dice.Add),
				dice.New(1, 6, 0, dice.Regular, tt.sign),
			)
			assert.Equal(t, tt.want, set.Evaluate(testutil.NewSequenceSource(t, 3, 4)).Total)
		})
	}

	bad := dice.NewDiceSet(dice.New(1, 6, 0, dice.Regular, dice.Sign(9)))
	assert.Panics(t, func() { bad.Evaluate(dice.NewSeededSource(1)) })
}
