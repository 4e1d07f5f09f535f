package dice

import (
	"strconv"
	"strings"
)

// RollResult is the outcome of evaluating one Dice.
type RollResult struct {
	// FirstDraws holds the faces of the first (or only) draw, in draw order.
	FirstDraws []int
	// SecondDraws is only present for Advantage and Disadvantage rolls.
	SecondDraws []int
	// Total is the resolved group total, modifier included. The group's Sign
	// is applied by the owning DiceSet, not here.
	Total int
}

// String renders the draws as "[1, 2, 3]", or "[[4, 2], [5, 2]]" when a
// second draw is present.
func (r RollResult) String() string {
	if r.SecondDraws == nil {
		return formatDraws(r.FirstDraws)
	}
	return "[" + formatDraws(r.FirstDraws) + ", " + formatDraws(r.SecondDraws) + "]"
}

// DiceSetResults is the outcome of evaluating one DiceSet.
type DiceSetResults struct {
	// Results holds one RollResult per Dice, in declaration order.
	Results []RollResult
	// Total is the signed fold of the component totals.
	Total int
}

// String renders every component followed by the set total, e.g.
// "[2, 6], [4] = 6".
func (r DiceSetResults) String() string {
	parts := make([]string, len(r.Results))
	for i, res := range r.Results {
		parts[i] = res.String()
	}
	return strings.Join(parts, ", ") + " = " + strconv.Itoa(r.Total)
}

func formatDraws(draws []int) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, d := range draws {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.Itoa(d))
	}
	b.WriteByte(']')
	return b.String()
}
