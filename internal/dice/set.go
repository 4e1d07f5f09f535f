package dice

import (
	"fmt"
	"slices"
	"strings"
)

// DiceSet is an ordered group of Dice whose totals combine into one figure,
// e.g. "2d6+2 - d4".
type DiceSet struct {
	dice []Dice
}

// NewDiceSet returns a DiceSet owning a copy of d.
func NewDiceSet(d ...Dice) DiceSet {
	return DiceSet{dice: slices.Clone(d)}
}

// Dice returns a copy of the set's dice in declaration order.
func (s DiceSet) Dice() []Dice {
	return slices.Clone(s.dice)
}

// Len returns the number of dice groups in the set.
func (s DiceSet) Len() int {
	return len(s.dice)
}

// MaxSetLen is the largest number of Dice a set may hold. With each group
// total bounded by Dice.Validate, it keeps the set total within int64.
const MaxSetLen = 1 << 16

// Validate returns an error if the set holds more than MaxSetLen dice, or the
// first validation error among its dice.
func (s DiceSet) Validate() error {
	if len(s.dice) > MaxSetLen {
		return fmt.Errorf("dice: set holds %d groups (max %d)", len(s.dice), MaxSetLen)
	}
	for _, d := range s.dice {
		if err := d.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Evaluate evaluates each Dice in order against the same src and folds the
// totals according to each Dice's Sign.
//
// Precondition: s.Validate() == nil. Panics otherwise.
// Postcondition: len(result.Results) == s.Len(); draws are consumed from src
// strictly in declaration order.
func (s DiceSet) Evaluate(src Source) DiceSetResults {
	if len(s.dice) > MaxSetLen {
		panic(fmt.Sprintf("dice: set holds %d groups (max %d)", len(s.dice), MaxSetLen))
	}
	results := make([]RollResult, len(s.dice))
	total := 0
	for i, d := range s.dice {
		r := d.Evaluate(src)
		results[i] = r
		switch d.Sign {
		case Add:
			total += r.Total
		case Subtract:
			total -= r.Total
		}
	}
	return DiceSetResults{Results: results, Total: total}
}

// Roll evaluates s against the default crypto-backed source.
func (s DiceSet) Roll() DiceSetResults {
	return s.Evaluate(defaultSource)
}

// String renders the set in dice notation, e.g. "2d6+2 + d10 - d4".
func (s DiceSet) String() string {
	var b strings.Builder
	for i, d := range s.dice {
		if i == 0 {
			b.WriteString(d.String())
			continue
		}
		b.WriteString(" " + d.Sign.String() + " ")
		unsigned := d
		unsigned.Sign = Add
		b.WriteString(unsigned.String())
	}
	return b.String()
}
