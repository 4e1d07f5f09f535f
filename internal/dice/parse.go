package dice

import (
	"fmt"

	"github.com/cory-johannsen/dicebag/internal/notation"
)

// FromNotation maps a parsed notation term onto a Dice.
//
// Returns ErrUnknown if the term carries a mode or operation this package
// does not know.
func FromNotation(t notation.Term) (Dice, error) {
	var mode Mode
	switch t.Mode {
	case notation.Regular:
		mode = Regular
	case notation.WithAdvantage:
		mode = Advantage
	case notation.WithDisadvantage:
		mode = Disadvantage
	default:
		return Dice{}, fmt.Errorf("mapping roll mode %v: %w", t.Mode, ErrUnknown)
	}

	var sign Sign
	switch t.Operation {
	case notation.Addition:
		sign = Add
	case notation.Subtraction:
		sign = Subtract
	default:
		return Dice{}, fmt.Errorf("mapping operation %v: %w", t.Operation, ErrUnknown)
	}

	return New(t.Count, t.Sides, t.Modifier, mode, sign), nil
}

// ParseRoll parses a line such as "2d6+2 - d4, d100" with the default
// notation limits.
//
// Returns a *ParseError wrapping the parser diagnostic on malformed input.
func ParseRoll(line string) (Roll, error) {
	return ParseRollWith(notation.DefaultParser, line)
}

// ParseRollWith parses line using p.
func ParseRollWith(p notation.Parser, line string) (Roll, error) {
	groups, err := p.Parse(line)
	if err != nil {
		return Roll{}, &ParseError{Input: line, Err: err}
	}

	sets := make([]DiceSet, 0, len(groups))
	for _, g := range groups {
		set, err := setFromTerms(g)
		if err != nil {
			return Roll{}, err
		}
		sets = append(sets, set)
	}
	roll := Roll{sets: sets}
	if err := roll.Validate(); err != nil {
		return Roll{}, &ParseError{Input: line, Err: err}
	}
	return roll, nil
}

// ParseDiceSet parses a single group such as "2d6+2 + d10+2 - 2d4-1".
// Input containing more than one comma-separated group is rejected.
func ParseDiceSet(line string) (DiceSet, error) {
	roll, err := ParseRoll(line)
	if err != nil {
		return DiceSet{}, err
	}
	if len(roll.sets) != 1 {
		return DiceSet{}, &ParseError{
			Input: line,
			Err:   fmt.Errorf("expected a single dice set, got %d", len(roll.sets)),
		}
	}
	return roll.sets[0], nil
}

// MustParseRoll parses line and panics on error. Useful for package-level
// values.
func MustParseRoll(line string) Roll {
	r, err := ParseRoll(line)
	if err != nil {
		panic("dice: MustParseRoll failed: " + err.Error())
	}
	return r
}

func setFromTerms(terms []notation.Term) (DiceSet, error) {
	dice := make([]Dice, 0, len(terms))
	for _, t := range terms {
		d, err := FromNotation(t)
		if err != nil {
			return DiceSet{}, err
		}
		dice = append(dice, d)
	}
	return DiceSet{dice: dice}, nil
}
