package dice

import (
	"slices"
	"strings"
)

// Roll is an ordered collection of independent DiceSets, each reported
// separately, e.g. three rolls on a loot table: "d100, d100, d100".
type Roll struct {
	sets []DiceSet
}

// NewRoll returns a Roll owning a copy of sets.
func NewRoll(sets ...DiceSet) Roll {
	return Roll{sets: slices.Clone(sets)}
}

// Sets returns a copy of the roll's sets in declaration order.
func (r Roll) Sets() []DiceSet {
	return slices.Clone(r.sets)
}

// Validate returns the first validation error among the roll's sets.
func (r Roll) Validate() error {
	for _, s := range r.sets {
		if err := s.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Evaluate evaluates every set in order against the same src. Each set
// consumes all of its draws before the next set begins.
//
// Postcondition: len(result) == len(r.Sets()), in the same order.
func (r Roll) Evaluate(src Source) []DiceSetResults {
	out := make([]DiceSetResults, len(r.sets))
	for i, s := range r.sets {
		out[i] = s.Evaluate(src)
	}
	return out
}

// Roll evaluates r against the default crypto-backed source.
func (r Roll) Roll() []DiceSetResults {
	return r.Evaluate(defaultSource)
}

// String renders the roll in dice notation with sets separated by ", ".
func (r Roll) String() string {
	parts := make([]string, len(r.sets))
	for i, s := range r.sets {
		parts[i] = s.String()
	}
	return strings.Join(parts, ", ")
}
