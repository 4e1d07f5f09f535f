// Package dice evaluates tabletop dice: homogeneous groups (Dice), signed
// aggregations of groups (DiceSet), and independent collections of sets (Roll).
//
// Every evaluation takes an explicit Source so that callers and tests control
// the random stream. Values are immutable after construction and may be
// evaluated any number of times.
package dice

import (
	"fmt"
	"math"
	"strings"
)

// Mode governs whether a group is drawn once or twice.
type Mode int

const (
	// Regular draws once.
	Regular Mode = iota
	// Advantage draws twice and keeps the higher modified sum.
	Advantage
	// Disadvantage draws twice and keeps the lower modified sum.
	Disadvantage
)

func (m Mode) String() string {
	switch m {
	case Regular:
		return "regular"
	case Advantage:
		return "advantage"
	case Disadvantage:
		return "disadvantage"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Sign says how a group's total folds into its set's running total.
type Sign int

const (
	Add Sign = iota
	Subtract
)

func (s Sign) String() string {
	switch s {
	case Add:
		return "+"
	case Subtract:
		return "-"
	default:
		return fmt.Sprintf("sign(%d)", int(s))
	}
}

// MaxFaceTotal bounds both Count*Sides and |Modifier|, so a group total lies
// in [-MaxFaceTotal, 2*MaxFaceTotal] and set totals never wrap a 64-bit int.
const MaxFaceTotal = math.MaxInt32

// Dice is a group of identical dice rolled together, e.g. 3d6+2.
type Dice struct {
	Count    int
	Sides    int
	Modifier int
	Mode     Mode
	Sign     Sign
}

// New returns a Dice holding the given fields. No validation is performed;
// see Validate.
func New(count, sides, modifier int, mode Mode, sign Sign) Dice {
	return Dice{
		Count:    count,
		Sides:    sides,
		Modifier: modifier,
		Mode:     mode,
		Sign:     sign,
	}
}

// Validate reports whether d can be evaluated.
//
// Postcondition: returns nil iff Count >= 0, Sides >= 1 whenever Count > 0,
// Count*Sides <= MaxFaceTotal, |Modifier| <= MaxFaceTotal, and Mode and Sign
// are known values. A valid Dice total therefore lies in
// [-MaxFaceTotal, 2*MaxFaceTotal].
func (d Dice) Validate() error {
	if d.Count < 0 {
		return fmt.Errorf("dice: count must be >= 0, got %d", d.Count)
	}
	if d.Count > 0 && d.Sides < 1 {
		return fmt.Errorf("dice: sides must be >= 1, got %d", d.Sides)
	}
	if d.Count > 0 && d.Sides > MaxFaceTotal/d.Count {
		return fmt.Errorf("dice: %dd%d may exceed the maximum total of %d", d.Count, d.Sides, MaxFaceTotal)
	}
	if d.Modifier > MaxFaceTotal || d.Modifier < -MaxFaceTotal {
		return fmt.Errorf("dice: modifier %d out of range (max %d)", d.Modifier, MaxFaceTotal)
	}
	switch d.Mode {
	case Regular, Advantage, Disadvantage:
	default:
		return fmt.Errorf("dice: %w: %v", ErrUnknown, d.Mode)
	}
	switch d.Sign {
	case Add, Subtract:
	default:
		return fmt.Errorf("dice: %w: %v", ErrUnknown, d.Sign)
	}
	return nil
}

// Evaluate draws the dice from src and resolves the group total.
//
// Advantage and disadvantage compare the two modified sums, not individual
// faces.
//
// Precondition: d.Validate() == nil; src must be non-nil. Panics otherwise.
// Postcondition: len(FirstDraws) == Count; SecondDraws is nil iff Mode is
// Regular; every draw is in [1, Sides].
func (d Dice) Evaluate(src Source) RollResult {
	if err := d.Validate(); err != nil {
		panic(err.Error())
	}

	first := draw(src, d.Count, d.Sides)
	firstTotal := sum(first) + d.Modifier

	switch d.Mode {
	case Advantage, Disadvantage:
		second := draw(src, d.Count, d.Sides)
		secondTotal := sum(second) + d.Modifier
		total := max(firstTotal, secondTotal)
		if d.Mode == Disadvantage {
			total = min(firstTotal, secondTotal)
		}
		return RollResult{FirstDraws: first, SecondDraws: second, Total: total}
	default:
		return RollResult{FirstDraws: first, Total: firstTotal}
	}
}

// Roll evaluates d against the default crypto-backed source.
func (d Dice) Roll() RollResult {
	return d.Evaluate(defaultSource)
}

// String renders d in dice notation, e.g. "2d6+2", "-d4" or "d20 adv".
func (d Dice) String() string {
	var b strings.Builder
	if d.Sign == Subtract {
		b.WriteByte('-')
	}
	if d.Count != 1 {
		fmt.Fprintf(&b, "%d", d.Count)
	}
	fmt.Fprintf(&b, "d%d", d.Sides)
	if d.Modifier != 0 {
		fmt.Fprintf(&b, "%+d", d.Modifier)
	}
	switch d.Mode {
	case Advantage:
		b.WriteString(" adv")
	case Disadvantage:
		b.WriteString(" dis")
	}
	return b.String()
}

func draw(src Source, count, sides int) []int {
	out := make([]int, count)
	for i := range out {
		out[i] = src.Intn(sides) + 1
	}
	return out
}

func sum(faces []int) int {
	total := 0
	for _, f := range faces {
		total += f
	}
	return total
}
