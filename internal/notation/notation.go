// Package notation parses tabletop dice notation such as "2d6+2 + d10+2 - 2d4-1"
// or "d100, d100" into structured dice terms.
//
// The package knows nothing about randomness or evaluation; it only produces the
// structured description consumed by the dice engine.
package notation

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Mode is the advantage state of a parsed dice term.
type Mode int

const (
	// Regular rolls once.
	Regular Mode = iota
	// WithAdvantage rolls twice and keeps the higher total.
	WithAdvantage
	// WithDisadvantage rolls twice and keeps the lower total.
	WithDisadvantage
)

// String returns the lower-case name of the mode.
func (m Mode) String() string {
	switch m {
	case Regular:
		return "regular"
	case WithAdvantage:
		return "advantage"
	case WithDisadvantage:
		return "disadvantage"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Operation says whether a term is added to or subtracted from its group.
type Operation int

const (
	Addition Operation = iota
	Subtraction
)

// String returns "+" or "-".
func (o Operation) String() string {
	switch o {
	case Addition:
		return "+"
	case Subtraction:
		return "-"
	default:
		return fmt.Sprintf("operation(%d)", int(o))
	}
}

// DiceRoll is a single homogeneous group of dice, e.g. "3d6+2 adv".
type DiceRoll struct {
	Count    int
	Sides    int
	Modifier int
	Mode     Mode
}

// Term is a DiceRoll together with the operation joining it to its group.
type Term struct {
	DiceRoll
	Operation Operation
}

// maxNumber caps every literal regardless of Parser limits, so summing a
// line's modifiers cannot wrap.
const maxNumber = math.MaxInt32

// Default limits applied by DefaultParser.
const (
	DefaultMaxCount    = 1000
	DefaultMaxSides    = 1_000_000
	DefaultMaxModifier = 1_000_000
)

// Parser parses dice notation, rejecting values outside its limits.
//
// A zero limit disables the corresponding check, except that sides must
// always be at least 1.
type Parser struct {
	MaxCount    int
	MaxSides    int
	MaxModifier int
}

// DefaultParser is the Parser used by the package-level Parse.
var DefaultParser = Parser{
	MaxCount:    DefaultMaxCount,
	MaxSides:    DefaultMaxSides,
	MaxModifier: DefaultMaxModifier,
}

// Error is a notation diagnostic pointing at a byte offset of the input.
type Error struct {
	Input string
	Pos   int
	Msg   string
}

// Error implements error. Columns are 1-based.
func (e *Error) Error() string {
	return fmt.Sprintf("%s at column %d", e.Msg, e.Pos+1)
}

// Parse parses line with DefaultParser.
func Parse(line string) ([][]Term, error) {
	return DefaultParser.Parse(line)
}

// Parse parses a line of comma-separated groups. Each group is a sequence of
// terms joined by "+" or "-".
//
// Postcondition: on success every group has at least one term, and the first
// term of every group carries the operation written before it (Addition when
// no sign was written).
func (p Parser) Parse(line string) ([][]Term, error) {
	s := &scanner{src: line, limits: p}
	if strings.TrimSpace(line) == "" {
		return nil, s.errorf(0, "empty dice expression")
	}

	var groups [][]Term
	for {
		group, err := s.group()
		if err != nil {
			return nil, err
		}
		groups = append(groups, group)

		s.skipSpace()
		if s.eof() {
			return groups, nil
		}
		if s.peek() != ',' {
			return nil, s.errorf(s.pos, "unexpected %q", s.peek())
		}
		s.pos++
	}
}

type scanner struct {
	src    string
	pos    int
	limits Parser
}

func (s *scanner) errorf(pos int, format string, args ...any) error {
	return &Error{Input: s.src, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

func (s *scanner) eof() bool { return s.pos >= len(s.src) }

func (s *scanner) peek() byte {
	if s.eof() {
		return 0
	}
	return s.src[s.pos]
}

func (s *scanner) peekAt(i int) byte {
	if i >= len(s.src) {
		return 0
	}
	return s.src[i]
}

// skipSpace advances past blanks and reports whether any were skipped.
func (s *scanner) skipSpace() bool {
	start := s.pos
	for !s.eof() && (s.peek() == ' ' || s.peek() == '\t') {
		s.pos++
	}
	return s.pos > start
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isLetter(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }

func isD(c byte) bool { return c == 'd' || c == 'D' }

// atDice reports whether a dice term ("d6", "2d6") starts at the cursor.
func (s *scanner) atDice() bool {
	i := s.pos
	for isDigit(s.peekAt(i)) {
		i++
	}
	return isD(s.peekAt(i)) && isDigit(s.peekAt(i+1))
}

func (s *scanner) number() (int, error) {
	start := s.pos
	for !s.eof() && isDigit(s.peek()) {
		s.pos++
	}
	if start == s.pos {
		return 0, s.errorf(start, "expected a number")
	}
	n, err := strconv.Atoi(s.src[start:s.pos])
	if err != nil || n > maxNumber {
		return 0, s.errorf(start, "number %q out of range", s.src[start:s.pos])
	}
	return n, nil
}

func (s *scanner) sign() (Operation, bool) {
	switch s.peek() {
	case '+':
		s.pos++
		return Addition, true
	case '-':
		s.pos++
		return Subtraction, true
	}
	return Addition, false
}

func (s *scanner) group() ([]Term, error) {
	s.skipSpace()
	start := s.pos
	op, _ := s.sign()
	s.skipSpace()
	if !s.atDice() {
		if s.eof() || s.peek() == ',' {
			return nil, s.errorf(start, "empty dice group")
		}
		return nil, s.errorf(s.pos, "expected a dice term")
	}
	first, err := s.term(op)
	if err != nil {
		return nil, err
	}
	terms := []Term{first}

	for {
		s.skipSpace()
		if s.eof() || s.peek() == ',' {
			return terms, nil
		}
		signPos := s.pos
		op, ok := s.sign()
		if !ok {
			return nil, s.errorf(s.pos, "unexpected %q", s.peek())
		}
		s.skipSpace()

		switch {
		case s.atDice():
			t, err := s.term(op)
			if err != nil {
				return nil, err
			}
			terms = append(terms, t)
		case isDigit(s.peek()):
			numPos := s.pos
			n, err := s.number()
			if err != nil {
				return nil, err
			}
			// A spaced constant folds into the previous group's modifier. The
			// group's own sign is applied on evaluation, so invert it here.
			last := &terms[len(terms)-1]
			delta := n
			if op == Subtraction {
				delta = -delta
			}
			if last.Operation == Subtraction {
				delta = -delta
			}
			last.Modifier += delta
			if err := s.checkModifier(numPos, last.Modifier); err != nil {
				return nil, err
			}
		default:
			return nil, s.errorf(signPos, "expected dice or a number after %q", s.src[signPos])
		}
	}
}

func (s *scanner) term(op Operation) (Term, error) {
	t := Term{Operation: op}

	countPos := s.pos
	if isDigit(s.peek()) {
		n, err := s.number()
		if err != nil {
			return Term{}, err
		}
		t.Count = n
	} else {
		t.Count = 1
	}
	if s.limits.MaxCount > 0 && t.Count > s.limits.MaxCount {
		return Term{}, s.errorf(countPos, "too many dice: %d (max %d)", t.Count, s.limits.MaxCount)
	}

	if !isD(s.peek()) {
		return Term{}, s.errorf(s.pos, "expected 'd'")
	}
	s.pos++

	sidesPos := s.pos
	sides, err := s.number()
	if err != nil {
		if s.pos > sidesPos {
			return Term{}, err
		}
		return Term{}, s.errorf(sidesPos, "expected number of sides")
	}
	if sides < 1 {
		return Term{}, s.errorf(sidesPos, "dice must have at least one side")
	}
	if s.limits.MaxSides > 0 && sides > s.limits.MaxSides {
		return Term{}, s.errorf(sidesPos, "too many sides: %d (max %d)", sides, s.limits.MaxSides)
	}
	t.Sides = sides

	// Modifiers written directly against the dice, e.g. "2d4-1".
	for (s.peek() == '+' || s.peek() == '-') && isDigit(s.peekAt(s.pos+1)) {
		save := s.pos
		modOp, _ := s.sign()
		if s.atDice() {
			s.pos = save
			break
		}
		modPos := s.pos
		n, err := s.number()
		if err != nil {
			return Term{}, err
		}
		if modOp == Subtraction {
			n = -n
		}
		t.Modifier += n
		if err := s.checkModifier(modPos, t.Modifier); err != nil {
			return Term{}, err
		}
	}

	mode, err := s.mode()
	if err != nil {
		return Term{}, err
	}
	t.Mode = mode
	return t, nil
}

func (s *scanner) checkModifier(pos, mod int) error {
	if s.limits.MaxModifier <= 0 {
		return nil
	}
	if mod > s.limits.MaxModifier || mod < -s.limits.MaxModifier {
		return s.errorf(pos, "modifier %d out of range (max %d)", mod, s.limits.MaxModifier)
	}
	return nil
}

// mode reads an optional whitespace-separated roll mode keyword. The cursor is
// left untouched when none is present.
func (s *scanner) mode() (Mode, error) {
	save := s.pos
	if !s.skipSpace() || !isLetter(s.peek()) {
		s.pos = save
		return Regular, nil
	}
	start := s.pos
	for !s.eof() && isLetter(s.peek()) {
		s.pos++
	}
	if isDigit(s.peek()) {
		// "d10" and friends are dice, not a mode.
		s.pos = save
		return Regular, nil
	}
	switch strings.ToLower(s.src[start:s.pos]) {
	case "a", "adv", "advantage":
		return WithAdvantage, nil
	case "d", "dis", "disadv", "disadvantage":
		return WithDisadvantage, nil
	}
	return Regular, s.errorf(start, "unknown roll mode %q", s.src[start:s.pos])
}
