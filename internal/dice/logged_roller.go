package dice

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/dicebag/internal/notation"
)

// Roller wraps a Source, a logger and a notation parser to provide logged
// rolling. Access to the Source is serialized, so a Roller may be shared
// between goroutines even when its Source is not safe for concurrent use.
type Roller struct {
	mu     sync.Mutex
	src    Source
	logger *zap.Logger
	parser notation.Parser
}

// NewLoggedRoller creates a Roller that rolls with src, parses with
// notation.DefaultParser, and logs each roll to logger.
//
// Precondition: src and logger must be non-nil.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	return NewLoggedRollerWithParser(src, logger, notation.DefaultParser)
}

// NewLoggedRollerWithParser is NewLoggedRoller with explicit parser limits.
func NewLoggedRollerWithParser(src Source, logger *zap.Logger, parser notation.Parser) *Roller {
	return &Roller{src: src, logger: logger, parser: parser}
}

// Roll evaluates roll and logs every set at debug level under one roll_id.
//
// Precondition: roll.Validate() == nil. An invalid roll panics, and the Roller
// remains usable once the panic is recovered.
func (r *Roller) Roll(roll Roll) []DiceSetResults {
	results := r.evaluate(roll)

	if !r.logger.Core().Enabled(zap.DebugLevel) {
		return results
	}
	id := uuid.NewString()
	for i, set := range roll.sets {
		r.logger.Debug("dice roll",
			zap.String("roll_id", id),
			zap.Int("set", i),
			zap.Stringer("dice", set),
			zap.Stringer("draws", results[i]),
			zap.Int("total", results[i].Total),
		)
	}
	return results
}

func (r *Roller) evaluate(roll Roll) []DiceSetResults {
	r.mu.Lock()
	defer r.mu.Unlock()
	return roll.Evaluate(r.src)
}

// RollExpr parses expr and rolls it, logging the result.
//
// Postcondition: returns the results or a *ParseError.
func (r *Roller) RollExpr(expr string) ([]DiceSetResults, error) {
	roll, err := ParseRollWith(r.parser, expr)
	if err != nil {
		r.logger.Debug("rejected dice expression",
			zap.String("expression", expr),
			zap.Error(err),
		)
		return nil, err
	}
	return r.Roll(roll), nil
}
