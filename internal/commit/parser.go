package commit

import (
	"github.com/charmbracelet/log"
)

// Parser turns raw commit text into a Commit record.
type Parser interface {
	// Parse never fails. An unparseable message yields a record with an
	// empty Type and the raw first line as Title.
	Parse(id, message string) Commit

	// Name identifies the strategy for logging.
	Name() string
}

// Strategy names accepted in configuration.
const (
	StrategyConventional = "conventional"
	StrategyPatterns     = "patterns"
)

// Strategy selects a parser implementation. The zero value selects the
// conventional grammar.
type Strategy struct {
	Name     string
	Patterns PatternSet
}

// NewParser builds the parser for the given strategy. Configuration errors
// are recoverable: an unknown strategy name falls back to the conventional
// grammar, and invalid custom patterns fall back to the built-in defaults.
func NewParser(s Strategy) Parser {
	switch s.Name {
	case "", StrategyConventional:
		return ConventionalParser{}
	case StrategyPatterns:
		p, err := NewPatternParser(s.Patterns)
		if err != nil {
			log.Warn("invalid commit patterns, using defaults", "err", err)
			return DefaultPatternParser()
		}
		return p
	default:
		log.Warn("unknown parser strategy, using conventional", "strategy", s.Name)
		return ConventionalParser{}
	}
}
