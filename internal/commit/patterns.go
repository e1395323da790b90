package commit

import (
	"fmt"
	"regexp"
	"strings"
)

// Built-in extraction patterns for the pattern-set strategy. Each pattern
// extracts one part of the record through its first capture group, except
// Breaking which is a plain match.
const (
	DefaultTypePattern     = `^([\w-]+)(?:.*)?!?:.*`
	DefaultScopePattern    = `^[\w-]+(?:\((.*)\))?!?:.*`
	DefaultTitlePattern    = `^[\w-]+(?:.*)?!?:\s(.*)`
	DefaultBodyPattern     = `^[\w-]+(?:.*)?!?:\s.*\n\s*((?:BREAKING CHANGE:)?\s*[\s\S]*)`
	DefaultBreakingPattern = `(?:^[^\n]*\n\nBREAKING CHANGE:.*|^[\w-]+(?:.*)?!:.*)`
)

// PatternSet holds the five configurable extraction patterns.
type PatternSet struct {
	Type     string
	Scope    string
	Title    string
	Body     string
	Breaking string
}

// DefaultPatternSet returns the built-in patterns.
func DefaultPatternSet() PatternSet {
	return PatternSet{
		Type:     DefaultTypePattern,
		Scope:    DefaultScopePattern,
		Title:    DefaultTitlePattern,
		Body:     DefaultBodyPattern,
		Breaking: DefaultBreakingPattern,
	}
}

// fillDefaults replaces empty patterns with their built-in counterparts so a
// configuration may override only some of the set.
func (p PatternSet) fillDefaults() PatternSet {
	d := DefaultPatternSet()
	if p.Type == "" {
		p.Type = d.Type
	}
	if p.Scope == "" {
		p.Scope = d.Scope
	}
	if p.Title == "" {
		p.Title = d.Title
	}
	if p.Body == "" {
		p.Body = d.Body
	}
	if p.Breaking == "" {
		p.Breaking = d.Breaking
	}
	return p
}

// PatternParser extracts each record part with an independently configured
// regular expression. Breaking changes are reported through BreakingFlag;
// the strategy has no separate footer detection.
type PatternParser struct {
	typeRe     *regexp.Regexp
	scopeRe    *regexp.Regexp
	titleRe    *regexp.Regexp
	bodyRe     *regexp.Regexp
	breakingRe *regexp.Regexp
}

// NewPatternParser compiles the given pattern set. Empty patterns take the
// built-in defaults. An invalid pattern returns an error so the caller can
// fall back rather than abort the run.
func NewPatternParser(p PatternSet) (*PatternParser, error) {
	p = p.fillDefaults()

	compile := func(name, pattern string) (*regexp.Regexp, error) {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("compiling %s pattern %q: %w", name, pattern, err)
		}
		return re, nil
	}

	var parser PatternParser
	var err error
	if parser.typeRe, err = compile("type", p.Type); err != nil {
		return nil, err
	}
	if parser.scopeRe, err = compile("scope", p.Scope); err != nil {
		return nil, err
	}
	if parser.titleRe, err = compile("title", p.Title); err != nil {
		return nil, err
	}
	if parser.bodyRe, err = compile("body", p.Body); err != nil {
		return nil, err
	}
	if parser.breakingRe, err = compile("breaking", p.Breaking); err != nil {
		return nil, err
	}
	return &parser, nil
}

// DefaultPatternParser returns a parser compiled from the built-in patterns.
func DefaultPatternParser() *PatternParser {
	p, err := NewPatternParser(DefaultPatternSet())
	if err != nil {
		// The built-in patterns are compile-checked by tests; reaching
		// this is a programming defect.
		panic(err)
	}
	return p
}

// Parse implements Parser.
func (p *PatternParser) Parse(id, message string) Commit {
	c := Commit{ID: id, RawMessage: message}

	c.Type = firstGroup(p.typeRe, message)
	c.Scope = firstGroup(p.scopeRe, message)
	c.Title = firstGroup(p.titleRe, message)
	c.Body = strings.TrimSpace(firstGroup(p.bodyRe, message))
	c.BreakingFlag = p.breakingRe.MatchString(message)

	if c.Title == "" {
		c.Title = FirstLine(message)
	}
	return c
}

// Name implements Parser.
func (p *PatternParser) Name() string { return StrategyPatterns }

func firstGroup(re *regexp.Regexp, s string) string {
	m := re.FindStringSubmatch(s)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}
