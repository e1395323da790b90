package commit

import (
	"regexp"
	"strings"
)

// headerPattern matches a full conventional commit message:
// "type(scope)?!?: title" on the first line, any blank lines, then an
// optional body whose first line may begin with the breaking-change footer.
//
// Groups: 1 type, 2 scope, 3 breaking marker, 4 title, 5 body including the
// footer token, 6 footer token when it starts the body.
const headerPattern = `^([\w-]+)(?:\(([^\)]+)\))?(!)?:\s*(.*)\n*((BREAKING CHANGE:)?\s?[\s\S]*)?`

var headerRegexp = regexp.MustCompile(headerPattern)

// ConventionalParser implements the Conventional Commits grammar
// (https://www.conventionalcommits.org/).
type ConventionalParser struct{}

// Parse splits a message into type, scope, title and body. The breaking
// footer sets BreakingBody only when it begins the body's first line; the
// token appearing anywhere later is ordinary body text.
func (ConventionalParser) Parse(id, message string) Commit {
	c := Commit{ID: id, RawMessage: message}

	m := headerRegexp.FindStringSubmatch(message)
	if m == nil {
		c.Title = FirstLine(message)
		return c
	}

	c.Type = m[1]
	c.Scope = m[2]
	c.BreakingFlag = m[3] != ""
	c.Title = m[4]
	c.Body = strings.TrimLeft(m[5], " \t\r\n")
	c.BreakingBody = m[6] != ""
	return c
}

// Name implements Parser.
func (ConventionalParser) Name() string { return StrategyConventional }
