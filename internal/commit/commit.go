// Package commit defines the parsed representation of a single commit
// message and the parser strategies that produce it. Parsing never fails:
// text that does not match the active grammar degrades to a record carrying
// only the raw message and its first line, which downstream classification
// treats as an ordinary patch-level change.
package commit

import "strings"

// Author identifies who wrote a commit. Handle is the hosting-provider
// login (e.g. a GitHub username) and may be empty when only the git
// signature is known.
type Author struct {
	Name   string
	Email  string
	Handle string
}

// Commit is the normalized representation of one commit message.
// It is created once by a Parser and treated as an immutable value,
// except that an Author may be attached exactly once afterwards by the
// enrichment layer.
type Commit struct {
	// ID is the stable identifier of the underlying commit.
	ID string

	// RawMessage preserves the full original message text verbatim.
	RawMessage string

	// Type is the short leading token ("feat", "fix", "chore", ...).
	// Empty when the message does not match the active grammar.
	Type string

	// Scope is the optional area token from "type(scope): title".
	Scope string

	// Title is the first-line summary. Falls back to the raw first line
	// when the message is unparseable.
	Title string

	// Body is the remaining text after the title, trimmed of leading
	// blank lines. Empty when the message has no body.
	Body string

	// BreakingFlag is set when the grammar's explicit marker appears
	// adjacent to the type/scope (the trailing "!").
	BreakingFlag bool

	// BreakingBody is set only when the body's first line begins with the
	// literal breaking-change footer token. The token appearing later in
	// the body, or mid-sentence, does not set this.
	BreakingBody bool

	// Author is populated by the enrichment layer when available.
	Author *Author
}

// BreakingFooter is the literal footer token that marks an incompatible
// change when it starts the first line of a commit body.
const BreakingFooter = "BREAKING CHANGE:"

// Breaking reports whether the commit declares an incompatible change,
// either through the header marker or the body footer.
func (c Commit) Breaking() bool {
	return c.BreakingFlag || c.BreakingBody
}

// Headline returns the one-line summary used in changelog bullets:
// the conventional header reconstructed from the parsed parts, or the raw
// first line when the message did not match the grammar.
func (c Commit) Headline() string {
	if c.Type == "" {
		return FirstLine(c.RawMessage)
	}
	var b strings.Builder
	b.WriteString(c.Type)
	if c.Scope != "" {
		b.WriteString("(")
		b.WriteString(c.Scope)
		b.WriteString(")")
	}
	if c.BreakingFlag {
		b.WriteString("!")
	}
	b.WriteString(": ")
	b.WriteString(c.Title)
	return b.String()
}

// FirstLine returns the text up to the first newline.
func FirstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
