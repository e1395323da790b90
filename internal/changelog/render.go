// Package changelog renders a traversed changeset as markdown. Rendering is
// a pure transformation: the same summary, versions and repository identity
// always produce the same string, which keeps the output golden-testable.
package changelog

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/ariel-frischer/vnext/internal/commit"
	"github.com/ariel-frischer/vnext/internal/git"
	"github.com/ariel-frischer/vnext/internal/history"
)

// FallbackText is printed in changelog mode when no repository or head can
// be resolved.
const FallbackText = "## What's changed in 0.0.0\n\n* No changes\n\n---"

// Options controls optional rendering behavior.
type Options struct {
	// HeaderScaling demotes markdown headings inside commit bodies by
	// three levels so they nest under the version heading. Enabled by
	// default from the CLI.
	HeaderScaling bool
}

// Render formats the changeset as markdown: a version heading, one bullet
// per commit oldest-first, indented bodies, and a comparison link when the
// repository is on a recognized host and current is a real release.
func Render(summary *history.Summary, next, current *semver.Version, repo git.RepoInfo, opts Options) string {
	var b strings.Builder
	fmt.Fprintf(&b, "### What's changed in v%s\n\n", next)

	if summary == nil || len(summary.Commits) == 0 {
		b.WriteString("* No changes\n")
	} else {
		// Traversal order is newest first; present oldest first.
		for i := len(summary.Commits) - 1; i >= 0; i-- {
			renderCommit(&b, summary.Commits[i], opts)
		}
	}

	if repo.Known() && !isZero(current) {
		from := "v" + current.String()
		to := "v" + next.String()
		fmt.Fprintf(&b, "\n\nSee full diff: [%s...%s](%s)", from, to, repo.CompareURL(from, to))
	}

	return b.String()
}

func renderCommit(b *strings.Builder, c commit.Commit, opts Options) {
	b.WriteString("* ")
	b.WriteString(c.Headline())
	if c.Author != nil {
		if c.Author.Handle != "" {
			fmt.Fprintf(b, " (by @%s)", c.Author.Handle)
		} else if c.Author.Name != "" {
			fmt.Fprintf(b, " (by %s)", c.Author.Name)
		}
	}
	b.WriteString("\n")

	if c.Body == "" {
		return
	}

	lines := strings.Split(c.Body, "\n")
	start := 0
	for start < len(lines) && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	if start == len(lines) {
		return
	}

	b.WriteString("\n")
	for _, line := range lines[start:] {
		if line == "" {
			b.WriteString("\n")
			continue
		}
		if opts.HeaderScaling {
			line = scaleHeading(line)
		}
		b.WriteString("  ")
		b.WriteString(line)
		b.WriteString("\n")
	}
}

// scaleHeading demotes h1-h3 by exactly three levels (#→####, ##→#####,
// ###→######). Deeper headings and non-heading lines pass through.
func scaleHeading(line string) string {
	switch {
	case strings.HasPrefix(line, "# "):
		return "#### " + line[2:]
	case strings.HasPrefix(line, "## "):
		return "##### " + line[3:]
	case strings.HasPrefix(line, "### "):
		return "###### " + line[4:]
	default:
		return line
	}
}

func isZero(v *semver.Version) bool {
	return v == nil || (v.Major() == 0 && v.Minor() == 0 && v.Patch() == 0)
}
