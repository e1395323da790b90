// Package history traverses the commit graph between the current head and
// the release boundary, parsing and classifying every commit it visits.
package history

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/ariel-frischer/vnext/internal/bump"
	"github.com/ariel-frischer/vnext/internal/commit"
	"github.com/ariel-frischer/vnext/internal/git"
)

// Summary aggregates one traversal: category counts and the visited records
// in visitation order (newest first). Rendering reverses to oldest first.
type Summary struct {
	Major int
	Minor int
	Patch int
	None  int

	Commits []commit.Commit
}

// IDs returns the commit identifiers in visitation order.
func (s *Summary) IDs() []string {
	ids := make([]string, len(s.Commits))
	for i, c := range s.Commits {
		ids[i] = c.ID
	}
	return ids
}

// Walk traverses commits reachable from head, hiding the boundary commit
// and everything reachable through it when the boundary is a release tag.
// An untagged boundary is the repository root, which is itself part of the
// unreleased changeset, so nothing is hidden; in particular a single-commit
// repository analyzes its only commit.
//
// Each visited commit is parsed and classified; the returned severity is
// the maximum observed, None for an empty changeset. The traversal is
// ancestry-aware (merge commits contribute all parents) and cycle-safe.
func Walk(head *object.Commit, boundary git.Boundary, parser commit.Parser, policy bump.Policy) (bump.Severity, *Summary, error) {
	var hidden map[plumbing.Hash]bool
	if boundary.Tagged {
		var err error
		hidden, err = reachable(boundary.Commit)
		if err != nil {
			return bump.None, nil, fmt.Errorf("resolving commits below boundary: %w", err)
		}
	}

	summary := &Summary{}
	overall := bump.None

	iter := object.NewCommitPreorderIter(head, hidden, nil)
	err := iter.ForEach(func(c *object.Commit) error {
		record := parser.Parse(c.Hash.String(), c.Message)
		severity := policy.Classify(record)
		log.Debug("classified commit", "commit", record.ID, "type", record.Type, "severity", severity)

		switch severity {
		case bump.Major:
			summary.Major++
		case bump.Minor:
			summary.Minor++
		case bump.Patch:
			summary.Patch++
		case bump.None:
			summary.None++
		}

		overall = bump.Max(overall, severity)
		summary.Commits = append(summary.Commits, record)
		return nil
	})
	if err != nil {
		return bump.None, nil, fmt.Errorf("walking history from %s: %w", head.Hash, err)
	}

	return overall, summary, nil
}

// reachable collects every commit reachable from start, start included.
// The visited set bounds the traversal even on malformed graphs.
func reachable(start *object.Commit) (map[plumbing.Hash]bool, error) {
	seen := make(map[plumbing.Hash]bool)
	stack := []*object.Commit{start}

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[current.Hash] {
			continue
		}
		seen[current.Hash] = true

		err := current.Parents().ForEach(func(parent *object.Commit) error {
			if !seen[parent.Hash] {
				stack = append(stack, parent)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return seen, nil
}
