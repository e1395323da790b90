// Package git provides read-only repository access for vnext: opening a
// working copy, resolving HEAD, listing release tags, finding merge bases
// and root commits, and extracting the hosting identity from the origin
// remote. It uses the go-git library so no git CLI installation is needed.
// Nothing in this package mutates repository state.
package git

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Absence conditions. These are expected in non-repository contexts (CI
// staging directories, fresh checkouts) and callers substitute the 0.0.0
// fallback instead of failing.
var (
	ErrNoRepository = fmt.Errorf("not a git repository")
	ErrNoHead       = fmt.Errorf("repository has no resolvable HEAD")
)

// Open opens the repository containing path, traversing up the directory
// tree to find the repository root. An empty path means the current working
// directory. Returns ErrNoRepository when no repository is found.
func Open(path string) (*git.Repository, error) {
	if path == "" {
		var err error
		path, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
	}

	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		log.Debug("open repository", "path", path, "err", err)
		return nil, fmt.Errorf("%w: %s", ErrNoRepository, path)
	}
	return repo, nil
}

// Head resolves HEAD to a commit. Returns ErrNoHead for empty repositories
// or detached states that do not point at a commit.
func Head(repo *git.Repository) (*object.Commit, error) {
	ref, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoHead, err)
	}
	commit, err := repo.CommitObject(ref.Hash())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoHead, err)
	}
	return commit, nil
}

// Tag is one repository tag resolved to the commit it points at.
type Tag struct {
	Name   string
	Commit *object.Commit
}

// Tags lists all tags, peeling annotated tags to their target commits.
// Tags that do not point at commits are skipped.
func Tags(repo *git.Repository) ([]Tag, error) {
	iter, err := repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}

	var tags []Tag
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name().Short()
		commit, err := peelToCommit(repo, ref.Hash())
		if err != nil {
			log.Debug("skipping tag", "tag", name, "err", err)
			return nil
		}
		tags = append(tags, Tag{Name: name, Commit: commit})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterating tags: %w", err)
	}
	return tags, nil
}

// peelToCommit resolves a tag reference hash to a commit, following one
// level of annotated-tag indirection.
func peelToCommit(repo *git.Repository, hash plumbing.Hash) (*object.Commit, error) {
	if tag, err := repo.TagObject(hash); err == nil {
		return tag.Commit()
	}
	return repo.CommitObject(hash)
}

// MergeBase returns the lowest common ancestor of two commits, or nil when
// their histories are disjoint.
func MergeBase(a, b *object.Commit) (*object.Commit, error) {
	bases, err := a.MergeBase(b)
	if err != nil {
		return nil, fmt.Errorf("finding merge base of %s and %s: %w", a.Hash, b.Hash, err)
	}
	if len(bases) == 0 {
		return nil, nil
	}
	return bases[0], nil
}

// RootCommit follows first-parent links from start until it reaches a
// commit with no parents.
func RootCommit(start *object.Commit) (*object.Commit, error) {
	current := start
	for current.NumParents() > 0 {
		parent, err := current.Parent(0)
		if err != nil {
			return nil, fmt.Errorf("reading parent of %s: %w", current.Hash, err)
		}
		current = parent
	}
	return current, nil
}
