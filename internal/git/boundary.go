package git

import (
	"github.com/Masterminds/semver/v3"
	"github.com/charmbracelet/log"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/ariel-frischer/vnext/internal/bump"
)

// Boundary is the release boundary for a traversal: the last released
// version and the commit at which history analysis stops.
type Boundary struct {
	// Version is the last released version, 0.0.0 when no release tag
	// exists.
	Version *semver.Version

	// Commit is the traversal stop point: the merge base of the maximal
	// release tag and head when a tag exists, the root commit otherwise.
	Commit *object.Commit

	// Tagged reports whether a release tag was found. When false the
	// boundary commit is the root of the repository and is itself part of
	// the unreleased changeset.
	Tagged bool
}

// ResolveBoundary finds the release boundary for the given trunk head.
//
// The released version is the maximum parsed version among all tags, not
// the most recent tag chronologically; tags that do not parse as versions
// (with an optional leading "v") are ignored. Using the merge base of the
// tag and head protects against divergent branches where the tag is not a
// strict ancestor of head.
func ResolveBoundary(repo *git.Repository, head *object.Commit) (Boundary, error) {
	tags, err := Tags(repo)
	if err != nil {
		return Boundary{}, err
	}

	tag, version := maxVersionTag(tags)
	if tag == nil {
		log.Debug("no release tags, starting from 0.0.0")
		root, err := RootCommit(head)
		if err != nil {
			return Boundary{}, err
		}
		return Boundary{
			Version: semver.New(0, 0, 0, "", ""),
			Commit:  root,
		}, nil
	}

	log.Debug("last release", "tag", tag.Name, "version", version, "commit", tag.Commit.Hash)

	base, err := MergeBase(head, tag.Commit)
	if err != nil {
		return Boundary{}, err
	}
	if base == nil {
		// Disjoint histories; stop at the tag commit itself.
		base = tag.Commit
	}
	log.Debug("base commit for analysis", "commit", base.Hash)

	return Boundary{Version: version, Commit: base, Tagged: true}, nil
}

// maxVersionTag selects the tag carrying the highest parseable version.
func maxVersionTag(tags []Tag) (*Tag, *semver.Version) {
	var best *Tag
	var bestVersion *semver.Version
	for i := range tags {
		version, err := bump.ParseTag(tags[i].Name)
		if err != nil {
			log.Debug("ignoring non-version tag", "tag", tags[i].Name)
			continue
		}
		if bestVersion == nil || version.GreaterThan(bestVersion) {
			best = &tags[i]
			bestVersion = version
		}
	}
	return best, bestVersion
}
