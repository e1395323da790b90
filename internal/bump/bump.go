// Package bump maps parsed commits to a version-bump severity and applies
// semantic-versioning arithmetic. Both operations are pure functions.
package bump

import (
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/charmbracelet/log"

	"github.com/ariel-frischer/vnext/internal/commit"
)

// Severity is the bump magnitude associated with a commit or a set of
// commits, totally ordered by impact.
type Severity int

const (
	None Severity = iota
	Patch
	Minor
	Major
)

// String returns the lower-case severity name.
func (s Severity) String() string {
	switch s {
	case None:
		return "none"
	case Patch:
		return "patch"
	case Minor:
		return "minor"
	case Major:
		return "major"
	default:
		return "invalid"
	}
}

// Max combines two severities; the higher impact wins.
func Max(a, b Severity) Severity {
	if a > b {
		return a
	}
	return b
}

// Policy maps commit type tokens to severities. The three sets are
// configuration-defined and disjoint; a type in none of them classifies as
// Patch. The zero value classifies every typed commit as Patch.
type Policy struct {
	MajorTypes []string
	MinorTypes []string
	NoneTypes  []string
}

// DefaultPolicy mirrors the conventional-commit defaults: "major" forces a
// major bump, "feat"/"minor" a minor one, and "chore"/"noop" no bump.
func DefaultPolicy() Policy {
	return Policy{
		MajorTypes: []string{"major"},
		MinorTypes: []string{"feat", "minor"},
		NoneTypes:  []string{"chore", "noop"},
	}
}

// ParseTypeList splits a comma-separated list of type tokens, trimming
// whitespace and dropping empty entries.
func ParseTypeList(s string) []string {
	var types []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			types = append(types, t)
		}
	}
	return types
}

// Classify maps one commit to its severity. Breaking markers win over the
// type sets; a type in no set is conservatively a patch-level change.
func (p Policy) Classify(c commit.Commit) Severity {
	switch {
	case c.Breaking():
		log.Debug("breaking change", "commit", c.ID, "flag", c.BreakingFlag, "footer", c.BreakingBody)
		return Major
	case contains(p.MajorTypes, c.Type):
		return Major
	case contains(p.MinorTypes, c.Type):
		return Minor
	case contains(p.NoneTypes, c.Type):
		return None
	default:
		return Patch
	}
}

func contains(types []string, t string) bool {
	for _, candidate := range types {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseTag parses a tag name as a semantic version, tolerating an optional
// leading "v".
func ParseTag(tag string) (*semver.Version, error) {
	return semver.NewVersion(strings.TrimPrefix(tag, "v"))
}

// Next computes the version after applying a severity to base. Pre-release
// and build metadata on base are always cleared, even for None.
func Next(base *semver.Version, s Severity) *semver.Version {
	major, minor, patch := base.Major(), base.Minor(), base.Patch()
	switch s {
	case Major:
		major, minor, patch = major+1, 0, 0
	case Minor:
		minor, patch = minor+1, 0
	case Patch:
		patch++
	}
	return semver.New(major, minor, patch, "", "")
}
