package commit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConventionalParse(t *testing.T) {
	parser := ConventionalParser{}

	tests := map[string]struct {
		message string
		want    Commit
	}{
		"plain type and title": {
			message: "fix: handle nil pointer",
			want:    Commit{Type: "fix", Title: "handle nil pointer"},
		},
		"scoped": {
			message: "feat(parser): support scopes",
			want:    Commit{Type: "feat", Scope: "parser", Title: "support scopes"},
		},
		"breaking marker": {
			message: "feat(api)!: drop v1 endpoints",
			want:    Commit{Type: "feat", Scope: "api", Title: "drop v1 endpoints", BreakingFlag: true},
		},
		"hyphenated type": {
			message: "build-infra: bump toolchain",
			want:    Commit{Type: "build-infra", Title: "bump toolchain"},
		},
		"title and body": {
			message: "feat: add thing\n\nlonger description\nspanning lines",
			want:    Commit{Type: "feat", Title: "add thing", Body: "longer description\nspanning lines"},
		},
		"leading blank lines trimmed from body": {
			message: "fix: x\n\n\n\nbody starts here",
			want:    Commit{Type: "fix", Title: "x", Body: "body starts here"},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got := parser.Parse("abc123", tc.message)

			assert.Equal(t, "abc123", got.ID)
			assert.Equal(t, tc.message, got.RawMessage)
			assert.Equal(t, tc.want.Type, got.Type)
			assert.Equal(t, tc.want.Scope, got.Scope)
			assert.Equal(t, tc.want.Title, got.Title)
			assert.Equal(t, tc.want.Body, got.Body)
			assert.Equal(t, tc.want.BreakingFlag, got.BreakingFlag)
		})
	}
}

// The breaking footer only counts when it begins the body's first line.
func TestConventionalParse_BreakingBodyPosition(t *testing.T) {
	parser := ConventionalParser{}

	tests := map[string]struct {
		message      string
		wantBreaking bool
	}{
		"footer starts the body": {
			message:      "feat: add stuff\n\nBREAKING CHANGE: old stuff removed",
			wantBreaking: true,
		},
		"footer after one newline": {
			message:      "feat: add stuff\nBREAKING CHANGE: old stuff removed",
			wantBreaking: true,
		},
		"footer mid-sentence on first body line": {
			message:      "feat: add stuff\n\nthis is a BREAKING CHANGE: sort of",
			wantBreaking: false,
		},
		"footer on a later body line": {
			message:      "feat: add stuff\n\nsome context first\nBREAKING CHANGE: too late",
			wantBreaking: false,
		},
		"lower-case token does not count": {
			message:      "feat: add stuff\n\nbreaking change: nope",
			wantBreaking: false,
		},
		"no body at all": {
			message:      "feat: add stuff",
			wantBreaking: false,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got := parser.Parse("id", tc.message)
			assert.Equal(t, tc.wantBreaking, got.BreakingBody)
		})
	}
}

func TestConventionalParse_FooterStaysInBody(t *testing.T) {
	got := ConventionalParser{}.Parse("id", "feat: add y\n\nBREAKING CHANGE: drops x")

	require.True(t, got.BreakingBody)
	assert.Equal(t, "BREAKING CHANGE: drops x", got.Body)
}

func TestConventionalParse_Unparseable(t *testing.T) {
	parser := ConventionalParser{}

	tests := map[string]string{
		"no colon":         "update readme",
		"leading space":    " fix: not at start",
		"multiline random": "merge stuff\n\nwith a body",
	}

	for name, message := range tests {
		t.Run(name, func(t *testing.T) {
			got := parser.Parse("id", message)

			assert.Empty(t, got.Type)
			assert.Equal(t, FirstLine(message), got.Title)
			assert.False(t, got.BreakingFlag)
			assert.False(t, got.BreakingBody)
			assert.Equal(t, message, got.RawMessage)
		})
	}
}

func TestHeadline(t *testing.T) {
	tests := map[string]struct {
		commit Commit
		want   string
	}{
		"type and title": {
			commit: Commit{Type: "fix", Title: "a bug"},
			want:   "fix: a bug",
		},
		"with scope": {
			commit: Commit{Type: "feat", Scope: "cli", Title: "new flag"},
			want:   "feat(cli): new flag",
		},
		"with breaking marker": {
			commit: Commit{Type: "feat", Scope: "api", Title: "remove", BreakingFlag: true},
			want:   "feat(api)!: remove",
		},
		"unparsed falls back to raw first line": {
			commit: Commit{RawMessage: "just a message\nwith more", Title: "just a message"},
			want:   "just a message",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.commit.Headline())
		})
	}
}
