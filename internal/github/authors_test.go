package github

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariel-frischer/vnext/internal/commit"
	"github.com/ariel-frischer/vnext/internal/git"
	"github.com/ariel-frischer/vnext/internal/history"
)

func commitPayload(sha, name, email, login string) string {
	body := fmt.Sprintf(`{"sha":%q,"commit":{"author":{"name":%q,"email":%q}}`, sha, name, email)
	if login != "" {
		body += fmt.Sprintf(`,"author":{"login":%q}`, login)
	}
	return body + "}"
}

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return &Client{BaseURL: server.URL, HTTPClient: server.Client()}
}

func TestFetchAuthors(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repos/o/r/commits/aaa":
			fmt.Fprint(w, commitPayload("aaa", "Ada Lovelace", "ada@example.com", "ada"))
		case "/repos/o/r/commits/bbb":
			fmt.Fprint(w, commitPayload("bbb", "Grace Hopper", "grace@example.com", ""))
		default:
			http.NotFound(w, r)
		}
	}))

	authors, err := client.FetchAuthors(context.Background(), "o", "r", []string{"aaa", "bbb", "ccc"})
	require.NoError(t, err)

	// The unknown id is absent, not an error.
	require.Len(t, authors, 2)
	assert.Equal(t, &commit.Author{Name: "Ada Lovelace", Email: "ada@example.com", Handle: "ada"}, authors["aaa"])
	assert.Equal(t, &commit.Author{Name: "Grace Hopper", Email: "grace@example.com"}, authors["bbb"])
}

func TestFetchAuthors_AllUnknown(t *testing.T) {
	client := newTestClient(t, http.NotFoundHandler())

	authors, err := client.FetchAuthors(context.Background(), "o", "r", []string{"aaa", "bbb"})
	require.NoError(t, err)
	assert.Empty(t, authors)
}

func TestFetchAuthors_SendsHeaders(t *testing.T) {
	var gotAgent, gotAuth atomic.Value
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent.Store(r.Header.Get("User-Agent"))
		gotAuth.Store(r.Header.Get("Authorization"))
		fmt.Fprint(w, commitPayload("aaa", "Ada Lovelace", "ada@example.com", "ada"))
	}))
	client.Token = "secret-token"

	_, err := client.FetchAuthors(context.Background(), "o", "r", []string{"aaa"})
	require.NoError(t, err)

	assert.Equal(t, "vnext-cli", gotAgent.Load())
	assert.Equal(t, "token secret-token", gotAuth.Load())
}

func TestFetchAuthors_NoTokenNoAuthHeader(t *testing.T) {
	var gotAuth atomic.Value
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth.Store(r.Header.Get("Authorization"))
		fmt.Fprint(w, commitPayload("aaa", "Ada Lovelace", "ada@example.com", ""))
	}))

	_, err := client.FetchAuthors(context.Background(), "o", "r", []string{"aaa"})
	require.NoError(t, err)
	assert.Equal(t, "", gotAuth.Load())
}

func TestEnrich(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/repos/o/r/commits/aaa" {
			fmt.Fprint(w, commitPayload("aaa", "Ada Lovelace", "ada@example.com", "ada"))
			return
		}
		http.NotFound(w, r)
	}))

	summary := &history.Summary{
		Minor: 1,
		Patch: 1,
		Commits: []commit.Commit{
			{ID: "aaa", Type: "feat", Title: "known upstream"},
			{ID: "zzz", Type: "fix", Title: "local only"},
		},
	}
	repo := git.RepoInfo{Host: "github.com", Owner: "o", Name: "r"}

	Enrich(context.Background(), client, repo, summary)

	require.NotNil(t, summary.Commits[0].Author)
	assert.Equal(t, "ada", summary.Commits[0].Author.Handle)
	assert.Nil(t, summary.Commits[1].Author)
	// Counts are untouched by enrichment.
	assert.Equal(t, 1, summary.Minor)
	assert.Equal(t, 1, summary.Patch)
}

func TestEnrich_EmptySummary(t *testing.T) {
	var called atomic.Bool
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called.Store(true)
		http.NotFound(w, r)
	}))

	Enrich(context.Background(), client, git.RepoInfo{}, &history.Summary{})
	Enrich(context.Background(), client, git.RepoInfo{}, nil)
	assert.False(t, called.Load())
}

func TestNewClient(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "from-env")
	client := NewClient()

	assert.Equal(t, "https://api.github.com", client.BaseURL)
	assert.Equal(t, "from-env", client.Token)
	require.NotNil(t, client.HTTPClient)
}
