// Package github fetches commit author identities from the GitHub API to
// annotate changelog entries. Enrichment is best-effort: commits unknown to
// the remote, rate limits, or an unreachable API leave the affected records
// without an author and never fail the run.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/ariel-frischer/vnext/internal/commit"
	"github.com/ariel-frischer/vnext/internal/git"
	"github.com/ariel-frischer/vnext/internal/history"
)

const (
	defaultBaseURL = "https://api.github.com"
	userAgent      = "vnext-cli"

	// maxConcurrentFetches bounds parallel API requests per batch.
	maxConcurrentFetches = 4
)

// Client talks to the GitHub REST API.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	// Token is sent as an Authorization header when non-empty.
	Token string
}

// NewClient returns a client for api.github.com, authenticating with
// GITHUB_TOKEN when the environment provides one.
func NewClient() *Client {
	return &Client{
		BaseURL:    defaultBaseURL,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		Token:      os.Getenv("GITHUB_TOKEN"),
	}
}

// commitResponse is the subset of the commits API payload vnext reads.
type commitResponse struct {
	SHA    string `json:"sha"`
	Commit struct {
		Author struct {
			Name  string `json:"name"`
			Email string `json:"email"`
		} `json:"author"`
	} `json:"commit"`
	Author *struct {
		Login string `json:"login"`
	} `json:"author"`
}

// FetchAuthors looks up the authors of the given commit ids. The result is
// keyed by commit id and may be partial: ids the API does not know are
// simply absent, which must not fail the batch.
func (c *Client) FetchAuthors(ctx context.Context, owner, name string, ids []string) (map[string]*commit.Author, error) {
	authors := make([]*commit.Author, len(ids))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFetches)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			author, err := c.fetchAuthor(ctx, owner, name, id)
			if err != nil {
				log.Debug("author lookup failed", "commit", id, "err", err)
				return nil
			}
			authors[i] = author
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := make(map[string]*commit.Author)
	for i, author := range authors {
		if author != nil {
			result[ids[i]] = author
		}
	}
	return result, nil
}

func (c *Client) fetchAuthor(ctx context.Context, owner, name, id string) (*commit.Author, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/commits/%s", c.BaseURL, owner, name, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	if c.Token != "" {
		req.Header.Set("Authorization", "token "+c.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// A 404 usually means the commit has not been pushed yet.
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	var payload commitResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	author := &commit.Author{
		Name:  payload.Commit.Author.Name,
		Email: payload.Commit.Author.Email,
	}
	if payload.Author != nil {
		author.Handle = payload.Author.Login
	}
	return author, nil
}

// Enrich attaches authors to the summary's records in place. Failures are
// logged and absorbed; the changeset and its severity are never altered.
func Enrich(ctx context.Context, c *Client, repo git.RepoInfo, summary *history.Summary) {
	if summary == nil || len(summary.Commits) == 0 {
		return
	}

	authors, err := c.FetchAuthors(ctx, repo.Owner, repo.Name, summary.IDs())
	if err != nil {
		log.Warn("fetching authors from GitHub failed", "err", err)
		return
	}

	for i := range summary.Commits {
		if author, ok := authors[summary.Commits[i].ID]; ok {
			summary.Commits[i].Author = author
		}
	}
	log.Debug("enriched commit authors", "found", len(authors), "total", len(summary.Commits))
}
