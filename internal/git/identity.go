package git

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/go-git/go-git/v5"
)

// Known hosting providers, used to decide whether a comparison link can be
// rendered in the changelog.
const (
	hostGitHub    = "github.com"
	hostGitLab    = "gitlab.com"
	hostBitbucket = "bitbucket.org"
)

// RepoInfo is the minimal hosting identity of a repository: where it lives
// and under which owner/name. The zero value means no identity could be
// determined.
type RepoInfo struct {
	Host  string
	Owner string
	Name  string
}

// IsGitHub reports whether the repository is hosted on github.com.
func (r RepoInfo) IsGitHub() bool { return r.Host == hostGitHub }

// Known reports whether the host is a recognized provider with a
// comparison-link format.
func (r RepoInfo) Known() bool {
	switch r.Host {
	case hostGitHub, hostGitLab, hostBitbucket:
		return r.Owner != "" && r.Name != ""
	default:
		return false
	}
}

// CompareURL returns the provider's comparison URL between two tags, or an
// empty string when the host is not recognized.
func (r RepoInfo) CompareURL(from, to string) string {
	switch r.Host {
	case hostGitHub:
		return fmt.Sprintf("https://github.com/%s/%s/compare/%s...%s", r.Owner, r.Name, from, to)
	case hostGitLab:
		return fmt.Sprintf("https://gitlab.com/%s/%s/-/compare/%s...%s", r.Owner, r.Name, from, to)
	case hostBitbucket:
		return fmt.Sprintf("https://bitbucket.org/%s/%s/branches/compare/%s%%0D%s", r.Owner, r.Name, to, from)
	default:
		return ""
	}
}

// Identity extracts the hosting identity from the origin remote. Missing
// remotes or unrecognized URLs yield the zero RepoInfo, never an error.
func Identity(repo *git.Repository) RepoInfo {
	remote, err := repo.Remote("origin")
	if err != nil {
		log.Debug("no origin remote", "err", err)
		return RepoInfo{}
	}
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return RepoInfo{}
	}
	info, ok := ParseRemoteURL(urls[0])
	if !ok {
		log.Debug("unrecognized remote url", "url", urls[0])
		return RepoInfo{}
	}
	log.Debug("repository identity", "host", info.Host, "owner", info.Owner, "name", info.Name)
	return info
}

// ParseRemoteURL extracts host, owner and name from a git remote URL.
// Handles SCP-style SSH URLs (git@host:owner/name.git) and standard URLs
// (https://host/owner/name.git, ssh://git@host/owner/name).
func ParseRemoteURL(remote string) (RepoInfo, bool) {
	if strings.HasPrefix(remote, "git@") && strings.Contains(remote, ":") {
		rest := strings.TrimPrefix(remote, "git@")
		host, path, ok := strings.Cut(rest, ":")
		if !ok {
			return RepoInfo{}, false
		}
		return splitOwnerName(host, path)
	}

	u, err := url.Parse(remote)
	if err != nil || u.Host == "" {
		return RepoInfo{}, false
	}
	return splitOwnerName(u.Hostname(), u.Path)
}

func splitOwnerName(host, path string) (RepoInfo, bool) {
	path = strings.Trim(strings.TrimSuffix(strings.Trim(path, "/"), ".git"), "/")
	parts := strings.Split(path, "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return RepoInfo{}, false
	}
	return RepoInfo{Host: host, Owner: parts[0], Name: parts[1]}, true
}
