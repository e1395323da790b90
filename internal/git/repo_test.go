package git

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

// testRepo builds throwaway repositories for history fixtures. Commits get
// monotonically increasing timestamps so traversal order is deterministic.
type testRepo struct {
	t    *testing.T
	dir  string
	repo *git.Repository
	wt   *git.Worktree
	n    int
}

func newTestRepo(t *testing.T) *testRepo {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)
	return &testRepo{t: t, dir: dir, repo: repo, wt: wt}
}

func (r *testRepo) signature() object.Signature {
	return object.Signature{
		Name:  "Ada Lovelace",
		Email: "ada@example.com",
		When:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(r.n) * time.Minute),
	}
}

func (r *testRepo) commit(message string) plumbing.Hash {
	r.t.Helper()
	r.n++
	path := filepath.Join(r.dir, "file.txt")
	require.NoError(r.t, os.WriteFile(path, []byte(fmt.Sprintf("change %d\n", r.n)), 0o644))
	_, err := r.wt.Add("file.txt")
	require.NoError(r.t, err)
	sig := r.signature()
	hash, err := r.wt.Commit(message, &git.CommitOptions{Author: &sig, Committer: &sig})
	require.NoError(r.t, err)
	return hash
}

func (r *testRepo) tag(name string, hash plumbing.Hash) {
	r.t.Helper()
	_, err := r.repo.CreateTag(name, hash, nil)
	require.NoError(r.t, err)
}

func (r *testRepo) annotatedTag(name string, hash plumbing.Hash) {
	r.t.Helper()
	sig := r.signature()
	_, err := r.repo.CreateTag(name, hash, &git.CreateTagOptions{
		Tagger:  &sig,
		Message: "release " + name,
	})
	require.NoError(r.t, err)
}

func (r *testRepo) checkoutNew(name string) {
	r.t.Helper()
	require.NoError(r.t, r.wt.Checkout(&git.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(name),
		Create: true,
	}))
}

func (r *testRepo) checkout(branch plumbing.ReferenceName) {
	r.t.Helper()
	require.NoError(r.t, r.wt.Checkout(&git.CheckoutOptions{Branch: branch}))
}

func (r *testRepo) currentBranch() plumbing.ReferenceName {
	r.t.Helper()
	ref, err := r.repo.Head()
	require.NoError(r.t, err)
	return ref.Name()
}

func (r *testRepo) headCommit() *object.Commit {
	r.t.Helper()
	ref, err := r.repo.Head()
	require.NoError(r.t, err)
	c, err := r.repo.CommitObject(ref.Hash())
	require.NoError(r.t, err)
	return c
}

// merge writes a two-parent commit directly into object storage and advances
// the current branch to it. The worktree does not perform a content merge;
// the first parent's tree is reused, which is enough for history traversal.
func (r *testRepo) merge(message string, ours, theirs plumbing.Hash) plumbing.Hash {
	r.t.Helper()
	r.n++
	parent, err := r.repo.CommitObject(ours)
	require.NoError(r.t, err)

	sig := r.signature()
	mc := &object.Commit{
		Author:       sig,
		Committer:    sig,
		Message:      message,
		TreeHash:     parent.TreeHash,
		ParentHashes: []plumbing.Hash{ours, theirs},
	}
	obj := r.repo.Storer.NewEncodedObject()
	require.NoError(r.t, mc.Encode(obj))
	hash, err := r.repo.Storer.SetEncodedObject(obj)
	require.NoError(r.t, err)

	head, err := r.repo.Head()
	require.NoError(r.t, err)
	require.NoError(r.t, r.repo.Storer.SetReference(plumbing.NewHashReference(head.Name(), hash)))
	return hash
}
