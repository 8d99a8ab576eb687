package source

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// ContentReader reads a file from a checkout as it exists at a ref
type ContentReader interface {
	// ReadFile returns the content of path at ref in the repository at dir.
	// A path or ref that does not exist yields ErrFileNotAvailable.
	ReadFile(dir, ref, path string) ([]byte, error)
}

// GitReader reads committed content with go-git, without touching the worktree
type GitReader struct{}

// ReadFile implements ContentReader
func (GitReader) ReadFile(dir, ref, path string) ([]byte, error) {
	repo, err := git.PlainOpen(dir)
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}

	hash, err := repo.ResolveRevision(plumbing.Revision(ref))
	if err != nil {
		return nil, fmt.Errorf("%w: unknown revision %s: %v", ErrFileNotAvailable, ref, err)
	}
	commit, err := repo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("%w: %s is not a commit: %v", ErrFileNotAvailable, ref, err)
	}

	file, err := commit.File(path)
	if errors.Is(err, object.ErrFileNotFound) {
		return nil, fmt.Errorf("%w: path '%s' does not exist in '%s'", ErrFileNotAvailable, path, ref)
	}
	if err != nil {
		return nil, err
	}

	r, err := file.Reader()
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}
