package source

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// initRemote creates a repository holding files and returns its path and the
// commit, which is also published as refs/remotes/<origin>/master
func initRemote(t *testing.T, origin string, files map[string]string) (string, plumbing.Hash) {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("PlainInit() error: %v", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatal(err)
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := wt.Add(name); err != nil {
			t.Fatalf("Add(%q) error: %v", name, err)
		}
	}
	hash, err := wt.Commit("share capabilities", &git.CommitOptions{
		Author: &object.Signature{Name: "capable", Email: "capable@example.com", When: time.Now()},
	})
	if err != nil {
		t.Fatalf("Commit() error: %v", err)
	}
	ref := plumbing.NewHashReference(plumbing.NewRemoteReferenceName(origin, "master"), hash)
	if err := repo.Storer.SetReference(ref); err != nil {
		t.Fatalf("SetReference() error: %v", err)
	}
	return dir, hash
}

func TestGitReaderReadFile(t *testing.T) {
	dir, hash := initRemote(t, "capable", map[string]string{
		"Capable.list": "define(file: 'lib/hello.rb', provides: 'Hello')\n",
		"lib/hello.rb": "puts 'hello'\n",
	})

	// the worktree copy must not be what is read
	if err := os.WriteFile(filepath.Join(dir, "lib/hello.rb"), []byte("local edit"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		ref  string
		path string
		want string
	}{
		{"capable/master", "lib/hello.rb", "puts 'hello'\n"},
		{hash.String(), "Capable.list", "define(file: 'lib/hello.rb', provides: 'Hello')\n"},
	}

	for _, tt := range tests {
		t.Run(tt.ref+":"+tt.path, func(t *testing.T) {
			got, err := GitReader{}.ReadFile(dir, tt.ref, tt.path)
			if err != nil {
				t.Fatalf("ReadFile(%q, %q) error: %v", tt.ref, tt.path, err)
			}
			if string(got) != tt.want {
				t.Errorf("ReadFile(%q, %q) = %q, want %q", tt.ref, tt.path, got, tt.want)
			}
		})
	}
}

func TestGitReaderFileNotAvailable(t *testing.T) {
	dir, _ := initRemote(t, "capable", map[string]string{"world": "hello\n"})

	tests := []struct {
		ref  string
		path string
	}{
		{"capable/master", "missing.rb"},
		{"capable/nope", "world"},
	}

	for _, tt := range tests {
		t.Run(tt.ref+":"+tt.path, func(t *testing.T) {
			_, err := GitReader{}.ReadFile(dir, tt.ref, tt.path)
			if !errors.Is(err, ErrFileNotAvailable) {
				t.Errorf("ReadFile(%q, %q) error = %v, want ErrFileNotAvailable", tt.ref, tt.path, err)
			}
		})
	}
}

func TestGitSyncerCloneAndFetch(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}

	remote, _ := initRemote(t, "unused", map[string]string{"world": "hello\n"})
	dest := filepath.Join(t.TempDir(), "checkout")
	ctx := context.Background()
	syncer := &GitSyncer{}

	if err := syncer.Clone(ctx, remote, "capable", dest); err != nil {
		t.Fatalf("Clone() error: %v", err)
	}
	if err := syncer.Fetch(ctx, dest, "capable"); err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}

	head, err := exec.Command("git", "-C", remote, "symbolic-ref", "--short", "HEAD").Output()
	if err != nil {
		t.Fatalf("symbolic-ref: %v", err)
	}
	branch := string(head[:len(head)-1])
	got, err := GitReader{}.ReadFile(dest, "capable/"+branch, "world")
	if err != nil || string(got) != "hello\n" {
		t.Errorf("ReadFile() after clone = %q, %v", got, err)
	}

	if err := syncer.Fetch(ctx, dest, "nowhere"); err == nil {
		t.Error("Fetch() of an unknown remote succeeded")
	}
}
