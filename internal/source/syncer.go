package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// Syncer brings a local checkout of a remote up to date
type Syncer interface {
	// Clone creates dest as a checkout of url whose remote is named origin
	Clone(ctx context.Context, url, origin, dest string) error

	// Fetch updates the origin remote of the checkout at dir
	Fetch(ctx context.Context, dir, origin string) error
}

// GitSyncer runs the git binary
type GitSyncer struct {
	Logger *log.Logger
	// Progress receives git's own output when set
	Progress io.Writer
}

// Clone runs git clone --origin <origin> <url> <dest> from dest's parent
func (g *GitSyncer) Clone(ctx context.Context, url, origin, dest string) error {
	return g.run(ctx, filepath.Dir(dest), "clone", "--origin", origin, url, filepath.Base(dest))
}

// Fetch runs git fetch <origin> inside dir
func (g *GitSyncer) Fetch(ctx context.Context, dir, origin string) error {
	return g.run(ctx, dir, "fetch", origin)
}

func (g *GitSyncer) run(ctx context.Context, dir string, args ...string) error {
	if g.Logger != nil {
		g.Logger.Debug("running git", "dir", dir, "args", strings.Join(args, " "))
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	if g.Progress != nil {
		cmd.Stdout = g.Progress
		cmd.Stderr = io.MultiWriter(g.Progress, &stderr)
	} else {
		cmd.Stderr = &stderr
	}

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("git %s: %w: %s", args[0], err, msg)
		}
		return fmt.Errorf("git %s: %w", args[0], err)
	}
	return nil
}
