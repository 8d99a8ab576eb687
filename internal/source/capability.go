package source

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/samhoang/capable/internal/manifest"
)

// CapabilityOptions override where and from which revision one capability is taken
type CapabilityOptions struct {
	Target    string // exact save location
	Subtarget string // path under the base instead of the resolved path
	Base      string // save root instead of the source's base
	Ref       string // full revision instead of the source's ref
	Refname   string // ref name, qualified with the origin label
}

// GitCapability is one capability requested from a GitSource
type GitCapability struct {
	source   *GitSource
	provider string
	opts     CapabilityOptions

	file     string
	resolved bool

	content []byte
	loaded  bool
}

// Provider returns the requested capability name
func (c *GitCapability) Provider() string {
	return c.provider
}

// Source returns the owning source
func (c *GitCapability) Source() *GitSource {
	return c.source
}

func (c *GitCapability) ref() string {
	switch {
	case c.opts.Ref != "":
		return c.opts.Ref
	case c.opts.Refname != "":
		return c.source.env.Settings.QualifiedRef(c.opts.Refname)
	}
	return c.source.ref
}

// File resolves the capability to a path in the remote through its list
func (c *GitCapability) File(ctx context.Context) (string, error) {
	if c.resolved {
		return c.file, nil
	}
	cursor, err := c.source.Resolve(ctx, c.provider)
	if err != nil {
		return "", err
	}
	c.file = cursor.File()
	c.resolved = true
	return c.file, nil
}

// Load reads the capability's content at its ref. The content is kept for
// later calls.
func (c *GitCapability) Load(ctx context.Context) ([]byte, error) {
	if c.loaded {
		return c.content, nil
	}
	file, err := c.File(ctx)
	if err != nil {
		return nil, err
	}
	content, err := c.source.ReadFile(ctx, file, c.ref())
	if err != nil {
		return nil, err
	}
	c.content = content
	c.loaded = true
	return content, nil
}

// Target returns where the capability is saved: the explicit target, or the
// base joined with the subtarget or resolved path
func (c *GitCapability) Target(ctx context.Context) (string, error) {
	if c.opts.Target != "" {
		return c.opts.Target, nil
	}
	base := c.opts.Base
	if base == "" {
		base = c.source.base
	}
	if c.opts.Subtarget != "" {
		return filepath.Join(base, c.opts.Subtarget), nil
	}
	file, err := c.File(ctx)
	if err != nil {
		return "", err
	}
	return filepath.Join(base, file), nil
}

// Save writes the loaded content to the target, creating parent directories
// and replacing whatever is there. It returns the bytes written.
func (c *GitCapability) Save(ctx context.Context) (int, error) {
	target, err := c.Target(ctx)
	if err != nil {
		return 0, err
	}
	content, err := c.Load(ctx)
	if err != nil {
		return 0, err
	}

	fs := c.source.env.Fs
	if err := checkFileParents(fs, target); err != nil {
		return 0, err
	}
	if err := afero.WriteFile(fs, target, content, 0o644); err != nil {
		return 0, err
	}
	fmt.Fprintf(c.source.env.Out, "Writing to %s...%d\n", target, len(content))
	return len(content), nil
}

// Record returns the manifest record: the digest is taken over the content as
// fetched, not over the saved file
func (c *GitCapability) Record(ctx context.Context) (manifest.Record, error) {
	content, err := c.Load(ctx)
	if err != nil {
		return manifest.Record{}, err
	}
	target, err := c.Target(ctx)
	if err != nil {
		return manifest.Record{}, err
	}
	return manifest.Record{
		Provider: c.provider,
		SHA256:   manifest.Digest(content),
		Target:   target,
	}, nil
}
