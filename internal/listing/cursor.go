// Package listing models a repository's own capability list: which files it
// offers, under which names, and what those files need from elsewhere.
package listing

import (
	"slices"

	"github.com/spf13/afero"
)

// Cursor accumulates the providers and dependencies of one list entry
type Cursor struct {
	providers    []string
	dependencies []string
}

// Provides adds a provider name unless the cursor already has it
func (c *Cursor) Provides(name string) {
	if !slices.Contains(c.providers, name) {
		c.providers = append(c.providers, name)
	}
}

// Depends adds a dependency name unless the cursor already has it
func (c *Cursor) Depends(name string) {
	if !slices.Contains(c.dependencies, name) {
		c.dependencies = append(c.dependencies, name)
	}
}

// Providers returns the provider names in declaration order
func (c *Cursor) Providers() []string {
	return slices.Clone(c.providers)
}

// Dependencies returns the dependency names in declaration order
func (c *Cursor) Dependencies() []string {
	return slices.Clone(c.dependencies)
}

// HasProvider reports whether name is one of the cursor's providers
func (c *Cursor) HasProvider(name string) bool {
	return slices.Contains(c.providers, name)
}

// On returns name unchanged so declarations can read "depends on(X)"
func On(name string) string {
	return name
}

// FileCursor is a cursor bound to a single file path
type FileCursor struct {
	Cursor
	file string
}

// At binds the cursor to path. The path itself becomes a provider.
func (c *FileCursor) At(path string) string {
	c.file = path
	c.Provides(path)
	return path
}

// File returns the bound path, empty until At is called
func (c *FileCursor) File() string {
	return c.file
}

// Valid reports whether the bound file exists on fs
func (c *FileCursor) Valid(fs afero.Fs) bool {
	if c.file == "" {
		return false
	}
	ok, err := afero.Exists(fs, c.file)
	return err == nil && ok
}

func (c *FileCursor) String() string {
	return c.file
}
