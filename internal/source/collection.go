package source

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/samhoang/capable/internal/manifest"
)

// SourceCollection holds every source declared by one import file
type SourceCollection struct {
	env     *Env
	sources []*GitSource
	byKey   map[string]*GitSource
}

// NewSourceCollection creates an empty collection. Unset Env fields get defaults.
func NewSourceCollection(env Env) *SourceCollection {
	e := env.withDefaults()
	if e.Settings.Jobs > 1 {
		mu := &sync.Mutex{}
		e.Out = lockedWriter{mu: mu, w: e.Out}
		e.ErrOut = lockedWriter{mu: mu, w: e.ErrOut}
	}
	return &SourceCollection{env: e, byKey: make(map[string]*GitSource)}
}

// Git declares a source. declare, when set, requests its capabilities before
// the source is registered. A URL declared twice is ErrSourceExists.
func (c *SourceCollection) Git(url string, opts SourceOptions, declare func(*GitSource) error) (*GitSource, error) {
	key := Key(url)
	if _, ok := c.byKey[key]; ok {
		return nil, &SourceError{Op: "declare", Source: url, Err: ErrSourceExists}
	}

	s := newGitSource(c.env, url, opts)
	if declare != nil {
		if err := declare(s); err != nil {
			return nil, err
		}
	}
	c.byKey[key] = s
	c.sources = append(c.sources, s)
	c.env.Logger.Debug("declared source", "url", url, "key", key, "ref", s.ref)
	return s, nil
}

// Sources returns the sources in declaration order
func (c *SourceCollection) Sources() []*GitSource {
	return slices.Clone(c.sources)
}

// Lookup returns the source registered under key
func (c *SourceCollection) Lookup(key string) (*GitSource, bool) {
	s, ok := c.byKey[key]
	return s, ok
}

// each runs fn for every source, up to Settings.Jobs at a time, and returns
// once all have finished
func (c *SourceCollection) each(ctx context.Context, fn func(*GitSource, context.Context) error) error {
	if c.env.Settings.Jobs <= 1 {
		for _, s := range c.sources {
			if err := fn(s, ctx); err != nil {
				return err
			}
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.env.Settings.Jobs)
	for _, s := range c.sources {
		g.Go(func() error { return fn(s, gctx) })
	}
	return g.Wait()
}

// Fetch syncs every source
func (c *SourceCollection) Fetch(ctx context.Context) error {
	return c.each(ctx, (*GitSource).Fetch)
}

// Load reads every capability of every source into memory
func (c *SourceCollection) Load(ctx context.Context) error {
	return c.each(ctx, (*GitSource).Load)
}

// Save writes every capability of every source to its target
func (c *SourceCollection) Save(ctx context.Context) error {
	return c.each(ctx, (*GitSource).Save)
}

// Manifest builds the provenance manifest for every source
func (c *SourceCollection) Manifest(ctx context.Context) (*manifest.Manifest, error) {
	m := &manifest.Manifest{}
	for _, s := range c.sources {
		records, err := s.Records(ctx)
		if err != nil {
			return nil, err
		}
		m.Add(s.key, records)
	}
	return m, nil
}

// SaveManifest writes the provenance manifest to Settings.LoadFile
func (c *SourceCollection) SaveManifest(ctx context.Context) error {
	m, err := c.Manifest(ctx)
	if err != nil {
		return err
	}
	name := c.env.Settings.LoadFile
	n, err := m.Save(c.env.Fs, name)
	if err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	fmt.Fprintf(c.env.Out, "Writing the %s manifest...%d\n", name, n)
	return nil
}

// Providers returns the union of every source's providers
func (c *SourceCollection) Providers(ctx context.Context) ([]string, error) {
	return c.union(ctx, (*GitSource).Providers)
}

// Dependencies returns the union of every source's dependencies
func (c *SourceCollection) Dependencies(ctx context.Context) ([]string, error) {
	return c.union(ctx, (*GitSource).Dependencies)
}

func (c *SourceCollection) union(ctx context.Context, names func(*GitSource, context.Context) ([]string, error)) ([]string, error) {
	var all []string
	for _, s := range c.sources {
		got, err := names(s, ctx)
		if err != nil {
			return nil, err
		}
		all = appendUnique(all, got...)
	}
	return all, nil
}

// MissingDependencies returns the dependencies no source in the collection provides
func (c *SourceCollection) MissingDependencies(ctx context.Context) ([]string, error) {
	deps, err := c.Dependencies(ctx)
	if err != nil {
		return nil, err
	}
	providers, err := c.Providers(ctx)
	if err != nil {
		return nil, err
	}

	var missing []string
	for _, dep := range deps {
		if !slices.Contains(providers, dep) {
			missing = append(missing, dep)
		}
	}
	return missing, nil
}

// Package fetches, loads and saves every source, one phase at a time, then
// writes the manifest. Missing dependencies are reported on ErrOut but do not
// fail the run.
func (c *SourceCollection) Package(ctx context.Context) error {
	phases := []func(context.Context) error{c.Fetch, c.Load, c.Save, c.SaveManifest}
	for _, phase := range phases {
		if err := phase(ctx); err != nil {
			return err
		}
	}

	missing, err := c.MissingDependencies(ctx)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		fmt.Fprintf(c.env.ErrOut, "There are missing dependencies! %d of them listed below.\n", len(missing))
		fmt.Fprintf(c.env.ErrOut, "It looks like you need to add the following: %s\n", strings.Join(missing, "\n"))
	}
	return nil
}
