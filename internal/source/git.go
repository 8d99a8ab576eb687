package source

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"time"

	"github.com/samhoang/capable/internal/listing"
	"github.com/samhoang/capable/internal/manifest"
)

// SourceOptions are the per-source declaration options
type SourceOptions struct {
	Ref     string // full revision, used as given
	Refname string // ref name, qualified with the origin label
	Base    string // local save root
}

// GitSource is a remote git repository capabilities are copied from
type GitSource struct {
	env          *Env
	url          string
	key          string
	ref          string
	base         string
	capabilities []*GitCapability

	fetched    time.Time
	hasFetched bool

	listing       *listing.ListParser
	listingLoaded bool
}

func newGitSource(env *Env, url string, opts SourceOptions) *GitSource {
	s := &GitSource{
		env:  env,
		url:  url,
		key:  Key(url),
		ref:  opts.Ref,
		base: opts.Base,
	}
	if s.ref == "" {
		s.ref = env.Settings.QualifiedRef(opts.Refname)
	}
	if s.base == "" {
		s.base = env.Settings.Base
	}
	return s
}

// URL returns the source URL
func (s *GitSource) URL() string { return s.url }

// Key returns the digest of the source URL
func (s *GitSource) Key() string { return s.key }

// Ref returns the revision files are read at
func (s *GitSource) Ref() string { return s.ref }

// Base returns the default local save root
func (s *GitSource) Base() string { return s.base }

// Capabilities returns the capabilities requested from this source
func (s *GitSource) Capabilities() []*GitCapability {
	return slices.Clone(s.capabilities)
}

// CapableOf requests the capability name from this source
func (s *GitSource) CapableOf(name string, opts CapabilityOptions) *GitCapability {
	c := &GitCapability{source: s, provider: name, opts: opts}
	s.capabilities = append(s.capabilities, c)
	return c
}

// Path returns the checkout directory for this source
func (s *GitSource) Path() string {
	return s.env.Settings.SourceDir(s.key)
}

// ExpandedPath returns Path as an absolute path
func (s *GitSource) ExpandedPath() string {
	abs, err := filepath.Abs(s.Path())
	if err != nil {
		return s.Path()
	}
	return abs
}

// Fetched reports when the last successful sync happened
func (s *GitSource) Fetched() (time.Time, bool) {
	return s.fetched, s.hasFetched
}

// Fetch clones or updates the checkout unless it was synced within the
// freshness window
func (s *GitSource) Fetch(ctx context.Context) error {
	now := s.env.Now()
	if s.hasFetched && now.Sub(s.fetched) <= s.env.Settings.Freshness() {
		return nil
	}

	if _, err := checkDirectory(s.env.Fs, s.env.Settings.SourcesDir, true); err != nil {
		return err
	}
	exists, err := checkDirectory(s.env.Fs, s.Path(), false)
	if err != nil {
		return err
	}

	start := time.Now()
	if exists {
		fmt.Fprintf(s.env.Out, "Already downloaded...Fetching latest updates for %s\n", s.url)
		err = s.env.Syncer.Fetch(ctx, s.ExpandedPath(), s.env.Settings.Origin)
	} else {
		fmt.Fprintf(s.env.Out, "Cloning latest data for %s\n", s.url)
		err = s.env.Syncer.Clone(ctx, s.url, s.env.Settings.Origin, s.ExpandedPath())
	}
	if err != nil {
		return &SourceError{Op: "download", Source: s.url, Path: s.Path(), Err: fmt.Errorf("%w: %w", ErrSourceDownload, err)}
	}
	s.env.Logger.Debug("synced source", "url", s.url, "path", s.Path(), "took", time.Since(start))

	s.fetched = now
	s.hasFetched = true
	return nil
}

// ReadFile fetches if needed and returns path as it exists at ref
func (s *GitSource) ReadFile(ctx context.Context, path, ref string) ([]byte, error) {
	if err := s.Fetch(ctx); err != nil {
		return nil, err
	}
	if ref == "" {
		ref = s.ref
	}

	data, err := s.env.Reader.ReadFile(s.ExpandedPath(), ref, path)
	if err != nil {
		if errors.Is(err, ErrFileNotAvailable) {
			fmt.Fprintf(s.env.ErrOut, "Unable to load file %s at %s:\n%v\n", path, ref, err)
		}
		return nil, &SourceError{Op: "read", Source: s.url, Path: path, Ref: ref, Err: err}
	}
	return data, nil
}

// Listing returns the remote's own capability list, read at the source ref
// and evaluated on first use
func (s *GitSource) Listing(ctx context.Context) (*listing.CursorCollection, error) {
	if s.listingLoaded {
		return s.listing.Cursors(), nil
	}

	name := s.env.Settings.ListFile
	data, err := s.ReadFile(ctx, name, s.ref)
	if err != nil {
		return nil, err
	}
	parser := listing.NewListParser(name, data, listing.WithLogger(s.env.Logger))
	if _, err := parser.Evaluate(); err != nil {
		return nil, &SourceError{Op: "evaluate list", Source: s.url, Path: name, Ref: s.ref, Err: err}
	}

	s.listing = parser
	s.listingLoaded = true
	return parser.Cursors(), nil
}

// Resolve finds the cursor that provides name in the remote's list
func (s *GitSource) Resolve(ctx context.Context, name string) (*listing.FileCursor, error) {
	cursors, err := s.Listing(ctx)
	if err != nil {
		return nil, err
	}
	cursor := cursors.ProvidedBy(name)
	if cursor == nil {
		return nil, &SourceError{Op: "resolve", Source: s.url, Ref: s.ref, Err: &listing.NotFoundError{Provider: name}}
	}
	return cursor, nil
}

// Providers returns every name the requested capabilities provide, according
// to the remote's list
func (s *GitSource) Providers(ctx context.Context) ([]string, error) {
	return s.collect(ctx, (*listing.FileCursor).Providers)
}

// Dependencies returns every name the requested capabilities still need,
// according to the remote's list
func (s *GitSource) Dependencies(ctx context.Context) ([]string, error) {
	return s.collect(ctx, (*listing.FileCursor).Dependencies)
}

func (s *GitSource) collect(ctx context.Context, names func(*listing.FileCursor) []string) ([]string, error) {
	var all []string
	for _, c := range s.capabilities {
		cursor, err := s.Resolve(ctx, c.provider)
		if err != nil {
			return nil, err
		}
		all = appendUnique(all, names(cursor)...)
	}
	return all, nil
}

// Load reads every requested capability into memory
func (s *GitSource) Load(ctx context.Context) error {
	for _, c := range s.capabilities {
		if _, err := c.Load(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Save writes every requested capability to its target
func (s *GitSource) Save(ctx context.Context) error {
	for _, c := range s.capabilities {
		if _, err := c.Save(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Package fetches, loads and saves this source alone
func (s *GitSource) Package(ctx context.Context) error {
	if err := s.Fetch(ctx); err != nil {
		return err
	}
	if err := s.Load(ctx); err != nil {
		return err
	}
	return s.Save(ctx)
}

// Records returns the manifest records of every requested capability
func (s *GitSource) Records(ctx context.Context) ([]manifest.Record, error) {
	records := make([]manifest.Record, 0, len(s.capabilities))
	for _, c := range s.capabilities {
		rec, err := c.Record(ctx)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func appendUnique(dst []string, names ...string) []string {
	for _, name := range names {
		if !slices.Contains(dst, name) {
			dst = append(dst, name)
		}
	}
	return dst
}
