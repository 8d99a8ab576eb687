package source

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/spf13/afero"

	"github.com/samhoang/capable/internal/config"
)

// fakeSyncer records syncs and creates the checkout directory on clone
type fakeSyncer struct {
	mu      sync.Mutex
	fs      afero.Fs
	clones  int
	fetches int
	err     error
}

func (f *fakeSyncer) Clone(_ context.Context, url, origin, dest string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.clones++
	return f.fs.MkdirAll(dest, 0o755)
}

func (f *fakeSyncer) Fetch(_ context.Context, dir, origin string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.fetches++
	return nil
}

func (f *fakeSyncer) syncs() int {
	return f.clones + f.fetches
}

// fakeReader serves files per ref
type fakeReader struct {
	mu    sync.Mutex
	files map[string]map[string]string
	reads int
}

func (f *fakeReader) ReadFile(dir, ref, path string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	content, ok := f.files[ref][path]
	if !ok {
		return nil, fmt.Errorf("%w: path '%s' does not exist in '%s'", ErrFileNotAvailable, path, ref)
	}
	return []byte(content), nil
}

// fakeClock is advanced by hand
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type harness struct {
	env    Env
	fs     afero.Fs
	syncer *fakeSyncer
	reader *fakeReader
	clock  *fakeClock
	out    *bytes.Buffer
	errOut *bytes.Buffer
}

// remoteList is the remote's own capability list used by most tests
const remoteList = `
the file
  at('world')
the file
  at('lib/hello.rb')
  provides('Hello')
  depends on('Newbie')
define(file: 'lib/newbie.rb', provides: 'Newbie')
`

func newHarness(t *testing.T) *harness {
	t.Helper()
	fs := afero.NewMemMapFs()
	settings := config.DefaultSettings()
	settings.SourcesDir = "/sources"

	h := &harness{
		fs:     fs,
		syncer: &fakeSyncer{fs: fs},
		reader: &fakeReader{files: map[string]map[string]string{
			"capable/master": {
				"Capable.list":  remoteList,
				"world":         "hello world\n",
				"lib/hello.rb":  "require 'newbie'\n",
				"lib/newbie.rb": "class Newbie; end\n",
			},
			"capable/develop": {
				"Capable.list": remoteList,
				"world":        "hello develop\n",
			},
		}},
		clock:  &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		out:    &bytes.Buffer{},
		errOut: &bytes.Buffer{},
	}
	h.env = Env{
		Settings: settings,
		Fs:       fs,
		Syncer:   h.syncer,
		Reader:   h.reader,
		Now:      h.clock.Now,
		Out:      h.out,
		ErrOut:   h.errOut,
	}
	return h
}

func (h *harness) read(t *testing.T, path string) string {
	t.Helper()
	data, err := afero.ReadFile(h.fs, path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}
