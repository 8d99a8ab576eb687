package source

import (
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	"github.com/samhoang/capable/internal/config"
	apperrors "github.com/samhoang/capable/internal/errors"
	"github.com/samhoang/capable/internal/logging"
	"github.com/samhoang/capable/internal/manifest"
)

// Env carries the settings and collaborators shared by every source of one run
type Env struct {
	Settings *config.Settings
	Fs       afero.Fs
	Syncer   Syncer
	Reader   ContentReader
	Now      func() time.Time
	Logger   *log.Logger
	Out      io.Writer // progress narration
	ErrOut   io.Writer // warnings and diagnostics
}

// withDefaults fills every unset field
func (e Env) withDefaults() *Env {
	if e.Settings == nil {
		e.Settings = config.DefaultSettings()
	}
	if e.Fs == nil {
		e.Fs = afero.NewOsFs()
	}
	if e.Logger == nil {
		e.Logger = logging.Discard()
	}
	if e.Syncer == nil {
		e.Syncer = &GitSyncer{Logger: e.Logger}
	}
	if e.Reader == nil {
		e.Reader = GitReader{}
	}
	if e.Now == nil {
		e.Now = time.Now
	}
	if e.Out == nil {
		e.Out = os.Stdout
	}
	if e.ErrOut == nil {
		e.ErrOut = os.Stderr
	}
	return &e
}

// Key returns the identity of a source URL: the hex SHA-256 of the URL string
func Key(url string) string {
	return manifest.Digest([]byte(url))
}

// checkDirectory fails with ErrNotADirectory when a plain file occupies dir.
// With create set the directory is made; otherwise it reports whether it exists.
func checkDirectory(fs afero.Fs, dir string, create bool) (bool, error) {
	info, err := fs.Stat(dir)
	if err == nil && !info.IsDir() {
		return false, apperrors.NewPathError(dir, "check directory", apperrors.ErrNotADirectory)
	}
	if create {
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			return false, err
		}
		return true, nil
	}
	return err == nil, nil
}

// checkFileParents makes every directory above file. A directory already
// occupying file itself is an ErrInvalidTarget.
func checkFileParents(fs afero.Fs, file string) error {
	if info, err := fs.Stat(file); err == nil && info.IsDir() {
		return apperrors.NewPathError(file, "save", apperrors.ErrInvalidTarget)
	}
	_, err := checkDirectory(fs, filepath.Dir(file), true)
	return err
}

// lockedWriter serialises writes from concurrent package phases
type lockedWriter struct {
	mu *sync.Mutex
	w  io.Writer
}

func (l lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
